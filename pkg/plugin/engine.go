package plugin

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

// Engine drives one check invocation through its lifecycle:
// parse args -> validate -> gather -> extract -> evaluate -> format.
// Each stage either proceeds or terminates the pipeline with a
// verdict; there is no mutable keep-going flag and no retry. The
// engine always produces exactly one report and one exit code.
type Engine struct {
	check    Check
	log      *logrus.Logger
	out      io.Writer
	traceDir string
}

// Option is a functional option for configuring an Engine.
type Option func(*Engine)

// WithOutput redirects the report and diagnostics (used in tests).
func WithOutput(w io.Writer) Option {
	return func(e *Engine) {
		e.out = w
		e.log.SetOutput(w)
	}
}

// WithTraceDir overrides the trace log directory.
func WithTraceDir(dir string) Option {
	return func(e *Engine) {
		e.traceDir = dir
	}
}

// WithLogger replaces the engine's logger.
func WithLogger(log *logrus.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// NewEngine creates an Engine for the given check. Diagnostics go to
// standard output, as the plugin convention requires.
func NewEngine(check Check, opts ...Option) *Engine {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.WarnLevel)

	e := &Engine{
		check:    check,
		log:      log,
		out:      os.Stdout,
		traceDir: DefaultTraceDir,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Logger returns the engine's logger, so checks built around it can
// share the diagnostic stream.
func (e *Engine) Logger() *logrus.Logger {
	return e.log
}

// stage is one step of the pipeline. A nil result proceeds to the
// next stage; a non-nil result terminates the invocation with that
// verdict.
type stage func(ctx context.Context) *Verdict

// Run executes the full check lifecycle and returns the process exit
// code. It never panics outward; every failure path funnels into an
// UNKNOWN verdict.
func (e *Engine) Run(ctx context.Context, args []string) int {
	r := &run{
		engine: e,
		cfg:    NewConfig(),
		args:   args,
	}

	for _, s := range []stage{
		r.parseArgs,
		r.informational,
		r.validate,
		r.gather,
		r.extract,
		r.evaluate,
	} {
		if v := s(ctx); v != nil {
			r.verdict = *v
			break
		}
	}

	// Formatting never fails; a missing summary becomes a placeholder.
	if r.cfg.Trace {
		path := TracePath(e.traceDir, e.check.Type())
		if err := WriteTrace(path, e.check.Type(), args, r.verdict); err != nil {
			e.log.Warnf("trace write failed: %v", err)
		}
	}

	mode := ModeStandard
	if r.cfg.MK {
		mode = ModeCheckMK
	}
	fmt.Fprintln(e.out, r.verdict.Render(mode, ServiceName(e.check.Type(), r.cfg)))

	return r.verdict.Status.ExitCode()
}

// run holds the intermediate state of a single invocation.
type run struct {
	engine  *Engine
	cfg     *Config
	args    []string
	flags   *pflag.FlagSet
	raw     Raw
	metrics Metrics
	verdict Verdict
}

func (r *run) parseArgs(_ context.Context) *Verdict {
	r.flags = NewFlagSet(r.engine.check.Type(), r.cfg)
	if fr, ok := r.engine.check.(FlagRegistrar); ok {
		fr.RegisterFlags(r.flags)
	}
	r.flags.SetOutput(io.Discard)

	if err := r.flags.Parse(r.args); err != nil {
		v := Unknownf("%s", err)
		return &v
	}

	switch {
	case r.cfg.Verbose >= 2:
		r.engine.log.SetLevel(logrus.DebugLevel)
	case r.cfg.Verbose == 1:
		r.engine.log.SetLevel(logrus.InfoLevel)
	}
	return nil
}

// informational handles help and version requests. Both print their
// text and terminate with UNKNOWN (exit 3) rather than OK; existing
// monitoring configurations depend on that quirk.
func (r *run) informational(_ context.Context) *Verdict {
	if r.cfg.Help {
		fmt.Fprintf(r.engine.out, "usage: %s [options]\n\n%s", r.engine.check.Type(), r.flags.FlagUsages())
		v := Unknownf("help requested")
		return &v
	}
	if r.cfg.Version {
		fmt.Fprintf(r.engine.out, "%s, version %s\n", r.engine.check.Type(), Version)
		v := Unknownf("version requested")
		return &v
	}
	return nil
}

func (r *run) validate(_ context.Context) *Verdict {
	defaults, err := LoadDefaults()
	if err != nil {
		v := VerdictFromError(&ConfigError{Reason: err.Error()})
		return &v
	}
	defaults.apply(r.cfg)

	if err := r.cfg.Validate(r.engine.check.Requires()); err != nil {
		v := VerdictFromError(err)
		return &v
	}

	r.engine.log.Infof("check %s: database=%q instance=%q warning=%d critical=%d ignore=%v",
		r.engine.check.Type(), r.cfg.Database, r.cfg.Instance,
		r.cfg.Warning, r.cfg.Critical, r.cfg.Ignore)
	return nil
}

func (r *run) gather(ctx context.Context) *Verdict {
	raw, err := r.engine.check.Gather(ctx, r.cfg)
	if err != nil {
		v := VerdictFromError(err)
		return &v
	}
	r.raw = raw

	for name, block := range raw {
		r.engine.log.Debugf("raw block %q:\n%s", name, block)
	}
	return nil
}

func (r *run) extract(_ context.Context) *Verdict {
	metrics, err := r.engine.check.Extract(r.raw)
	if err != nil {
		v := VerdictFromError(err)
		return &v
	}
	r.metrics = metrics

	for name, value := range metrics.Values {
		r.engine.log.Debugf("extracted %s = %d", name, value)
	}
	for name, value := range metrics.Labels {
		r.engine.log.Debugf("extracted %s = %q", name, value)
	}
	return nil
}

func (r *run) evaluate(_ context.Context) *Verdict {
	v := r.engine.check.Evaluate(r.cfg, r.metrics)
	return &v
}
