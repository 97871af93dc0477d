package plugin

import (
	"github.com/spf13/pflag"
)

// NewFlagSet builds the uniform flag surface shared by every check
// type and binds it to cfg. Individual checks may register additional
// flags through the FlagRegistrar interface.
func NewFlagSet(name string, cfg *Config) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SortFlags = false

	fs.Int64VarP(&cfg.Warning, "warning", "w", Unset, "warning threshold")
	fs.Int64VarP(&cfg.Critical, "critical", "c", Unset, "critical threshold")
	fs.StringVarP(&cfg.Database, "database", "d", "", "database name")
	fs.StringVarP(&cfg.Instance, "instance", "i", "", "instance home path")
	fs.Int64VarP(&cfg.Percentage, "percentage", "p", Unset, "percentage-based trigger on a 0-100 scale")
	fs.Int64VarP(&cfg.Refresh, "refresh", "r", Unset, "cache refresh interval in minutes (-1 = server default, 0 = force)")
	fs.BoolVar(&cfg.Ignore, "ignore", false, "report OK regardless of thresholds")
	fs.BoolVar(&cfg.MK, "mk", false, "emit Check_MK output instead of standard plugin output")
	fs.BoolVar(&cfg.Trace, "trace", false, "append a trace record to the check's trace log")
	fs.CountVarP(&cfg.Verbose, "verbose", "v", "increase diagnostic output (repeatable)")
	fs.BoolVarP(&cfg.Help, "help", "h", false, "print usage and exit")
	fs.BoolVar(&cfg.Version, "version", false, "print version and exit")

	return fs
}

// FlagRegistrar is implemented by checks that take flags beyond the
// uniform surface (e.g. the archive directory of the log consumption
// check).
type FlagRegistrar interface {
	RegisterFlags(fs *pflag.FlagSet)
}
