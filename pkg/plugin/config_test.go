package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDefaults(t *testing.T) {
	cfg := NewConfig()
	assert.NoError(t, cfg.Validate(Requirements{}))
}

func TestValidateMissingDatabase(t *testing.T) {
	cfg := NewConfig()
	cfg.Instance = "/home/db2inst1"

	err := cfg.Validate(Requirements{Database: true, Instance: true})
	require.Error(t, err)
	var cerr *ConfigError
	assert.ErrorAs(t, err, &cerr)
}

func TestValidateMissingInstance(t *testing.T) {
	cfg := NewConfig()
	cfg.Database = "SAMPLE"

	err := cfg.Validate(Requirements{Database: true, Instance: true})
	require.Error(t, err)
	var cerr *ConfigError
	assert.ErrorAs(t, err, &cerr)
}

func TestValidateThresholdOrdering(t *testing.T) {
	tests := []struct {
		name     string
		warning  int64
		critical int64
		wantErr  bool
	}{
		{"both unset", Unset, Unset, false},
		{"ordered", 90, 95, false},
		{"only warning", 90, Unset, false},
		{"only critical", Unset, 95, false},
		{"equal", 90, 90, true},
		{"inverted", 95, 90, true},
		{"zero warning", 0, 95, true},
		{"negative critical", 90, -5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			cfg.Warning = tt.warning
			cfg.Critical = tt.critical

			err := cfg.Validate(Requirements{})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateRefresh(t *testing.T) {
	cfg := NewConfig()
	cfg.Refresh = 0
	assert.NoError(t, cfg.Validate(Requirements{}))

	cfg.Refresh = 30
	assert.NoError(t, cfg.Validate(Requirements{}))

	cfg.Refresh = -2
	assert.Error(t, cfg.Validate(Requirements{}))
}

func TestServiceName(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, "db2_memory", ServiceName("db2_memory", cfg))

	cfg.Instance = "/home/db2inst1"
	cfg.Database = "SAMPLE"
	assert.Equal(t, "db2_hadr_db2inst1_SAMPLE", ServiceName("db2_hadr", cfg))
}
