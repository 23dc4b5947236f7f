package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"effcost/internal"
	"effcost/internal/errors"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{
		"LOG_LEVEL", "EFFCOST_STRICT_COLUMNS", "EFFCOST_MAX_ROWS", "EFFCOST_SHEET",
		"PORT", "GIN_MODE", "EFFCOST_MAX_CONCURRENT", "EFFCOST_MAX_BODY_BYTES", "EFFCOST_SHUTDOWN_TIMEOUT",
	} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "WARN", cfg.Log.Level)
	assert.False(t, cfg.Input.StrictColumns)
	assert.Equal(t, 100000, cfg.Input.MaxRows)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, int64(8), cfg.Server.MaxConcurrent)
	assert.Equal(t, int64(10<<20), cfg.Server.MaxBodyBytes)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, internal.LogLevelWarn, cfg.Logger().GetLevel())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("EFFCOST_STRICT_COLUMNS", "true")
	t.Setenv("EFFCOST_MAX_ROWS", "50")
	t.Setenv("EFFCOST_SHEET", "Costs")
	t.Setenv("PORT", "9090")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "DEBUG", cfg.Log.Level)
	rc := cfg.ReaderConfig()
	assert.True(t, rc.StrictColumns)
	assert.Equal(t, 50, rc.MaxRows)
	assert.Equal(t, "Costs", rc.Sheet)
	assert.Equal(t, "9090", cfg.Server.Port)
}

func TestFromEnv_LogLevelAlias(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warning")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "WARN", cfg.Log.Level)
	assert.Equal(t, internal.LogLevelWarn, cfg.Logger().GetLevel())
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := map[string][2]string{
		"unknown log level": {"LOG_LEVEL", "LOUD"},
		"negative max rows": {"EFFCOST_MAX_ROWS", "-1"},
		"non-numeric port":  {"PORT", "http"},
		"unknown gin mode":  {"GIN_MODE", "turbo"},
		"zero concurrency":  {"EFFCOST_MAX_CONCURRENT", "0"},
	}

	for name, kv := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := FromEnv()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}
