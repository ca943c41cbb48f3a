package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"OKINOKO_DB_PATH", "OKINOKO_DEFAULT_RULESET", "OKINOKO_MOVE_TIMEOUT", "OKINOKO_OTEL_ENDPOINT", "OKINOKO_OTEL_ENABLED"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "okinoko.db", cfg.DBPath)
	assert.Equal(t, "standard", cfg.DefaultRuleSet)
	assert.Equal(t, 168*time.Hour, cfg.MoveTimeout)
	assert.True(t, cfg.OTelEnabled)
	assert.False(t, cfg.TracingEnabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("OKINOKO_DB_PATH", "/tmp/games.db")
	t.Setenv("OKINOKO_DEFAULT_RULESET", "freestyle")
	t.Setenv("OKINOKO_MOVE_TIMEOUT", "90m")
	t.Setenv("OKINOKO_OTEL_ENDPOINT", "http://localhost:4318")
	t.Setenv("OKINOKO_OTEL_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/games.db", cfg.DBPath)
	assert.Equal(t, "freestyle", cfg.DefaultRuleSet)
	assert.Equal(t, 90*time.Minute, cfg.MoveTimeout)
	assert.True(t, cfg.TracingEnabled())
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("OKINOKO_MOVE_TIMEOUT", "soon")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("OKINOKO_MOVE_TIMEOUT", "-1h")
	_, err = Load()
	assert.Error(t, err)
}
