package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultDBPath, cfg.DBPath)
	assert.Equal(t, DefaultAlternateDBPath, cfg.AlternateDBPath)
	assert.Equal(t, DefaultAgentMarker, cfg.AgentMarker)
	assert.Equal(t, DefaultBatchSize, cfg.BatchSize)
	assert.Equal(t, DefaultEndOfCallWindow, cfg.EndOfCallWindow)
	assert.Equal(t, DefaultContextRadius, cfg.ContextRadius)
	assert.Equal(t, DefaultMaxScore, cfg.MaxScore)
	assert.Equal(t, "info", cfg.LogLevel)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[storage]
db_path = "calls.sqlite3"
alternate_db_path = "calls-alt.sqlite3"

[detection]
agent_marker = "REP:"
end_of_call_window = 8
context_radius = 20

[batch]
size = 25

[logging]
level = "debug"
file = "run.log"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "calls.sqlite3", cfg.DBPath)
	assert.Equal(t, "calls-alt.sqlite3", cfg.AlternateDBPath)
	assert.Equal(t, "REP:", cfg.AgentMarker)
	assert.Equal(t, 8, cfg.EndOfCallWindow)
	assert.Equal(t, 20, cfg.ContextRadius)
	assert.Equal(t, 25, cfg.BatchSize)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "run.log", cfg.LogFile)
	assert.Equal(t, DefaultMaxScore, cfg.MaxScore)
	require.NoError(t, cfg.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SLANGEVAL_DB_PATH", "env.sqlite3")
	t.Setenv("SLANGEVAL_ALTERNATE_DB_PATH", "env-alt.sqlite3")
	t.Setenv("SLANGEVAL_BATCH_SIZE", "50")
	t.Setenv("SLANGEVAL_LOG_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "env.sqlite3", cfg.DBPath)
	assert.Equal(t, "env-alt.sqlite3", cfg.AlternateDBPath)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[storage]\ndb_path = \"file.sqlite3\"\n"), 0o644))
	t.Setenv("SLANGEVAL_DB_PATH", "env.sqlite3")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env.sqlite3", cfg.DBPath)
}

func TestValidateRejectsSharedDatabase(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	cfg.AlternateDBPath = cfg.DBPath
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	base := func() *Config {
		cfg, err := Load("")
		require.NoError(t, err)
		return cfg
	}

	cfg := base()
	cfg.BatchSize = 0
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.AgentMarker = ""
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.EndOfCallWindow = 0
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.ContextRadius = -1
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.MaxScore = 0
	assert.Error(t, cfg.Validate())
}
