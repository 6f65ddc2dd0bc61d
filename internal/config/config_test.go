package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, 7071, cfg.Server.Port)
	assert.Equal(t, "https://adventofcode.com", cfg.AOC.BaseURL)
	assert.False(t, cfg.Featured.Enabled())
}

func TestLoadFileAndEnv(t *testing.T) {
	t.Chdir(t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
port = 8080

[aoc]
timezone = "UTC"

[log]
level = "debug"

[featured]
year = "2023"
leaderboard_id = "1234"
session_id = "from-file"
`), 0o600))

	t.Setenv("FEATURED_SESSION_ID", "from-env")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "UTC", cfg.AOC.Timezone)
	assert.Equal(t, slog.LevelDebug, cfg.Log.Level)
	assert.Equal(t, "from-env", cfg.Featured.SessionCookie)
	assert.True(t, cfg.Featured.Enabled())
}

func TestApplyEnvInvalid(t *testing.T) {
	env := map[string]string{"SERVER_PORT": "http"}
	assert.Error(t, Default().applyEnv(func(k string) string { return env[k] }))

	env = map[string]string{"LOG_LEVEL": "loud"}
	assert.Error(t, Default().applyEnv(func(k string) string { return env[k] }))
}

func TestLoadRejectsFileSessionDB(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SESSION_DB", "./sessions.db")

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorContains(t, err, "SESSION_DB")
}

func TestIsMemoryDSN(t *testing.T) {
	tests := []struct {
		dsn    string
		memory bool
	}{
		{"", true},
		{":memory:", true},
		{"file::memory:?cache=shared", true},
		{"file:sessions?mode=memory&cache=shared", true},
		{"sessions.db", false},
		{"file:sessions.db", false},
		{"/var/lib/aocboard/sessions.sqlite3", false},
	}

	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			assert.Equal(t, tt.memory, IsMemoryDSN(tt.dsn))
		})
	}
}
