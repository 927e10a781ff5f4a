package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{"DATABASE_URL", "PORT", "TRACKER_SECRET", "TRACKER_TIMEZONE", "APP_MODE", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://tracker@localhost/envios")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "postgres://tracker@localhost/envios", cfg.Database.URL)
	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, DefaultSecret, cfg.Tracker.Secret)
	assert.True(t, cfg.Tracker.UsesDefaultSecret())
	assert.Equal(t, DefaultTimezone, cfg.Tracker.Timezone)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_FileThenEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
app:
  mode: production
server:
  port: 8080
database:
  url: postgres://from-file/envios
  max_open_conns: 20
tracker:
  secret: file-secret
  timezone: UTC
  status_timeout_ms: 500
log:
  level: debug
  file: ""
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("PORT", "9090")
	t.Setenv("TRACKER_SECRET", "env-secret")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres://from-file/envios", cfg.Database.URL)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5, cfg.Database.MaxIdleConns, "unset keys keep their defaults")
	assert.Equal(t, "env-secret", cfg.Tracker.Secret)
	assert.False(t, cfg.Tracker.UsesDefaultSecret())
	assert.Equal(t, "UTC", cfg.Tracker.Timezone)
	assert.Equal(t, 500*time.Millisecond, cfg.Tracker.StatusTimeout())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Empty(t, cfg.Log.File)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"non numeric port", map[string]string{"PORT": "abc"}},
		{"port out of range", map[string]string{"PORT": "70000"}},
		{"unknown timezone", map[string]string{"TRACKER_TIMEZONE": "Mars/Olympus"}},
		{"bad log level", map[string]string{"LOG_LEVEL": "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("DATABASE_URL", "postgres://localhost/envios")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [port"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestTracker_Location(t *testing.T) {
	loc, err := Tracker{Timezone: DefaultTimezone}.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/Santiago", loc.String())
}

func TestTracker_RecordTimeout(t *testing.T) {
	assert.Equal(t, 5*time.Second, Tracker{}.RecordTimeout())
	assert.Equal(t, 250*time.Millisecond, Tracker{RecordTimeoutMillis: 250}.RecordTimeout())
}

func TestTracker_StatusTimeout(t *testing.T) {
	assert.Equal(t, 2*time.Second, Default().Tracker.StatusTimeout())
	assert.Equal(t, 2*time.Second, Tracker{}.StatusTimeout())
	assert.Equal(t, 750*time.Millisecond, Tracker{StatusTimeoutMillis: 750}.StatusTimeout())
}
