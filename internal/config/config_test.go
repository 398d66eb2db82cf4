package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValidJSON(t *testing.T) {
	content := `{
		"database_url": "postgres://localhost/cubecards",
		"port": 9000,
		"media_root": "/srv/media",
		"poll_interval": "5s",
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))

	cfg, err := Load(tmpFile)
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/cubecards", cfg.DatabaseURL)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "/srv/media", cfg.MediaRoot)
	assert.Equal(t, "5s", cfg.PollInterval)
	assert.True(t, cfg.Verbose)
}

func TestLoad_InvalidJSON(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(`{ invalid }`), 0644))

	cfg, err := Load(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{DatabaseURL: "postgres://localhost/cubecards", Port: 9000}
	merged := cfg.MergeWithDefaults(Default())

	assert.Equal(t, 9000, merged.Port)
	assert.Equal(t, "manim", merged.ManimBin)
	assert.Equal(t, "media", merged.MediaRoot)
	assert.Equal(t, "2s", merged.PollInterval)
	assert.Equal(t, "30m", merged.OrphanThreshold)
}

func TestApplyEnv_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("PORT", "7777")
	t.Setenv("RENDER_TIMEOUT", "20m")

	cfg := Config{DatabaseURL: "postgres://file/db", Port: 9000}
	cfg.ApplyEnv()

	assert.Equal(t, "postgres://env/db", cfg.DatabaseURL)
	assert.Equal(t, 7777, cfg.Port)
	assert.Equal(t, "20m", cfg.RenderTimeout)
}

func TestValidate(t *testing.T) {
	base := Config{DatabaseURL: "postgres://localhost/cubecards"}
	valid := base.MergeWithDefaults(Default())
	require.NoError(t, valid.Validate())

	missing := Default()
	err := missing.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database_url")

	badDuration := valid
	badDuration.PollInterval = "soon"
	err = badDuration.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "poll_interval")

	negative := valid
	negative.RenderTimeout = "-5m"
	err = negative.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render_timeout")

	badPort := valid
	badPort.Port = 70000
	assert.Error(t, badPort.Validate())
}

func TestResolve(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env/db")

	cfg, err := Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "postgres://env/db", cfg.DatabaseURL)
	assert.Equal(t, 2*time.Second, cfg.PollIntervalDuration())
	assert.Equal(t, 15*time.Minute, cfg.RenderTimeoutDuration())
	assert.Equal(t, 30*time.Minute, cfg.OrphanThresholdDuration())
}
