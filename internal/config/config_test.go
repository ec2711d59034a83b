package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Dir)
	assert.DirExists(t, dir)
	assert.Equal(t, 10, cfg.LearningBudget)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.ClampDailyCounter)
	assert.Equal(t, filepath.Join(dir, "rep.db"), cfg.DBPath())
	assert.Equal(t, filepath.Join(dir, "rep.log"), cfg.LogPath())
}

func TestLoadFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvDir, dir)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Dir)
}

func TestLoadFlagWinsOverEnv(t *testing.T) {
	t.Setenv(EnvDir, t.TempDir())
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Dir)
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	yml := "learning_budget: 4\nclamp_daily_counter: true\nlog_level: debug\nseed: 42\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yml), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.LearningBudget)
	assert.True(t, cfg.ClampDailyCounter)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, int64(42), cfg.Seed)
}

func TestLoadExplicitZeroBudget(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("learning_budget: 0\n"), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.LearningBudget)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadInvalid(t *testing.T) {
	tests := map[string]string{
		"negative budget": "learning_budget: -3\n",
		"log level":       "log_level: loud\n",
		"not yaml":        "learning_budget: [\n",
	}
	for name, yml := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yml), 0644))

			_, err := Load(dir)
			assert.Error(t, err)
		})
	}
}
