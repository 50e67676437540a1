package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load(New())
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.LogMode)
	assert.Equal(t, ":8000", cfg.Serve.Addr)
	assert.Empty(t, cfg.Serve.CORSOrigins)
	assert.Equal(t, "./data", cfg.Generate.OutputDir)
	assert.Equal(t, "technical_courses.json", cfg.Generate.Filename)
	assert.Equal(t, 500, cfg.Generate.Count)
	assert.Equal(t, 4, cfg.Generate.Concurrency)
	assert.False(t, cfg.Generate.Enrich)
	assert.False(t, cfg.Production())
}

func TestEnvOverridesDefaults(t *testing.T) {
	t.Setenv("COURSEFORGE_COUNT", "25")
	t.Setenv("COURSEFORGE_LOG_MODE", "prod")
	t.Setenv("COURSEFORGE_CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("COURSEFORGE_ENRICH", "true")

	cfg, err := Load(New())
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Generate.Count)
	assert.Equal(t, "prod", cfg.LogMode)
	assert.True(t, cfg.Production())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Serve.CORSOrigins)
	assert.True(t, cfg.Generate.Enrich)
}

func TestFlagsOverrideEnv(t *testing.T) {
	t.Setenv("COURSEFORGE_COUNT", "25")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int(KeyCount, 500, "")
	fs.String(KeyAddr, ":8000", "")
	fs.String("unrelated", "", "")
	require.NoError(t, fs.Parse([]string{"--count", "7"}))

	v := New()
	require.NoError(t, BindFlags(v, fs))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Generate.Count)
	assert.Equal(t, ":8000", cfg.Serve.Addr)
}

func TestValidate(t *testing.T) {
	t.Setenv("COURSEFORGE_LOG_MODE", "verbose")
	t.Setenv("COURSEFORGE_CONCURRENCY", "0")

	_, err := Load(New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `log mode "verbose"`)
	assert.Contains(t, err.Error(), "concurrency must be at least 1")
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("COURSEFORGE_TEST_ONLY_KEY=from-file\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("COURSEFORGE_TEST_ONLY_KEY") })

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "from-file", os.Getenv("COURSEFORGE_TEST_ONLY_KEY"))

	assert.Error(t, LoadEnvFile(filepath.Join(dir, "missing.env")))
}

func TestLoadEnvFile_DefaultMissingIsFine(t *testing.T) {
	t.Chdir(t.TempDir())
	assert.NoError(t, LoadEnvFile(""))
}
