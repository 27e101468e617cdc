package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/modelgraph/internal/graph"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, graph.DefaultResolverOptions(), cfg.ResolverOptions())
}

func TestLoad_YAMLOverDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "modelgraph.yml", `
logLevel: debug
graphJsonOut: out/
resolver:
  cutoff: 90
cite:
  maxLen: 120
watch:
  debounce: 250ms
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "out/", cfg.GraphJSONOut)
	assert.Equal(t, 90.0, cfg.Resolver.Cutoff)
	assert.True(t, cfg.Resolver.Fuzzy, "unset keys keep their defaults")
	assert.Equal(t, 5, cfg.Resolver.Limit)
	assert.Equal(t, 120, cfg.Cite.MaxLen)
	assert.Equal(t, 250*time.Millisecond, cfg.Watch.Debounce)
	assert.Equal(t, 4, cfg.Batch.Concurrency)
}

func TestLoad_YmlBeforeYaml(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "modelgraph.yml", "logLevel: warn\n")
	writeFile(t, dir, "modelgraph.yaml", "logLevel: error\n")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "modelgraph.yaml", "resolver:\n  fuzzy: true\n  limit: 3\n")

	t.Setenv(EnvFuzzy, "false")
	t.Setenv(EnvFuzzyCutoff, "70.5")
	t.Setenv(EnvFuzzyLimit, "9")
	t.Setenv(EnvCiteMaxLen, "42")
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvGraphJSONOut, "graph.json")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, graph.ResolverOptions{Fuzzy: false, Cutoff: 70.5, Limit: 9}, cfg.ResolverOptions())
	assert.Equal(t, 42, cfg.Cite.MaxLen)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, "graph.json", cfg.GraphJSONOut)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		env  map[string]string
	}{
		{name: "cutoff above 100", yaml: "resolver:\n  cutoff: 101\n"},
		{name: "zero limit", yaml: "resolver:\n  limit: 0\n"},
		{name: "unknown log level", yaml: "logLevel: loud\n"},
		{name: "zero concurrency", yaml: "batch:\n  concurrency: 0\n"},
		{name: "malformed yaml", yaml: "resolver: [\n"},
		{name: "bad env bool", env: map[string]string{EnvFuzzy: "maybe"}},
		{name: "bad env number", env: map[string]string{EnvFuzzyLimit: "five"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.yaml != "" {
				writeFile(t, dir, "modelgraph.yml", tt.yaml)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(dir)
			require.Error(t, err)
		})
	}
}

func TestLoadDotenv(t *testing.T) {
	const key = "MODELGRAPH_TEST_DOTENV_VALUE"
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	dir := t.TempDir()
	writeFile(t, dir, "custom.env", key+"=from-file\n")

	require.NoError(t, LoadDotenv(filepath.Join(dir, "custom.env")))
	assert.Equal(t, "from-file", os.Getenv(key))

	require.Error(t, LoadDotenv(filepath.Join(dir, "missing.env")))
}

func TestLoadDotenv_DefaultMissingIsFine(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, LoadDotenv(""))
}

func TestLoadDotenv_DoesNotOverride(t *testing.T) {
	const key = "MODELGRAPH_TEST_DOTENV_KEEP"
	t.Setenv(key, "from-env")

	dir := t.TempDir()
	writeFile(t, dir, ".env", key+"=from-file\n")
	require.NoError(t, LoadDotenv(filepath.Join(dir, ".env")))
	assert.Equal(t, "from-env", os.Getenv(key))
}
