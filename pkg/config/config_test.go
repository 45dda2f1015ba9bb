package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/jigsaw/pkg/errors"
	"github.com/matzehuels/jigsaw/pkg/pattern"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	ttl, err := cfg.Cache.TTLDuration()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, ttl)

	p, err := cfg.Solve.PatternOrDefault()
	require.NoError(t, err)
	assert.Same(t, pattern.Monster, p)
	assert.Equal(t, pattern.FirstMatch, cfg.Solve.PolicyValue())
}

func TestLoadTOML(t *testing.T) {
	path := write(t, "config.toml", `
[log]
level = "debug"
file = "/tmp/jigsaw.log"

[cache]
backend = "sqlite"
sqlite_path = "/tmp/cache.db"
ttl = "90m"

[solve]
workers = 4
policy = "most"
pattern = ["#.#", ".#."]
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/jigsaw.log", cfg.Log.File)
	assert.Equal(t, 10, cfg.Log.MaxSizeMB, "unset keys keep defaults")
	assert.Equal(t, BackendSQLite, cfg.Cache.Backend)
	assert.Equal(t, 4, cfg.Solve.Workers)
	assert.Equal(t, pattern.MostMatches, cfg.Solve.PolicyValue())
	assert.Equal(t, ":8080", cfg.Server.Addr)

	p, err := cfg.Solve.PatternOrDefault()
	require.NoError(t, err)
	assert.Equal(t, 3, p.Len())
}

func TestLoadYAML(t *testing.T) {
	path := write(t, "config.yaml", `
cache:
  backend: redis
  redis_url: redis://localhost:6379/0
server:
  addr: 127.0.0.1:9000
  max_body_bytes: 4096
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, BackendRedis, cfg.Cache.Backend)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Cache.RedisURL)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, int64(4096), cfg.Server.MaxBodyBytes)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		code    errors.Code
	}{
		{"bad extension", "config.json", "{}", errors.ErrCodeInvalidConfig},
		{"bad toml", "config.toml", "[solve\nworkers=", errors.ErrCodeInvalidConfig},
		{"bad yaml", "config.yaml", "solve: [", errors.ErrCodeInvalidConfig},
		{"bad level", "config.toml", "[log]\nlevel = \"loud\"", errors.ErrCodeInvalidConfig},
		{"bad backend", "config.toml", "[cache]\nbackend = \"memcached\"", errors.ErrCodeInvalidConfig},
		{"redis without url", "config.toml", "[cache]\nbackend = \"redis\"", errors.ErrCodeInvalidConfig},
		{"bad ttl", "config.toml", "[cache]\nttl = \"soon\"", errors.ErrCodeInvalidConfig},
		{"negative workers", "config.toml", "[solve]\nworkers = -1", errors.ErrCodeInvalidConfig},
		{"bad policy", "config.toml", "[solve]\npolicy = \"all\"", errors.ErrCodeInvalidConfig},
		{"blank pattern", "config.toml", "[solve]\npattern = [\"...\"]", errors.ErrCodeInvalidConfig},
		{"empty addr", "config.toml", "[server]\naddr = \"\"", errors.ErrCodeInvalidConfig},
		{"zero body", "config.toml", "[server]\nmax_body_bytes = 0", errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(write(t, tt.file, tt.content))
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err), "error: %v", err)
		})
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}

func TestDiscover(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("HOME", t.TempDir())

	assert.Empty(t, Discover())
	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	dir := filepath.Join(xdg, "jigsaw")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[solve]\nworkers = 2\n"), 0o644))

	assert.Equal(t, path, Discover())
	cfg, err = LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Solve.Workers)
}
