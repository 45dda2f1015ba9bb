package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/jigsaw/pkg/config"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	// Verify the expected structure: $HOME/.cache/jigsaw
	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", "jigsaw")
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	root := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", root)
	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(root, "jigsaw"); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheLocation(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	tests := []struct {
		name string
		cfg  config.CacheConfig
		want string
	}{
		{"none", config.CacheConfig{Backend: config.BackendNone}, ""},
		{"file default", config.CacheConfig{Backend: config.BackendFile}, "/tmp/xdg/jigsaw"},
		{"file dir", config.CacheConfig{Backend: config.BackendFile, Dir: "/var/cache/j"}, "/var/cache/j"},
		{"sqlite default", config.CacheConfig{Backend: config.BackendSQLite}, "/tmp/xdg/jigsaw/jigsaw.db"},
		{"sqlite path", config.CacheConfig{Backend: config.BackendSQLite, SQLitePath: "/data/c.db"}, "/data/c.db"},
		{"redis", config.CacheConfig{Backend: config.BackendRedis, RedisURL: "redis://cache:6379/0"}, "redis://cache:6379/0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(os.Stderr, LogInfo)
			c.Config.Cache = tt.cfg
			got, err := c.cacheLocation()
			if err != nil {
				t.Fatalf("cacheLocation() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("cacheLocation() = %q, want %q", got, tt.want)
			}
		})
	}
}
