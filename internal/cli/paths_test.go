package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join("/tmp/custom-cache", appName); dir != want {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, want)
	}
}

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	dir, err := configDir()
	if err != nil {
		t.Fatalf("configDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".config", appName); dir != want {
		t.Errorf("configDir() = %q, want %q", dir, want)
	}

	t.Setenv("XDG_CONFIG_HOME", "/tmp/custom-config")
	if dir, _ := configDir(); dir != filepath.Join("/tmp/custom-config", appName) {
		t.Errorf("configDir() with XDG_CONFIG_HOME = %q", dir)
	}
}

func TestConfiguredCacheDir(t *testing.T) {
	c := &CLI{Config: Config{Cache: CacheConfig{Dir: "/srv/cache"}}}
	if dir, _ := c.cacheDir(); dir != "/srv/cache" {
		t.Errorf("cacheDir() = %q, want the configured dir", dir)
	}
}

func TestCacheClear(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.json", "b.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	c := &CLI{Config: Config{Cache: CacheConfig{Backend: CacheFile, Dir: dir}}}
	if got := countEntries(dir); got != 2 {
		t.Fatalf("countEntries() = %d, want 2", got)
	}

	if err := c.cacheClearCommand().RunE(nil, nil); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if got := countEntries(dir); got != 0 {
		t.Errorf("entries after clear = %d, want 0", got)
	}
}
