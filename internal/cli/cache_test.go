package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/funnelchart/pkg/cache"
	"github.com/matzehuels/funnelchart/pkg/config"
)

// isolate points every XDG directory at a temp dir so tests never touch
// the user's config, cache or settings.
func isolate(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(root, "cache"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "data"))
	return root
}

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCacheDir(t *testing.T) {
	root := isolate(t)

	c := New(io.Discard, LogInfo)
	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(root, "cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}

	c.cfg.Cache.Dir = "/srv/funnel-cache"
	if dir, _ := c.cacheDir(); dir != "/srv/funnel-cache" {
		t.Errorf("cacheDir() with config = %q, want /srv/funnel-cache", dir)
	}
}

func TestCacheDirHomeFallback(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := New(io.Discard, LogInfo).cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCachePathCommand(t *testing.T) {
	root := isolate(t)
	out, err := execute(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if got := strings.TrimSpace(out); got != filepath.Join(root, "cache", appName) {
		t.Errorf("cache path = %q", got)
	}
}

func TestCacheClearCommand(t *testing.T) {
	root := isolate(t)
	fc, err := cache.NewFileCache(filepath.Join(root, "cache", appName))
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	ctx := context.Background()
	for _, key := range []string{"geometry:a", "artifact:b"} {
		if err := fc.Set(ctx, key, []byte("x"), time.Hour); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}

	if _, err := execute(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if _, ok, _ := fc.Get(ctx, "geometry:a"); ok {
		t.Error("entry survived cache clear")
	}
}

func TestNewCacheBackends(t *testing.T) {
	isolate(t)
	ctx := context.Background()
	c := New(io.Discard, LogInfo)

	cc, err := c.newCache(ctx, true)
	if err != nil {
		t.Fatalf("newCache(noCache): %v", err)
	}
	if _, ok := cc.(*cache.NullCache); !ok {
		t.Errorf("newCache(noCache) = %T, want *cache.NullCache", cc)
	}

	c.cfg.Cache.Backend = config.CacheNone
	cc, _ = c.newCache(ctx, false)
	if _, ok := cc.(*cache.NullCache); !ok {
		t.Errorf("backend none = %T, want *cache.NullCache", cc)
	}

	c.cfg.Cache.Backend = config.CacheFile
	cc, err = c.newCache(ctx, false)
	if err != nil {
		t.Fatalf("newCache(file): %v", err)
	}
	if _, ok := cc.(*cache.FileCache); !ok {
		t.Errorf("backend file = %T, want *cache.FileCache", cc)
	}
}
