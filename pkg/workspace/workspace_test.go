package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "xdg"))

	tests := []struct {
		name        string
		contentDir  string
		wantContent string
	}{
		{"default content dir", "", filepath.Join(root, "content")},
		{"custom content dir", "posts", filepath.Join(root, "posts")},
		{"absolute content dir", "/srv/blog/posts", "/srv/blog/posts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := New(root, tt.contentDir)
			if err != nil {
				t.Fatalf("New() failed: %v", err)
			}

			if w.RootPath != root {
				t.Errorf("RootPath = %q, want %q", w.RootPath, root)
			}
			if w.ContentPath != tt.wantContent {
				t.Errorf("ContentPath = %q, want %q", w.ContentPath, tt.wantContent)
			}
			if w.CachePath != filepath.Join(root, ".postkit") {
				t.Errorf("CachePath = %q", w.CachePath)
			}
			if w.ConfigPath != filepath.Join(root, "xdg", "postkit", "config.yaml") {
				t.Errorf("ConfigPath = %q", w.ConfigPath)
			}
		})
	}
}

func TestWorkspace_Paths(t *testing.T) {
	w := &Workspace{
		RootPath:    "/blog",
		ContentPath: "/blog/content",
		CachePath:   "/blog/.postkit",
	}

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"post path", w.GetPostPath("ownership.md"), "/blog/content/ownership.md"},
		{"dated post path", w.GetPostPath("2026-02-02-ownership.md"), "/blog/content/2026-02-02-ownership.md"},
		{"cache path", w.GetCachePath("stats.html"), "/blog/.postkit/stats.html"},
		{"index path", w.IndexPath(), "/blog/.postkit/index.json"},
		{"relative path", w.RelPath("/blog/content/a.md"), filepath.Join("content", "a.md")},
		{"outside path", w.RelPath("/tmp/a.md"), "/tmp/a.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %q, want %q", tt.got, tt.expected)
			}
		})
	}
}

func TestWorkspace_InitializeAndExists(t *testing.T) {
	root := t.TempDir()
	w, err := New(root, "")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if w.Exists() {
		t.Fatal("Exists() should be false before Initialize")
	}

	if err := w.Initialize(); err != nil {
		t.Fatalf("Initialize() failed: %v", err)
	}

	if !w.Exists() {
		t.Error("Exists() should be true after Initialize")
	}

	for _, dir := range []string{w.ContentPath, w.CachePath} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("expected directory %s to exist", dir)
		}
	}

	// Idempotent
	if err := w.Initialize(); err != nil {
		t.Errorf("second Initialize() failed: %v", err)
	}
}

func TestWorkspace_CleanCache(t *testing.T) {
	root := t.TempDir()
	w, _ := New(root, "")

	// Missing cache directory is not an error
	if err := w.CleanCache(); err != nil {
		t.Fatalf("CleanCache() on missing dir failed: %v", err)
	}

	if err := w.Initialize(); err != nil {
		t.Fatalf("Initialize() failed: %v", err)
	}
	if err := os.WriteFile(w.IndexPath(), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := w.CleanCache(); err != nil {
		t.Fatalf("CleanCache() failed: %v", err)
	}

	entries, _ := os.ReadDir(w.CachePath)
	if len(entries) != 0 {
		t.Errorf("expected empty cache, found %d entries", len(entries))
	}
}
