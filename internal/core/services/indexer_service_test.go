package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/postkit/postkit/internal/adapters/repository"
	"github.com/postkit/postkit/internal/core/ports/mocks"
	"github.com/postkit/postkit/pkg/workspace"
)

func TestIndexerService_Execute(t *testing.T) {
	repo := mocks.NewMockRepository()
	addRawPost(t, repo, "ownership.md", "+++\ntitle = \"Ownership\"\ndate = 2026-02-02\ntags = [\"rust\"]\n+++\n\n## Moves\n\nOne two three four.\n\n```rust\nlet s = t;\n```\n\n```python\nb = a\n```\n\nSee [docs](https://doc.rust-lang.org).\n")
	addRawPost(t, repo, "draft.md", "+++\ntitle = \"Draft\"\ndate = 2026-02-03\ndraft = true\n+++\n\nfive six\n")
	addRawPost(t, repo, "broken.md", "+++\ntitle = \"x\"\n")

	indexPath := filepath.Join(t.TempDir(), "cache", "index.json")
	service := NewIndexerService(repo, indexPath)

	if service.IndexExists() {
		t.Fatal("index should not exist yet")
	}

	resp, err := service.Execute(context.Background(), ReindexRequest{})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if resp.TotalPosts != 3 || resp.Drafts != 1 || resp.Problems != 1 {
		t.Errorf("unexpected response: %+v", resp)
	}
	if !service.IndexExists() {
		t.Fatal("index file should exist")
	}

	index, err := service.LoadIndex()
	if err != nil {
		t.Fatalf("LoadIndex failed: %v", err)
	}

	entry, ok := index.GetPost("ownership.md")
	if !ok {
		t.Fatal("ownership missing from index")
	}
	if entry.Date != "2026-02-02" || entry.Title != "Ownership" || entry.Slug != "ownership" || len(entry.Tags) != 1 {
		t.Errorf("unexpected entry: %+v", entry)
	}
	if len(entry.Headings) != 1 || entry.Headings[0] != "Moves" {
		t.Errorf("Headings = %v", entry.Headings)
	}
	if len(entry.Languages) != 2 || entry.Languages[0] != "rust" || entry.Languages[1] != "python" {
		t.Errorf("Languages = %v", entry.Languages)
	}
	if entry.Links != 1 || entry.ReadingMinutes != 1 || entry.Words == 0 {
		t.Errorf("stats = words %d, minutes %d, links %d", entry.Words, entry.ReadingMinutes, entry.Links)
	}

	if broken, _ := index.GetPost("broken.md"); broken.Problem == "" {
		t.Error("broken post should carry its problem")
	}
}

func TestIndexerService_LoadIndex(t *testing.T) {
	dir := t.TempDir()

	// Missing file yields an empty index
	service := NewIndexerService(mocks.NewMockRepository(), filepath.Join(dir, "missing.json"))
	index, err := service.LoadIndex()
	if err != nil || index.Count() != 0 {
		t.Errorf("LoadIndex() = %v, %v", index, err)
	}

	// Corrupt file is an error
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewIndexerService(mocks.NewMockRepository(), bad).LoadIndex(); err == nil {
		t.Error("expected error for corrupt index")
	}
}

func TestIndexerService_SharedSlug(t *testing.T) {
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "xdg"))

	ws, err := workspace.New(root, "")
	if err != nil {
		t.Fatalf("workspace.New failed: %v", err)
	}
	if err := ws.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	for _, filename := range []string{"foo.md", "2026-02-02-foo.md"} {
		content := "+++\ntitle = \"Foo\"\ndate = 2026-02-02\n+++\n\nOne two.\n"
		if err := os.WriteFile(ws.GetPostPath(filename), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	service := NewIndexerService(repository.NewFileRepository(ws, 2), ws.IndexPath())
	index, err := service.Build(context.Background())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if index.Count() != 2 {
		t.Fatalf("Count() = %d, want 2 (%v)", index.Count(), index.Filenames())
	}
	for _, filename := range index.Filenames() {
		if entry, _ := index.GetPost(filename); entry.Slug != "foo" || entry.Words == 0 {
			t.Errorf("%s: unexpected entry %+v", filename, entry)
		}
	}
}
