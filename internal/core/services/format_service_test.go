package services

import (
	"context"
	"testing"

	"github.com/postkit/postkit/internal/core/ports/mocks"
)

func TestFormatService_Execute(t *testing.T) {
	messy := "+++\ntitle='Ownership'\ndate = 2026-02-02\ndraft=true\n+++\n\nBody\n"
	canonical := "+++\ntitle = \"Ownership\"\ndate = 2026-02-02\ndraft = true\n+++\n\nBody\n"

	tests := []struct {
		name          string
		dryRun        bool
		wantChanged   int
		wantUnchanged int
		wantFailed    int
		wantContent   string
	}{
		{"rewrite", false, 1, 1, 1, canonical},
		{"dry run", true, 1, 1, 1, messy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockRepository()
			addRawPost(t, repo, "ownership.md", messy)
			addRawPost(t, repo, "traits.md", validPost)
			addRawPost(t, repo, "broken.md", "+++\ntitle = \"x\"\n")

			service := NewFormatService(repo)
			resp, err := service.Execute(context.Background(), FormatRequest{DryRun: tt.dryRun})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(resp.Changed) != tt.wantChanged || resp.Unchanged != tt.wantUnchanged || len(resp.Failed) != tt.wantFailed {
				t.Errorf("resp = %+v", resp)
			}
			if len(resp.Changed) == 1 && resp.Changed[0] != "ownership.md" {
				t.Errorf("Changed = %v", resp.Changed)
			}
			if got := rawContent(t, repo, "ownership"); got != tt.wantContent {
				t.Errorf("content = %q, want %q", got, tt.wantContent)
			}
		})
	}
}

func TestFormatService_SelectedSlugs(t *testing.T) {
	repo := mocks.NewMockRepository()
	addRawPost(t, repo, "a.md", "+++\ntitle='A'\n+++\n")
	addRawPost(t, repo, "b.md", "+++\ntitle='B'\n+++\n")

	resp, err := NewFormatService(repo).Execute(context.Background(), FormatRequest{Slugs: []string{"b"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Changed) != 1 || resp.Changed[0] != "b.md" {
		t.Errorf("Changed = %v", resp.Changed)
	}
	if got := rawContent(t, repo, "a"); got != "+++\ntitle='A'\n+++\n" {
		t.Errorf("a.md should be untouched, got %q", got)
	}
}

func TestFormatService_KeepsCRLF(t *testing.T) {
	repo := mocks.NewMockRepository()
	addRawPost(t, repo, "y.md", "+++\r\ntitle='Y'\r\ndate = 2026-02-02\r\n+++\r\n\r\nLine one\r\nLine two\r\n")

	resp, err := NewFormatService(repo).Execute(context.Background(), FormatRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Changed) != 1 {
		t.Fatalf("Changed = %v", resp.Changed)
	}

	want := "+++\r\ntitle = \"Y\"\r\ndate = 2026-02-02\r\n+++\r\n\r\nLine one\r\nLine two\r\n"
	if got := rawContent(t, repo, "y"); got != want {
		t.Errorf("content = %q, want %q", got, want)
	}

	resp, _ = NewFormatService(repo).Execute(context.Background(), FormatRequest{})
	if len(resp.Changed) != 0 || resp.Unchanged != 1 {
		t.Errorf("formatted CRLF post should be canonical: %+v", resp)
	}
}

func TestFormatService_CommentsNeedForce(t *testing.T) {
	commented := "+++\n# keep me\ntitle='C'\n+++\n\nBody\n"

	tests := []struct {
		name          string
		force         bool
		wantChanged   int
		wantCommented int
		wantContent   string
	}{
		{"skipped", false, 0, 1, commented},
		{"forced", true, 1, 0, "+++\ntitle = \"C\"\n+++\n\nBody\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockRepository()
			addRawPost(t, repo, "c.md", commented)

			resp, err := NewFormatService(repo).Execute(context.Background(), FormatRequest{Force: tt.force})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(resp.Changed) != tt.wantChanged || len(resp.Commented) != tt.wantCommented {
				t.Errorf("resp = %+v", resp)
			}
			if got := rawContent(t, repo, "c"); got != tt.wantContent {
				t.Errorf("content = %q, want %q", got, tt.wantContent)
			}
		})
	}
}
