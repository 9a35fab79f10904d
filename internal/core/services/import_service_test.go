package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/postkit/postkit/internal/core/domain"
	"github.com/postkit/postkit/internal/core/ports/mocks"
)

func TestConvertImport(t *testing.T) {
	tests := []struct {
		name      string
		filename  string
		content   string
		wantTitle string
		wantDate  string
		wantDraft bool
		wantTags  []string
		wantBody  string
		check     func(t *testing.T, req CreatePostRequest, dropped []string)
	}{
		{
			name:     "yaml",
			filename: "ownership.md",
			content: `---
title: Ownership for Pythonistas
date: 2026-02-02
draft: true
tags: [rust, python, Rust]
weight: 3
series:
  name: intro
  part: 1
empty:
---
Body text.
`,
			wantTitle: "Ownership for Pythonistas",
			wantDate:  "2026-02-02",
			wantDraft: true,
			wantTags:  []string{"rust", "python"},
			wantBody:  "\nBody text.\n",
			check: func(t *testing.T, req CreatePostRequest, dropped []string) {
				if req.Params["weight"] != int64(3) {
					t.Errorf("weight = %#v", req.Params["weight"])
				}
				series, ok := req.Params["series"].(map[string]any)
				if !ok || series["name"] != "intro" || series["part"] != int64(1) {
					t.Errorf("series = %#v", req.Params["series"])
				}
				if len(dropped) != 1 || dropped[0] != "empty" {
					t.Errorf("dropped = %v", dropped)
				}
			},
		},
		{
			name:     "toml",
			filename: "lifetimes.md",
			content: `+++
title = "Lifetimes"
date = 2026-02-03T10:00:00Z
tags = ["rust"]
+++

Body.
`,
			wantTitle: "Lifetimes",
			wantDate:  "2026-02-03",
			wantTags:  []string{"rust"},
			wantBody:  "\nBody.\n",
		},
		{
			name:     "json",
			filename: "json-post.md",
			content: `{
  "title": "Json Post",
  "draft": "false",
  "tags": "go, cli",
  "rating": 4.5
}
Body.
`,
			wantTitle: "Json Post",
			wantTags:  []string{"go", "cli"},
			wantBody:  "\nBody.\n",
			check: func(t *testing.T, req CreatePostRequest, dropped []string) {
				if req.Params["rating"] != 4.5 {
					t.Errorf("rating = %#v", req.Params["rating"])
				}
			},
		},
		{
			name:      "no front matter",
			filename:  "2026-01-05-plain-notes.md",
			content:   "Just text.\n",
			wantTitle: "Plain Notes",
			wantBody:  "\nJust text.\n",
		},
		{
			name:      "multi-byte first letter",
			filename:  "über-rust.md",
			content:   "Just text.\n",
			wantTitle: "Über Rust",
			wantBody:  "\nJust text.\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, dropped, err := ConvertImport([]byte(tt.content), tt.filename)
			if err != nil {
				t.Fatalf("ConvertImport failed: %v", err)
			}
			if req.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", req.Title, tt.wantTitle)
			}
			gotDate := ""
			if !req.Date.IsZero() {
				gotDate = req.Date.Format("2006-01-02")
			}
			if gotDate != tt.wantDate {
				t.Errorf("Date = %q, want %q", gotDate, tt.wantDate)
			}
			if req.Draft != tt.wantDraft {
				t.Errorf("Draft = %v, want %v", req.Draft, tt.wantDraft)
			}
			if strings.Join(req.Tags, ",") != strings.Join(tt.wantTags, ",") {
				t.Errorf("Tags = %v, want %v", req.Tags, tt.wantTags)
			}
			if req.Body != tt.wantBody {
				t.Errorf("Body = %q, want %q", req.Body, tt.wantBody)
			}
			if tt.check != nil {
				tt.check(t, req, dropped)
			}
		})
	}
}

func TestConvertImport_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad date", "---\ntitle: A\ndate: someday\n---\nbody\n"},
		{"bad draft", "---\ntitle: A\ndraft: maybe\n---\nbody\n"},
		{"bad yaml", "---\ntitle: [unclosed\n---\nbody\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := ConvertImport([]byte(tt.content), "a.md"); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestImportService_Execute(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "hello.md")
	content := "---\ntitle: Hello World\ndate: 2026-03-01\ndraft: true\n---\nHi.\n"
	if err := os.WriteFile(source, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	repo := mocks.NewMockRepository()
	create := NewCreatePostService(repo)
	create.now = fixedClock(day(2026, 3, 10))
	service := NewImportService(create)

	published := false
	resp, err := service.Execute(context.Background(), ImportRequest{
		Path:       source,
		Title:      "Hello Again",
		Draft:      &published,
		DatePrefix: true,
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if resp.Filename != "2026-03-01-hello-again.md" {
		t.Errorf("Filename = %q", resp.Filename)
	}
	if resp.Post.Header.Draft {
		t.Error("draft override not applied")
	}

	raw, err := repo.ReadRaw(context.Background(), "hello-again")
	if err != nil {
		t.Fatalf("ReadRaw failed: %v", err)
	}
	want := "+++\ntitle = \"Hello Again\"\ndate = 2026-03-01\n+++\n\nHi.\n"
	if string(raw) != want {
		t.Errorf("stored content =\n%s\nwant\n%s", raw, want)
	}

	// Importing again collides with the existing slug
	if _, err := service.Execute(context.Background(), ImportRequest{Path: source, Title: "Hello Again"}); !errors.Is(err, domain.ErrPostExists) {
		t.Errorf("expected ErrPostExists, got %v", err)
	}

	if _, err := service.Execute(context.Background(), ImportRequest{Path: filepath.Join(dir, "missing.md")}); err == nil {
		t.Error("expected error for missing file")
	}
}
