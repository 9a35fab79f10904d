package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/postkit/postkit/internal/core/domain"
	"github.com/postkit/postkit/internal/core/ports/mocks"
	"github.com/postkit/postkit/pkg/frontmatter"
)

func TestCreatePostService_Execute(t *testing.T) {
	tests := []struct {
		name         string
		request      CreatePostRequest
		setupMocks   func(*mocks.MockRepository)
		wantFilename string
		wantContent  string
		expectError  error
	}{
		{
			name:         "draft post",
			request:      CreatePostRequest{Title: "Ownership for Pythonistas", Draft: true},
			wantFilename: "ownership-for-pythonistas.md",
			wantContent:  "+++\ntitle = \"Ownership for Pythonistas\"\ndate = 2026-02-02\ndraft = true\n+++\n" + DefaultBody,
		},
		{
			name:         "published post with tags and date prefix",
			request:      CreatePostRequest{Title: "Traits", Tags: []string{"rust", " ", "Rust", "python"}, DatePrefix: true},
			wantFilename: "2026-02-02-traits.md",
			wantContent:  "+++\ntitle = \"Traits\"\ndate = 2026-02-02\ntags = [\"rust\", \"python\"]\n+++\n" + DefaultBody,
		},
		{
			name:         "explicit date, body and params",
			request:      CreatePostRequest{Title: "Lifetimes", Date: day(2025, 12, 24), Body: "\nHi\n", Params: map[string]any{"series": "rust-for-pythonistas"}},
			wantFilename: "lifetimes.md",
			wantContent:  "+++\ntitle = \"Lifetimes\"\ndate = 2025-12-24\nseries = \"rust-for-pythonistas\"\n+++\n\nHi\n",
		},
		{
			name:        "empty title",
			request:     CreatePostRequest{Title: "  "},
			expectError: errors.New("invalid title"),
		},
		{
			name:    "duplicate slug",
			request: CreatePostRequest{Title: "Traits!"},
			setupMocks: func(repo *mocks.MockRepository) {
				createTestPost(repo, "Traits", day(2026, 1, 1), false, nil)
			},
			expectError: domain.ErrPostExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockRepository()
			if tt.setupMocks != nil {
				tt.setupMocks(repo)
			}

			service := NewCreatePostService(repo)
			service.now = fixedClock(day(2026, 2, 2).Add(15 * time.Hour))

			resp, err := service.Execute(context.Background(), tt.request)

			if tt.expectError != nil {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				if errors.Is(tt.expectError, domain.ErrPostExists) && !errors.Is(err, domain.ErrPostExists) {
					t.Errorf("expected ErrPostExists, got %v", err)
				}
				if !strings.Contains(err.Error(), tt.expectError.Error()) {
					t.Errorf("error %q should mention %q", err, tt.expectError)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if resp.Filename != tt.wantFilename {
				t.Errorf("Filename = %q, want %q", resp.Filename, tt.wantFilename)
			}

			raw, err := repo.ReadRaw(context.Background(), resp.Post.Header.Slug)
			if err != nil {
				t.Fatalf("post not saved: %v", err)
			}
			if string(raw) != tt.wantContent {
				t.Errorf("content = %q, want %q", raw, tt.wantContent)
			}

			// New posts always pass strict parsing
			if _, err := frontmatter.Parse(raw); err != nil {
				t.Errorf("new post should parse strictly: %v", err)
			}
		})
	}
}

func TestToday(t *testing.T) {
	got := Today(day(2026, 2, 2).Add(23 * time.Hour))
	if !got.Equal(day(2026, 2, 2)) {
		t.Errorf("Today() = %v", got)
	}
}
