package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/postkit/postkit/internal/core/domain"
	"github.com/postkit/postkit/internal/core/ports/mocks"
)

func TestListService_Execute(t *testing.T) {
	tests := []struct {
		name           string
		request        ListRequest
		setupMocks     func(*mocks.MockRepository)
		expectedTitles []string
		expectedHidden int
	}{
		{
			name:    "published only by default",
			request: ListRequest{SortBy: "date"},
			setupMocks: func(repo *mocks.MockRepository) {
				createTestPost(repo, "Ownership", day(2026, 1, 10), false, []string{"rust"})
				createTestPost(repo, "Borrowing", day(2026, 1, 5), true, []string{"rust"})
				createTestPost(repo, "Traits", day(2026, 1, 1), false, nil)
			},
			expectedTitles: []string{"Traits", "Ownership"},
			expectedHidden: 1,
		},
		{
			name:           "empty content dir",
			request:        ListRequest{SortBy: "date"},
			setupMocks:     func(repo *mocks.MockRepository) {},
			expectedTitles: []string{},
		},
		{
			name:    "drafts only",
			request: ListRequest{Drafts: DraftsOnly},
			setupMocks: func(repo *mocks.MockRepository) {
				createTestPost(repo, "Ownership", day(2026, 1, 10), false, nil)
				createTestPost(repo, "Borrowing", day(2026, 1, 5), true, nil)
				repo.AddBroken("broken", "missing closing delimiter", nil)
			},
			expectedTitles: []string{"Borrowing"},
			expectedHidden: 2,
		},
		{
			name:    "all posts includes unreadable files",
			request: ListRequest{Drafts: AllPosts, SortBy: "title"},
			setupMocks: func(repo *mocks.MockRepository) {
				createTestPost(repo, "Ownership", day(2026, 1, 10), false, nil)
				createTestPost(repo, "Borrowing", day(2026, 1, 5), true, nil)
				repo.AddBroken("broken", "missing closing delimiter", nil)
			},
			expectedTitles: []string{"Borrowing", "broken", "Ownership"},
		},
		{
			name:    "filter by tag - case insensitive",
			request: ListRequest{TagFilter: "RUST", Drafts: AllPosts},
			setupMocks: func(repo *mocks.MockRepository) {
				createTestPost(repo, "Ownership", day(2026, 1, 10), false, []string{"rust"})
				createTestPost(repo, "Decorators", day(2026, 1, 5), true, []string{"python"})
			},
			expectedTitles: []string{"Ownership"},
		},
		{
			name:    "filter by tag - no matches",
			request: ListRequest{TagFilter: "go"},
			setupMocks: func(repo *mocks.MockRepository) {
				createTestPost(repo, "Ownership", day(2026, 1, 10), false, []string{"rust"})
			},
			expectedTitles: []string{},
		},
		{
			name:    "sort by date descending",
			request: ListRequest{SortBy: "date", Reverse: true},
			setupMocks: func(repo *mocks.MockRepository) {
				createTestPost(repo, "Middle", day(2026, 2, 1), false, nil)
				createTestPost(repo, "Newest", day(2026, 3, 1), false, nil)
				createTestPost(repo, "Oldest", day(2026, 1, 1), false, nil)
			},
			expectedTitles: []string{"Newest", "Middle", "Oldest"},
		},
		{
			name:    "same date falls back to title",
			request: ListRequest{SortBy: "date"},
			setupMocks: func(repo *mocks.MockRepository) {
				createTestPost(repo, "Zebra", day(2026, 1, 1), false, nil)
				createTestPost(repo, "apple", day(2026, 1, 1), false, nil)
			},
			expectedTitles: []string{"apple", "Zebra"},
		},
		{
			name:    "sort by title descending",
			request: ListRequest{SortBy: "title", Reverse: true},
			setupMocks: func(repo *mocks.MockRepository) {
				createTestPost(repo, "Zebra", day(2026, 1, 1), false, nil)
				createTestPost(repo, "Apple", day(2026, 1, 2), false, nil)
				createTestPost(repo, "Mango", day(2026, 1, 3), false, nil)
			},
			expectedTitles: []string{"Zebra", "Mango", "Apple"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := mocks.NewMockRepository()
			tt.setupMocks(mockRepo)

			service := NewListService(mockRepo)

			resp, err := service.Execute(context.Background(), tt.request)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			if resp.Total != len(tt.expectedTitles) {
				t.Errorf("Expected %d posts, got %d", len(tt.expectedTitles), resp.Total)
			}

			got := titles(resp.Posts)
			if strings.Join(got, "|") != strings.Join(tt.expectedTitles, "|") {
				t.Errorf("titles = %v, want %v", got, tt.expectedTitles)
			}

			if resp.Hidden != tt.expectedHidden {
				t.Errorf("Hidden = %d, want %d", resp.Hidden, tt.expectedHidden)
			}
		})
	}
}

func TestListService_Execute_RepositoryError(t *testing.T) {
	repo := mocks.NewMockRepository()
	repo.SetListError(errors.New("disk on fire"))

	_, err := NewListService(repo).Execute(context.Background(), ListRequest{})
	if err == nil || !strings.Contains(err.Error(), "disk on fire") {
		t.Errorf("expected wrapped repository error, got %v", err)
	}
}

func TestListService_Search(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		drafts         DraftFilter
		setupMocks     func(*mocks.MockRepository)
		expectedTitles []string
	}{
		{
			name:  "search by title - exact match",
			query: "Ownership",
			setupMocks: func(repo *mocks.MockRepository) {
				createTestPost(repo, "Ownership", day(2026, 1, 1), false, nil)
				createTestPost(repo, "Lifetimes", day(2026, 1, 2), false, nil)
			},
			expectedTitles: []string{"Ownership"},
		},
		{
			name:  "prefix match ranks above infix match",
			query: "trait",
			setupMocks: func(repo *mocks.MockRepository) {
				createTestPost(repo, "Generic Traits", day(2026, 1, 1), false, nil)
				createTestPost(repo, "Traits vs Protocols", day(2026, 1, 2), false, nil)
				createTestPost(repo, "Lifetimes", day(2026, 1, 3), false, nil)
			},
			expectedTitles: []string{"Traits vs Protocols", "Generic Traits"},
		},
		{
			name:  "search by slug",
			query: "error-handling",
			setupMocks: func(repo *mocks.MockRepository) {
				createTestPost(repo, "Error Handling", day(2026, 1, 1), false, nil)
				createTestPost(repo, "Closures", day(2026, 1, 2), false, nil)
			},
			expectedTitles: []string{"Error Handling"},
		},
		{
			name:  "search by tag",
			query: "python",
			setupMocks: func(repo *mocks.MockRepository) {
				createTestPost(repo, "Decorators", day(2026, 1, 1), false, []string{"python"})
				createTestPost(repo, "Macros", day(2026, 1, 2), false, []string{"rust"})
			},
			expectedTitles: []string{"Decorators"},
		},
		{
			name:  "drafts are hidden from search by default",
			query: "own",
			setupMocks: func(repo *mocks.MockRepository) {
				createTestPost(repo, "Ownership", day(2026, 1, 1), true, nil)
			},
			expectedTitles: []string{},
		},
		{
			name:   "drafts included on request",
			query:  "own",
			drafts: AllPosts,
			setupMocks: func(repo *mocks.MockRepository) {
				createTestPost(repo, "Ownership", day(2026, 1, 1), true, nil)
			},
			expectedTitles: []string{"Ownership"},
		},
		{
			name:  "empty query returns all newest first",
			query: "",
			setupMocks: func(repo *mocks.MockRepository) {
				createTestPost(repo, "First", day(2026, 1, 1), false, nil)
				createTestPost(repo, "Second", day(2026, 1, 2), false, nil)
			},
			expectedTitles: []string{"Second", "First"},
		},
		{
			name:  "search with no results",
			query: "zzz",
			setupMocks: func(repo *mocks.MockRepository) {
				createTestPost(repo, "Ownership", day(2026, 1, 1), false, nil)
			},
			expectedTitles: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := mocks.NewMockRepository()
			tt.setupMocks(mockRepo)

			service := NewListService(mockRepo)

			resp, err := service.Search(context.Background(), SearchRequest{Query: tt.query, Drafts: tt.drafts})
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			got := titles(resp.Posts)
			if strings.Join(got, "|") != strings.Join(tt.expectedTitles, "|") {
				t.Errorf("titles = %v, want %v", got, tt.expectedTitles)
			}
			if resp.Total != len(tt.expectedTitles) {
				t.Errorf("Total = %d, want %d", resp.Total, len(tt.expectedTitles))
			}
		})
	}
}

func TestFuzzyMatchScore(t *testing.T) {
	tests := []struct {
		text  string
		query string
		want  func(int) bool
	}{
		{"Ownership", "Ownership", func(s int) bool { return s == 10000 }},
		{"Ownership", "ownership", func(s int) bool { return s == 9000 }},
		{"Ownership", "own", func(s int) bool { return s == 7000 }},
		{"Ownership", "ship", func(s int) bool { return s == 5000 }},
		{"Ownership", "oshp", func(s int) bool { return s > 0 && s < 5000 }},
		{"Ownership", "xyz", func(s int) bool { return s == 0 }},
		{"", "x", func(s int) bool { return s == 0 }},
	}

	for _, tt := range tests {
		if got := fuzzyMatchScore(tt.text, tt.query); !tt.want(got) {
			t.Errorf("fuzzyMatchScore(%q, %q) = %d", tt.text, tt.query, got)
		}
	}

	// Word-start matches beat scattered matches
	if fuzzyMatchScore("rust for pythonistas", "rfp") <= fuzzyMatchScore("murky fuzzy pulp", "rfp") {
		t.Error("word boundary matches should score higher")
	}
}

func titles(headers []domain.PostHeader) []string {
	out := make([]string, 0, len(headers))
	for _, h := range headers {
		out = append(out, h.Title)
	}
	return out
}
