package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/postkit/postkit/internal/core/domain"
	"github.com/postkit/postkit/internal/core/ports"
)

// ListService handles listing and filtering posts
type ListService struct {
	postRepo ports.Repository
}

// NewListService creates a new list service
func NewListService(postRepo ports.Repository) *ListService {
	return &ListService{
		postRepo: postRepo,
	}
}

// DraftFilter selects posts by publication state
type DraftFilter int

const (
	// PublishedOnly hides drafts and unreadable files
	PublishedOnly DraftFilter = iota
	// DraftsOnly shows only drafts
	DraftsOnly
	// AllPosts shows everything, unreadable files included
	AllPosts
)

// ListRequest represents a request to list posts
type ListRequest struct {
	TagFilter string      // Filter by specific tag (optional)
	SortBy    string      // "date", "title" (default: date)
	Reverse   bool        // Reverse sort order
	Drafts    DraftFilter // default: published only
}

// ListResponse represents the response from listing posts
type ListResponse struct {
	Posts  []domain.PostHeader
	Total  int
	Hidden int // posts excluded by the draft filter
}

// Execute lists posts with optional filtering and sorting
func (s *ListService) Execute(ctx context.Context, req ListRequest) (*ListResponse, error) {
	// Get all post headers
	headers, err := s.postRepo.ListHeaders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	visible := filterByState(headers, req.Drafts)
	hidden := len(headers) - len(visible)

	// Apply tag filter if specified
	if req.TagFilter != "" {
		visible = filterByTag(visible, req.TagFilter)
	}

	sortHeaders(visible, req.SortBy, req.Reverse)

	return &ListResponse{
		Posts:  visible,
		Total:  len(visible),
		Hidden: hidden,
	}, nil
}

func filterByState(headers []domain.PostHeader, filter DraftFilter) []domain.PostHeader {
	filtered := make([]domain.PostHeader, 0, len(headers))
	for _, header := range headers {
		switch filter {
		case AllPosts:
			filtered = append(filtered, header)
		case DraftsOnly:
			if header.Problem == "" && header.Draft {
				filtered = append(filtered, header)
			}
		default:
			if header.Problem == "" && !header.Draft {
				filtered = append(filtered, header)
			}
		}
	}
	return filtered
}

func filterByTag(headers []domain.PostHeader, tag string) []domain.PostHeader {
	filtered := make([]domain.PostHeader, 0, len(headers))
	for _, header := range headers {
		if header.HasTag(tag) {
			filtered = append(filtered, header)
		}
	}
	return filtered
}

func sortHeaders(headers []domain.PostHeader, sortBy string, reverse bool) {
	sort.SliceStable(headers, func(i, j int) bool {
		a, b := headers[i], headers[j]
		if reverse {
			a, b = b, a
		}
		switch sortBy {
		case "title":
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		default: // "date"
			if !a.Date.Equal(b.Date) {
				return a.Date.Before(b.Date)
			}
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	})
}

// SearchRequest represents a search query
type SearchRequest struct {
	Query  string
	Drafts DraftFilter
}

// SearchResponse represents search results
type SearchResponse struct {
	Posts []domain.PostHeader
	Total int
}

// Search performs fuzzy search on posts
func (s *ListService) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	headers, err := s.postRepo.ListHeaders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	headers = filterByState(headers, req.Drafts)

	// If no query, return all
	if strings.TrimSpace(req.Query) == "" {
		sortHeaders(headers, "date", true)
		return &SearchResponse{
			Posts: headers,
			Total: len(headers),
		}, nil
	}

	matches := fuzzySearch(headers, req.Query)

	return &SearchResponse{
		Posts: matches,
		Total: len(matches),
	}, nil
}

// fuzzyMatch represents a scored match
type fuzzyMatch struct {
	header domain.PostHeader
	score  int
}

// fuzzySearch performs fuzzy search on titles, slugs, and tags with scoring
func fuzzySearch(headers []domain.PostHeader, query string) []domain.PostHeader {
	query = strings.TrimSpace(query)
	if query == "" {
		return headers
	}

	var matches []fuzzyMatch

	for _, header := range headers {
		// Title match ranks highest, then slug, then tags
		if score := fuzzyMatchScore(header.Title, query); score > 0 {
			matches = append(matches, fuzzyMatch{header: header, score: score + 1000})
			continue
		}

		if score := fuzzyMatchScore(header.Slug, query); score > 0 {
			matches = append(matches, fuzzyMatch{header: header, score: score + 500})
			continue
		}

		for _, tag := range header.Tags {
			if score := fuzzyMatchScore(tag, query); score > 0 {
				matches = append(matches, fuzzyMatch{header: header, score: score + 200})
				break
			}
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	result := make([]domain.PostHeader, len(matches))
	for i, m := range matches {
		result[i] = m.header
	}

	return result
}

// fuzzyMatchScore calculates a score for fuzzy matching query against text
// Returns 0 if no match, higher scores for better matches
func fuzzyMatchScore(text, query string) int {
	if text == "" || query == "" {
		return 0
	}

	if text == query {
		return 10000
	}

	textLower := strings.ToLower(text)
	queryLower := strings.ToLower(query)

	if textLower == queryLower {
		return 9000
	}

	if strings.Contains(textLower, queryLower) {
		score := 5000
		if strings.HasPrefix(textLower, queryLower) {
			score += 2000
		}
		return score
	}

	// Subsequence match, rewarding runs and word starts
	score := 0
	textRunes := []rune(textLower)
	queryRunes := []rune(queryLower)

	queryIdx := 0
	consecutive := 0
	lastMatchIdx := -1
	firstMatchIdx := -1

	for textIdx := 0; textIdx < len(textRunes) && queryIdx < len(queryRunes); textIdx++ {
		if textRunes[textIdx] != queryRunes[queryIdx] {
			continue
		}

		score += 100
		if firstMatchIdx < 0 {
			firstMatchIdx = textIdx
		}

		if textIdx == lastMatchIdx+1 {
			consecutive++
			score += consecutive * 50
		} else {
			consecutive = 0
		}

		if textIdx == 0 || isWordBoundary(textRunes[textIdx-1]) {
			score += 200
		}
		if textIdx == 0 {
			score += 300
		}

		lastMatchIdx = textIdx
		queryIdx++
	}

	if queryIdx != len(queryRunes) {
		return 0
	}

	// Penalty for gaps between matches
	span := lastMatchIdx - firstMatchIdx + 1
	score -= (span - len(queryRunes)) * 10
	if score < 1 {
		score = 1
	}

	return score
}

func isWordBoundary(r rune) bool {
	return unicode.IsSpace(r) || r == '-' || r == '_'
}
