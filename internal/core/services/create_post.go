package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/postkit/postkit/internal/core/domain"
	"github.com/postkit/postkit/internal/core/ports"
	"github.com/postkit/postkit/pkg/frontmatter"
)

// DefaultBody is written into new posts so they pass strict checks
const DefaultBody = "\nWrite your post here.\n"

// CreatePostService handles the creation of new posts
type CreatePostService struct {
	postRepo ports.Repository
	now      func() time.Time
}

// NewCreatePostService creates a new post creation service
func NewCreatePostService(postRepo ports.Repository) *CreatePostService {
	return &CreatePostService{
		postRepo: postRepo,
		now:      time.Now,
	}
}

// CreatePostRequest represents a request to create a new post
type CreatePostRequest struct {
	Title      string
	Tags       []string
	Draft      bool
	Date       time.Time // zero means today
	DatePrefix bool      // prefix the filename with the date
	Body       string    // empty means DefaultBody
	Params     map[string]any
}

// CreatePostResponse represents the response from creating a post
type CreatePostResponse struct {
	Post     *domain.PostBody
	Filename string
}

// Execute creates a new post with the given parameters
func (s *CreatePostService) Execute(ctx context.Context, req CreatePostRequest) (*CreatePostResponse, error) {
	// Validate title
	if err := domain.ValidateTitle(req.Title); err != nil {
		return nil, fmt.Errorf("invalid title: %w", err)
	}

	date := req.Date
	if date.IsZero() {
		date = Today(s.now())
	}

	// Create post header
	header, err := domain.NewPostHeader(req.Title, req.Tags, date, req.Draft, req.DatePrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to create post header: %w", err)
	}

	// Check if post already exists
	if s.postRepo.Exists(ctx, header.Slug) {
		return nil, fmt.Errorf("%w: slug '%s'", domain.ErrPostExists, header.Slug)
	}

	body := req.Body
	if strings.TrimSpace(body) == "" {
		body = DefaultBody
	}

	doc := &frontmatter.Document{
		FrontMatter: frontmatter.FrontMatter{
			Title:    header.Title,
			Date:     header.Date,
			DateKind: frontmatter.DateLocal,
			Draft:    header.Draft,
			Tags:     header.Tags,
			Params:   map[string]any{},
		},
		Body: body,
	}
	for key, value := range req.Params {
		doc.FrontMatter.Params[key] = value
	}

	post := &domain.PostBody{Header: *header, Document: doc}

	// Save the post
	if err := s.postRepo.Save(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to save post: %w", err)
	}

	return &CreatePostResponse{
		Post:     post,
		Filename: header.Filename,
	}, nil
}

// Today truncates t to a calendar date, expressed in UTC like a TOML local date
func Today(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
