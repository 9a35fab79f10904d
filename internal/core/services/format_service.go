package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/postkit/postkit/internal/core/domain"
	"github.com/postkit/postkit/internal/core/ports"
	"github.com/postkit/postkit/internal/logging"
	"github.com/postkit/postkit/pkg/frontmatter"
)

// FormatService rewrites posts into canonical form
type FormatService struct {
	postRepo ports.Repository
	log      logging.Logger
}

// NewFormatService creates a new format service
func NewFormatService(postRepo ports.Repository) *FormatService {
	return &FormatService{
		postRepo: postRepo,
		log:      logging.Get("fmt"),
	}
}

// FormatRequest selects posts and whether to write
type FormatRequest struct {
	Slugs  []string // empty means every post
	DryRun bool     // only report what would change
	Force  bool     // rewrite even when front matter comments would be lost
}

// FormatFailure is a file that could not be parsed
type FormatFailure struct {
	Filename string
	Err      error
}

// FormatResponse lists the outcome per file
type FormatResponse struct {
	Changed   []string
	Unchanged int
	Failed    []FormatFailure

	// Commented lists files left alone because formatting would drop their
	// front matter comments
	Commented []string
}

// Execute canonicalizes the selected posts
func (s *FormatService) Execute(ctx context.Context, req FormatRequest) (*FormatResponse, error) {
	headers, err := s.postRepo.ListHeaders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	if len(req.Slugs) > 0 {
		headers = selectHeaders(headers, req.Slugs)
	}

	resp := &FormatResponse{}
	for _, header := range headers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, err := s.postRepo.ReadRaw(ctx, header.Filename)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", header.Filename, err)
		}

		doc, err := frontmatter.ParseLenient(raw)
		if err != nil {
			resp.Failed = append(resp.Failed, FormatFailure{Filename: header.Filename, Err: err})
			continue
		}

		if bytes.Equal(frontmatter.Format(doc), raw) {
			resp.Unchanged++
			continue
		}

		if doc.HasComments() && !req.Force {
			s.log.Warn("front matter comments would be lost, skipping", "file", header.Filename)
			resp.Commented = append(resp.Commented, header.Filename)
			continue
		}

		resp.Changed = append(resp.Changed, header.Filename)
		if req.DryRun {
			continue
		}

		doc.DropLayout()
		if err := s.postRepo.Save(ctx, domain.NewPostBody(doc, header.Filename)); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", header.Filename, err)
		}
		s.log.Debug("formatted post", "file", header.Filename)
	}

	return resp, nil
}
