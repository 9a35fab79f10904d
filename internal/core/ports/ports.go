package ports

import (
	"context"
	"io"

	"github.com/postkit/postkit/internal/core/domain"
)

// Repository defines the port for post persistence operations
type Repository interface {
	// ListHeaders returns all post headers (lightweight operation).
	// Files whose front matter cannot be read are still returned with Problem set.
	ListHeaders(ctx context.Context) ([]domain.PostHeader, error)

	// Save persists a post to storage in canonical form
	Save(ctx context.Context, post *domain.PostBody) error

	// Get retrieves a post by slug
	Get(ctx context.Context, slug string) (*domain.PostBody, error)

	// ReadRaw returns the file content of a post exactly as stored
	ReadRaw(ctx context.Context, slug string) ([]byte, error)

	// Exists checks if a post with the given slug exists
	Exists(ctx context.Context, slug string) bool

	// Delete removes a post by slug
	Delete(ctx context.Context, slug string) error

	// Rename retitles a post and moves it to the matching filename
	Rename(ctx context.Context, oldSlug string, newTitle string) (*domain.PostHeader, error)
}

// ChartRenderer defines the port for writing the stats report
type ChartRenderer interface {
	// Render writes a chart page for the given stats to w
	Render(w io.Writer, report domain.StatsReport) error
}
