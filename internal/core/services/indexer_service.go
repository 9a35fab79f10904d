package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/postkit/postkit/internal/core/domain"
	"github.com/postkit/postkit/internal/core/ports"
	"github.com/postkit/postkit/internal/logging"
	"github.com/postkit/postkit/pkg/frontmatter"
	"github.com/postkit/postkit/pkg/markdown"
)

// IndexerService builds the post index cache
type IndexerService struct {
	postRepo  ports.Repository
	indexPath string
	log       logging.Logger
}

// NewIndexerService creates a new indexer service
func NewIndexerService(postRepo ports.Repository, indexPath string) *IndexerService {
	return &IndexerService{
		postRepo:  postRepo,
		indexPath: indexPath,
		log:       logging.Get("indexer"),
	}
}

// ReindexRequest represents a request to reindex the content directory
type ReindexRequest struct{}

// ReindexResponse represents the response from reindexing
type ReindexResponse struct {
	TotalPosts int
	Drafts     int
	Problems   int
	TotalWords int
	Duration   time.Duration
}

// Execute performs a full reindex
func (s *IndexerService) Execute(ctx context.Context, req ReindexRequest) (*ReindexResponse, error) {
	start := time.Now()
	index, err := s.Build(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.saveIndex(index); err != nil {
		return nil, fmt.Errorf("failed to save index: %w", err)
	}

	problems := 0
	for _, entry := range index.Posts {
		if entry.Problem != "" {
			problems++
		}
	}

	s.log.Debug("index written", "path", s.indexPath, "posts", index.Count())

	return &ReindexResponse{
		TotalPosts: index.Count(),
		Drafts:     index.CountDrafts(),
		Problems:   problems,
		TotalWords: index.TotalWords(),
		Duration:   time.Since(start),
	}, nil
}

// Build computes the index in memory without writing it
func (s *IndexerService) Build(ctx context.Context) (*domain.Index, error) {
	index := domain.NewIndex()

	headers, err := s.postRepo.ListHeaders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	for _, header := range headers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entry := domain.IndexEntry{
			Title:     header.Title,
			Draft:     header.Draft,
			Tags:      header.Tags,
			Slug:      header.Slug,
			Filename:  header.Filename,
			Headings:  []string{},
			Languages: []string{},
			Problem:   header.Problem,
		}
		if !header.Date.IsZero() {
			entry.Date = header.Date.Format(frontmatter.DateLayout)
		}

		if header.Problem == "" {
			s.analyze(ctx, header, &entry)
		}

		index.AddPost(header.Filename, entry)
	}

	index.UpdateLastIndexed()
	return index, nil
}

func (s *IndexerService) analyze(ctx context.Context, header domain.PostHeader, entry *domain.IndexEntry) {
	raw, err := s.postRepo.ReadRaw(ctx, header.Filename)
	if err != nil {
		// Skip posts we can't read, but don't fail the entire operation
		entry.Problem = err.Error()
		return
	}

	doc, err := frontmatter.ParseLenient(raw)
	if err != nil {
		entry.Problem = err.Error()
		return
	}

	analysis := markdown.Analyze([]byte(doc.Body))
	entry.Words = analysis.Words
	entry.ReadingMinutes = analysis.ReadingMinutes()
	entry.Links = len(analysis.Links)
	for _, h := range analysis.Headings {
		entry.Headings = append(entry.Headings, h.Text)
	}
	if langs := analysis.Languages(); langs != nil {
		entry.Languages = langs
	}
}

// saveIndex writes the index to disk
func (s *IndexerService) saveIndex(index *domain.Index) error {
	dir := filepath.Dir(s.indexPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}

	if err := os.WriteFile(s.indexPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write index file: %w", err)
	}

	return nil
}

// LoadIndex loads the index from disk
func (s *IndexerService) LoadIndex() (*domain.Index, error) {
	data, err := os.ReadFile(s.indexPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty index if file doesn't exist
			return domain.NewIndex(), nil
		}
		return nil, fmt.Errorf("failed to read index file: %w", err)
	}

	var index domain.Index
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("failed to unmarshal index: %w", err)
	}

	if index.Version != domain.IndexVersion {
		s.log.Warn("index version mismatch, run reindex", "found", index.Version, "want", domain.IndexVersion)
	}

	return &index, nil
}

// IndexExists checks if the index file exists
func (s *IndexerService) IndexExists() bool {
	_, err := os.Stat(s.indexPath)
	return err == nil
}
