package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/postkit/postkit/internal/core/domain"
	"github.com/postkit/postkit/internal/core/ports"
	"github.com/postkit/postkit/internal/logging"
	"github.com/postkit/postkit/pkg/frontmatter"
	"github.com/postkit/postkit/pkg/workspace"
)

type FileRepository struct {
	workspace *workspace.Workspace
	workers   int
	log       logging.Logger
	mu        sync.RWMutex
}

// NewFileRepository creates a new file-based repository.
// maxWorkers bounds how many files ListHeaders reads at once.
func NewFileRepository(ws *workspace.Workspace, maxWorkers int) *FileRepository {
	if maxWorkers <= 0 {
		maxWorkers = 4
	}
	return &FileRepository{
		workspace: ws,
		workers:   maxWorkers,
		log:       logging.Get("repository"),
	}
}

// Ensure it implements the interface
var _ ports.Repository = (*FileRepository)(nil)

// ListHeaders returns all post headers sorted by filename
func (r *FileRepository) ListHeaders(ctx context.Context) ([]domain.PostHeader, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	filenames, err := r.postFilenames()
	if err != nil {
		return nil, err
	}

	headers := make([]domain.PostHeader, len(filenames))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, filename := range filenames {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			header, err := r.readHeader(filename)
			if err != nil {
				return err
			}
			headers[i] = *header
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.log.Debug("listed post headers", "count", len(headers), "workers", r.workers)
	return headers, nil
}

// Get retrieves a post by its slug or filename
func (r *FileRepository) Get(ctx context.Context, slug string) (*domain.PostBody, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// 1. Find the file associated with the slug
	filename, err := r.findFilenameBySlug(slug)
	if err != nil {
		return nil, err
	}

	// 2. Read file content
	content, err := os.ReadFile(r.workspace.GetPostPath(filename))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	// 3. Parse front matter, keeping the body opaque
	doc, err := frontmatter.ParseLenient(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}

	return domain.NewPostBody(doc, filename), nil
}

// ReadRaw returns the stored bytes of a post
func (r *FileRepository) ReadRaw(ctx context.Context, slug string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	filename, err := r.findFilenameBySlug(slug)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(r.workspace.GetPostPath(filename))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return content, nil
}

// Save writes a post to disk, keeping front matter comments in place
func (r *FileRepository) Save(ctx context.Context, post *domain.PostBody) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if post.Header.Filename == "" {
		return fmt.Errorf("post has no filename")
	}

	if err := os.MkdirAll(r.workspace.ContentPath, 0755); err != nil {
		return fmt.Errorf("failed to create content directory: %w", err)
	}

	content, err := post.Render()
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", post.Header.Filename, err)
	}

	path := r.workspace.GetPostPath(post.Header.Filename)
	if err := writeFile(path, content); err != nil {
		return err
	}

	r.log.Debug("saved post", "file", post.Header.Filename)
	return nil
}

// Delete removes a post
func (r *FileRepository) Delete(ctx context.Context, slug string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	filename, err := r.findFilenameBySlug(slug)
	if err != nil {
		return err
	}

	if err := os.Remove(r.workspace.GetPostPath(filename)); err != nil {
		return fmt.Errorf("failed to delete %s: %w", filename, err)
	}

	r.log.Debug("deleted post", "file", filename)
	return nil
}

// Exists checks if a slug exists
func (r *FileRepository) Exists(ctx context.Context, slug string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, err := r.findFilenameBySlug(slug)
	return err == nil
}

// Rename updates a post's title and moves it to the matching filename,
// keeping any date prefix
func (r *FileRepository) Rename(ctx context.Context, oldSlug string, newTitle string) (*domain.PostHeader, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := domain.ValidateTitle(newTitle); err != nil {
		return nil, fmt.Errorf("invalid title: %w", err)
	}
	newTitle = strings.TrimSpace(newTitle)

	// 1. Find existing file
	oldFilename, err := r.findFilenameBySlug(oldSlug)
	if err != nil {
		return nil, err
	}

	// 2. Read and parse existing content
	oldPath := r.workspace.GetPostPath(oldFilename)
	content, err := os.ReadFile(oldPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read original file: %w", err)
	}
	doc, err := frontmatter.ParseLenient(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", oldFilename, err)
	}
	doc.FrontMatter.Title = newTitle

	// 3. Generate new filename (PRESERVING DATE)
	newSlug := domain.GenerateSlug(newTitle)
	newFilename := domain.RenameFile(oldFilename, newSlug)
	newPath := r.workspace.GetPostPath(newFilename)

	if newFilename != oldFilename {
		if existing, err := r.findFilenameBySlug(newSlug); err == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrPostExists, existing)
		}
		if _, err := os.Stat(newPath); err == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrPostExists, newFilename)
		}
	}

	// 4. Write new file
	post := domain.NewPostBody(doc, newFilename)
	content, err = post.Render()
	if err != nil {
		return nil, fmt.Errorf("failed to rename %s: %w", oldFilename, err)
	}
	if err := writeFile(newPath, content); err != nil {
		return nil, err
	}

	// 5. Remove old file
	if newFilename != oldFilename {
		if err := os.Remove(oldPath); err != nil {
			return nil, fmt.Errorf("failed to remove old file: %w", err)
		}
	}

	r.log.Debug("renamed post", "from", oldFilename, "to", newFilename)
	return &post.Header, nil
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func (r *FileRepository) postFilenames() ([]string, error) {
	entries, err := os.ReadDir(r.workspace.ContentPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read content directory: %w", err)
	}

	var filenames []string
	for _, entry := range entries {
		if entry.IsDir() || !domain.IsPostFile(entry.Name()) {
			continue
		}
		filenames = append(filenames, entry.Name())
	}
	sort.Strings(filenames)
	return filenames, nil
}

// findFilenameBySlug accepts either a slug or an exact filename
func (r *FileRepository) findFilenameBySlug(target string) (string, error) {
	filenames, err := r.postFilenames()
	if err != nil {
		return "", err
	}

	for _, filename := range filenames {
		if filename == target || domain.ParseFilename(filename) == target {
			return filename, nil
		}
	}

	return "", fmt.Errorf("%w: %s", domain.ErrPostNotFound, target)
}

func (r *FileRepository) readHeader(filename string) (*domain.PostHeader, error) {
	path := r.workspace.GetPostPath(filename)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	defer f.Close()

	fm, err := frontmatter.ParseHeader(f)
	if err != nil {
		// Fallback for files without valid front matter
		r.log.Debug("unreadable front matter", "file", filename, "error", err)

		header := &domain.PostHeader{
			Title:    domain.ParseFilename(filename),
			Tags:     []string{},
			Slug:     domain.ParseFilename(filename),
			Filename: filename,
			Problem:  err.Error(),
		}
		if info, statErr := f.Stat(); statErr == nil {
			header.Date = info.ModTime()
		}
		return header, nil
	}

	header := domain.HeaderFromFrontMatter(fm, filename)
	return &header, nil
}

// writeFile replaces path through a temporary file in the same directory
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".postkit-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
