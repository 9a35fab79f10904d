package mocks

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/postkit/postkit/internal/core/domain"
)

// MockRepository is a mock implementation of the Repository interface for testing
type MockRepository struct {
	mu       sync.RWMutex
	posts    map[string]*domain.PostBody
	broken   map[string]domain.PostHeader
	raw      map[string][]byte
	listErr  error
	saveErr  error
	saveCall int
}

// NewMockRepository creates a new mock repository
func NewMockRepository() *MockRepository {
	return &MockRepository{
		posts:  make(map[string]*domain.PostBody),
		broken: make(map[string]domain.PostHeader),
		raw:    make(map[string][]byte),
	}
}

// AddBroken registers a file whose front matter cannot be parsed
func (m *MockRepository) AddBroken(slug, problem string, raw []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.broken[slug] = domain.PostHeader{
		Title:    slug,
		Tags:     []string{},
		Slug:     slug,
		Filename: slug + domain.Ext,
		Problem:  problem,
	}
	m.raw[slug] = raw
}

// SetRaw overrides the stored bytes returned by ReadRaw
func (m *MockRepository) SetRaw(slug string, raw []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.raw[slug] = raw
}

// SetListError makes ListHeaders fail
func (m *MockRepository) SetListError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listErr = err
}

// SetSaveError makes Save fail
func (m *MockRepository) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// SaveCalls returns how many times Save succeeded
func (m *MockRepository) SaveCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saveCall
}

// resolve maps a filename to its slug; callers hold the lock
func (m *MockRepository) resolve(key string) string {
	for slug, p := range m.posts {
		if p.Header.Filename == key {
			return slug
		}
	}
	for slug, h := range m.broken {
		if h.Filename == key {
			return slug
		}
	}
	return key
}

// ListHeaders returns all post headers sorted by filename
func (m *MockRepository) ListHeaders(ctx context.Context) ([]domain.PostHeader, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.listErr != nil {
		return nil, m.listErr
	}

	headers := make([]domain.PostHeader, 0, len(m.posts)+len(m.broken))
	for _, p := range m.posts {
		headers = append(headers, p.Header)
	}
	for _, h := range m.broken {
		headers = append(headers, h)
	}
	sort.Slice(headers, func(i, j int) bool {
		return headers[i].Filename < headers[j].Filename
	})
	return headers, nil
}

// Save persists a post to storage
func (m *MockRepository) Save(ctx context.Context, post *domain.PostBody) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveErr != nil {
		return m.saveErr
	}

	content, err := post.Render()
	if err != nil {
		return err
	}

	m.posts[post.Header.Slug] = post
	m.raw[post.Header.Slug] = content
	delete(m.broken, post.Header.Slug)
	m.saveCall++
	return nil
}

// Get retrieves a post by slug
func (m *MockRepository) Get(ctx context.Context, slug string) (*domain.PostBody, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	slug = m.resolve(slug)

	if h, ok := m.broken[slug]; ok {
		return nil, fmt.Errorf("failed to parse %s: %s", h.Filename, h.Problem)
	}

	post, ok := m.posts[slug]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrPostNotFound, slug)
	}
	return post, nil
}

// ReadRaw returns the stored bytes of a post
func (m *MockRepository) ReadRaw(ctx context.Context, slug string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	slug = m.resolve(slug)

	raw, ok := m.raw[slug]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrPostNotFound, slug)
	}
	return raw, nil
}

// Exists checks if a post with the given slug exists
func (m *MockRepository) Exists(ctx context.Context, slug string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	slug = m.resolve(slug)

	_, ok := m.posts[slug]
	_, broken := m.broken[slug]
	return ok || broken
}

// Delete removes a post by slug
func (m *MockRepository) Delete(ctx context.Context, slug string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	slug = m.resolve(slug)

	_, ok := m.posts[slug]
	_, broken := m.broken[slug]
	if !ok && !broken {
		return fmt.Errorf("%w: %s", domain.ErrPostNotFound, slug)
	}

	delete(m.posts, slug)
	delete(m.broken, slug)
	delete(m.raw, slug)
	return nil
}

// Rename renames a post from oldSlug to newTitle
func (m *MockRepository) Rename(ctx context.Context, oldSlug string, newTitle string) (*domain.PostHeader, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	oldSlug = m.resolve(oldSlug)

	post, ok := m.posts[oldSlug]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrPostNotFound, oldSlug)
	}

	if err := domain.ValidateTitle(newTitle); err != nil {
		return nil, fmt.Errorf("invalid title: %w", err)
	}

	newSlug := domain.GenerateSlug(newTitle)
	if _, exists := m.posts[newSlug]; exists && newSlug != oldSlug {
		return nil, fmt.Errorf("%w: %s", domain.ErrPostExists, newSlug)
	}

	post.Document.FrontMatter.Title = newTitle
	content, err := post.Render()
	if err != nil {
		return nil, err
	}
	post.Header.Title = newTitle
	post.Header.Slug = newSlug
	post.Header.Filename = domain.RenameFile(post.Header.Filename, newSlug)

	delete(m.posts, oldSlug)
	delete(m.raw, oldSlug)
	m.posts[newSlug] = post
	m.raw[newSlug] = content

	header := post.Header
	return &header, nil
}

// --- MockChartRenderer ---

// MockChartRenderer records the reports it was asked to render
type MockChartRenderer struct {
	mu      sync.Mutex
	reports []domain.StatsReport
}

func NewMockChartRenderer() *MockChartRenderer {
	return &MockChartRenderer{}
}

func (m *MockChartRenderer) Render(w io.Writer, report domain.StatsReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports = append(m.reports, report)
	_, err := fmt.Fprintf(w, "<html>%d posts</html>", report.Posts)
	return err
}

func (m *MockChartRenderer) GetReports() []domain.StatsReport {
	m.mu.Lock()
	defer m.mu.Unlock()
	reports := make([]domain.StatsReport, len(m.reports))
	copy(reports, m.reports)
	return reports
}
