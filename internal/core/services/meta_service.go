package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/postkit/postkit/internal/core/domain"
	"github.com/postkit/postkit/internal/core/ports"
	"github.com/postkit/postkit/pkg/frontmatter"
)

// MetaService edits front matter fields of existing posts.
// Only the edited keys are rewritten when the front matter carries comments.
type MetaService struct {
	postRepo ports.Repository
	now      func() time.Time
}

// NewMetaService creates a new metadata service
func NewMetaService(postRepo ports.Repository) *MetaService {
	return &MetaService{
		postRepo: postRepo,
		now:      time.Now,
	}
}

// MetaResult reports the post after an edit
type MetaResult struct {
	Post    *domain.PostBody
	Changed bool
}

// Publish clears the draft flag. With stampDate the date becomes today.
func (s *MetaService) Publish(ctx context.Context, slug string, stampDate bool) (*MetaResult, error) {
	return s.update(ctx, slug, func(fm *frontmatter.FrontMatter) bool {
		changed := fm.Draft
		fm.SetDraft(false)
		if stampDate {
			today := Today(s.now())
			if !fm.Date.Equal(today) || fm.DateKind != frontmatter.DateLocal {
				fm.Date, fm.DateKind = today, frontmatter.DateLocal
				changed = true
			}
		}
		return changed
	})
}

// Unpublish marks a post as draft
func (s *MetaService) Unpublish(ctx context.Context, slug string) (*MetaResult, error) {
	return s.update(ctx, slug, func(fm *frontmatter.FrontMatter) bool {
		changed := !fm.Draft
		fm.SetDraft(true)
		return changed
	})
}

// AddTags appends tags the post does not carry yet
func (s *MetaService) AddTags(ctx context.Context, slug string, tags ...string) (*MetaResult, error) {
	return s.update(ctx, slug, func(fm *frontmatter.FrontMatter) bool {
		merged := domain.NormalizeTags(append(append([]string{}, fm.Tags...), tags...))
		if len(merged) == len(domain.NormalizeTags(fm.Tags)) {
			return false
		}
		fm.SetTags(merged)
		return true
	})
}

// RemoveTags drops tags, compared case-insensitively
func (s *MetaService) RemoveTags(ctx context.Context, slug string, tags ...string) (*MetaResult, error) {
	drop := make(map[string]bool, len(tags))
	for _, tag := range tags {
		drop[strings.ToLower(strings.TrimSpace(tag))] = true
	}

	return s.update(ctx, slug, func(fm *frontmatter.FrontMatter) bool {
		kept := make([]string, 0, len(fm.Tags))
		for _, tag := range fm.Tags {
			if !drop[strings.ToLower(tag)] {
				kept = append(kept, tag)
			}
		}
		if len(kept) == len(fm.Tags) {
			return false
		}
		fm.SetTags(kept)
		return true
	})
}

// SetDate changes the post date to a calendar date
func (s *MetaService) SetDate(ctx context.Context, slug string, date time.Time) (*MetaResult, error) {
	date = Today(date)
	return s.update(ctx, slug, func(fm *frontmatter.FrontMatter) bool {
		if fm.Date.Equal(date) && fm.DateKind == frontmatter.DateLocal {
			return false
		}
		fm.Date, fm.DateKind = date, frontmatter.DateLocal
		return true
	})
}

// Retitle changes the title and renames the file to match
func (s *MetaService) Retitle(ctx context.Context, slug, title string) (*domain.PostHeader, error) {
	header, err := s.postRepo.Rename(ctx, slug, title)
	if err != nil {
		return nil, fmt.Errorf("failed to rename post: %w", err)
	}
	return header, nil
}

// ListTags counts how many posts use each tag, most used first
func (s *MetaService) ListTags(ctx context.Context) ([]domain.Count, error) {
	headers, err := s.postRepo.ListHeaders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	counts := map[string]int{}
	for _, h := range headers {
		for _, tag := range h.Tags {
			counts[strings.ToLower(tag)]++
		}
	}
	return rankCounts(counts, 0), nil
}

func (s *MetaService) update(ctx context.Context, slug string, edit func(*frontmatter.FrontMatter) bool) (*MetaResult, error) {
	post, err := s.postRepo.Get(ctx, slug)
	if err != nil {
		return nil, err
	}

	if !edit(&post.Document.FrontMatter) {
		return &MetaResult{Post: post}, nil
	}

	post.Sync()
	if err := s.postRepo.Save(ctx, post); err != nil {
		if errors.Is(err, frontmatter.ErrCommentsLost) {
			return nil, fmt.Errorf("%w (run fmt --force to rewrite %s without comments)", err, post.Header.Filename)
		}
		return nil, fmt.Errorf("failed to save post: %w", err)
	}
	return &MetaResult{Post: post, Changed: true}, nil
}

// rankCounts sorts counts descending, then by label; limit <= 0 keeps all
func rankCounts(counts map[string]int, limit int) []domain.Count {
	out := make([]domain.Count, 0, len(counts))
	for label, value := range counts {
		out = append(out, domain.Count{Label: label, Value: value})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Label < out[j].Label
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
