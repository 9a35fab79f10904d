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
	"github.com/postkit/postkit/pkg/markdown"
)

// Severity of a check issue
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is a single problem found in a post file
type Issue struct {
	Filename string
	Line     int // 0 when the issue concerns the whole file
	Field    string
	Severity Severity
	Message  string
}

func (i Issue) String() string {
	location := i.Filename
	if i.Line > 0 {
		location = fmt.Sprintf("%s:%d", i.Filename, i.Line)
	}
	if i.Field != "" {
		return fmt.Sprintf("%s: %s: %s", location, i.Field, i.Message)
	}
	return fmt.Sprintf("%s: %s", location, i.Message)
}

// CheckService validates every post against the content rules
type CheckService struct {
	postRepo ports.Repository
	now      func() time.Time
}

// NewCheckService creates a new check service
func NewCheckService(postRepo ports.Repository) *CheckService {
	return &CheckService{
		postRepo: postRepo,
		now:      time.Now,
	}
}

// CheckRequest selects which optional rules apply
type CheckRequest struct {
	Slugs               []string // empty means every post
	RequireCodeLanguage bool     // warn on fenced code without a language
	RequireCanonical    bool     // report non-canonical formatting as an error
	StaleDrafts         bool     // warn on drafts dated in the past
}

// CheckResponse holds every issue found
type CheckResponse struct {
	Checked  int
	Issues   []Issue
	Errors   int
	Warnings int
}

// OK reports whether no errors were found; warnings do not fail a check
func (r *CheckResponse) OK() bool {
	return r.Errors == 0
}

// FilesWithErrors returns the distinct filenames carrying at least one error
func (r *CheckResponse) FilesWithErrors() []string {
	seen := map[string]bool{}
	var files []string
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError && !seen[issue.Filename] {
			seen[issue.Filename] = true
			files = append(files, issue.Filename)
		}
	}
	return files
}

// Execute checks the requested posts
func (s *CheckService) Execute(ctx context.Context, req CheckRequest) (*CheckResponse, error) {
	headers, err := s.postRepo.ListHeaders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	if len(req.Slugs) > 0 {
		headers = selectHeaders(headers, req.Slugs)
	}

	resp := &CheckResponse{}
	today := Today(s.now())
	titles := map[string][]string{}
	slugs := map[string][]string{}

	for _, header := range headers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, err := s.postRepo.ReadRaw(ctx, header.Filename)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", header.Filename, err)
		}

		resp.Checked++
		slugs[header.Slug] = append(slugs[header.Slug], header.Filename)

		issues, doc := s.checkFile(header.Filename, raw, req, today)
		resp.Issues = append(resp.Issues, issues...)

		if doc != nil && strings.TrimSpace(doc.FrontMatter.Title) != "" {
			key := strings.ToLower(strings.TrimSpace(doc.FrontMatter.Title))
			titles[key] = append(titles[key], header.Filename)
		}
	}

	resp.Issues = append(resp.Issues, duplicateIssues(slugs, SeverityError, "slug %q is shared with %s")...)
	resp.Issues = append(resp.Issues, duplicateIssues(titles, SeverityWarning, "title %q is also used by %s")...)

	sort.SliceStable(resp.Issues, func(i, j int) bool {
		a, b := resp.Issues[i], resp.Issues[j]
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		return a.Line < b.Line
	})

	for _, issue := range resp.Issues {
		if issue.Severity == SeverityError {
			resp.Errors++
		} else {
			resp.Warnings++
		}
	}

	return resp, nil
}

// CheckContent runs the per-file rules against content that is not stored yet
func (s *CheckService) CheckContent(filename string, content []byte, req CheckRequest) []Issue {
	issues, _ := s.checkFile(filename, content, req, Today(s.now()))
	return issues
}

func (s *CheckService) checkFile(filename string, raw []byte, req CheckRequest, today time.Time) ([]Issue, *frontmatter.Document) {
	var issues []Issue

	result, err := frontmatter.NewParser(true).Parse(string(raw))
	for _, w := range result.Warnings {
		issues = append(issues, Issue{Filename: filename, Severity: SeverityWarning, Message: w})
	}

	if err != nil {
		var errs frontmatter.Errors
		if !errors.As(err, &errs) {
			return append(issues, Issue{Filename: filename, Severity: SeverityError, Message: err.Error()}), nil
		}
		for _, e := range errs {
			issues = append(issues, Issue{
				Filename: filename,
				Line:     e.Line,
				Field:    e.Field,
				Severity: SeverityError,
				Message:  e.Message,
			})
		}
		return issues, result.Document
	}

	doc := result.Document
	fm := &doc.FrontMatter

	if !frontmatter.IsCanonical(raw) {
		severity := SeverityWarning
		if req.RequireCanonical {
			severity = SeverityError
		}
		message := "front matter is not in canonical form (run postkit fmt)"
		if doc.HasComments() {
			message = "front matter is not in canonical form (postkit fmt --force drops its comments)"
		}
		issues = append(issues, Issue{Filename: filename, Severity: severity, Message: message})
	}

	if fm.Draft && req.StaleDrafts && fm.Date.Before(today) {
		issues = append(issues, Issue{Filename: filename, Field: frontmatter.KeyDraft, Severity: SeverityWarning,
			Message: fmt.Sprintf("draft is dated %s, which is in the past", fm.Date.Format(frontmatter.DateLayout))})
	}

	if !fm.Draft && fm.Date.After(today) {
		issues = append(issues, Issue{Filename: filename, Field: frontmatter.KeyDate, Severity: SeverityWarning,
			Message: fmt.Sprintf("published post is dated in the future (%s)", fm.Date.Format(frontmatter.DateLayout))})
	}

	if req.RequireCodeLanguage {
		bodyStart := bodyStartLine(raw, doc.Body)
		analysis := markdown.Analyze([]byte(doc.Body))
		for _, block := range analysis.UnlabeledCodeBlocks() {
			issues = append(issues, Issue{
				Filename: filename,
				Line:     bodyStart + block.Line - 1,
				Field:    "body",
				Severity: SeverityWarning,
				Message:  "fenced code block has no language",
			})
		}
	}

	return issues, doc
}

// bodyStartLine returns the 1-based file line the body starts on
func bodyStartLine(raw []byte, body string) int {
	head := raw[:len(raw)-len(body)]
	return strings.Count(string(head), "\n") + 1
}

func duplicateIssues(groups map[string][]string, severity Severity, format string) []Issue {
	var issues []Issue
	for key, files := range groups {
		if len(files) < 2 {
			continue
		}
		for i, file := range files {
			others := make([]string, 0, len(files)-1)
			others = append(others, files[:i]...)
			others = append(others, files[i+1:]...)
			issues = append(issues, Issue{
				Filename: file,
				Severity: severity,
				Message:  fmt.Sprintf(format, key, strings.Join(others, ", ")),
			})
		}
	}
	return issues
}

func selectHeaders(headers []domain.PostHeader, keys []string) []domain.PostHeader {
	want := make(map[string]bool, len(keys))
	for _, k := range keys {
		want[k] = true
	}
	var out []domain.PostHeader
	for _, h := range headers {
		if want[h.Slug] || want[h.Filename] {
			out = append(out, h)
		}
	}
	return out
}
