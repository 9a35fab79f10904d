package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/postkit/postkit/pkg/frontmatter"
)

// Ext is the file extension of a post
const Ext = ".md"

var (
	// ErrPostNotFound is returned when no file matches a slug
	ErrPostNotFound = errors.New("post not found")

	// ErrPostExists is returned when a slug or filename is already taken
	ErrPostExists = errors.New("post already exists")

	slugInvalidChars = regexp.MustCompile(`[^a-z0-9]+`)
	datePrefixRe     = regexp.MustCompile(`^(\d{8}|\d{4}-\d{2}-\d{2})-(.+)$`)
)

// PostHeader represents the lightweight metadata of a post
// Used for listing operations to avoid loading full content
type PostHeader struct {
	Title    string
	Date     time.Time
	Draft    bool
	Tags     []string
	Slug     string // e.g., "ownership-for-pythonistas"
	Filename string // e.g., "2026-02-02-ownership-for-pythonistas.md"

	// Problem is set when the front matter could not be read and the
	// header was derived from the filename instead
	Problem string
}

// PostBody is a full post: header plus the parsed document
type PostBody struct {
	Header   PostHeader
	Document *frontmatter.Document
}

// GenerateSlug creates a URL-friendly slug from a title
// Converts "Ownership for Pythonistas" -> "ownership-for-pythonistas"
func GenerateSlug(title string) string {
	slug := strings.ToLower(title)
	slug = slugInvalidChars.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// GenerateFilename creates a filename from slug, optionally prefixed with the date
// Format: YYYY-MM-DD-slug.md or slug.md
func GenerateFilename(slug string, datePrefix bool, date time.Time) string {
	if datePrefix && !date.IsZero() {
		return fmt.Sprintf("%s-%s%s", date.Format(frontmatter.DateLayout), slug, Ext)
	}
	return slug + Ext
}

// ParseFilename extracts slug from filename
// "2026-02-02-ownership.md" -> "ownership"
func ParseFilename(filename string) string {
	name := strings.TrimSuffix(filename, Ext)
	if matches := datePrefixRe.FindStringSubmatch(name); len(matches) == 3 {
		return matches[2]
	}
	return name
}

// RenameFile keeps the date prefix of filename and swaps in newSlug
func RenameFile(filename, newSlug string) string {
	name := strings.TrimSuffix(filename, Ext)
	if matches := datePrefixRe.FindStringSubmatch(name); len(matches) == 3 {
		return fmt.Sprintf("%s-%s%s", matches[1], newSlug, Ext)
	}
	return newSlug + Ext
}

// IsPostFile reports whether a directory entry name looks like a post
func IsPostFile(name string) bool {
	return strings.HasSuffix(name, Ext) && !strings.HasPrefix(name, ".")
}

// ValidateTitle checks if a title is valid
func ValidateTitle(title string) error {
	if err := frontmatter.ValidateTitle(title); err != nil {
		return fmt.Errorf("title %w", err)
	}

	if GenerateSlug(title) == "" {
		return fmt.Errorf("title must contain at least one letter or digit")
	}

	return nil
}

// NormalizeTags trims tags and drops empty and duplicate (case-insensitive) entries
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		key := strings.ToLower(tag)
		if tag == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, tag)
	}
	return out
}

// NewPostHeader creates a new post header
func NewPostHeader(title string, tags []string, date time.Time, draft, datePrefix bool) (*PostHeader, error) {
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	slug := GenerateSlug(title)

	return &PostHeader{
		Title:    title,
		Date:     date,
		Draft:    draft,
		Tags:     NormalizeTags(tags),
		Slug:     slug,
		Filename: GenerateFilename(slug, datePrefix, date),
	}, nil
}

// HeaderFromFrontMatter builds a header for a file from its parsed front matter
func HeaderFromFrontMatter(fm *frontmatter.FrontMatter, filename string) PostHeader {
	tags := fm.Tags
	if tags == nil {
		tags = []string{}
	}
	return PostHeader{
		Title:    fm.Title,
		Date:     fm.Date,
		Draft:    fm.Draft,
		Tags:     tags,
		Slug:     ParseFilename(filename),
		Filename: filename,
	}
}

// NewPostBody wraps a parsed document, deriving the header from it
func NewPostBody(doc *frontmatter.Document, filename string) *PostBody {
	return &PostBody{
		Header:   HeaderFromFrontMatter(&doc.FrontMatter, filename),
		Document: doc,
	}
}

// Content serializes the post in canonical form
func (p *PostBody) Content() []byte {
	return frontmatter.Format(p.Document)
}

// Render serializes the post for writing back to disk. Front matter
// comments stay where the author put them.
func (p *PostBody) Render() ([]byte, error) {
	return frontmatter.Update(p.Document)
}

// Sync copies the document's front matter back into the header
func (p *PostBody) Sync() {
	slug, filename := p.Header.Slug, p.Header.Filename
	p.Header = HeaderFromFrontMatter(&p.Document.FrontMatter, filename)
	p.Header.Slug = slug
}

// HasTag checks if the post has a specific tag
func (h *PostHeader) HasTag(tag string) bool {
	for _, t := range h.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// Status returns "draft", "published" or "invalid"
func (h *PostHeader) Status() string {
	switch {
	case h.Problem != "":
		return "invalid"
	case h.Draft:
		return "draft"
	default:
		return "published"
	}
}

// GetDisplayDate returns a human-readable date
func (h *PostHeader) GetDisplayDate(layout string) string {
	if h.Date.IsZero() {
		return "-"
	}
	if layout == "" {
		layout = "Jan 02, 2006"
	}
	return h.Date.Format(layout)
}

// GetTagsString returns tags as a comma-separated string
func (h *PostHeader) GetTagsString() string {
	if len(h.Tags) == 0 {
		return "-"
	}
	return strings.Join(h.Tags, ", ")
}
