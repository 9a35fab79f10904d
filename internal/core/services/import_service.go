package services

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/adrg/frontmatter"

	"github.com/postkit/postkit/internal/core/domain"
	"github.com/postkit/postkit/internal/logging"
)

// importDateLayouts are tried in order for dates given as strings
var importDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"02 Jan 2006",
}

// ImportService converts Markdown files from other generators into posts.
// The source front matter may be YAML (---), TOML (+++) or JSON ({ }).
type ImportService struct {
	create *CreatePostService
	log    logging.Logger
}

// NewImportService creates a new import service
func NewImportService(create *CreatePostService) *ImportService {
	return &ImportService{
		create: create,
		log:    logging.Get("import"),
	}
}

// ImportRequest describes a file to import
type ImportRequest struct {
	Path       string
	Title      string // overrides the source title
	Draft      *bool  // overrides the source draft flag
	DatePrefix bool
}

// ImportResponse reports the created post and the keys that could not be kept
type ImportResponse struct {
	Post     *domain.PostBody
	Filename string
	Dropped  []string
}

// Execute reads the source file and writes it as a new post
func (s *ImportService) Execute(ctx context.Context, req ImportRequest) (*ImportResponse, error) {
	data, err := os.ReadFile(req.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", req.Path, err)
	}

	createReq, dropped, err := ConvertImport(data, filepath.Base(req.Path))
	if err != nil {
		return nil, fmt.Errorf("failed to import %s: %w", req.Path, err)
	}

	if title := strings.TrimSpace(req.Title); title != "" {
		createReq.Title = title
	}
	if req.Draft != nil {
		createReq.Draft = *req.Draft
	}
	createReq.DatePrefix = req.DatePrefix

	resp, err := s.create.Execute(ctx, createReq)
	if err != nil {
		return nil, err
	}

	s.log.Debug("imported post", "source", req.Path, "file", resp.Filename, "dropped", dropped)

	return &ImportResponse{
		Post:     resp.Post,
		Filename: resp.Filename,
		Dropped:  dropped,
	}, nil
}

// ConvertImport decodes foreign front matter into a create request.
// Keys whose values cannot be expressed in TOML are returned as dropped.
func ConvertImport(data []byte, filename string) (CreatePostRequest, []string, error) {
	var req CreatePostRequest
	meta := map[string]any{}

	rest, err := frontmatter.Parse(bytes.NewReader(data), &meta)
	if err != nil {
		return req, nil, fmt.Errorf("invalid front matter: %w", err)
	}

	// 1. Title, falling back to the filename
	if title, ok := meta["title"].(string); ok {
		req.Title = strings.TrimSpace(title)
	}
	if req.Title == "" {
		req.Title = titleFromFilename(filename)
	}
	delete(meta, "title")

	// 2. Date
	if raw, ok := meta["date"]; ok {
		date, err := importDate(raw)
		if err != nil {
			return req, nil, err
		}
		req.Date = Today(date)
		delete(meta, "date")
	}

	// 3. Draft
	if raw, ok := meta["draft"]; ok {
		draft, err := importBool(raw)
		if err != nil {
			return req, nil, fmt.Errorf("draft: %w", err)
		}
		req.Draft = draft
		delete(meta, "draft")
	}

	// 4. Tags
	if raw, ok := meta["tags"]; ok {
		req.Tags = importStrings(raw)
		delete(meta, "tags")
	}

	// 5. Everything else becomes a param
	var dropped []string
	req.Params = map[string]any{}
	for key, value := range meta {
		converted, ok := normalizeValue(value)
		if !ok {
			dropped = append(dropped, key)
			continue
		}
		req.Params[key] = converted
	}
	sort.Strings(dropped)

	req.Body = string(rest)
	if req.Body != "" && !strings.HasPrefix(req.Body, "\n") {
		req.Body = "\n" + req.Body
	}

	return req, dropped, nil
}

func titleFromFilename(filename string) string {
	slug := domain.ParseFilename(filename)
	words := strings.FieldsFunc(slug, func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

func importDate(raw any) (time.Time, error) {
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range importDateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("date: unrecognized format %q", v)
	default:
		return time.Time{}, fmt.Errorf("date: expected a date, got %T", raw)
	}
}

func importBool(raw any) (bool, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		return strconv.ParseBool(strings.TrimSpace(v))
	default:
		return false, fmt.Errorf("expected a boolean, got %T", raw)
	}
}

// importStrings accepts a list or a comma separated string
func importStrings(raw any) []string {
	var out []string
	switch v := raw.(type) {
	case string:
		out = strings.Split(v, ",")
	case []string:
		out = v
	case []any:
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
	}
	return domain.NormalizeTags(out)
}

// normalizeValue maps decoded YAML, TOML and JSON values onto what the
// TOML writer emits
func normalizeValue(value any) (any, bool) {
	switch v := value.(type) {
	case nil:
		return nil, false
	case string, bool, int64, time.Time:
		return v, true
	case int:
		return int64(v), true
	case uint64:
		if v > math.MaxInt64 {
			return nil, false
		}
		return int64(v), true
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
			return int64(v), true
		}
		return v, true
	case []any:
		out := make([]any, 0, len(v))
		for _, item := range v {
			converted, ok := normalizeValue(item)
			if !ok {
				return nil, false
			}
			out = append(out, converted)
		}
		return out, true
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			converted, ok := normalizeValue(item)
			if !ok {
				return nil, false
			}
			out[key] = converted
		}
		return out, true
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			converted, ok := normalizeValue(item)
			if !ok {
				return nil, false
			}
			out[fmt.Sprint(key)] = converted
		}
		return out, true
	default:
		return nil, false
	}
}
