// Package frontmatter reads and writes the TOML front matter block that opens
// every post:
//
//	+++
//	title = "Ownership for Pythonistas"
//	date = 2026-02-02
//	draft = true
//	+++
//
//	Markdown body...
//
// Everything after the closing delimiter line is kept verbatim as the body.
package frontmatter

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pelletier/go-toml/v2"
)

const (
	// Delimiter opens and closes the front matter block
	Delimiter = "+++"

	// DateLayout is the canonical date format
	DateLayout = "2006-01-02"

	// MaxTitleLength is the longest title accepted, in runes
	MaxTitleLength = 200

	bom = "\uFEFF"
)

// Well-known keys
const (
	KeyTitle = "title"
	KeyDate  = "date"
	KeyDraft = "draft"
	KeyTags  = "tags"
)

// DateKind records which TOML date form the source used so it can be written back
type DateKind int

const (
	DateLocal      DateKind = iota // 2026-02-02
	DateTimeLocal                  // 2026-02-02T10:30:00
	DateTimeOffset                 // 2026-02-02T10:30:00Z
)

// FrontMatter is the structured metadata of a post
type FrontMatter struct {
	Title    string
	Date     time.Time
	DateKind DateKind
	Draft    bool
	Tags     []string

	// Params holds every other top-level key as decoded by go-toml
	Params map[string]any

	// Keys is the top-level key order found in the source
	Keys []string
}

// Document is a parsed post: front matter plus the opaque body
type Document struct {
	FrontMatter FrontMatter
	Body        string

	// LineEnding is "\n" or "\r\n", taken from the opening delimiter line
	LineEnding string

	layout *layout
}

func (d *Document) lineEnding() string {
	if d.LineEnding == "" {
		return "\n"
	}
	return d.LineEnding
}

// ParseResult contains the parsing outcome with detailed error information
type ParseResult struct {
	Document *Document
	Errors   Errors
	Warnings []string
}

// Parser handles front matter extraction from Markdown files
type Parser struct {
	strict bool
}

// NewParser creates a new front matter parser.
// Strict parsing additionally requires a date and a non-empty body.
func NewParser(strict bool) *Parser {
	return &Parser{
		strict: strict,
	}
}

// Parse extracts the front matter and body from file content
func (p *Parser) Parse(content string) (*ParseResult, error) {
	return p.parse(content, p.strict)
}

func (p *Parser) parse(content string, requireBody bool) (*ParseResult, error) {
	result := &ParseResult{
		Errors:   Errors{},
		Warnings: []string{},
	}

	if strings.HasPrefix(content, bom) {
		content = strings.TrimPrefix(content, bom)
		result.Warnings = append(result.Warnings, "file starts with a byte order mark")
	}

	block, body, eol, closeLine, err := split(content)
	if err != nil {
		line := 1
		if errors.Is(err, ErrUnclosed) {
			line = 0
		}
		result.Errors = append(result.Errors, ParseError{Line: line, Field: "front matter", Message: err.Error(), Err: err})
		return result, result.Errors
	}

	raw := map[string]any{}
	if err := toml.Unmarshal([]byte(block), &raw); err != nil {
		result.Errors = append(result.Errors, decodeError(err))
		return result, result.Errors
	}

	lay := scanBlock(block, raw)
	keyLines := lay.keyLine
	fm := FrontMatter{
		Params: map[string]any{},
		Keys:   orderedKeys(keyLines),
	}

	for key, value := range raw {
		line := keyLines[key]
		switch key {
		case KeyTitle:
			title, ok := value.(string)
			if !ok {
				result.Errors = append(result.Errors, invalid(line, key, "must be a string, got %s", typeName(value)))
				continue
			}
			fm.Title = title

		case KeyDate:
			date, kind, warning, err := decodeDate(value)
			if err != nil {
				result.Errors = append(result.Errors, invalid(line, key, "%s", err.Error()))
				continue
			}
			fm.Date, fm.DateKind = date, kind
			if warning != "" {
				result.Warnings = append(result.Warnings, fmt.Sprintf("line %d: %s", line, warning))
			}

		case KeyDraft:
			draft, ok := value.(bool)
			if !ok {
				result.Errors = append(result.Errors, invalid(line, key, "must be a boolean, got %s", typeName(value)))
				continue
			}
			fm.Draft = draft

		case KeyTags:
			tags, err := decodeTags(value)
			if err != nil {
				result.Errors = append(result.Errors, invalid(line, key, "%s", err.Error()))
				continue
			}
			fm.Tags = tags

		default:
			fm.Params[key] = value
		}
	}

	result.Errors = append(result.Errors, validateFields(&fm, keyLines, p.strict, result.Errors)...)

	if requireBody && strings.TrimSpace(body) == "" {
		result.Errors = append(result.Errors, ParseError{Line: closeLine + 1, Field: "body", Message: "cannot be empty", Err: ErrEmptyBody})
	}

	sort.SliceStable(result.Errors, func(i, j int) bool {
		return result.Errors[i].Line < result.Errors[j].Line
	})

	lay.values = renderValues(&fm)
	result.Document = &Document{FrontMatter: fm, Body: body, LineEnding: eol, layout: lay}
	if len(result.Errors) > 0 {
		return result, result.Errors
	}
	return result, nil
}

// Parse is a convenience function for strict parsing
func Parse(src []byte) (*Document, error) {
	result, err := NewParser(true).Parse(string(src))
	if err != nil {
		return nil, err
	}
	return result.Document, nil
}

// ParseLenient only requires a title; a missing date or empty body is accepted
func ParseLenient(src []byte) (*Document, error) {
	result, err := NewParser(false).Parse(string(src))
	if err != nil {
		return nil, err
	}
	return result.Document, nil
}

// split separates the TOML block from the body.
// eol is the line ending of the opening delimiter line and closeLine is the
// 1-based line number of the closing delimiter.
func split(content string) (block, body, eol string, closeLine int, err error) {
	first, rest, found := strings.Cut(content, "\n")
	if !isDelimiter(first) {
		return "", "", "", 0, ErrNoFrontMatter
	}
	if !found {
		return "", "", "", 0, ErrUnclosed
	}

	eol = "\n"
	if strings.HasSuffix(first, "\r") {
		eol = "\r\n"
	}

	offset := len(first) + 1
	line := 1
	for {
		line++
		current, after, more := strings.Cut(rest, "\n")
		if isDelimiter(current) {
			block = content[len(first)+1 : offset]
			if more {
				body = after
			}
			return block, body, eol, line, nil
		}
		if !more {
			return "", "", "", 0, ErrUnclosed
		}
		offset += len(current) + 1
		rest = after
	}
}

func isDelimiter(line string) bool {
	return strings.TrimRight(line, " \t\r") == Delimiter
}

// keyPattern matches the start of a top-level key/value line, bare or quoted
var keyPattern = regexp.MustCompile(`^\s*([A-Za-z0-9_-]+|"[^"]*"|'[^']*')\s*[.=]`)

func orderedKeys(lines map[string]int) []string {
	keys := make([]string, 0, len(lines))
	for key := range lines {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if lines[keys[i]] != lines[keys[j]] {
			return lines[keys[i]] < lines[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}

func decodeDate(value any) (time.Time, DateKind, string, error) {
	switch v := value.(type) {
	case toml.LocalDate:
		return v.AsTime(time.UTC), DateLocal, "", nil
	case toml.LocalDateTime:
		return v.AsTime(time.UTC), DateTimeLocal, "", nil
	case time.Time:
		return v, DateTimeOffset, "", nil
	case string:
		t, err := time.Parse(DateLayout, strings.TrimSpace(v))
		if err != nil {
			return time.Time{}, 0, "", fmt.Errorf("%q is not a valid date (want YYYY-MM-DD)", v)
		}
		return t, DateLocal, "date is a quoted string; use a bare TOML date", nil
	default:
		return time.Time{}, 0, "", fmt.Errorf("must be a date, got %s", typeName(value))
	}
}

func decodeTags(value any) ([]string, error) {
	items, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("must be an array of strings, got %s", typeName(value))
	}

	tags := make([]string, 0, len(items))
	for _, item := range items {
		tag, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("must be an array of strings, found %s", typeName(item))
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func titleRules() []validation.Rule {
	return []validation.Rule{
		validation.Required.Error("cannot be empty"),
		validation.RuneLength(1, MaxTitleLength).Error(fmt.Sprintf("too long (max %d characters)", MaxTitleLength)),
	}
}

// ValidateTitle applies the title rules to a title, trimmed first as the parser does
func ValidateTitle(title string) error {
	return validation.Validate(strings.TrimSpace(title), titleRules()...)
}

// fieldRules is the validated view of the mandatory fields
type fieldRules struct {
	Title string    `json:"title"`
	Date  time.Time `json:"date"`
}

func validateFields(fm *FrontMatter, keyLines map[string]int, strict bool, existing Errors) Errors {
	fields := fieldRules{Title: strings.TrimSpace(fm.Title), Date: fm.Date}

	err := validation.ValidateStruct(&fields,
		validation.Field(&fields.Title, titleRules()...),
		validation.Field(&fields.Date,
			validation.When(strict, validation.Required.Error("missing mandatory field")),
		),
	)
	if err == nil {
		return nil
	}

	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return Errors{{Field: "front matter", Message: err.Error(), Err: err}}
	}

	var out Errors
	for field, ferr := range verrs {
		if existing.HasField(field) {
			continue
		}
		line, ok := keyLines[field]
		if !ok || line >= 1<<20 {
			line = 0
		}
		sentinel := ErrMissingField
		if field == KeyTitle && fields.Title != "" {
			sentinel = ErrInvalidValue
		}
		out = append(out, ParseError{Line: line, Field: field, Message: ferr.Error(), Err: sentinel})
	}
	return out
}

func decodeError(err error) ParseError {
	var de *toml.DecodeError
	if errors.As(err, &de) {
		row, _ := de.Position()
		field := "toml"
		if key := de.Key(); len(key) > 0 {
			field = key[0]
		}
		return ParseError{Line: row + 1, Field: field, Message: de.Error(), Err: ErrInvalidValue}
	}
	return ParseError{Field: "toml", Message: err.Error(), Err: ErrInvalidValue}
}

func invalid(line int, field, format string, args ...any) ParseError {
	return ParseError{Line: line, Field: field, Message: fmt.Sprintf(format, args...), Err: ErrInvalidValue}
}

func typeName(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case int64, int:
		return "integer"
	case float64:
		return "float"
	case []any:
		return "array"
	case map[string]any:
		return "table"
	case toml.LocalDate, toml.LocalDateTime, time.Time:
		return "date"
	case toml.LocalTime:
		return "time"
	default:
		return fmt.Sprintf("%T", v)
	}
}
