package frontmatter

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoFrontMatter is returned when the first line is not the opening delimiter
	ErrNoFrontMatter = errors.New("missing opening front matter delimiter")

	// ErrUnclosed is returned when the closing delimiter is never found
	ErrUnclosed = errors.New("missing closing front matter delimiter")

	// ErrInvalidValue marks a key whose value has the wrong type or shape
	ErrInvalidValue = errors.New("invalid front matter value")

	// ErrMissingField marks a required key that is absent or empty
	ErrMissingField = errors.New("missing mandatory field")

	// ErrEmptyBody is returned in strict mode when nothing follows the front matter
	ErrEmptyBody = errors.New("empty body")

	// ErrCommentsLost is returned when an edit cannot keep the comments of a
	// front matter block in place
	ErrCommentsLost = errors.New("edit would drop front matter comments")
)

// ParseError represents a front matter parsing error
type ParseError struct {
	Line    int
	Field   string
	Message string
	Err     error
}

func (e ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s - %s", e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("%s - %s", e.Field, e.Message)
}

func (e ParseError) Unwrap() error {
	return e.Err
}

// Errors is the aggregate error returned when parsing collected problems
type Errors []ParseError

func (errs Errors) Error() string {
	switch len(errs) {
	case 0:
		return "no errors"
	case 1:
		return errs[0].Error()
	}

	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.Error()
	}
	return fmt.Sprintf("parsing failed with %d errors: %s", len(errs), strings.Join(parts, "; "))
}

// Unwrap lets errors.Is and errors.As see every collected error
func (errs Errors) Unwrap() []error {
	out := make([]error, len(errs))
	for i, e := range errs {
		out[i] = e
	}
	return out
}

// HasField reports whether any collected error concerns the given field
func (errs Errors) HasField(field string) bool {
	for _, e := range errs {
		if e.Field == field {
			return true
		}
	}
	return false
}
