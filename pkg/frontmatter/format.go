package frontmatter

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Format serializes a document back to file content in canonical form
func Format(doc *Document) []byte {
	var b strings.Builder
	b.WriteString(formatBlock(&doc.FrontMatter, doc.lineEnding()))
	b.WriteString(doc.Body)
	return []byte(b.String())
}

// FormatFrontMatter generates the delimited TOML block, closing delimiter included.
// Keys are written in source order; keys set programmatically are appended
// after them as title, date, draft, tags, then the remaining params sorted.
func FormatFrontMatter(fm *FrontMatter) string {
	return formatBlock(fm, "\n")
}

// blockWriter writes lines with a fixed line ending
type blockWriter struct {
	strings.Builder
	eol string
}

func formatBlock(fm *FrontMatter, eol string) string {
	b := &blockWriter{eol: eol}
	b.line(Delimiter)

	var tables []string
	for _, key := range fm.emitOrder() {
		switch key {
		case KeyTitle:
			b.keyValue(key, quote(fm.Title))
		case KeyDate:
			if !fm.Date.IsZero() {
				b.keyValue(key, fm.FormatDate())
			}
		case KeyDraft:
			b.keyValue(key, strconv.FormatBool(fm.Draft))
		case KeyTags:
			if fm.Tags != nil {
				b.keyValue(key, formatStrings(fm.Tags))
			}
		default:
			value, ok := fm.Params[key]
			if !ok {
				continue
			}
			if isTable(value) {
				tables = append(tables, key)
				continue
			}
			b.keyValue(key, formatValue(value))
		}
	}

	for _, key := range tables {
		b.table([]string{key}, fm.Params[key])
	}

	b.line(Delimiter)
	return b.String()
}

// FormatDate renders the date in the TOML form the source used
func (fm *FrontMatter) FormatDate() string {
	switch fm.DateKind {
	case DateTimeLocal:
		return fm.Date.Format("2006-01-02T15:04:05.999999999")
	case DateTimeOffset:
		return fm.Date.Format(time.RFC3339Nano)
	default:
		return fm.Date.Format(DateLayout)
	}
}

// SetParam sets an extra key, remembering it for output order
func (fm *FrontMatter) SetParam(key string, value any) {
	if fm.Params == nil {
		fm.Params = map[string]any{}
	}
	fm.Params[key] = value
	fm.touch(key)
}

// DeleteParam removes an extra key
func (fm *FrontMatter) DeleteParam(key string) {
	delete(fm.Params, key)
	for i, k := range fm.Keys {
		if k == key {
			fm.Keys = append(fm.Keys[:i], fm.Keys[i+1:]...)
			return
		}
	}
}

// SetDraft sets the draft flag, making sure the key gets written
func (fm *FrontMatter) SetDraft(draft bool) {
	fm.Draft = draft
	fm.touch(KeyDraft)
}

// SetTags replaces the tag list, making sure the key gets written
func (fm *FrontMatter) SetTags(tags []string) {
	if tags == nil {
		tags = []string{}
	}
	fm.Tags = tags
	fm.touch(KeyTags)
}

// touch records a key set after parsing. Documents built in code have no
// source order and keep the default order instead.
func (fm *FrontMatter) touch(key string) {
	if len(fm.Keys) == 0 {
		return
	}
	for _, k := range fm.Keys {
		if k == key {
			return
		}
	}
	fm.Keys = append(fm.Keys, key)
}

func (fm *FrontMatter) emitOrder() []string {
	seen := make(map[string]bool, len(fm.Keys)+4)
	order := make([]string, 0, len(fm.Keys)+4)
	add := func(key string) {
		if !seen[key] {
			seen[key] = true
			order = append(order, key)
		}
	}

	for _, key := range fm.Keys {
		add(key)
	}

	add(KeyTitle)
	if !fm.Date.IsZero() {
		add(KeyDate)
	}
	if fm.Draft {
		add(KeyDraft)
	}
	if len(fm.Tags) > 0 {
		add(KeyTags)
	}

	rest := make([]string, 0, len(fm.Params))
	for key := range fm.Params {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		add(key)
	}
	return order
}

var bareKey = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func formatKey(key string) string {
	if bareKey.MatchString(key) {
		return key
	}
	return quote(key)
}

func (b *blockWriter) line(s string) {
	b.WriteString(s)
	b.WriteString(b.eol)
}

func (b *blockWriter) keyValue(key, value string) {
	b.line(formatKey(key) + " = " + value)
}

func (b *blockWriter) table(path []string, value any) {
	header := make([]string, len(path))
	for i, p := range path {
		header[i] = formatKey(p)
	}
	name := strings.Join(header, ".")

	switch v := value.(type) {
	case map[string]any:
		b.line("[" + name + "]")
		b.tableBody(path, v)
	case []any:
		for _, item := range v {
			b.line("[[" + name + "]]")
			b.tableBody(path, item.(map[string]any))
		}
	}
}

func (b *blockWriter) tableBody(path []string, table map[string]any) {
	keys := make([]string, 0, len(table))
	for key := range table {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var nested []string
	for _, key := range keys {
		if isTable(table[key]) {
			nested = append(nested, key)
			continue
		}
		b.keyValue(key, formatValue(table[key]))
	}
	for _, key := range nested {
		child := append(append([]string{}, path...), key)
		b.table(child, table[key])
	}
}

// isTable reports whether a value is written as a [table] or [[array of tables]]
func isTable(value any) bool {
	switch v := value.(type) {
	case map[string]any:
		return true
	case []any:
		if len(v) == 0 {
			return false
		}
		for _, item := range v {
			if _, ok := item.(map[string]any); !ok {
				return false
			}
		}
		return true
	}
	return false
}

func formatValue(value any) string {
	switch v := value.(type) {
	case string:
		return quote(v)
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		return formatFloat(v)
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case toml.LocalDate:
		return v.String()
	case toml.LocalDateTime:
		return v.String()
	case toml.LocalTime:
		return v.String()
	case []string:
		return formatStrings(v)
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = formatValue(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, key := range keys {
			parts[i] = formatKey(key) + " = " + formatValue(v[key])
		}
		if len(parts) == 0 {
			return "{}"
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	default:
		return quote(fmt.Sprint(v))
	}
}

func formatStrings(items []string) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = quote(item)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}

// quote writes a TOML basic string
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\t':
			b.WriteString(`\t`)
		case '\n':
			b.WriteString(`\n`)
		case '\f':
			b.WriteString(`\f`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u%04X`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// IsCanonical reports whether re-serializing the content yields identical bytes
func IsCanonical(content []byte) bool {
	result, err := NewParser(false).parse(string(content), false)
	if err != nil {
		return false
	}
	return string(Format(result.Document)) == string(content)
}
