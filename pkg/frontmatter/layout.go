package frontmatter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// span is the line range [start, end) a top-level key occupies in the block
type span struct {
	start, end int

	// comment is a trailing comment on a single-line value, leading blanks included
	comment string

	// commented is set when a comment sits inside a multi-line value
	commented bool
}

// layout is the line structure of a parsed block, kept so an edit can
// rewrite single keys and leave everything else as the author wrote it
type layout struct {
	rows     []string // block lines without line endings
	spans    map[string]span
	keyLine  map[string]int // 1-based file line of each decoded key
	tables   int            // row of the first table header, len(rows) when none
	comments bool
	values   map[string]string // rendered value of each key when parsed
}

// valueLexer follows TOML values across lines: open brackets, braces and
// multi-line strings
type valueLexer struct {
	depth     int
	multiline string
}

func (x *valueLexer) open() bool {
	return x.depth > 0 || x.multiline != ""
}

// scan consumes one line and returns the byte offset of a comment, or -1
func (x *valueLexer) scan(line string) int {
	i := 0
	for i < len(line) {
		if x.multiline != "" {
			end := strings.Index(line[i:], x.multiline)
			if end < 0 {
				return -1
			}
			i += end + len(x.multiline)
			x.multiline = ""
			continue
		}

		switch c := line[i]; c {
		case '#':
			return i
		case '"', '\'':
			triple := strings.Repeat(string(c), 3)
			if strings.HasPrefix(line[i:], triple) {
				x.multiline = triple
				i += 3
				continue
			}
			i = skipString(line, i)
			continue
		case '[', '{':
			x.depth++
		case ']', '}':
			if x.depth > 0 {
				x.depth--
			}
		}
		i++
	}
	return -1
}

// skipString returns the offset just past the single-line string opening at i
func skipString(line string, i int) int {
	q := line[i]
	for j := i + 1; j < len(line); j++ {
		switch line[j] {
		case '\\':
			if q == '"' {
				j++
			}
		case q:
			return j + 1
		}
	}
	return len(line)
}

// scanBlock maps every decoded top-level key to the lines it occupies.
// The block starts on line 2 of the file.
func scanBlock(block string, decoded map[string]any) *layout {
	var rows []string
	if block != "" {
		rows = strings.Split(strings.TrimSuffix(block, "\n"), "\n")
	}
	for i := range rows {
		rows[i] = strings.TrimSuffix(rows[i], "\r")
	}

	l := &layout{
		rows:    rows,
		spans:   map[string]span{},
		keyLine: map[string]int{},
		tables:  len(rows),
	}

	var lex valueLexer
	open := "" // key whose value continues on the next line
	inTable := false

	for i, row := range rows {
		if lex.open() {
			at := lex.scan(row)
			if at >= 0 {
				l.comments = true
			}
			if open != "" {
				sp := l.spans[open]
				sp.end = i + 1
				sp.commented = sp.commented || at >= 0
				l.spans[open] = sp
			}
			if !lex.open() {
				open = ""
			}
			continue
		}

		trimmed := strings.TrimSpace(row)
		switch {
		case trimmed == "":
			continue
		case strings.HasPrefix(trimmed, "#"):
			l.comments = true
			continue
		case strings.HasPrefix(trimmed, "["):
			if !inTable {
				inTable = true
				l.tables = i
			}
			head := row
			if at := lex.scan(row); at >= 0 {
				l.comments = true
				head = row[:at]
			}
			lex.depth = 0
			name := strings.Trim(strings.TrimSpace(head), "[] \t")
			name, _, _ = strings.Cut(name, ".")
			name = strings.Trim(strings.TrimSpace(name), `"'`)
			if _, ok := decoded[name]; ok {
				if _, seen := l.keyLine[name]; !seen {
					l.keyLine[name] = i + 2
				}
			}
			continue
		}

		m := keyPattern.FindStringSubmatchIndex(row)
		if m == nil {
			lex.scan(row)
			continue
		}
		at := lex.scan(row[m[1]:])
		if at >= 0 {
			at += m[1]
			l.comments = true
		}
		if inTable {
			continue
		}

		key := strings.Trim(row[m[2]:m[3]], `"'`)
		value, ok := decoded[key]
		if !ok {
			continue
		}
		if _, seen := l.keyLine[key]; seen {
			continue
		}
		l.keyLine[key] = i + 2
		if isTable(value) {
			continue
		}

		sp := span{start: i, end: i + 1}
		switch {
		case lex.open():
			sp.commented = at >= 0
			open = key
		case at >= 0:
			j := at
			for j > 0 && (row[j-1] == ' ' || row[j-1] == '\t') {
				j--
			}
			sp.comment = row[j:]
		}
		l.spans[key] = sp
	}

	// Keys the scanner could not place keep a stable, late position
	for key := range decoded {
		if _, ok := l.keyLine[key]; !ok {
			l.keyLine[key] = 1 << 20
		}
	}
	return l
}

// renderValue is the value text a key is written with, and whether it is written at all
func renderValue(fm *FrontMatter, key string) (string, bool) {
	switch key {
	case KeyTitle:
		return quote(fm.Title), true
	case KeyDate:
		if fm.Date.IsZero() {
			return "", false
		}
		return fm.FormatDate(), true
	case KeyDraft:
		return strconv.FormatBool(fm.Draft), true
	case KeyTags:
		if fm.Tags == nil {
			return "", false
		}
		return formatStrings(fm.Tags), true
	default:
		value, ok := fm.Params[key]
		if !ok {
			return "", false
		}
		return formatValue(value), true
	}
}

func renderValues(fm *FrontMatter) map[string]string {
	values := make(map[string]string, len(fm.Keys))
	for _, key := range fm.Keys {
		if value, ok := renderValue(fm, key); ok {
			values[key] = value
		}
	}
	return values
}

// HasComments reports whether the source front matter carries comments
func (d *Document) HasComments() bool {
	return d.layout != nil && d.layout.comments
}

// DropLayout forgets the source layout so the next Update writes canonical form
func (d *Document) DropLayout() {
	d.layout = nil
}

// Update serializes a document for writing back to its file. When the
// source block carries comments only the keys whose values changed are
// rewritten and every other line stays as it was. Otherwise the output is
// canonical, as Format produces it.
func Update(doc *Document) ([]byte, error) {
	l := doc.layout
	if l == nil || !l.comments {
		return Format(doc), nil
	}
	fm := &doc.FrontMatter

	keys := fm.emitOrder()
	listed := make(map[string]bool, len(keys))
	for _, key := range keys {
		listed[key] = true
	}
	var dropped []string
	for key := range l.values {
		if !listed[key] {
			dropped = append(dropped, key)
		}
	}
	sort.Strings(dropped)
	keys = append(keys, dropped...)

	type edit struct {
		end  int
		line string
		drop bool
	}
	edits := map[int]edit{}
	var inserts []string

	for _, key := range keys {
		value, present := renderValue(fm, key)
		old, had := l.values[key]
		if present == had && value == old {
			continue
		}

		sp, placed := l.spans[key]
		switch {
		case had && !placed, placed && sp.commented:
			return nil, fmt.Errorf("%w: %s", ErrCommentsLost, key)
		case placed:
			line := ""
			if present {
				line = formatKey(key) + " = " + value + sp.comment
			}
			edits[sp.start] = edit{end: sp.end, line: line, drop: !present}
		default:
			inserts = append(inserts, formatKey(key)+" = "+value)
		}
	}

	// New keys go after the last top-level key, ahead of any table
	insertAt := l.tables
	if len(l.spans) > 0 {
		insertAt = 0
		for _, sp := range l.spans {
			if sp.end > insertAt {
				insertAt = sp.end
			}
		}
	}

	eol := doc.lineEnding()
	var b strings.Builder
	write := func(s string) {
		b.WriteString(s)
		b.WriteString(eol)
	}

	write(Delimiter)
	for i := 0; i <= len(l.rows); i++ {
		if i == insertAt {
			for _, line := range inserts {
				write(line)
			}
		}
		if i == len(l.rows) {
			break
		}
		if e, ok := edits[i]; ok {
			if !e.drop {
				write(e.line)
			}
			i = e.end - 1
			continue
		}
		write(l.rows[i])
	}
	write(Delimiter)
	b.WriteString(doc.Body)
	return []byte(b.String()), nil
}
