package frontmatter

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// maxHeaderBytes bounds how far ParseHeader reads looking for the closing delimiter
const maxHeaderBytes = 64 * 1024

// ParseHeader reads only the front matter block from r, stopping at the
// closing delimiter, so listing a directory never loads whole bodies.
func ParseHeader(r io.Reader) (*FrontMatter, error) {
	reader := bufio.NewReader(io.LimitReader(r, maxHeaderBytes))

	var b strings.Builder
	lineNum := 0
	for {
		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			lineNum++
			b.WriteString(line)

			if lineNum == 1 && !isDelimiter(strings.TrimPrefix(strings.TrimSuffix(line, "\n"), bom)) {
				return nil, ParseError{Line: 1, Field: "front matter", Message: ErrNoFrontMatter.Error(), Err: ErrNoFrontMatter}
			}
			if lineNum > 1 && isDelimiter(strings.TrimSuffix(line, "\n")) {
				break
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read front matter: %w", err)
		}
	}

	result, err := NewParser(false).parse(b.String(), false)
	if err != nil {
		return nil, err
	}
	return &result.Document.FrontMatter, nil
}
