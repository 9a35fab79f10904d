package markdown

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultStyle is the chroma style used when none is configured
const DefaultStyle = "monokai"

// Highlight applies terminal syntax highlighting to source in the given
// language ("markdown" for a whole post). On any failure the input is
// returned unchanged.
func Highlight(source, language, style string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(source)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	if style == "" {
		style = DefaultStyle
	}
	chromaStyle := styles.Get(style)
	if chromaStyle == nil {
		chromaStyle = styles.Fallback
	}

	formatter := formatters.TTY16m

	var buf strings.Builder
	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return source
	}

	if err := formatter.Format(&buf, chromaStyle, iterator); err != nil {
		return source
	}

	return buf.String()
}

// HasLexer reports whether chroma knows the given language
func HasLexer(language string) bool {
	return language != "" && lexers.Get(language) != nil
}
