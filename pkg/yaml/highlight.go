package yaml

import (
	"fmt"
	"io"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

const (
	DefaultStyle     = "catppuccin-mocha"
	DefaultFormatter = "terminal256"
)

// Highlighter writes syntax highlighted YAML or JSON for terminals.
type Highlighter struct {
	style     *chroma.Style
	formatter chroma.Formatter
}

// HighlighterOpt configures a [Highlighter].
type HighlighterOpt func(*Highlighter)

// WithStyle sets the chroma style by name. Unknown names use the fallback
// style.
func WithStyle(name string) HighlighterOpt {
	return func(h *Highlighter) {
		h.style = styles.Get(name)
	}
}

// WithFormatter sets the chroma formatter by name, e.g. "terminal16m" for
// true color terminals. Unknown names use the fallback formatter.
func WithFormatter(name string) HighlighterOpt {
	return func(h *Highlighter) {
		h.formatter = formatters.Get(name)
	}
}

func NewHighlighter(opts ...HighlighterOpt) *Highlighter {
	h := &Highlighter{
		style:     styles.Get(DefaultStyle),
		formatter: formatters.Get(DefaultFormatter),
	}
	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Highlight writes src to w, highlighted with the lexer for language
// ("yaml" or "json").
func (h *Highlighter) Highlight(w io.Writer, language string, src []byte) error {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}

	it, err := chroma.Coalesce(lexer).Tokenise(nil, string(src))
	if err != nil {
		return fmt.Errorf("tokenise %s: %w", language, err)
	}

	err = h.formatter.Format(w, h.style, it)
	if err != nil {
		return fmt.Errorf("format %s: %w", language, err)
	}

	return nil
}
