// Package tokenize produces identity source maps: every token of a text is
// mapped to its own position, which makes it easy to demonstrate and test
// source map consumers.
//
// A text is split into runs of whitespace, words ([$_\w]+) and single other
// characters, one line at a time. Comments count as whitespace. Whitespace at
// the beginning of a line gets no mapping.
package tokenize

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/gopherjs/sourcemap"
	"github.com/gopherjs/sourcemap/internal/sourcemapx"
)

var definition = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "BlockComment", Pattern: `/\*[\s\S]*?\*/`},
	{Name: "LineComment", Pattern: `//[^\n]*`},
	{Name: "Newline", Pattern: `\n`},
	{Name: "Whitespace", Pattern: `[^\S\n]+`},
	{Name: "Word", Pattern: `[$_\w]+`},
	{Name: "Punct", Pattern: `.`},
})

var (
	newlineType = definition.Symbols()["Newline"]
	wordType    = definition.Symbols()["Word"]
	blankTypes  = map[lexer.TokenType]bool{
		definition.Symbols()["BlockComment"]: true,
		definition.Symbols()["LineComment"]:  true,
		definition.Symbols()["Whitespace"]:   true,
	}
)

// Options controls how tokens are mapped.
type Options struct {
	// Names maps every word to a name equal to its text.
	Names bool
}

// Tokens splits the text and returns the tokens that get a mapping, with
// origins pointing at themselves in source. Lines are 1-based, columns are
// 0-based byte offsets.
func Tokens(source, text string, opts Options) ([]sourcemapx.Token, error) {
	lex, err := definition.LexString(source, text)
	if err != nil {
		return nil, fmt.Errorf("failed to start lexing %s: %w", source, err)
	}
	all, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, fmt.Errorf("failed to tokenize %s: %w", source, err)
	}

	starts := lineStarts(text)
	position := func(offset int) (line, column int) {
		line = sort.Search(len(starts), func(i int) bool { return starts[i] > offset })
		return line, offset - starts[line-1]
	}

	result := []sourcemapx.Token{}
	// Line the last blank token ended on, if the previous token was blank.
	prevBlankEnd := 0
	for _, tok := range all {
		if tok.EOF() || tok.Type == newlineType {
			prevBlankEnd = 0
			continue
		}
		line, column := position(tok.Pos.Offset)

		if blankTypes[tok.Type] {
			// Consecutive blanks form a single whitespace run.
			mapped := column != 0 && prevBlankEnd != line
			prevBlankEnd, _ = position(tok.Pos.Offset + len(tok.Value))
			if !mapped {
				continue
			}
		} else {
			prevBlankEnd = 0
		}

		origin := sourcemapx.Origin{Source: source, Line: line, Column: column}
		if opts.Names && tok.Type == wordType {
			origin.Name = tok.Value
		}
		result = append(result, sourcemapx.Token{Text: tok.Value, Origin: origin})
	}
	return result, nil
}

// lineStarts returns the byte offsets of the beginnings of lines in text.
func lineStarts(text string) []int {
	starts := []int{0}
	for i, c := range []byte(text) {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// ErrHintMagic is returned by Annotate for text containing the hint magic
// byte, which a sourcemapx.Filter would take for the start of a hint.
var ErrHintMagic = errors.New("text contains the source map hint magic byte")

// Annotate copies text to w, writing a source map hint in front of every
// token that gets a mapping. Pass a sourcemapx.Filter to turn the hints into
// mappings and restore the original text.
func Annotate(w io.Writer, source, text string, opts Options) error {
	if i := strings.IndexByte(text, sourcemapx.HintMagic); i != -1 {
		return fmt.Errorf("%w at offset %d of %s", ErrHintMagic, i, source)
	}
	tokens, err := Tokens(source, text, opts)
	if err != nil {
		return err
	}

	offset := 0
	starts := lineStarts(text)
	for _, tok := range tokens {
		start := starts[tok.Origin.Line-1] + tok.Origin.Column
		hinted := text[offset:start] + tok.EncodeHint() + tok.String()
		if _, err := io.WriteString(w, hinted); err != nil {
			return err
		}
		offset = start + len(tok.Text)
	}
	_, err = io.WriteString(w, text[offset:])
	return err
}

// Identity adds the identity mappings of text to g and embeds the text as the
// content of source. Any text is accepted, including text Annotate rejects.
func Identity(g *sourcemap.Generator, source, text string, opts Options) error {
	tokens, err := Tokens(source, text, opts)
	if err != nil {
		return fmt.Errorf("failed to map %s: %w", source, err)
	}
	for _, tok := range tokens {
		origin := tok.Origin
		if err := g.AddMapping(origin.Mapping(origin.Line, origin.Column)); err != nil {
			return fmt.Errorf("failed to map %s: %w", source, err)
		}
	}
	g.SetSourceContent(source, text)
	return nil
}
