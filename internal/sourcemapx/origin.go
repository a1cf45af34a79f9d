package sourcemapx

import (
	"github.com/gopherjs/sourcemap"
)

// Unmapped marks a generated position that doesn't correspond to anything in
// the original sources.
type Unmapped struct{}

// EncodeHint returns the hint as a string to be inserted into the output.
func (Unmapped) EncodeHint() string {
	return encodeHint(Unmapped{})
}

// Origin is a position in an original source file. Line is 1-based, Column is
// 0-based.
type Origin struct {
	Source string
	Line   int
	Column int
	Name   string // Original identifier name, optional.
}

// EncodeHint returns the hint as a string to be inserted into the output.
func (o Origin) EncodeHint() string {
	return encodeHint(o)
}

// Mapping builds the source map input mapping the generated position to the
// origin. A nil origin produces a generated-only mapping.
func (o *Origin) Mapping(generatedLine, generatedColumn int) sourcemap.Mapping {
	m := sourcemap.Mapping{
		Generated: &sourcemap.Position{Line: generatedLine, Column: generatedColumn},
	}
	if o != nil {
		m.Original = &sourcemap.Position{Line: o.Line, Column: o.Column}
		m.Source = o.Source
		m.Name = o.Name
	}
	return m
}

// Token is a piece of generated text associated with its origin.
type Token struct {
	Text   string
	Origin Origin
}

// String returns the generated text.
func (t Token) String() string {
	return t.Text
}

// EncodeHint returns the hint for the token's origin. The hint is meant to be
// written right before the text.
func (t Token) EncodeHint() string {
	return t.Origin.EncodeHint()
}
