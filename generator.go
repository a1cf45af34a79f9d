// Package sourcemap builds Source Map v3 files incrementally.
//
// A Generator accumulates mappings between positions in a generated text and
// positions in its original sources, and serializes them into the JSON
// format understood by browsers and other source map consumers:
//
//	g := sourcemap.New(sourcemap.Options{File: "out.js"})
//	err := g.AddMapping(sourcemap.Mapping{
//		Generated: &sourcemap.Position{Line: 1, Column: 0},
//		Original:  &sourcemap.Position{Line: 1, Column: 0},
//		Source:    "in.js",
//	})
//	...
//	b, err := g.Bytes()
//
// A Generator is not safe for concurrent use.
package sourcemap

import (
	"fmt"
	"io"

	"github.com/gopherjs/sourcemap/internal/arrayset"
	"github.com/gopherjs/sourcemap/internal/mappinglist"
	"github.com/gopherjs/sourcemap/urlutil"
)

// Version of the source map format produced by the package.
const Version = 3

// Options configure a Generator.
type Options struct {
	// File is the name of the generated file the map is associated with.
	File string
	// SourceRoot is prepended to the URLs in "sources" by consumers. Keys of
	// source contents are made relative to it.
	SourceRoot string
	// SkipValidation disables the checks AddMapping does on its input. This
	// can improve performance, but should be used as a last resort and never
	// in tests.
	SkipValidation bool
}

// Generator is a source map being built incrementally.
type Generator struct {
	opts     Options
	sources  arrayset.Set
	names    arrayset.Set
	mappings *mappinglist.List[record]
	// Source contents keyed by the sourceRoot-relative source name. Nil when
	// no content is set.
	contents map[string]string
}

// New creates an empty Generator.
func New(opts Options) *Generator {
	return &Generator{
		opts:     opts,
		mappings: mappinglist.New(infimum, compareRecords),
	}
}

// AddMapping adds a single mapping from an original source position to a
// generated position. Unless validation is skipped, the mapping is checked
// with Mapping.Validate first and a failed check leaves the Generator
// unchanged.
func (g *Generator) AddMapping(m Mapping) error {
	if m.Generated == nil {
		return ErrMissingGenerated
	}
	if !g.opts.SkipValidation {
		if err := m.Validate(); err != nil {
			return err
		}
	}

	if m.Source != "" {
		g.sources.Add(m.Source, false)
	}
	if m.Name != "" {
		g.names.Add(m.Name, false)
	}
	g.mappings.Add(newRecord(m))
	return nil
}

// contentKey returns the key source content of the file is stored under.
func (g *Generator) contentKey(file string) string {
	if g.opts.SourceRoot != "" {
		return urlutil.Relative(g.opts.SourceRoot, file)
	}
	return file
}

// SetSourceContent sets the full text of an original source file, to be
// embedded into the map.
func (g *Generator) SetSourceContent(file, content string) {
	if g.contents == nil {
		g.contents = map[string]string{}
	}
	g.contents[g.contentKey(file)] = content
}

// RemoveSourceContent forgets the content previously set for the file. Once no
// contents remain, "sourcesContent" is omitted from the map.
func (g *Generator) RemoveSourceContent(file string) {
	if g.contents == nil {
		return
	}
	delete(g.contents, g.contentKey(file))
	if len(g.contents) == 0 {
		g.contents = nil
	}
}

// ToJSON externalizes the source map. The Generator remains usable: further
// mappings may be added and the map produced again.
func (g *Generator) ToJSON() (*Map, error) {
	mappings, err := g.serializeMappings()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize mappings: %w", err)
	}

	m := &Map{
		Version:    Version,
		Sources:    g.sources.ToSlice(),
		Names:      g.names.ToSlice(),
		Mappings:   mappings,
		File:       g.opts.File,
		SourceRoot: g.opts.SourceRoot,
	}
	if g.contents != nil {
		m.SourcesContent = g.sourcesContent(m.Sources)
	}
	return m, nil
}

// sourcesContent lists the contents of the sources in the same order, with
// nil for sources without content.
func (g *Generator) sourcesContent(sources []string) []*string {
	result := make([]*string, len(sources))
	for i, source := range sources {
		if content, ok := g.contents[g.contentKey(source)]; ok {
			result[i] = &content
		}
	}
	return result
}

// Bytes returns the JSON encoding of the source map.
func (g *Generator) Bytes() ([]byte, error) {
	m, err := g.ToJSON()
	if err != nil {
		return nil, err
	}
	return m.MarshalJSON()
}

// String returns the JSON encoding of the source map.
//
// It panics if the internal state of the Generator got corrupted, which can
// only happen when validation is skipped and invalid mappings are added.
func (g *Generator) String() string {
	b, err := g.Bytes()
	if err != nil {
		panic(fmt.Errorf("sourcemap: %w", err))
	}
	return string(b)
}

// WriteTo writes the JSON encoding of the source map to w.
func (g *Generator) WriteTo(w io.Writer) (int64, error) {
	b, err := g.Bytes()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(b)
	return int64(n), err
}
