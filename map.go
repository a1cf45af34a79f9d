package sourcemap

import (
	"bytes"
	"encoding/json"
)

// Map is a Source Map v3 document as produced by a Generator.
type Map struct {
	Version    int
	Sources    []string
	Names      []string
	Mappings   string
	File       string
	SourceRoot string
	// SourcesContent is parallel to Sources, nil elements stand for sources
	// without content. The field is omitted from JSON when nil.
	SourcesContent []*string
}

// wireMap fixes the key order and the optional fields of the JSON encoding.
type wireMap struct {
	Version        int        `json:"version"`
	Sources        []string   `json:"sources"`
	Names          []string   `json:"names"`
	Mappings       string     `json:"mappings"`
	File           string     `json:"file,omitempty"`
	SourceRoot     string     `json:"sourceRoot,omitempty"`
	SourcesContent *[]*string `json:"sourcesContent,omitempty"`
}

// MarshalJSON encodes the map the same way JavaScript's JSON.stringify does:
// compact, with "<", ">" and "&" left as is.
func (m Map) MarshalJSON() ([]byte, error) {
	w := wireMap{
		Version:    m.Version,
		Sources:    m.Sources,
		Names:      m.Names,
		Mappings:   m.Mappings,
		File:       m.File,
		SourceRoot: m.SourceRoot,
	}
	if w.Sources == nil {
		w.Sources = []string{}
	}
	if w.Names == nil {
		w.Names = []string{}
	}
	if m.SourcesContent != nil {
		w.SourcesContent = &m.SourcesContent
	}

	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(w); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// UnmarshalJSON decodes a map encoded by MarshalJSON.
func (m *Map) UnmarshalJSON(b []byte) error {
	var w wireMap
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*m = Map{
		Version:    w.Version,
		Sources:    w.Sources,
		Names:      w.Names,
		Mappings:   w.Mappings,
		File:       w.File,
		SourceRoot: w.SourceRoot,
	}
	if w.SourcesContent != nil {
		m.SourcesContent = *w.SourcesContent
	}
	return nil
}
