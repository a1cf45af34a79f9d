package testingx

import (
	"bytes"
	"testing"

	"github.com/neelance/sourcemap"
)

// Decoded is a mapping as seen by an independent source map consumer. Lines
// are 1-based and columns are 0-based.
type Decoded struct {
	GeneratedLine   int
	GeneratedColumn int
	Source          string
	OriginalLine    int
	OriginalColumn  int
	Name            string
}

// DecodeMap parses a JSON-encoded source map and expands its "mappings"
// field. It fails the test if the map can't be parsed.
func DecodeMap(t testing.TB, b []byte) (*sourcemap.Map, []Decoded) {
	t.Helper()

	m, err := sourcemap.ReadFrom(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("Got: error reading source map %q: %s. Want: no error.", b, err)
	}

	result := []Decoded{}
	for _, d := range m.DecodedMappings() {
		result = append(result, Decoded{
			GeneratedLine:   d.GeneratedLine,
			GeneratedColumn: d.GeneratedColumn,
			Source:          d.OriginalFile,
			OriginalLine:    d.OriginalLine,
			OriginalColumn:  d.OriginalColumn,
			Name:            d.OriginalName,
		})
	}
	return m, result
}
