package sourcemap

import (
	"github.com/gopherjs/sourcemap/vlq"
)

// serializeMappings encodes the accumulated mappings into the "mappings"
// field: groups of VLQ deltas, "," between segments of a line and ";" between
// lines.
func (g *Generator) serializeMappings() (string, error) {
	var (
		prevGeneratedColumn = 0
		prevGeneratedLine   = 1
		prevOriginalColumn  = 0
		prevOriginalLine    = 0
		prevName            = 0
		prevSource          = 0
	)

	sorted := g.mappings.Sorted()
	buf := make([]byte, 0, sorted.Len()*8)
	var err error
	for i, m := range sorted.All() {
		switch {
		case m.generatedLine > prevGeneratedLine:
			prevGeneratedColumn = 0
			for ; prevGeneratedLine < m.generatedLine; prevGeneratedLine++ {
				buf = append(buf, ';')
			}
		case m.generatedLine < prevGeneratedLine:
			// Only reachable with validation skipped.
			prevGeneratedColumn = 0
			prevGeneratedLine = m.generatedLine
		case i > 0:
			if compareRecords(m, sorted.At(i-1)) <= 0 {
				continue // Duplicate.
			}
			buf = append(buf, ',')
		}

		if buf, err = vlq.Append(buf, m.generatedColumn-prevGeneratedColumn); err != nil {
			return "", err
		}
		prevGeneratedColumn = m.generatedColumn

		if !m.hasSource() {
			continue
		}

		sourceIdx, err := g.sources.IndexOf(m.source)
		if err != nil {
			return "", err
		}
		if buf, err = vlq.Append(buf, sourceIdx-prevSource); err != nil {
			return "", err
		}
		prevSource = sourceIdx

		// Original lines are 0-based on the wire.
		if buf, err = vlq.Append(buf, m.originalLine-1-prevOriginalLine); err != nil {
			return "", err
		}
		prevOriginalLine = m.originalLine - 1

		if buf, err = vlq.Append(buf, m.originalColumn-prevOriginalColumn); err != nil {
			return "", err
		}
		prevOriginalColumn = m.originalColumn

		if !m.hasName() {
			continue
		}

		nameIdx, err := g.names.IndexOf(m.name)
		if err != nil {
			return "", err
		}
		if buf, err = vlq.Append(buf, nameIdx-prevName); err != nil {
			return "", err
		}
		prevName = nameIdx
	}
	return string(buf), nil
}
