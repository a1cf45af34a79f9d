package sourcemapx

import (
	"bytes"
	"fmt"
	"io"

	"github.com/gopherjs/sourcemap"
)

// Filter implements io.Writer which extracts source map hints from the written
// stream and passes them to the MappingCallback if it's not nil. Encoded hints
// are always filtered out of the output stream.
//
// Every hint must be passed in a single Write call.
type Filter struct {
	Writer io.Writer
	// MappingCallback receives the 1-based line and 0-based byte column in the
	// filtered output where a hint occurred. The origin is nil for Unmapped
	// hints. An error aborts the Write.
	MappingCallback func(generatedLine, generatedColumn int, origin *Origin) error

	line   int
	column int
}

func (f *Filter) Write(p []byte) (n int, err error) {
	var n2 int
	for {
		i := FindHint(p)
		w := p
		if i != -1 {
			w = p[:i]
		}

		n2, err = f.Writer.Write(w)
		n += n2
		for {
			i := bytes.IndexByte(w, '\n')
			if i == -1 {
				f.column += len(w)
				break
			}
			f.line++
			f.column = 0
			w = w[i+1:]
		}

		if err != nil || i == -1 {
			return
		}
		h, length := ReadHint(p[i:])
		if f.MappingCallback != nil {
			if err = f.dispatch(h); err != nil {
				return
			}
		}
		p = p[i+length:]
		n += length
	}
}

func (f *Filter) dispatch(h Hint) error {
	value, err := h.Unpack()
	if err != nil {
		return fmt.Errorf("failed to unpack source map hint: %w", err)
	}
	switch value := value.(type) {
	case Unmapped:
		return f.MappingCallback(f.line+1, f.column, nil)
	case Origin:
		return f.MappingCallback(f.line+1, f.column, &value)
	default:
		return fmt.Errorf("unexpected source map hint type: %T", value)
	}
}

// AddTo returns a MappingCallback that adds every hint to the generator.
func AddTo(g *sourcemap.Generator) func(generatedLine, generatedColumn int, origin *Origin) error {
	return func(generatedLine, generatedColumn int, origin *Origin) error {
		return g.AddMapping(origin.Mapping(generatedLine, generatedColumn))
	}
}
