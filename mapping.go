package sourcemap

import (
	"bytes"
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"unicode/utf16"
	"unicode/utf8"
)

var (
	// ErrMissingGenerated is returned by AddMapping for a mapping without the
	// generated position.
	ErrMissingGenerated = errors.New(`"generated" is a required argument`)
	// ErrInvalidOriginal is returned when the original position is present but
	// neither its line nor its column is a number. This is most likely a
	// programmer error, hence a specific message.
	ErrInvalidOriginal = errors.New("original.line and original.column are not numbers -- you probably meant " +
		"to omit the original mapping entirely and only map the generated position. If so, pass null for " +
		"the original mapping instead of an object with empty or null values")
	// ErrInvalidMapping is returned for a mapping that doesn't fall into any of
	// the valid combinations of fields.
	ErrInvalidMapping = errors.New("invalid mapping")
)

// Position is a location in a text. Lines are 1-based, columns are 0-based.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`

	// Set when the position was decoded from JSON where the field was
	// missing or not an integer.
	lineMissing, columnMissing bool
}

// UnmarshalJSON decodes {"line": 1, "column": 0}. Fields that are absent,
// null or otherwise not integers are remembered as missing, so that the
// mapping can be rejected with a precise error.
func (p *Position) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("position must be an object: %w", err)
	}
	*p = Position{}
	p.Line, p.lineMissing = jsonInt(raw["line"])
	p.Column, p.columnMissing = jsonInt(raw["column"])
	return nil
}

// jsonInt returns the integer value of a raw JSON number, or missing = true.
func jsonInt(raw json.RawMessage) (v int, missing bool) {
	if len(raw) == 0 {
		return 0, true
	}
	d := json.NewDecoder(bytes.NewReader(raw))
	d.UseNumber()
	var n any
	if err := d.Decode(&n); err != nil {
		return 0, true
	}
	num, ok := n.(json.Number)
	if !ok {
		return 0, true
	}
	i, err := num.Int64()
	if err != nil {
		return 0, true
	}
	return int(i), false
}

// MarshalJSON encodes missing fields as null.
func (p Position) MarshalJSON() ([]byte, error) {
	type wire struct {
		Line   *int `json:"line"`
		Column *int `json:"column"`
	}
	w := wire{}
	if !p.lineMissing {
		w.Line = &p.Line
	}
	if !p.columnMissing {
		w.Column = &p.Column
	}
	return json.Marshal(w)
}

func (p *Position) valid() bool {
	return p != nil && !p.lineMissing && !p.columnMissing && p.Line > 0 && p.Column >= 0
}

// Mapping describes the correspondence between a generated position and a
// position in an original source. It can have one of three levels of detail:
//
//  1. Just the generated position.
//  2. The generated position, original position and original source.
//  3. Same as 2, as well as the original name of the token.
//
// Empty Source and Name mean absent.
type Mapping struct {
	Generated *Position `json:"generated"`
	Original  *Position `json:"original,omitempty"`
	Source    string    `json:"source,omitempty"`
	Name      string    `json:"name,omitempty"`
}

// Validate checks that the mapping falls into one of the levels of detail
// listed in the Mapping documentation.
func (m Mapping) Validate() error {
	if m.Generated == nil {
		return ErrMissingGenerated
	}
	if o := m.Original; o != nil && o.lineMissing && o.columnMissing {
		return ErrInvalidOriginal
	}

	switch {
	case m.Generated.valid() && m.Original == nil && m.Source == "" && m.Name == "":
		return nil // Case 1.
	case m.Generated.valid() && m.Original.valid() && m.Source != "":
		return nil // Cases 2 and 3.
	}

	return fmt.Errorf("%w: %s", ErrInvalidMapping, m.diagnostic())
}

// diagnostic renders the mapping as JSON for error messages.
func (m Mapping) diagnostic() string {
	d := struct {
		Generated *Position `json:"generated"`
		Source    *string   `json:"source"`
		Original  *Position `json:"original"`
		Name      *string   `json:"name"`
	}{Generated: m.Generated, Original: m.Original}
	if m.Source != "" {
		d.Source = &m.Source
	}
	if m.Name != "" {
		d.Name = &m.Name
	}
	b, err := json.Marshal(d)
	if err != nil {
		return fmt.Sprintf("%+v", m)
	}
	return string(b)
}

// record is the normalized form of an accepted mapping stored by the
// generator.
type record struct {
	generatedLine   int
	generatedColumn int
	originalLine    int
	originalColumn  int
	source          string
	name            string
}

// infimum is ordered before any record a valid mapping can produce.
var infimum = record{generatedLine: -1}

func newRecord(m Mapping) record {
	r := record{
		generatedLine:   m.Generated.Line,
		generatedColumn: m.Generated.Column,
		source:          m.Source,
		name:            m.Name,
	}
	if m.Original != nil {
		r.originalLine = m.Original.Line
		r.originalColumn = m.Original.Column
	}
	return r
}

func (r record) GeneratedPosition() (int, int) {
	return r.generatedLine, r.generatedColumn
}

func (r record) hasSource() bool { return r.source != "" }
func (r record) hasName() bool   { return r.name != "" }

// compareRecords orders records by generated position, then source, original
// position and name. Absent source and name sort after any present value.
func compareRecords(a, b record) int {
	if c := cmp.Compare(a.generatedLine, b.generatedLine); c != 0 {
		return c
	}
	if c := cmp.Compare(a.generatedColumn, b.generatedColumn); c != 0 {
		return c
	}
	if c := compareOptional(a.source, b.source); c != 0 {
		return c
	}
	if c := cmp.Compare(a.originalLine, b.originalLine); c != 0 {
		return c
	}
	if c := cmp.Compare(a.originalColumn, b.originalColumn); c != 0 {
		return c
	}
	return compareOptional(a.name, b.name)
}

// compareOptional compares strings where "" stands for an absent value that
// sorts last.
func compareOptional(a, b string) int {
	switch {
	case a == b:
		return 0
	case a == "":
		return 1
	case b == "":
		return -1
	}
	return compareUTF16(a, b)
}

// compareUTF16 orders strings by UTF-16 code units, the order other source
// map tools use. It differs from Go's byte order only for runes above U+FFFF
// compared against runes in U+E000..U+FFFF.
func compareUTF16(a, b string) int {
	for a != "" && b != "" {
		ra, na := utf8.DecodeRuneInString(a)
		rb, nb := utf8.DecodeRuneInString(b)
		if ra == utf8.RuneError && rb == utf8.RuneError && a[0] != b[0] {
			return cmp.Compare(a[0], b[0]) // Invalid UTF-8.
		}
		if ra != rb {
			return slices.Compare(utf16.AppendRune(nil, ra), utf16.AppendRune(nil, rb))
		}
		a, b = a[na:], b[nb:]
	}
	return cmp.Compare(len(a), len(b))
}
