package sourcemap

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func pos(line, column int) *Position {
	return &Position{Line: line, Column: column}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		descr   string
		mapping Mapping
		wantErr error
	}{{
		descr:   "generated only",
		mapping: Mapping{Generated: pos(1, 0)},
	}, {
		descr:   "generated, original and source",
		mapping: Mapping{Generated: pos(1, 0), Original: pos(1, 0), Source: "a.js"},
	}, {
		descr:   "generated, original, source and name",
		mapping: Mapping{Generated: pos(3, 7), Original: pos(10, 2), Source: "a.js", Name: "x"},
	}, {
		descr:   "missing generated",
		mapping: Mapping{Original: pos(1, 0), Source: "a.js"},
		wantErr: ErrMissingGenerated,
	}, {
		descr:   "source without original",
		mapping: Mapping{Generated: pos(1, 0), Source: "a.js"},
		wantErr: ErrInvalidMapping,
	}, {
		descr:   "original without source",
		mapping: Mapping{Generated: pos(1, 0), Original: pos(1, 0)},
		wantErr: ErrInvalidMapping,
	}, {
		descr:   "name without source",
		mapping: Mapping{Generated: pos(1, 0), Name: "x"},
		wantErr: ErrInvalidMapping,
	}, {
		descr:   "zero generated line",
		mapping: Mapping{Generated: pos(0, 0)},
		wantErr: ErrInvalidMapping,
	}, {
		descr:   "negative generated column",
		mapping: Mapping{Generated: pos(1, -1)},
		wantErr: ErrInvalidMapping,
	}, {
		descr:   "zero original line",
		mapping: Mapping{Generated: pos(1, 0), Original: pos(0, 0), Source: "a.js"},
		wantErr: ErrInvalidMapping,
	}, {
		descr:   "negative original column",
		mapping: Mapping{Generated: pos(1, 0), Original: pos(1, -3), Source: "a.js"},
		wantErr: ErrInvalidMapping,
	}}

	for _, test := range tests {
		t.Run(test.descr, func(t *testing.T) {
			err := test.mapping.Validate()
			if !errors.Is(err, test.wantErr) {
				t.Errorf("Got: Validate() returned error %v. Want: %v.", err, test.wantErr)
			}
		})
	}
}

func TestValidateDecoded(t *testing.T) {
	tests := []struct {
		descr   string
		input   string
		wantErr error
	}{{
		descr: "null original",
		input: `{"generated":{"line":1,"column":0},"original":null}`,
	}, {
		descr:   "both original fields null",
		input:   `{"generated":{"line":1,"column":0},"original":{"line":null,"column":null}}`,
		wantErr: ErrInvalidOriginal,
	}, {
		descr:   "empty original object",
		input:   `{"generated":{"line":1,"column":0},"original":{},"source":"a.js"}`,
		wantErr: ErrInvalidOriginal,
	}, {
		descr:   "both original fields strings",
		input:   `{"generated":{"line":1,"column":0},"original":{"line":"1","column":"0"},"source":"a.js"}`,
		wantErr: ErrInvalidOriginal,
	}, {
		descr:   "only the original column missing",
		input:   `{"generated":{"line":1,"column":0},"original":{"line":1},"source":"a.js"}`,
		wantErr: ErrInvalidMapping,
	}, {
		descr:   "fractional generated column",
		input:   `{"generated":{"line":1,"column":0.5}}`,
		wantErr: ErrInvalidMapping,
	}, {
		descr: "full mapping",
		input: `{"generated":{"line":2,"column":4},"original":{"line":1,"column":0},"source":"a.js","name":"x"}`,
	}}

	for _, test := range tests {
		t.Run(test.descr, func(t *testing.T) {
			var m Mapping
			if err := json.Unmarshal([]byte(test.input), &m); err != nil {
				t.Fatalf("Got: error decoding %s: %s. Want: no error.", test.input, err)
			}
			err := m.Validate()
			if !errors.Is(err, test.wantErr) {
				t.Errorf("Got: Validate() returned error %v. Want: %v.", err, test.wantErr)
			}
		})
	}
}

func TestInvalidMappingMessage(t *testing.T) {
	m := Mapping{Generated: pos(1, 0), Source: "a.js"}
	want := `invalid mapping: {"generated":{"line":1,"column":0},"source":"a.js","original":null,"name":null}`
	if got := m.Validate().Error(); got != want {
		t.Errorf("Got: error %q. Want: %q.", got, want)
	}

	var decoded Mapping
	if err := json.Unmarshal([]byte(`{"generated":{"line":1,"column":0},"original":{"line":1},"source":"a.js"}`), &decoded); err != nil {
		t.Fatalf("Got: error decoding mapping: %s. Want: no error.", err)
	}
	want = `invalid mapping: {"generated":{"line":1,"column":0},"source":"a.js","original":{"line":1,"column":null},"name":null}`
	if got := decoded.Validate().Error(); got != want {
		t.Errorf("Got: error %q. Want: %q.", got, want)
	}
}

func TestCompareRecords(t *testing.T) {
	// Listed in the expected order.
	records := []record{
		{generatedLine: 1, generatedColumn: 0, source: "a.js", originalLine: 1},
		{generatedLine: 1, generatedColumn: 0, source: "a.js", originalLine: 2},
		{generatedLine: 1, generatedColumn: 0, source: "a.js", originalLine: 2, originalColumn: 1, name: "x"},
		{generatedLine: 1, generatedColumn: 0, source: "a.js", originalLine: 2, originalColumn: 1},
		{generatedLine: 1, generatedColumn: 0, source: "b.js", originalLine: 1},
		{generatedLine: 1, generatedColumn: 0},
		{generatedLine: 1, generatedColumn: 3},
		{generatedLine: 2, generatedColumn: 0},
	}

	for i := range records {
		for j := range records {
			got := compareRecords(records[i], records[j])
			want := 0
			switch {
			case i < j:
				want = -1
			case i > j:
				want = 1
			}
			if got != want {
				t.Errorf("Got: compareRecords(%+v, %+v) = %d. Want: %d.", records[i], records[j], got, want)
			}
		}
	}

	if got := compareRecords(infimum, records[0]); got >= 0 {
		t.Errorf("Got: infimum compared to %+v = %d. Want: negative.", records[0], got)
	}
}

func TestCompareUTF16(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{a: "a", b: "b", want: -1},
		{a: "a", b: "ab", want: -1},
		{a: "abc", b: "abc", want: 0},
		{a: "Z", b: "a", want: -1},
		// A surrogate pair sorts before U+E000..U+FFFF.
		{a: "\U0001F600", b: "\uffff", want: -1},
		{a: "\ue000", b: "\U00010000", want: 1},
		{a: "\U0001F600", b: "\U0001F601", want: -1},
	}

	for _, test := range tests {
		if got := compareUTF16(test.a, test.b); got != test.want {
			t.Errorf("Got: compareUTF16(%q, %q) = %d. Want: %d.", test.a, test.b, got, test.want)
		}
	}
}

func TestPositionJSON(t *testing.T) {
	var p Position
	if err := json.Unmarshal([]byte(`{"line":3,"column":"x"}`), &p); err != nil {
		t.Fatalf("Got: error decoding position: %s. Want: no error.", err)
	}
	want := Position{Line: 3, columnMissing: true}
	if diff := cmp.Diff(want, p, cmp.AllowUnexported(Position{})); diff != "" {
		t.Errorf("Decoded position differs (-want,+got):\n%s", diff)
	}

	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Got: error encoding position: %s. Want: no error.", err)
	}
	if got, want := string(b), `{"line":3,"column":null}`; got != want {
		t.Errorf("Got: %s. Want: %s.", got, want)
	}

	if err := json.Unmarshal([]byte(`[1, 2]`), &p); err == nil {
		t.Errorf("Got: no error decoding an array as a position. Want: error.")
	}
}
