package sourcemapx

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gopherjs/sourcemap"
	"github.com/gopherjs/sourcemap/internal/testingx"
)

func TestFilter(t *testing.T) {
	type entry struct {
		GenLine int
		GenCol  int
		Origin  *Origin
	}
	entries := []entry{}

	code := &bytes.Buffer{}

	filter := &Filter{
		Writer: code,
		MappingCallback: func(generatedLine, generatedColumn int, origin *Origin) error {
			entries = append(entries, entry{
				GenLine: generatedLine,
				GenCol:  generatedColumn,
				Origin:  origin,
			})
			return nil
		},
	}

	writeHint(t, filter, Unmapped{})
	fmt.Fprintln(filter, "Hello")
	writeHint(t, filter, Origin{Source: "hello.txt", Line: 2, Column: 5})
	fmt.Fprintln(filter, "World")

	tok := Token{
		Text:   "greet",
		Origin: Origin{Source: "hello.txt", Line: 3, Column: 1, Name: "greeting"},
	}
	fmt.Fprintf(filter, "var x = %s%s();\n", tok.EncodeHint(), tok)

	wantCode := `Hello
World
var x = greet();
`
	if diff := cmp.Diff(wantCode, code.String()); diff != "" {
		t.Errorf("Generated code differs from expected (-want,+got):\n%s", diff)
	}

	wantEntries := []entry{
		{GenLine: 1},
		{GenLine: 2, Origin: &Origin{Source: "hello.txt", Line: 2, Column: 5}},
		{GenLine: 3, GenCol: 8, Origin: &Origin{Source: "hello.txt", Line: 3, Column: 1, Name: "greeting"}},
	}
	if diff := cmp.Diff(wantEntries, entries); diff != "" {
		t.Errorf("Source map entries differ from expected (-want,+got):\n%s", diff)
	}
}

func TestFilterCallbackError(t *testing.T) {
	errStop := errors.New("stop")
	filter := &Filter{
		Writer: io.Discard,
		MappingCallback: func(int, int, *Origin) error {
			return errStop
		},
	}
	_, err := fmt.Fprintf(filter, "a%sb", Unmapped{}.EncodeHint())
	if !errors.Is(err, errStop) {
		t.Errorf("Got: Write() returned error %v. Want: %v.", err, errStop)
	}
}

func TestFilterAddTo(t *testing.T) {
	g := sourcemap.New(sourcemap.Options{File: "out.txt"})
	code := &bytes.Buffer{}
	filter := &Filter{Writer: code, MappingCallback: AddTo(g)}

	fmt.Fprintf(filter, "%sfoo %sbar\n", Origin{Source: "in.txt", Line: 1, Column: 0}.EncodeHint(), Unmapped{}.EncodeHint())
	fmt.Fprintf(filter, "  %sbaz\n", Origin{Source: "in.txt", Line: 1, Column: 4, Name: "baz"}.EncodeHint())

	if got, want := code.String(), "foo bar\n  baz\n"; got != want {
		t.Errorf("Got: filtered output %q. Want: %q.", got, want)
	}

	_, got := testingx.DecodeMap(t, testingx.Must[[]byte](t)(g.Bytes()))
	want := []testingx.Decoded{
		{GeneratedLine: 1, GeneratedColumn: 0, Source: "in.txt", OriginalLine: 1, OriginalColumn: 0},
		{GeneratedLine: 1, GeneratedColumn: 4},
		{GeneratedLine: 2, GeneratedColumn: 2, Source: "in.txt", OriginalLine: 1, OriginalColumn: 4, Name: "baz"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Decoded mappings differ (-want,+got):\n%s", diff)
	}
}

func writeHint(t *testing.T, w io.Writer, value any) {
	t.Helper()
	hint := Hint{}
	if err := hint.Pack(value); err != nil {
		t.Fatalf("Got: hint.Pack(%#v) returned error: %s. Want: no error.", value, err)
	}
	if _, err := hint.WriteTo(w); err != nil {
		t.Fatalf("Got: hint.WriteTo() returned error: %s. Want: no error.", err)
	}
}
