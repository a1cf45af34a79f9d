package sourcemapx

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/gopherjs/sourcemap"
)

func TestToken_String(t *testing.T) {
	tok := Token{Text: "foo", Origin: Origin{Source: "a.js", Line: 1}}
	if got := tok.String(); got != tok.Text {
		t.Errorf("Got: tok.String() = %q. Want: %q.", got, tok.Text)
	}
}

func TestToken_EncodeHint(t *testing.T) {
	original := Token{Text: "foo", Origin: Origin{Source: "a.js", Line: 4, Column: 2, Name: "foo"}}

	hint, _ := ReadHint([]byte(original.EncodeHint()))
	decoded, err := hint.Unpack()
	if err != nil {
		t.Fatalf("Got: hint.Unpack() returned error: %s. Want: no error.", err)
	}
	if diff := cmp.Diff(original.Origin, decoded); diff != "" {
		t.Fatalf("Decoded hint differs from the original (-want,+got):\n%s", diff)
	}
}

func TestOrigin_Mapping(t *testing.T) {
	tests := []struct {
		descr  string
		origin *Origin
		want   sourcemap.Mapping
	}{{
		descr: "unmapped",
		want:  sourcemap.Mapping{Generated: &sourcemap.Position{Line: 2, Column: 3}},
	}, {
		descr:  "origin",
		origin: &Origin{Source: "a.js", Line: 7, Column: 1, Name: "x"},
		want: sourcemap.Mapping{
			Generated: &sourcemap.Position{Line: 2, Column: 3},
			Original:  &sourcemap.Position{Line: 7, Column: 1},
			Source:    "a.js",
			Name:      "x",
		},
	}}

	for _, test := range tests {
		t.Run(test.descr, func(t *testing.T) {
			got := test.origin.Mapping(2, 3)
			if diff := cmp.Diff(test.want, got, cmpopts.IgnoreUnexported(sourcemap.Position{})); diff != "" {
				t.Errorf("Mapping() returned diff (-want,+got):\n%s", diff)
			}
			if err := got.Validate(); err != nil {
				t.Errorf("Got: Validate() returned error: %s. Want: no error.", err)
			}
		})
	}
}
