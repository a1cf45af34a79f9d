package experiments

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		descr   string
		raw     string
		want    Flags
		wantErr error
	}{{
		descr: "nothing enabled",
		raw:   "",
		want:  Flags{},
	}, {
		descr: "blank",
		raw:   "  ",
		want:  Flags{},
	}, {
		descr: "implicit value",
		raw:   "names",
		want:  Flags{Names: true},
	}, {
		descr: "explicit value",
		raw:   "names=1",
		want:  Flags{Names: true},
	}, {
		descr: "explicitly disabled",
		raw:   "names=false",
		want:  Flags{},
	}, {
		descr: "last entry wins",
		raw:   "names, names = false",
		want:  Flags{},
	}, {
		descr: "unknown experiments are ignored",
		raw:   "retired,names,Names=false",
		want:  Flags{Names: true},
	}, {
		descr:   "empty name",
		raw:     "names,=true",
		wantErr: ErrInvalidFormat,
	}, {
		descr:   "trailing comma",
		raw:     "names,",
		wantErr: ErrInvalidFormat,
	}, {
		descr:   "not a boolean",
		raw:     "names=maybe",
		wantErr: ErrInvalidFormat,
	}}

	for _, test := range tests {
		t.Run(test.descr, func(t *testing.T) {
			got, err := Parse(test.raw)
			if test.wantErr != nil {
				if !errors.Is(err, test.wantErr) {
					t.Errorf("Got: Parse(%q) returned error: %v. Want: %v.", test.raw, err, test.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Got: Parse(%q) returned error: %v. Want: no error.", test.raw, err)
			}
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("Parse(%q) returned diff (-want,+got):\n%s", test.raw, diff)
			}
		})
	}
}

func TestFlagsString(t *testing.T) {
	if got := (Flags{}).String(); got != "" {
		t.Errorf("Got: %q. Want: no experiments.", got)
	}
	if got := (Flags{Names: true}).String(); got != "names" {
		t.Errorf("Got: %q. Want: %q.", got, "names")
	}

	roundTrip, err := Parse(Flags{Names: true}.String())
	if err != nil {
		t.Fatalf("Got: Parse() returned error: %v. Want: no error.", err)
	}
	if !roundTrip.Names {
		t.Errorf("Got: %+v. Want: names enabled.", roundTrip)
	}
}

func TestParseFlagsDest(t *testing.T) {
	tests := []struct {
		descr string
		dest  any
	}{{
		descr: "not a pointer",
		dest:  Flags{},
	}, {
		descr: "pointer to a non-struct",
		dest:  new(string),
	}, {
		descr: "nil pointer",
		dest:  (*Flags)(nil),
	}, {
		descr: "non-boolean flag",
		dest: &struct {
			Names string `flag:"names"`
		}{},
	}}

	for _, test := range tests {
		t.Run(test.descr, func(t *testing.T) {
			if err := parseFlags("names", test.dest); !errors.Is(err, ErrInvalidDest) {
				t.Errorf("Got: parseFlags(%T) returned error: %v. Want: %v.", test.dest, err, ErrInvalidDest)
			}
		})
	}
}
