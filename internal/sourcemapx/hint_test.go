package sourcemapx

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHintFraming(t *testing.T) {
	tests := []struct {
		descr   string
		payload []byte
		want    []byte
	}{{
		descr:   "empty",
		payload: []byte{},
		want:    []byte{HintMagic, 0x00, 0x00},
	}, {
		descr:   "unmapped",
		payload: []byte{flagUnmapped},
		want:    []byte{HintMagic, 0x00, 0x01, flagUnmapped},
	}, {
		descr:   "long payload",
		payload: bytes.Repeat([]byte{'x'}, 0x102),
		want:    append([]byte{HintMagic, 0x01, 0x02}, bytes.Repeat([]byte{'x'}, 0x102)...),
	}}

	for _, test := range tests {
		t.Run(test.descr, func(t *testing.T) {
			encoded := &bytes.Buffer{}
			h := Hint{Payload: test.payload}
			if _, err := h.WriteTo(encoded); err != nil {
				t.Fatalf("Got: WriteTo() returned error: %s. Want: no error.", err)
			}
			if diff := cmp.Diff(test.want, encoded.Bytes()); diff != "" {
				t.Fatalf("WriteTo() returned diff (-want,+got):\n%s", diff)
			}

			stream := []byte("var x = ")
			stream = append(stream, encoded.Bytes()...)
			stream = append(stream, "y;"...)

			at := FindHint(stream)
			if at != len("var x = ") {
				t.Fatalf("Got: FindHint() = %d. Want: %d.", at, len("var x = "))
			}
			got, length := ReadHint(stream[at:])
			if length != len(test.want) {
				t.Errorf("Got: ReadHint() length = %d. Want: %d.", length, len(test.want))
			}
			if rest := string(stream[at+length:]); rest != "y;" {
				t.Errorf("Got: %q after the hint. Want: %q.", rest, "y;")
			}

			// The payload must not alias the stream.
			clear(stream)
			if diff := cmp.Diff(test.payload, got.Payload); diff != "" {
				t.Errorf("ReadHint() returned payload diff (-want,+got):\n%s", diff)
			}
		})
	}

	if got := FindHint([]byte("no hints here")); got != -1 {
		t.Errorf("Got: FindHint() = %d. Want: -1.", got)
	}
}

func TestReadHintPanics(t *testing.T) {
	tests := []struct {
		descr string
		bytes []byte
		panic string
	}{{
		descr: "incomplete header",
		bytes: []byte{HintMagic, 0x00},
		panic: "too short to contain hint header",
	}, {
		descr: "incomplete payload",
		bytes: []byte{HintMagic, 0x00, 0x02, flagUnmapped},
		panic: "too short to contain hint payload",
	}, {
		descr: "no magic",
		bytes: []byte{'a', 0x00, 0x01, 0x00},
		panic: "doesn't start with magic",
	}}

	for _, test := range tests {
		t.Run(test.descr, func(t *testing.T) {
			defer func() {
				err := recover()
				if err == nil {
					t.Fatalf("Got: no panic. Want: a panic.")
				}
				if !strings.Contains(fmt.Sprint(err), test.panic) {
					t.Errorf("Got panic: %v. Want it to contain: %s.", err, test.panic)
				}
			}()
			ReadHint(test.bytes)
		})
	}
}

func TestHintPack(t *testing.T) {
	tests := []struct {
		descr string
		value any
	}{{
		descr: "unmapped",
		value: Unmapped{},
	}, {
		descr: "origin",
		value: Origin{Source: "a.js", Line: 3, Column: 14},
	}, {
		descr: "named origin",
		value: Origin{Source: "src/main.js", Line: 1, Column: 0, Name: "main"},
	}}

	for _, test := range tests {
		t.Run(test.descr, func(t *testing.T) {
			h := Hint{}
			if err := h.Pack(test.value); err != nil {
				t.Fatalf("h.Pack(%#v) returned error: %s. Want: no error.", test.value, err)
			}
			unpacked, err := h.Unpack()
			if err != nil {
				t.Fatalf("h.Unpack() returned error: %s. Want: no error.", err)
			}
			if diff := cmp.Diff(test.value, unpacked); diff != "" {
				t.Errorf("Unpacked value doesn't match the original (-want,+got):\n%s", diff)
			}
		})
	}
}

func TestHintPackErrors(t *testing.T) {
	h := Hint{}
	if err := h.Pack(42); err == nil {
		t.Errorf("Got: h.Pack(42) returned no error. Want: error.")
	}

	for _, payload := range [][]byte{{}, {7}, {flagOrigin, 0xff}} {
		h := Hint{Payload: payload}
		if v, err := h.Unpack(); err == nil {
			t.Errorf("Got: Hint{%v}.Unpack() = %#v. Want: error.", payload, v)
		}
	}
}
