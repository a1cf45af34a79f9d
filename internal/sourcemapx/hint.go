package sourcemapx

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"
	"math"
	"strings"
)

// HintMagic starts every hint embedded into a generated stream. It's the ASCII
// backspace, which never occurs in JavaScript source text.
const HintMagic byte = '\b'

const (
	headerSize = 3 // Magic and the payload size.
	maxPayload = math.MaxUint16
)

// Hint is a source map hint embedded into a generated text stream as the
// magic byte, the big-endian uint16 size of the payload and the payload
// itself. The first byte of the payload is a type flag, see Pack.
type Hint struct {
	Payload []byte
}

// FindHint returns the index of the first hint in b, or -1.
func FindHint(b []byte) int {
	return bytes.IndexByte(b, HintMagic)
}

// ReadHint decodes the hint at the start of b, as located by FindHint, and
// returns it with the number of bytes it occupies. The payload is copied.
//
// It panics if b doesn't start with a complete hint.
func ReadHint(b []byte) (Hint, int) {
	if len(b) < headerSize {
		panic(fmt.Errorf("%d bytes are too short to contain hint header", len(b)))
	}
	if b[0] != HintMagic {
		panic(fmt.Errorf("hint doesn't start with magic 0x%x: got 0x%x", HintMagic, b[0]))
	}
	length := headerSize + int(binary.BigEndian.Uint16(b[1:headerSize]))
	if len(b) < length {
		panic(fmt.Errorf("%d bytes are too short to contain hint payload of %d bytes", len(b), length-headerSize))
	}
	return Hint{Payload: bytes.Clone(b[headerSize:length])}, length
}

// WriteTo writes the encoded hint to w. It panics if the payload is longer
// than 0xFFFF bytes.
func (h *Hint) WriteTo(w io.Writer) (int64, error) {
	if len(h.Payload) > maxPayload {
		panic(fmt.Errorf("hint payload of %d bytes exceeds %d bytes", len(h.Payload), maxPayload))
	}
	encoded := make([]byte, 0, headerSize+len(h.Payload))
	encoded = append(encoded, HintMagic)
	encoded = binary.BigEndian.AppendUint16(encoded, uint16(len(h.Payload)))
	encoded = append(encoded, h.Payload...)

	n, err := w.Write(encoded)
	if err != nil {
		return int64(n), fmt.Errorf("failed to write hint: %w", err)
	}
	return int64(n), nil
}

// Type flags of the supported payloads.
const (
	flagUnmapped byte = 1
	flagOrigin   byte = 2
)

// Pack stores value, an Unmapped or an Origin, in the payload: a type flag
// followed by the gob encoding of an Origin.
func (h *Hint) Pack(value any) error {
	payload := &bytes.Buffer{}
	switch value := value.(type) {
	case Unmapped:
		// The flag is all there is to it.
		payload.WriteByte(flagUnmapped)
	case Origin:
		payload.WriteByte(flagOrigin)
		if err := gob.NewEncoder(payload).Encode(value); err != nil {
			return fmt.Errorf("failed to encode hint payload: %w", err)
		}
	default:
		return fmt.Errorf("unsupported hint payload type %T", value)
	}

	h.Payload = payload.Bytes()
	return nil
}

// Unpack returns the value stored by Pack.
func (h *Hint) Unpack() (any, error) {
	if len(h.Payload) < 1 {
		return nil, fmt.Errorf("payload is too short to contain type flag")
	}
	switch h.Payload[0] {
	case flagUnmapped:
		return Unmapped{}, nil
	case flagOrigin:
		var o Origin
		if err := gob.NewDecoder(bytes.NewReader(h.Payload[1:])).Decode(&o); err != nil {
			return nil, fmt.Errorf("failed to decode hint payload as %T: %w", o, err)
		}
		return o, nil
	default:
		return nil, fmt.Errorf("unsupported hint payload type flag: %d", h.Payload[0])
	}
}

// encodeHint packs the value and returns the hint as a string, ready to be
// embedded into the output. Values are expected to be of a supported type.
func encodeHint(value any) string {
	buf := &strings.Builder{}
	h := Hint{}
	if err := h.Pack(value); err != nil {
		panic(fmt.Errorf("failed to pack source map hint: %w", err))
	}
	if _, err := h.WriteTo(buf); err != nil {
		panic(fmt.Errorf("failed to write source map hint into a buffer: %w", err))
	}
	return buf.String()
}
