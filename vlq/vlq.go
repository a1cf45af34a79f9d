// Package vlq implements the base64 variable-length quantity encoding used by
// the "mappings" field of Source Map v3.
//
// A single base64 digit carries 6 bits. The highest bit is the continuation
// bit, telling whether more digits of the same value follow. The lowest bit of
// the first digit is the sign:
//
//	Continuation
//	|    Sign
//	|    |
//	V    V
//	101011
//
// Digits are emitted least significant group first.
package vlq

import (
	"errors"
	"fmt"
	"math"
)

const (
	baseShift = 5
	base      = 1 << baseShift // 0b100000
	baseMask  = base - 1       // 0b011111

	continuationBit = base
)

// Alphabet is the 64-symbol alphabet of the encoding, indexed by digit value.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

var (
	// ErrInvalidDigit is returned when a value outside of [0, 63] is mapped to
	// an alphabet symbol, or a symbol outside of the alphabet is decoded.
	ErrInvalidDigit = errors.New("invalid base64 digit")
	// ErrOverflow is returned for values that don't fit the sign-in-low-bit
	// representation, and for encoded values too long to fit an int.
	ErrOverflow = errors.New("vlq value out of range")
	// ErrTruncated is returned by Decode when the input ends in the middle of
	// a value.
	ErrTruncated = errors.New("truncated vlq value")
)

// Digit returns the alphabet symbol for a single digit value.
func Digit(n int) (byte, error) {
	if 0 <= n && n < len(Alphabet) {
		return Alphabet[n], nil
	}
	return 0, fmt.Errorf("%w: must be between 0 and 63: %d", ErrInvalidDigit, n)
}

// toSigned converts a two's complement value into one where the sign is kept
// in the least significant bit. For example, 1 becomes 2 (10 binary), -1
// becomes 3 (11 binary), 2 becomes 4 (100 binary), -2 becomes 5 (101 binary).
func toSigned(value int) (uint64, error) {
	if value == math.MinInt {
		return 0, fmt.Errorf("%w: %d", ErrOverflow, value)
	}
	if value < 0 {
		return uint64(-value)<<1 | 1, nil
	}
	return uint64(value) << 1, nil
}

// Append appends the encoded value to dst and returns the extended slice.
func Append(dst []byte, value int) ([]byte, error) {
	v, err := toSigned(value)
	if err != nil {
		return dst, err
	}
	for {
		digit := int(v & baseMask)
		v >>= baseShift
		if v > 0 {
			digit |= continuationBit
		}
		b, err := Digit(digit)
		if err != nil {
			return dst, err
		}
		dst = append(dst, b)
		if v == 0 {
			return dst, nil
		}
	}
}

// Encode returns the base64 VLQ representation of value. Zero is encoded as
// a single digit without the continuation bit.
func Encode(value int) (string, error) {
	b, err := Append(make([]byte, 0, 8), value)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

var decodeTable = func() (t [256]int8) {
	for i := range t {
		t[i] = -1
	}
	for i := 0; i < len(Alphabet); i++ {
		t[Alphabet[i]] = int8(i)
	}
	return t
}()

// Decode reads a single value from the beginning of s and returns it together
// with the number of bytes it occupied.
func Decode(s string) (value int, n int, err error) {
	var v uint64
	shift := uint(0)
	for {
		if n >= len(s) {
			return 0, n, ErrTruncated
		}
		digit := decodeTable[s[n]]
		if digit < 0 {
			return 0, n, fmt.Errorf("%w: %q at offset %d", ErrInvalidDigit, s[n], n)
		}
		n++
		if shift >= 64 {
			return 0, n, ErrOverflow
		}
		v |= uint64(digit&baseMask) << shift
		if digit&continuationBit == 0 {
			break
		}
		shift += baseShift
	}

	magnitude := v >> 1
	if magnitude > math.MaxInt {
		return 0, n, ErrOverflow
	}
	if v&1 != 0 {
		return -int(magnitude), n, nil
	}
	return int(magnitude), n, nil
}
