// Package pitch encodes and decodes the resampler pitch-bend string format.
//
// A pitch-bend string is a sequence of signed 12-bit cent offsets. Each value
// is written as two symbols of the base64 alphabet (high 6 bits first) and
// runs of identical values may be compressed as "XY#count#".
package pitch

import (
	"errors"
	"fmt"
	"strings"
)

// Codec limits
const (
	MinCents = -2048
	MaxCents = 2047

	// RunThreshold is the shortest run Encode writes with a run marker.
	RunThreshold = 2

	// MaxRun is the longest run Decode expands. Longer counts are clamped.
	MaxRun = 1 << 16

	// InvalidSymbol is the value an unknown symbol decodes to.
	InvalidSymbol = 255

	runMarker = '#'
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

var symbolValues = func() [256]byte {
	var table [256]byte
	for i := range table {
		table[i] = InvalidSymbol
	}
	for i := 0; i < len(alphabet); i++ {
		table[alphabet[i]] = byte(i)
	}
	return table
}()

// ErrEmptyStream is returned when encoding a stream with no values
var ErrEmptyStream = errors.New("pitch: cannot encode an empty stream")

// Stream is an ordered sequence of cent offsets, one per control point.
type Stream []int16

// SymbolError reports the byte offsets of input the decoder could not use.
// The stream returned alongside it is still complete.
type SymbolError struct {
	Offsets []int
	Input   string
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("pitch: %d invalid symbol(s) in %q at offsets %v", len(e.Offsets), e.Input, e.Offsets)
}

// Clamp truncates v toward zero and saturates it to the codec range.
// The second result reports whether saturation happened.
func Clamp(v float64) (int16, bool) {
	switch {
	case v > MaxCents:
		return MaxCents, true
	case v < MinCents:
		return MinCents, true
	}
	return int16(v), false
}

// Encode writes s as a pitch-bend string.
func Encode(s Stream) (string, error) {
	if len(s) == 0 {
		return "", ErrEmptyStream
	}

	var b strings.Builder
	b.Grow(len(s) * 2)

	last := pair(s[0])
	count := 1
	for _, v := range s[1:] {
		p := pair(v)
		if p == last {
			count++
			continue
		}
		writeRun(&b, last, count)
		last = p
		count = 1
	}
	writeRun(&b, last, count)

	return b.String(), nil
}

// pair returns the two symbols for the low 12 bits of v.
func pair(v int16) [2]byte {
	n := uint16(v) & 0xFFF
	return [2]byte{alphabet[n>>6], alphabet[n&0x3F]}
}

func writeRun(b *strings.Builder, p [2]byte, count int) {
	if count >= RunThreshold {
		fmt.Fprintf(b, "%c%c%c%d%c", p[0], p[1], runMarker, count, runMarker)
		return
	}
	for i := 0; i < count; i++ {
		b.WriteByte(p[0])
		b.WriteByte(p[1])
	}
}
