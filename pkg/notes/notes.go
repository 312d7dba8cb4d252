// Package notes converts between note names such as "C#4" and MIDI note
// indices, using the convention A4 = 69 and C-1 = 0.
package notes

import (
	"errors"
	"fmt"
	"strconv"
)

// A4 is the MIDI index of the 440 Hz reference note
const A4 = 69

// ErrInvalidNote is wrapped by every note name parse failure
var ErrInvalidNote = errors.New("invalid note name")

var names = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var letterOffsets = map[byte]int{
	'C': 0,
	'D': 2,
	'E': 4,
	'F': 5,
	'G': 7,
	'A': 9,
	'B': 11,
}

// ParseError describes a note name that could not be parsed
type ParseError struct {
	Name   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v %q: %s", ErrInvalidNote, e.Name, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return ErrInvalidNote
}

// ToIndex parses a note name of the form <letter>[#]<octave>, where the
// octave is -1 or a non-negative integer.
func ToIndex(name string) (int, error) {
	if name == "" {
		return 0, &ParseError{Name: name, Reason: "empty"}
	}

	offset, ok := letterOffsets[name[0]]
	if !ok {
		return 0, &ParseError{Name: name, Reason: fmt.Sprintf("unknown pitch letter %q", name[0])}
	}

	rest := name[1:]
	if len(rest) > 0 && rest[0] == '#' {
		offset++
		rest = rest[1:]
	}

	if rest == "" {
		return 0, &ParseError{Name: name, Reason: "missing octave"}
	}

	octave, err := strconv.Atoi(rest)
	if err != nil || rest[0] == '+' {
		return 0, &ParseError{Name: name, Reason: fmt.Sprintf("bad octave %q", rest)}
	}
	if octave < -1 {
		return 0, &ParseError{Name: name, Reason: fmt.Sprintf("octave %d below -1", octave)}
	}

	return (octave+1)*12 + offset, nil
}

// Name returns the sharp-spelled name of a MIDI index
func Name(index int) string {
	return names[wrapMod(index, 12)] + strconv.Itoa(floorDiv(index, 12)-1)
}

// Cents12 returns the 12-EDO position of index in cents relative to A4
func Cents12(index int) float64 {
	return 100 * float64(index-A4)
}

func wrapMod(a, b int) int {
	return (a%b + b) % b
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
