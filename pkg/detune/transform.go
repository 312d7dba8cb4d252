// Package detune rewrites a resampler note and pitch-bend string so that the
// note sounds in a microtonal tuning.
package detune

import (
	"fmt"
	"math"

	"github.com/james-see/microtune/pkg/notes"
	"github.com/james-see/microtune/pkg/pitch"
	"github.com/james-see/microtune/pkg/tuning"
)

// Result is a retuned note
type Result struct {
	Note    string       // replacement pitch argument
	Bend    string       // replacement pitch-bend argument
	Stream  pitch.Stream // decoded form of Bend
	Average float64      // mean tuned pitch, cents relative to A4
	Clipped int          // points saturated to the codec range

	// Warnings holds non-fatal problems with the input bend string
	Warnings []error
}

// Transform retunes baseNote and its pitch-bend string rawBend with src. The
// returned bend is relative to the returned note's 12-EDO position.
func Transform(baseNote, rawBend string, src *tuning.Source) (*Result, error) {
	index, err := notes.ToIndex(baseNote)
	if err != nil {
		return nil, err
	}
	offset := notes.Cents12(index)

	result := &Result{}
	raw, err := pitch.Decode(rawBend)
	if err != nil {
		result.Warnings = append(result.Warnings, err)
	}
	if len(raw) == 0 {
		// a flat note still needs retuning
		raw = pitch.Stream{0}
	}

	detuned := make([]float64, len(raw))
	var sum float64
	for i, c := range raw {
		pos := notes.A4 + (offset+float64(c))/100
		cents, err := src.Detune(pos)
		if err != nil {
			return nil, fmt.Errorf("failed to detune %s: %w", baseNote, err)
		}
		detuned[i] = cents
		sum += cents
	}
	result.Average = sum / float64(len(detuned))

	steps := int(math.Floor(result.Average / 100))
	result.Note = notes.Name(notes.A4 + steps)
	anchor := 100 * float64(steps)

	result.Stream = make(pitch.Stream, len(detuned))
	for i, cents := range detuned {
		v, clipped := pitch.Clamp(cents - anchor)
		if clipped {
			result.Clipped++
		}
		result.Stream[i] = v
	}

	result.Bend, err = pitch.Encode(result.Stream)
	if err != nil {
		return nil, err
	}
	return result, nil
}
