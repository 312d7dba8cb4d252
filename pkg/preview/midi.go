// Package preview renders a retuned note and its pitch-bend stream as a
// Standard MIDI File, so a tuning can be auditioned in any sequencer.
package preview

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/james-see/microtune/pkg/pitch"
)

// Rendering defaults
const (
	TicksPerQuarter = 480
	TicksPerPoint   = 5 // UTAU pitch points are five ticks apart
	DefaultTempo    = 120.0
	DefaultRange    = 24 // pitch bend range in semitones
	maxBend         = 8191
)

// ErrNoteRange is returned for notes outside 0..127
var ErrNoteRange = errors.New("preview: note out of MIDI range")

// Options controls rendering
type Options struct {
	Tempo     float64
	BendRange uint8 // semitones
	Channel   uint8
	Velocity  uint8
}

// DefaultOptions returns the options used by Render when a field is zero
func DefaultOptions() Options {
	return Options{
		Tempo:     DefaultTempo,
		BendRange: DefaultRange,
		Velocity:  100,
	}
}

func (o *Options) fill() {
	d := DefaultOptions()
	if o.Tempo <= 0 {
		o.Tempo = d.Tempo
	}
	if o.BendRange == 0 {
		o.BendRange = d.BendRange
	}
	if o.Velocity == 0 {
		o.Velocity = d.Velocity
	}
	o.Channel &= 0x0F
}

// BendValue converts cents to a 14-bit pitch bend value for a bend range of
// rangeSemitones.
func BendValue(cents float64, rangeSemitones uint8) int16 {
	v := cents / (100 * float64(rangeSemitones)) * maxBend
	switch {
	case v > maxBend:
		return maxBend
	case v < -maxBend-1:
		return -maxBend - 1
	}
	return int16(v)
}

// Render writes note held for the length of stream with one pitch bend event
// per stream point.
func Render(note int, stream pitch.Stream, opts Options) ([]byte, error) {
	if len(stream) == 0 {
		return nil, pitch.ErrEmptyStream
	}
	if note < 0 || note > 127 {
		return nil, fmt.Errorf("%w: %d", ErrNoteRange, note)
	}
	opts.fill()

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(TicksPerQuarter)

	var track smf.Track
	track.Add(0, smf.MetaTempo(opts.Tempo))
	track.Add(0, smf.MetaMeter(4, 4))

	// RPN 0 sets the pitch bend range
	ch := opts.Channel
	track.Add(0, midi.ControlChange(ch, 101, 0))
	track.Add(0, midi.ControlChange(ch, 100, 0))
	track.Add(0, midi.ControlChange(ch, 6, opts.BendRange))
	track.Add(0, midi.ControlChange(ch, 38, 0))

	track.Add(0, midi.Pitchbend(ch, BendValue(float64(stream[0]), opts.BendRange)))
	track.Add(0, midi.NoteOn(ch, uint8(note), opts.Velocity))

	last := stream[0]
	var delta uint32
	for _, c := range stream[1:] {
		delta += TicksPerPoint
		if c == last {
			continue
		}
		track.Add(delta, midi.Pitchbend(ch, BendValue(float64(c), opts.BendRange)))
		last = c
		delta = 0
	}

	track.Add(delta+TicksPerPoint, midi.NoteOff(ch, uint8(note)))
	track.Add(0, midi.Pitchbend(ch, 0))
	track.Close(0)

	if err := s.Add(track); err != nil {
		return nil, fmt.Errorf("failed to add track: %w", err)
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write MIDI: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile renders to filename
func WriteFile(filename string, note int, stream pitch.Stream, opts Options) error {
	data, err := Render(note, stream, opts)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}
