// Package tuning maps continuous pitch positions to tuned pitches.
//
// A Source is one of three tunings: an equal division of the octave, a
// repeating scale read from a Scala .scl file, or an explicit per-note table
// read from an AnaMark .tun file. Detune samples the tuning at a fractional
// MIDI position and interpolates smoothly between scale steps.
package tuning

import (
	"errors"
	"fmt"
	"math"
)

// Reference positions
const (
	// A4 is the MIDI index every Detune result is measured from
	A4 = 69

	// TableSize is the number of notes in a per-note table
	TableSize = 128

	// OctaveCents is the equave of an equal division tuning
	OctaveCents = 1200.0

	// MaxDivisions is the largest equal division EqualDivision accepts
	MaxDivisions = 10000
)

// Errors returned by constructors and Detune
var (
	ErrUninitialized = errors.New("tuning: source used before a tuning was loaded")
	ErrDivisions     = errors.New("tuning: number of divisions out of range")
	ErrEmptyScale    = errors.New("tuning: scale has no degrees")
	ErrZeroEquave    = errors.New("tuning: scale repeats at zero cents")
)

// Kind discriminates the active variant of a Source
type Kind int

const (
	KindNone Kind = iota
	KindEqualDivision
	KindScale
	KindTable
)

func (k Kind) String() string {
	switch k {
	case KindEqualDivision:
		return "edo"
	case KindScale:
		return "scale"
	case KindTable:
		return "table"
	default:
		return "none"
	}
}

// Table holds absolute cents above MIDI note 0 for every MIDI note
type Table [TableSize]float64

// Source is a tuning. The zero value is uninitialized and every Detune call
// on it fails with ErrUninitialized.
type Source struct {
	kind Kind
	name string

	// EqualDivision and Scale: degrees 1..N-1 followed by the equave
	degrees   []float64
	divisions int
	reference int

	// Table
	table Table
}

// Option configures a repeating scale
type Option func(*Source)

// WithReference sets the MIDI index at which a repeating scale coincides
// with 12-EDO. The default is A4.
func WithReference(index int) Option {
	return func(s *Source) {
		s.reference = index
	}
}

// EqualDivision returns the n-EDO tuning
func EqualDivision(n int, opts ...Option) (*Source, error) {
	if n <= 0 || n > MaxDivisions {
		return nil, fmt.Errorf("%w: %d", ErrDivisions, n)
	}

	degrees := make([]float64, n)
	for i := 1; i < n; i++ {
		degrees[i-1] = OctaveCents * float64(i) / float64(n)
	}
	degrees[n-1] = OctaveCents

	s := &Source{
		kind:      KindEqualDivision,
		name:      fmt.Sprintf("%d-EDO", n),
		degrees:   degrees,
		divisions: n,
		reference: A4,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// FromScale returns a repeating scale. cents lists every degree above the
// root; the last entry is the interval the scale repeats at.
func FromScale(name string, cents []float64, opts ...Option) (*Source, error) {
	if len(cents) == 0 {
		return nil, ErrEmptyScale
	}
	if cents[len(cents)-1] == 0 {
		return nil, ErrZeroEquave
	}

	s := &Source{
		kind:      KindScale,
		name:      name,
		degrees:   append([]float64(nil), cents...),
		reference: A4,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// FromTable returns a per-note tuning
func FromTable(name string, table Table) *Source {
	return &Source{
		kind:  KindTable,
		name:  name,
		table: table,
	}
}

// Kind returns the active variant
func (s *Source) Kind() Kind {
	if s == nil {
		return KindNone
	}
	return s.kind
}

// Name returns a display name for the tuning
func (s *Source) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

// Len returns the number of steps in one period of the tuning
func (s *Source) Len() int {
	switch s.Kind() {
	case KindEqualDivision, KindScale:
		return len(s.degrees)
	case KindTable:
		return TableSize
	}
	return 0
}

// Reference returns the MIDI index a repeating scale is anchored at
func (s *Source) Reference() int {
	switch s.Kind() {
	case KindEqualDivision, KindScale:
		return s.reference
	case KindTable:
		return 0
	}
	return A4
}

// Equave returns the interval, in cents, the tuning repeats at
func (s *Source) Equave() float64 {
	switch s.Kind() {
	case KindEqualDivision, KindScale:
		return s.degrees[len(s.degrees)-1]
	}
	return 0
}

// Detune returns the tuned pitch at the fractional MIDI position pos, in cents
// relative to A4. For 12-EDO this is 100*(pos-69).
func (s *Source) Detune(pos float64) (float64, error) {
	switch s.Kind() {
	case KindEqualDivision, KindScale:
		return s.scaleCents(pos), nil
	case KindTable:
		return s.tableCents(pos), nil
	}
	return 0, ErrUninitialized
}

func (s *Source) scaleCents(pos float64) float64 {
	n := len(s.degrees)
	delta := pos - float64(s.reference)

	octave := math.Floor(delta / float64(n))
	p := delta - octave*float64(n)
	i := int(math.Floor(p))
	if i >= n {
		// p rounded up to n
		i, octave = 0, octave+1
		p = 0
	}
	t := p - float64(i)

	cents := CatmullRom(s.step(i-1), s.step(i), s.step(i+1), s.step(i+2), t)
	cents += octave * s.Equave()
	return cents + 100*float64(s.reference-A4)
}

// step returns the pitch of scale step k above the reference. Steps outside
// one period carry their own equave so neighbors stay continuous.
func (s *Source) step(k int) float64 {
	n := len(s.degrees)
	cents := float64(floorDiv(k, n)) * s.Equave()
	if d := wrapMod(k, n); d > 0 {
		cents += s.degrees[d-1]
	}
	return cents
}

func (s *Source) tableCents(pos float64) float64 {
	i := int(math.Floor(pos))
	t := pos - float64(i)

	cents := CatmullRom(
		s.table[wrapMod(i-1, TableSize)],
		s.table[wrapMod(i, TableSize)],
		s.table[wrapMod(i+1, TableSize)],
		s.table[wrapMod(i+2, TableSize)],
		t,
	)
	return cents - 100*A4
}
