package detune

import (
	"errors"
	"fmt"

	"github.com/james-see/microtune/pkg/notes"
)

// Flag characters read from the resampler flag string
const (
	FlagEDO       = '#'
	FlagCenter    = '$'
	FlagTuning    = '^'
	FlagResampler = '!'
)

// ErrStrayDigits is reported for digits that follow no flag
var ErrStrayDigits = errors.New("flag string has digits before any flag")

// FlagError describes a flag string that was only partly understood
type FlagError struct {
	Flags string
	Pos   int
	Err   error
}

func (e *FlagError) Error() string {
	return fmt.Sprintf("flags %q at %d: %v", e.Flags, e.Pos, e.Err)
}

func (e *FlagError) Unwrap() error {
	return e.Err
}

// Flags is a parsed resampler flag string
type Flags struct {
	EDO            int // 0 when not given
	Center         int
	TuningIndex    int // 0 when not given
	ResamplerIndex int

	// Values holds every flag in the string, including the host's own
	Values map[rune]int
	Order  []rune
}

// ParseFlags reads a flag string such as "g-5B50#31$60". Each character that
// is neither a digit nor '-' starts a flag; an optional '-' negates it and the
// following digits are its value.
func ParseFlags(s string) (*Flags, []error) {
	f := &Flags{
		Center:         notes.A4,
		ResamplerIndex: 1,
		Values:         make(map[rune]int),
	}
	var warnings []error

	var (
		current  rune
		have     bool
		value    int
		negative bool
	)
	commit := func() {
		if !have {
			return
		}
		if negative {
			value = -value
		}
		if _, seen := f.Values[current]; !seen {
			f.Order = append(f.Order, current)
		}
		f.Values[current] = value
	}

	for i, c := range s {
		switch {
		case c >= '0' && c <= '9':
			if !have {
				warnings = append(warnings, &FlagError{Flags: s, Pos: i, Err: ErrStrayDigits})
				continue
			}
			value = value*10 + int(c-'0')
		case c == '-':
			negative = true
		default:
			commit()
			current, have, value, negative = c, true, 0, false
		}
	}
	commit()

	if v, ok := f.Values[FlagEDO]; ok && v > 0 {
		f.EDO = v
	}
	if v, ok := f.Values[FlagCenter]; ok {
		f.Center = v
	}
	if v, ok := f.Values[FlagTuning]; ok && v > 0 {
		f.TuningIndex = v
	}
	if v, ok := f.Values[FlagResampler]; ok && v > 0 {
		f.ResamplerIndex = v
	}

	return f, warnings
}
