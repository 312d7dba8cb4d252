package detune

import (
	"errors"
	"fmt"

	"github.com/james-see/microtune/pkg/config"
	"github.com/james-see/microtune/pkg/tuning"
)

// DefaultDivisions is the tuning used when nothing else is selected
const DefaultDivisions = 12

// Selection errors
var (
	ErrUnknownTuning = errors.New("tuning index not in config")
	ErrFlagConflict  = errors.New("^ cannot be combined with # or $")
)

// Select resolves the tuning requested by flags. A tuning file that cannot be
// used is reported and replaced by 12-EDO.
func Select(flags *Flags, cfg *config.Config) (*tuning.Source, []error) {
	var warnings []error

	if flags.TuningIndex > 0 {
		if _, ok := flags.Values[FlagEDO]; ok {
			warnings = append(warnings, ErrFlagConflict)
		} else if _, ok := flags.Values[FlagCenter]; ok {
			warnings = append(warnings, ErrFlagConflict)
		}

		path, ok := "", false
		if cfg != nil {
			path, ok = cfg.Tuning(flags.TuningIndex)
		}
		if !ok {
			warnings = append(warnings, fmt.Errorf("%w: ^%d", ErrUnknownTuning, flags.TuningIndex))
			return fallback(), warnings
		}

		src, lineWarnings, err := tuning.Load(path)
		warnings = append(warnings, lineWarnings...)
		if err != nil {
			warnings = append(warnings, fmt.Errorf("falling back to %d-EDO: %w", DefaultDivisions, err))
			return fallback(), warnings
		}
		return src, warnings
	}

	if flags.EDO > 0 {
		src, err := tuning.EqualDivision(flags.EDO, tuning.WithReference(flags.Center))
		if err == nil {
			return src, warnings
		}
		warnings = append(warnings, err)
	}

	return fallback(), warnings
}

func fallback() *tuning.Source {
	src, _ := tuning.EqualDivision(DefaultDivisions)
	return src
}
