package pitch

// decodeState is the state of the pitch-bend string automaton
type decodeState int

const (
	expectHigh decodeState = iota // next symbol starts a value, or '#' opens a run
	expectLow                     // next symbol completes the pending value
	runCount                      // reading run digits until the closing '#'
)

// decoder carries the automaton state between symbols.
type decoder struct {
	state   decodeState
	high    uint16
	reps    int
	runOver bool
	hasLast bool
	last    int16
	out     Stream
	invalid []int
}

// Decode parses a pitch-bend string. Unknown symbols decode as InvalidSymbol
// and are reported in a *SymbolError, as are run counts above MaxRun; the
// stream is returned either way.
func Decode(s string) (Stream, error) {
	var d decoder
	for i := 0; i < len(s); i++ {
		d.step(i, s[i])
	}
	d.finish(len(s))

	if len(d.invalid) > 0 {
		return d.out, &SymbolError{Offsets: d.invalid, Input: s}
	}
	return d.out, nil
}

func (d *decoder) step(i int, c byte) {
	switch d.state {
	case expectHigh:
		if c == runMarker {
			d.high = 0
			d.reps = 0
			d.runOver = false
			d.state = runCount
			return
		}
		d.high = uint16(d.symbol(i, c))
		d.state = expectLow

	case expectLow:
		val := (d.high<<6 | uint16(d.symbol(i, c))) & 0xFFF
		// bit 11 is the sign: move the field to the top of 16 bits and shift back
		d.emit(int16(val<<4) >> 4)
		d.state = expectHigh

	case runCount:
		switch {
		case c == runMarker:
			if d.hasLast {
				for n := 1; n < d.reps; n++ {
					d.out = append(d.out, d.last)
				}
			}
			d.reps = 0
			d.state = expectHigh
		case c >= '0' && c <= '9':
			if d.runOver {
				return
			}
			d.reps = d.reps*10 + int(c-'0')
			if d.reps > MaxRun {
				d.reps = MaxRun
				d.runOver = true
				d.invalid = append(d.invalid, i)
			}
		default:
			d.invalid = append(d.invalid, i)
		}
	}
}

// finish flags a value or run left open at the end of input.
func (d *decoder) finish(end int) {
	if d.state != expectHigh {
		d.invalid = append(d.invalid, end)
		d.state = expectHigh
	}
}

func (d *decoder) symbol(i int, c byte) byte {
	v := symbolValues[c]
	if v == InvalidSymbol {
		d.invalid = append(d.invalid, i)
	}
	return v
}

func (d *decoder) emit(v int16) {
	d.out = append(d.out, v)
	d.last = v
	d.hasLast = true
}
