package tuning

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Scala file errors
var (
	ErrMixedDegree = errors.New("degree is neither a ratio nor cents")
	ErrBadDegree   = errors.New("malformed degree")
	ErrNoteCount   = errors.New("note count does not match degrees")
)

// Scl is a parsed Scala scale file
type Scl struct {
	Description string
	Count       int
	Degrees     []float64 // cents above the root, last entry is the equave
}

// ParseScl reads a Scala .scl file. Lines that cannot be read are returned
// as diagnostics and skipped.
func ParseScl(r io.Reader) (*Scl, []error, error) {
	scl := &Scl{}
	var warnings []error

	scanner := bufio.NewScanner(r)
	lineNo := 0
	header := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.HasPrefix(line, "!") {
			continue
		}

		switch header {
		case 0:
			scl.Description = strings.TrimSpace(line)
			header++
			continue
		case 1:
			header++
			fields := strings.Fields(line)
			if len(fields) == 0 {
				warnings = append(warnings, &ParseError{Line: lineNo, Text: line, Err: ErrNoteCount})
				continue
			}
			n, err := strconv.Atoi(fields[0])
			if err != nil {
				warnings = append(warnings, &ParseError{Line: lineNo, Text: line, Err: err})
				continue
			}
			scl.Count = n
			continue
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		cents, err := parseDegree(fields[0])
		if err != nil {
			warnings = append(warnings, &ParseError{Line: lineNo, Text: line, Err: err})
			continue
		}
		scl.Degrees = append(scl.Degrees, cents)
	}
	if err := scanner.Err(); err != nil {
		return nil, warnings, fmt.Errorf("failed to read scl: %w", err)
	}

	if len(scl.Degrees) == 0 {
		return nil, warnings, ErrEmptyScale
	}
	if scl.Degrees[len(scl.Degrees)-1] == 0 {
		return nil, warnings, ErrZeroEquave
	}
	if scl.Count != len(scl.Degrees) {
		warnings = append(warnings, fmt.Errorf("%w: header says %d, found %d", ErrNoteCount, scl.Count, len(scl.Degrees)))
	}

	return scl, warnings, nil
}

// parseDegree converts one scale degree to cents
func parseDegree(tok string) (float64, error) {
	hasSlash := strings.Contains(tok, "/")
	hasDot := strings.Contains(tok, ".")

	switch {
	case hasSlash && hasDot:
		return 0, ErrMixedDegree

	case hasSlash:
		numText, denText, _ := strings.Cut(tok, "/")
		num, err := strconv.Atoi(numText)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrBadDegree, err)
		}
		den, err := strconv.Atoi(denText)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrBadDegree, err)
		}
		if num <= 0 || den <= 0 {
			return 0, fmt.Errorf("%w: ratio %s is not positive", ErrBadDegree, tok)
		}
		return 1200 * math.Log2(float64(num)/float64(den)), nil

	case hasDot:
		cents, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrBadDegree, err)
		}
		return cents, nil

	default:
		n, err := strconv.Atoi(tok)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrBadDegree, err)
		}
		if n <= 0 {
			return 0, fmt.Errorf("%w: ratio %d is not positive", ErrBadDegree, n)
		}
		return 1200 * math.Log2(float64(n)), nil
	}
}
