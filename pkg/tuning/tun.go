package tuning

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// AnaMark file errors
var (
	ErrNoExactTuning = errors.New("tun: no [Exact Tuning] section")
	ErrBadNoteLine   = errors.New("expected <label> <index> = <cents>")
	ErrNoteRange     = errors.New("note index out of range")
)

const exactTuningMarker = "[exact tuning]"

// Tun is a parsed AnaMark .tun file
type Tun struct {
	// Cents holds absolute cents above MIDI note 0. Notes the file does not
	// list keep their 12-EDO value.
	Cents Table
}

// ParseTun reads the [Exact Tuning] section of an AnaMark .tun file. Lines
// that cannot be read are returned as diagnostics and skipped.
func ParseTun(r io.Reader) (*Tun, []error, error) {
	tun := &Tun{}
	for i := range tun.Cents {
		tun.Cents[i] = 100 * float64(i)
	}

	var warnings []error
	scanner := bufio.NewScanner(r)
	lineNo := 0
	inSection := false
	found := false
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, "[") {
			if found {
				// only the first section is read
				inSection = false
				continue
			}
			inSection = strings.EqualFold(line, exactTuningMarker)
			found = inSection
			continue
		}
		if !inSection || line == "" || strings.HasPrefix(line, ";") {
			continue
		}

		index, cents, err := parseNoteLine(line)
		if err != nil {
			warnings = append(warnings, &ParseError{Line: lineNo, Text: line, Err: err})
			continue
		}
		tun.Cents[index] = cents
	}
	if err := scanner.Err(); err != nil {
		return nil, warnings, fmt.Errorf("failed to read tun: %w", err)
	}
	if !found {
		return nil, warnings, ErrNoExactTuning
	}

	return tun, warnings, nil
}

func parseNoteLine(line string) (int, float64, error) {
	left, right, ok := strings.Cut(line, "=")
	if !ok {
		return 0, 0, ErrBadNoteLine
	}

	fields := strings.Fields(left)
	if len(fields) != 2 {
		return 0, 0, ErrBadNoteLine
	}
	index, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, ErrBadNoteLine
	}
	if index < 0 || index >= TableSize {
		return 0, 0, fmt.Errorf("%w: %d", ErrNoteRange, index)
	}

	cents, err := strconv.ParseFloat(strings.TrimSpace(right), 64)
	if err != nil {
		return 0, 0, ErrBadNoteLine
	}
	return index, cents, nil
}
