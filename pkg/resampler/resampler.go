// Package resampler models the 13-argument resampler command line and hands
// a rewritten invocation to the real renderer.
package resampler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strings"
)

// Argument positions, after the program name
const (
	InFile = iota
	OutFile
	Pitch
	Velocity
	Flags
	Offset
	Length
	Consonant
	Cutoff
	Volume
	Modulation
	Tempo
	PitchBend

	ArgCount
)

// ArgNames names each argument position for usage text
var ArgNames = [ArgCount]string{
	"in_file", "out_file", "pitch", "velocity", "flags", "offset", "length",
	"consonant", "cutoff", "volume", "modulation", "tempo", "pitchbend",
}

// Wine runs Windows renderers on other hosts
const Wine = "wine"

// ErrArgCount is returned for a command line of the wrong length
var ErrArgCount = errors.New("resampler: wrong number of arguments")

// Invocation is one resampler call
type Invocation struct {
	Args [ArgCount]string
}

// Parse builds an Invocation from the arguments following the program name
func Parse(args []string) (*Invocation, error) {
	if len(args) != ArgCount {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrArgCount, ArgCount, len(args))
	}
	inv := &Invocation{}
	copy(inv.Args[:], args)
	return inv, nil
}

// Usage returns the argument synopsis
func Usage() string {
	return strings.Join(ArgNames[:], " ")
}

// Get returns the argument at position i
func (inv *Invocation) Get(i int) string {
	return inv.Args[i]
}

// WithPitch returns a copy with the pitch and pitch-bend arguments replaced
func (inv *Invocation) WithPitch(note, bend string) *Invocation {
	out := *inv
	out.Args[Pitch] = note
	out.Args[PitchBend] = bend
	return &out
}

// CommandLine returns the program and arguments used to run exe
func CommandLine(exe string, inv *Invocation) (string, []string) {
	args := append([]string(nil), inv.Args[:]...)
	if runtime.GOOS != "windows" && strings.HasSuffix(strings.ToLower(exe), ".exe") {
		return Wine, append([]string{exe}, args...)
	}
	return exe, args
}

// Command returns the command that runs exe with inv
func Command(ctx context.Context, exe string, inv *Invocation) *exec.Cmd {
	name, args := CommandLine(exe, inv)
	return exec.CommandContext(ctx, name, args...)
}

// Run runs exe with inv and returns the renderer's exit status. The error is
// non-nil only when the renderer could not be started.
func Run(ctx context.Context, exe string, inv *Invocation, stdout, stderr io.Writer) (int, error) {
	cmd := Command(ctx, exe, inv)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return 0, nil
	case errors.As(err, &exitErr):
		return exitErr.ExitCode(), nil
	default:
		return -1, fmt.Errorf("failed to start renderer %s: %w", exe, err)
	}
}
