package resampler

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func sampleArgs() []string {
	return []string{
		"in.wav", "out.wav", "A4", "100", "g-5#31", "0", "500", "120",
		"0", "100", "0", "!120", "AA#5#",
	}
}

func TestParse(t *testing.T) {
	inv, err := Parse(sampleArgs())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if inv.Get(Pitch) != "A4" || inv.Get(Flags) != "g-5#31" || inv.Get(PitchBend) != "AA#5#" {
		t.Errorf("Parse() = %v", inv.Args)
	}
}

func TestParseWrongCount(t *testing.T) {
	for _, n := range []int{0, 1, 12, 14} {
		args := make([]string, n)
		if _, err := Parse(args); !errors.Is(err, ErrArgCount) {
			t.Errorf("Parse(%d args) error = %v, want ErrArgCount", n, err)
		}
	}
}

func TestWithPitch(t *testing.T) {
	inv, _ := Parse(sampleArgs())
	out := inv.WithPitch("A#4", "AQ")

	if out.Get(Pitch) != "A#4" || out.Get(PitchBend) != "AQ" {
		t.Errorf("WithPitch() = %v", out.Args)
	}
	if inv.Get(Pitch) != "A4" {
		t.Error("WithPitch() modified the original invocation")
	}
	for i := range out.Args {
		if i == Pitch || i == PitchBend {
			continue
		}
		if out.Args[i] != inv.Args[i] {
			t.Errorf("argument %s changed: %q -> %q", ArgNames[i], inv.Args[i], out.Args[i])
		}
	}
}

func TestCommandLine(t *testing.T) {
	inv, _ := Parse(sampleArgs())

	name, args := CommandLine("/usr/bin/renderer", inv)
	if name != "/usr/bin/renderer" || len(args) != ArgCount {
		t.Errorf("CommandLine() = %q %v", name, args)
	}

	name, args = CommandLine("moresampler.exe", inv)
	if runtime.GOOS == "windows" {
		if name != "moresampler.exe" {
			t.Errorf("CommandLine() = %q", name)
		}
		return
	}
	if name != Wine || args[0] != "moresampler.exe" || len(args) != ArgCount+1 {
		t.Errorf("CommandLine() = %q %v, want wine prefix", name, args)
	}
}

func TestUsage(t *testing.T) {
	usage := Usage()
	if !strings.HasPrefix(usage, "in_file out_file pitch") || !strings.HasSuffix(usage, "pitchbend") {
		t.Errorf("Usage() = %q", usage)
	}
}

func TestRunPropagatesStatus(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}

	dir := t.TempDir()
	script := filepath.Join(dir, "renderer")
	body := "#!/bin/sh\necho \"$3 ${13}\"\nexit 3\n"
	if err := os.WriteFile(script, []byte(body), 0755); err != nil {
		t.Fatal(err)
	}

	inv, _ := Parse(sampleArgs())
	var stdout, stderr bytes.Buffer
	code, err := Run(context.Background(), script, inv.WithPitch("C5", "AB"), &stdout, &stderr)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if code != 3 {
		t.Errorf("Run() exit code = %d, want 3", code)
	}
	if got := strings.TrimSpace(stdout.String()); got != "C5 AB" {
		t.Errorf("renderer saw %q, want %q", got, "C5 AB")
	}
}

func TestRunMissingRenderer(t *testing.T) {
	inv, _ := Parse(sampleArgs())
	_, err := Run(context.Background(), filepath.Join(t.TempDir(), "nope"), inv, nil, nil)
	if err == nil {
		t.Error("Run() expected error for a missing renderer")
	}
}
