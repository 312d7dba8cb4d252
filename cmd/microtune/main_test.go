package main

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func writeRenderer(t *testing.T, dir string, status int) string {
	t.Helper()
	exe := filepath.Join(dir, "render.sh")
	body := "#!/bin/sh\necho \"$3 ${5} ${13}\" > \"$2\"\nexit " + string(rune('0'+status)) + "\n"
	if err := os.WriteFile(exe, []byte(body), 0o755); err != nil {
		t.Fatal(err)
	}
	return exe
}

func setupConfig(t *testing.T, status int) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell renderer requires a POSIX shell")
	}
	dir := t.TempDir()
	exe := writeRenderer(t, dir, status)
	cfg := filepath.Join(dir, "config")
	if err := os.WriteFile(cfg, []byte("# test\n!1 \""+exe+"\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MICROTUNE_CONFIG", cfg)
	return dir
}

func resampleArgs(out, note, flags, bend string) []string {
	return []string{"in.wav", out, note, "100", flags, "0", "500", "0", "0", "100", "0", "!120", bend}
}

func TestResampleForwardsToRenderer(t *testing.T) {
	dir := setupConfig(t, 0)
	out := filepath.Join(dir, "out.txt")

	if err := runResample(rootCmd, resampleArgs(out, "A4", "#12", "AA")); err != nil {
		t.Fatalf("runResample() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("renderer did not run: %v", err)
	}
	fields := strings.Fields(string(data))
	if len(fields) != 3 {
		t.Fatalf("renderer args = %q", data)
	}
	if fields[0] != "A4" {
		t.Errorf("note = %s, want A4", fields[0])
	}
	if fields[1] != "#12" {
		t.Errorf("flags = %s, want #12 forwarded unchanged", fields[1])
	}
}

func TestResampleRetunes(t *testing.T) {
	dir := setupConfig(t, 0)
	out := filepath.Join(dir, "out.txt")

	// C5 in 31-EDO sits nearly a semitone below its 12-EDO name
	if err := runResample(rootCmd, resampleArgs(out, "C5", "#31", "AA")); err != nil {
		t.Fatalf("runResample() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if strings.HasPrefix(string(data), "C5 ") {
		t.Errorf("note was not retuned: %q", data)
	}
}

func TestResampleExitStatus(t *testing.T) {
	dir := setupConfig(t, 3)
	out := filepath.Join(dir, "out.txt")

	err := runResample(rootCmd, resampleArgs(out, "A4", "", "AA"))
	var code exitCode
	if !errors.As(err, &code) {
		t.Fatalf("runResample() error = %v, want exitCode", err)
	}
	if code != 3 {
		t.Errorf("exit status = %d, want 3", code)
	}
}

func TestResampleArgCount(t *testing.T) {
	if err := runResample(rootCmd, []string{"in.wav", "out.wav", "A4"}); err == nil {
		t.Error("expected error for short argument list")
	}
}

func TestBendArg(t *testing.T) {
	if got := bendArg(nil); got != "" {
		t.Errorf("bendArg(nil) = %q", got)
	}
	if got := bendArg([]string{"AA#3#"}); got != "AA#3#" {
		t.Errorf("bendArg() = %q", got)
	}
}
