// Package config reads the microtune config file, which maps small integer
// indices to renderer executables and tuning files.
//
//	# comment
//	!1 "C:\Program Files (x86)\UTAU\resampler.exe"
//	1 "5edo.tun"
//
// Relative paths are resolved against the directory of the config file.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultName is the config file name looked up beside the executable
const DefaultName = "config"

// EnvPath overrides the config file location
const EnvPath = "MICROTUNE_CONFIG"

// Line errors
var (
	ErrBadIndex   = errors.New("expected a positive index")
	ErrNoPath     = errors.New("missing path")
	ErrUnquoted   = errors.New("unterminated quote")
	ErrDuplicated = errors.New("index defined twice")
)

// ParseError describes one config line that was skipped
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("config line %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Config holds the renderer and tuning file tables
type Config struct {
	Path        string
	Executables map[int]string
	Tunings     map[int]string
}

// New returns an empty config
func New() *Config {
	return &Config{
		Executables: make(map[int]string),
		Tunings:     make(map[int]string),
	}
}

// DefaultPath returns the config path for the running executable, honouring
// MICROTUNE_CONFIG.
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvPath); p != "" {
		return p, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable: %w", err)
	}
	return filepath.Join(filepath.Dir(exe), DefaultName), nil
}

// Load reads the config file at path
func Load(path string) (*Config, []error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	cfg, warnings := Parse(f, filepath.Dir(path))
	cfg.Path = path
	return cfg, warnings, nil
}

// Parse reads config lines from r. Malformed lines are returned as
// diagnostics and skipped.
func Parse(r io.Reader, baseDir string) (*Config, []error) {
	cfg := New()
	var warnings []error

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		table := cfg.Tunings
		if strings.HasPrefix(line, "!") {
			table = cfg.Executables
			line = line[1:]
		}

		index, path, err := parseEntry(line)
		if err != nil {
			warnings = append(warnings, &ParseError{Line: lineNo, Text: scanner.Text(), Err: err})
			continue
		}
		if _, ok := table[index]; ok {
			warnings = append(warnings, &ParseError{Line: lineNo, Text: scanner.Text(), Err: ErrDuplicated})
		}
		if !filepath.IsAbs(path) && baseDir != "" {
			path = filepath.Join(baseDir, path)
		}
		table[index] = path
	}
	if err := scanner.Err(); err != nil {
		warnings = append(warnings, fmt.Errorf("failed to read config: %w", err))
	}

	return cfg, warnings
}

func parseEntry(line string) (int, string, error) {
	digits := 0
	for digits < len(line) && line[digits] >= '0' && line[digits] <= '9' {
		digits++
	}
	if digits == 0 {
		return 0, "", ErrBadIndex
	}
	index, err := strconv.Atoi(line[:digits])
	if err != nil || index <= 0 {
		return 0, "", ErrBadIndex
	}

	rest := line[digits:]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return 0, "", ErrBadIndex
	}
	rest = strings.TrimSpace(rest)

	var path strings.Builder
	quoted := false
	for i := 0; i < len(rest); i++ {
		if rest[i] == '"' {
			quoted = !quoted
			continue
		}
		path.WriteByte(rest[i])
	}
	if quoted {
		return 0, "", ErrUnquoted
	}
	if path.Len() == 0 {
		return 0, "", ErrNoPath
	}
	return index, path.String(), nil
}

// Executable returns the renderer registered under index
func (c *Config) Executable(index int) (string, bool) {
	p, ok := c.Executables[index]
	return p, ok
}

// Tuning returns the tuning file registered under index
func (c *Config) Tuning(index int) (string, bool) {
	p, ok := c.Tunings[index]
	return p, ok
}
