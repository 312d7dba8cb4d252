package tuning

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format is a tuning file format
type Format string

const (
	FormatScl     Format = "scl"
	FormatTun     Format = "tun"
	FormatUnknown Format = "unknown"
)

// ErrUnsupportedFormat is returned for files that are neither .scl nor .tun
var ErrUnsupportedFormat = errors.New("tuning: unsupported tuning file type")

// DetectFormat detects the format of a tuning file from its extension
func DetectFormat(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".scl":
		return FormatScl
	case ".tun":
		return FormatTun
	default:
		return FormatUnknown
	}
}

// Load reads a tuning file. Options apply to .scl scales only. Line-level
// problems are returned as diagnostics alongside the tuning.
func Load(path string, opts ...Option) (*Source, []error, error) {
	format := DetectFormat(path)
	if format == FormatUnknown {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open tuning file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var (
		src      *Source
		warnings []error
	)
	switch format {
	case FormatScl:
		var scl *Scl
		scl, warnings, err = ParseScl(f)
		if err == nil {
			name := scl.Description
			if name == "" {
				name = filepath.Base(path)
			}
			src, err = FromScale(name, scl.Degrees, opts...)
		}
	case FormatTun:
		var tun *Tun
		tun, warnings, err = ParseTun(f)
		if err == nil {
			src = FromTable(filepath.Base(path), tun.Cents)
		}
	}

	for _, w := range warnings {
		var perr *ParseError
		if errors.As(w, &perr) {
			perr.File = path
		}
	}
	if err != nil {
		return nil, warnings, fmt.Errorf("%s: %w", path, err)
	}
	return src, warnings, nil
}
