package notes

import (
	"errors"
	"testing"
)

func TestToIndex(t *testing.T) {
	tests := []struct {
		name     string
		expected int
	}{
		{"A4", 69},
		{"C4", 60},
		{"C#4", 61},
		{"B3", 59},
		{"C-1", 0},
		{"C#-1", 1},
		{"A-1", 9},
		{"G9", 127},
		{"B9", 131},
		{"E0", 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ToIndex(tt.name)
			if err != nil {
				t.Fatalf("ToIndex(%q) error = %v", tt.name, err)
			}
			if result != tt.expected {
				t.Errorf("ToIndex(%q) = %d, want %d", tt.name, result, tt.expected)
			}
		})
	}
}

func TestToIndexInvalid(t *testing.T) {
	tests := []string{
		"",
		"H4",
		"a4",
		"C",
		"C#",
		"C-",
		"C-2",
		"Cb4",
		"C4x",
		"C+4",
		"#4",
	}

	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ToIndex(name)
			if !errors.Is(err, ErrInvalidNote) {
				t.Errorf("ToIndex(%q) error = %v, want ErrInvalidNote", name, err)
			}
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Errorf("ToIndex(%q) error should be a *ParseError", name)
			}
		})
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		index    int
		expected string
	}{
		{69, "A4"},
		{60, "C4"},
		{61, "C#4"},
		{0, "C-1"},
		{11, "B-1"},
		{127, "G9"},
		{-1, "B-2"},
	}

	for _, tt := range tests {
		if result := Name(tt.index); result != tt.expected {
			t.Errorf("Name(%d) = %q, want %q", tt.index, result, tt.expected)
		}
	}
}

func TestNameRoundTrip(t *testing.T) {
	for i := 0; i <= 131; i++ {
		name := Name(i)
		index, err := ToIndex(name)
		if err != nil {
			t.Fatalf("ToIndex(Name(%d) = %q) error = %v", i, name, err)
		}
		if index != i {
			t.Errorf("ToIndex(Name(%d)) = %d (via %q)", i, index, name)
		}
	}
}

func TestCents12(t *testing.T) {
	if c := Cents12(A4); c != 0 {
		t.Errorf("Cents12(A4) = %v, want 0", c)
	}
	if c := Cents12(60); c != -900 {
		t.Errorf("Cents12(60) = %v, want -900", c)
	}
}
