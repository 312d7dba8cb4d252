package tuning

import (
	"errors"
	"math"
	"testing"
)

const tolerance = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

func TestEqualDivisionTwelveMatchesStandard(t *testing.T) {
	src, err := EqualDivision(12)
	if err != nil {
		t.Fatalf("EqualDivision(12) error = %v", err)
	}

	for _, pos := range []float64{69, 70, 68, 60, 0, 127, 69.25, 57.5, 81.999, -3.5} {
		cents, err := src.Detune(pos)
		if err != nil {
			t.Fatalf("Detune(%v) error = %v", pos, err)
		}
		if want := 100 * (pos - 69); !almostEqual(cents, want) {
			t.Errorf("Detune(%v) = %v, want %v", pos, cents, want)
		}
	}
}

func TestEqualDivisionReferenceIsExact(t *testing.T) {
	src, _ := EqualDivision(12)
	cents, err := src.Detune(69.0)
	if err != nil {
		t.Fatalf("Detune() error = %v", err)
	}
	if cents != 0 {
		t.Errorf("Detune(69) = %v, want 0", cents)
	}
}

func TestEqualDivisionSteps(t *testing.T) {
	tests := []struct {
		divisions int
		pos       float64
		expected  float64
	}{
		{31, 70, 1200.0 / 31},
		{31, 68, -1200.0 / 31},
		{31, 100, 1200},
		{19, 88, 1200},
		{5, 70, 240},
		{5, 64, -1200},
		{1, 70, 1200},
	}

	for _, tt := range tests {
		src, err := EqualDivision(tt.divisions)
		if err != nil {
			t.Fatalf("EqualDivision(%d) error = %v", tt.divisions, err)
		}
		cents, _ := src.Detune(tt.pos)
		if !almostEqual(cents, tt.expected) {
			t.Errorf("%d-EDO Detune(%v) = %v, want %v", tt.divisions, tt.pos, cents, tt.expected)
		}
	}
}

func TestEqualDivisionInvalid(t *testing.T) {
	for _, n := range []int{0, -12, MaxDivisions + 1, 50_000_000} {
		if _, err := EqualDivision(n); !errors.Is(err, ErrDivisions) {
			t.Errorf("EqualDivision(%d) error = %v, want ErrDivisions", n, err)
		}
	}
}

func TestEqualDivisionMax(t *testing.T) {
	src, err := EqualDivision(MaxDivisions)
	if err != nil {
		t.Fatalf("EqualDivision(%d) error = %v", MaxDivisions, err)
	}
	if src.Len() != MaxDivisions {
		t.Errorf("Len() = %d, want %d", src.Len(), MaxDivisions)
	}
}

func TestWithReference(t *testing.T) {
	twelve, _ := EqualDivision(12, WithReference(60))
	for _, pos := range []float64{60, 61.5, 69, 47} {
		cents, _ := twelve.Detune(pos)
		if want := 100 * (pos - 69); !almostEqual(cents, want) {
			t.Errorf("12-EDO@60 Detune(%v) = %v, want %v", pos, cents, want)
		}
	}

	five, _ := EqualDivision(5, WithReference(60))
	if five.Reference() != 60 {
		t.Errorf("Reference() = %d, want 60", five.Reference())
	}
	tests := []struct {
		pos      float64
		expected float64
	}{
		{60, -900},
		{61, -900 + 240},
		{65, -900 + 1200},
		{59, -900 - 240},
	}
	for _, tt := range tests {
		cents, _ := five.Detune(tt.pos)
		if !almostEqual(cents, tt.expected) {
			t.Errorf("5-EDO@60 Detune(%v) = %v, want %v", tt.pos, cents, tt.expected)
		}
	}
}

func TestScaleNegativeDeltaUsesLowerOctave(t *testing.T) {
	src, err := FromScale("pentatonic", []float64{204, 386, 702, 884, 1200})
	if err != nil {
		t.Fatalf("FromScale() error = %v", err)
	}

	// one step below the reference is the top degree of the octave below
	cents, _ := src.Detune(A4 - 1)
	if want := 884.0 - 1200.0; !almostEqual(cents, want) {
		t.Errorf("Detune(68) = %v, want %v", cents, want)
	}

	cents, _ = src.Detune(A4 - 5)
	if want := -1200.0; !almostEqual(cents, want) {
		t.Errorf("Detune(64) = %v, want %v", cents, want)
	}

	cents, _ = src.Detune(A4 + 7)
	if want := 1200.0 + 386.0; !almostEqual(cents, want) {
		t.Errorf("Detune(76) = %v, want %v", cents, want)
	}
}

func TestScaleIsContinuous(t *testing.T) {
	sources := map[string][]float64{
		"pentatonic":    {204, 386, 702, 884, 1200},
		"non-monotonic": {300, 100, 900, 700, 1200},
		"tritave":       {146.3, 292.6, 438.9, 1901.96},
	}

	const eps = 1e-6
	for name, cents := range sources {
		t.Run(name, func(t *testing.T) {
			src, err := FromScale(name, cents)
			if err != nil {
				t.Fatalf("FromScale() error = %v", err)
			}
			for k := 55; k <= 85; k++ {
				x := float64(k)
				below, _ := src.Detune(x - eps)
				at, _ := src.Detune(x)
				above, _ := src.Detune(x + eps)
				if math.Abs(at-below) > 1e-2 || math.Abs(above-at) > 1e-2 {
					t.Errorf("discontinuity at %v: %v, %v, %v", x, below, at, above)
				}
			}
		})
	}
}

func TestScalePassesThroughDegrees(t *testing.T) {
	degrees := []float64{204, 386, 702, 884, 1200}
	src, _ := FromScale("pentatonic", degrees)

	expected := []float64{0, 204, 386, 702, 884, 1200}
	for i, want := range expected {
		cents, _ := src.Detune(float64(A4 + i))
		if !almostEqual(cents, want) {
			t.Errorf("Detune(%d) = %v, want %v", A4+i, cents, want)
		}
	}
}

func TestFromScaleInvalid(t *testing.T) {
	if _, err := FromScale("empty", nil); !errors.Is(err, ErrEmptyScale) {
		t.Errorf("FromScale(nil) error = %v, want ErrEmptyScale", err)
	}
	if _, err := FromScale("zero", []float64{100, 0}); !errors.Is(err, ErrZeroEquave) {
		t.Errorf("FromScale(zero equave) error = %v, want ErrZeroEquave", err)
	}
}

func TestTable(t *testing.T) {
	var table Table
	for i := range table {
		table[i] = 100 * float64(i)
	}
	table[70] = 7050

	src := FromTable("test.tun", table)
	if src.Kind() != KindTable || src.Len() != TableSize {
		t.Fatalf("Kind() = %v, Len() = %d", src.Kind(), src.Len())
	}

	cents, _ := src.Detune(69)
	if !almostEqual(cents, 0) {
		t.Errorf("Detune(69) = %v, want 0", cents)
	}
	cents, _ = src.Detune(70)
	if !almostEqual(cents, 150) {
		t.Errorf("Detune(70) = %v, want 150", cents)
	}
	cents, _ = src.Detune(40.5)
	if !almostEqual(cents, -2850) {
		t.Errorf("Detune(40.5) = %v, want -2850", cents)
	}

	// between 69 and 70 the curve rises smoothly toward the raised note
	mid, _ := src.Detune(69.5)
	if mid <= 0 || mid >= 150 {
		t.Errorf("Detune(69.5) = %v, want between 0 and 150", mid)
	}
}

func TestUninitialized(t *testing.T) {
	var zero Source
	if _, err := zero.Detune(69); !errors.Is(err, ErrUninitialized) {
		t.Errorf("zero Source Detune() error = %v, want ErrUninitialized", err)
	}

	var nilSource *Source
	if _, err := nilSource.Detune(69); !errors.Is(err, ErrUninitialized) {
		t.Errorf("nil Source Detune() error = %v, want ErrUninitialized", err)
	}
	if nilSource.Kind() != KindNone || nilSource.Len() != 0 {
		t.Error("nil Source should report KindNone and zero length")
	}
}

func TestCatmullRom(t *testing.T) {
	tests := []struct {
		name           string
		p0, p1, p2, p3 float64
		t              float64
		expected       float64
	}{
		{"start", 0, 10, 20, 30, 0, 10},
		{"linear midpoint", 0, 10, 20, 30, 0.5, 15},
		{"flat", 5, 5, 5, 5, 0.7, 5},
		{"symmetric bump", 0, 0, 1, 0, 0.5, 0.5625},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CatmullRom(tt.p0, tt.p1, tt.p2, tt.p3, tt.t)
			if !almostEqual(result, tt.expected) {
				t.Errorf("CatmullRom() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	tests := map[Kind]string{
		KindNone:          "none",
		KindEqualDivision: "edo",
		KindScale:         "scale",
		KindTable:         "table",
	}
	for kind, expected := range tests {
		if kind.String() != expected {
			t.Errorf("Kind(%d).String() = %q, want %q", kind, kind.String(), expected)
		}
	}
}

func TestChart(t *testing.T) {
	src, _ := EqualDivision(24)
	rows, err := Chart(src, 60, 72)
	if err != nil {
		t.Fatalf("Chart() error = %v", err)
	}
	if len(rows) != 13 {
		t.Fatalf("Chart() rows = %d, want 13", len(rows))
	}
	if rows[0].Name != "C4" || rows[12].Name != "C5" {
		t.Errorf("Chart() spans %s..%s, want C4..C5", rows[0].Name, rows[12].Name)
	}
	// 24-EDO steps are quarter tones, so A4 stays put and C5 sits 150 cents above
	a4 := rows[9]
	if a4.Index != 69 || !almostEqual(a4.Tuned, 0) || !almostEqual(a4.Deviation, 0) {
		t.Errorf("A4 row = %+v", a4)
	}
	if !almostEqual(rows[12].Tuned, 150) || !almostEqual(rows[12].Deviation, -150) {
		t.Errorf("C5 row = %+v", rows[12])
	}

	if _, err := Chart(&Source{}, 60, 61); !errors.Is(err, ErrUninitialized) {
		t.Errorf("Chart(zero) error = %v, want ErrUninitialized", err)
	}
}
