package core

import (
	"math"
	"slices"
	"testing"
	"time"
)

func maskFromRows(rows ...string) []bool {
	var out []bool
	for _, row := range rows {
		for _, ch := range row {
			out = append(out, ch == '1')
		}
	}
	return out
}

func TestShiftNoWrap(t *testing.T) {
	src := maskFromRows(
		"100",
		"000",
		"001",
	)
	tests := []struct {
		name string
		off  Offset
		want []bool
	}{
		{"right", Offset{DRow: 0, DCol: 1}, maskFromRows("010", "000", "000")},
		{"left", Offset{DRow: 0, DCol: -1}, maskFromRows("000", "000", "010")},
		{"down-right", Offset{DRow: 1, DCol: 1}, maskFromRows("000", "010", "000")},
		{"up-left", Offset{DRow: -1, DCol: -1}, maskFromRows("000", "010", "000")},
		{"up", Offset{DRow: -1, DCol: 0}, maskFromRows("000", "001", "000")},
		{"off the grid", Offset{DRow: 3, DCol: 0}, maskFromRows("000", "000", "000")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := make([]bool, len(src))
			for i := range dst {
				dst[i] = true
			}
			ShiftNoWrap(dst, src, 3, 3, tt.off)
			if !slices.Equal(dst, tt.want) {
				t.Errorf("ShiftNoWrap(%+v) = %v, want %v", tt.off, dst, tt.want)
			}
		})
	}
}

func TestShiftNoWrapRectangular(t *testing.T) {
	src := maskFromRows(
		"0001",
		"1000",
	)
	dst := make([]bool, len(src))
	ShiftNoWrap(dst, src, 4, 2, Offset{DRow: 1, DCol: 1})
	if want := maskFromRows("0000", "0000"); !slices.Equal(dst, want) {
		t.Fatalf("edge cells must drop, got %v", dst)
	}
	ShiftNoWrap(dst, src, 4, 2, Offset{DRow: -1, DCol: 1})
	if want := maskFromRows("0100", "0000"); !slices.Equal(dst, want) {
		t.Fatalf("got %v, want %v", dst, want)
	}
}

func TestGridBasics(t *testing.T) {
	g := NewGrid[uint8](3, 2)
	if g.W != 3 || g.H != 2 || len(g.Cells()) != 6 {
		t.Fatalf("grid dims %dx%d len %d", g.W, g.H, len(g.Cells()))
	}
	g.Set(2, 1, 7)
	if g.At(2, 1) != 7 || g.Cells()[g.Index(2, 1)] != 7 {
		t.Fatal("Set/At disagree")
	}
	if g.InBounds(3, 0) || g.InBounds(0, -1) || !g.InBounds(0, 0) {
		t.Fatal("InBounds wrong")
	}
	c := g.Clone()
	c.Set(0, 0, 1)
	if g.At(0, 0) != 0 {
		t.Fatal("Clone shares storage")
	}
	g.Fill(4)
	if !slices.Equal(g.Mask(func(v uint8) bool { return v == 4 }), []bool{true, true, true, true, true, true}) {
		t.Fatal("Fill/Mask mismatch")
	}

	tiny := NewGrid[int](0, -2)
	if tiny.W != 1 || tiny.H != 1 {
		t.Fatalf("non-positive dims should bump to 1, got %dx%d", tiny.W, tiny.H)
	}
}

func TestClamp(t *testing.T) {
	nan := math.NaN()
	cases := []struct{ v, want float64 }{{-1, 0}, {0.5, 0.5}, {2, 1}, {nan, 0}}
	for _, c := range cases {
		if got := Clamp(c.v, 0, 1); got != c.want {
			t.Errorf("Clamp(%v) = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestFixedStep(t *testing.T) {
	fs := NewFixedStep(10)
	start := time.Unix(0, 0)
	if !fs.ShouldStepAt(start) {
		t.Fatal("first poll should step")
	}
	if fs.ShouldStepAt(start.Add(50 * time.Millisecond)) {
		t.Fatal("half an interval should not step")
	}
	if !fs.ShouldStepAt(start.Add(100 * time.Millisecond)) {
		t.Fatal("a full interval should step")
	}

	fs.Pause()
	if fs.ShouldStepAt(start.Add(time.Second)) {
		t.Fatal("paused controller stepped")
	}
	fs.Resume()
	if fs.ShouldStepAt(start.Add(10 * time.Second)) {
		t.Fatal("time spent paused must not be credited")
	}
}
