package geom

import (
	"errors"
	"math"
	"testing"
)

func TestManhattanDistance(t *testing.T) {
	cases := []struct {
		a, b Coordinate
		want Distance
	}{
		{C(0, 0), C(0, 0), 0},
		{C(8, 7), C(2, 10), 9},
		{C(2, 10), C(8, 7), 9},
		{C(-3, -4), C(3, 4), 14},
		{C(math.MinInt64, 0), C(-1, 0), math.MaxInt64},
		{C(0, math.MaxInt64), C(0, 0), math.MaxInt64},
	}
	for _, tc := range cases {
		got, err := ManhattanDistance(tc.a, tc.b)
		if err != nil {
			t.Fatalf("ManhattanDistance(%v, %v) error: %v", tc.a, tc.b, err)
		}
		if got != tc.want {
			t.Fatalf("ManhattanDistance(%v, %v) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestManhattanDistanceOverflow(t *testing.T) {
	cases := []struct {
		name string
		a, b Coordinate
	}{
		{"x span exceeds int64", C(math.MinInt64, 0), C(0, 0)},
		{"sum exceeds int64", C(math.MaxInt64, 1), C(0, 0)},
		{"sum exceeds uint64", C(math.MinInt64, math.MinInt64), C(math.MaxInt64, math.MaxInt64)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ManhattanDistance(tc.a, tc.b)
			if !errors.Is(err, ErrOverflow) {
				t.Fatalf("expected ErrOverflow, got %v", err)
			}
		})
	}
}

func TestAbsDiffExtremes(t *testing.T) {
	if got := AbsDiff(math.MaxInt64, math.MinInt64); got != math.MaxUint64 {
		t.Fatalf("AbsDiff extremes = %d, want %d", got, uint64(math.MaxUint64))
	}
	if got := AbsDiff(-5, 5); got != 10 {
		t.Fatalf("AbsDiff(-5, 5) = %d, want 10", got)
	}
}

func TestCheckedArithmetic(t *testing.T) {
	if v, err := CheckedAdd(4_000_000, 9); err != nil || v != 4_000_009 {
		t.Fatalf("CheckedAdd = %d, %v", v, err)
	}
	if _, err := CheckedAdd(math.MaxInt64, 1); !errors.Is(err, ErrOverflow) {
		t.Fatalf("CheckedAdd(max, 1) expected overflow, got %v", err)
	}
	if _, err := CheckedAdd(math.MinInt64, -1); !errors.Is(err, ErrOverflow) {
		t.Fatalf("CheckedAdd(min, -1) expected overflow, got %v", err)
	}
	if v, err := CheckedSub(-2, 9); err != nil || v != -11 {
		t.Fatalf("CheckedSub = %d, %v", v, err)
	}
	if _, err := CheckedSub(math.MinInt64, 1); !errors.Is(err, ErrOverflow) {
		t.Fatalf("CheckedSub(min, 1) expected overflow, got %v", err)
	}
	if _, err := CheckedSub(math.MaxInt64, -1); !errors.Is(err, ErrOverflow) {
		t.Fatalf("CheckedSub(max, -1) expected overflow, got %v", err)
	}
}

func TestCoordinateLess(t *testing.T) {
	if !C(5, 0).Less(C(0, 1)) {
		t.Fatalf("row-major order must compare Y first")
	}
	if !C(0, 1).Less(C(1, 1)) {
		t.Fatalf("same row must compare X")
	}
	if C(1, 1).Less(C(1, 1)) {
		t.Fatalf("Less must be strict")
	}
	if got := C(14, 11).String(); got != "(14, 11)" {
		t.Fatalf("String() = %q", got)
	}
}
