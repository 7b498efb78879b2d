package geom

import (
	"errors"
	"fmt"
	"math"
	"math/bits"

	"fortio.org/safecast"
)

// ErrOverflow is returned when an arithmetic result does not fit into int64.
var ErrOverflow = errors.New("arithmetic overflow")

// Distance is a Manhattan distance between two coordinates.
type Distance = int64

// Coordinate is an integer point on the plane. X grows to the right, Y grows down.
type Coordinate struct {
	X int64
	Y int64
}

// C is a shorthand constructor.
func C(x, y int64) Coordinate { return Coordinate{X: x, Y: y} }

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d, %d)", c.X, c.Y)
}

// Less orders coordinates row-major: by Y first, then by X.
func (c Coordinate) Less(o Coordinate) bool {
	return c.Y < o.Y || (c.Y == o.Y && c.X < o.X)
}

// AbsDiff returns |a - b| as an unsigned value. It never overflows: the
// largest possible difference of two int64 values fits in uint64.
func AbsDiff(a, b int64) uint64 {
	if a >= b {
		return uint64(a) - uint64(b)
	}
	return uint64(b) - uint64(a)
}

// ManhattanDistance returns |a.X-b.X| + |a.Y-b.Y|.
// The sum is computed unsigned and fails with ErrOverflow when it does not fit into Distance.
func ManhattanDistance(a, b Coordinate) (Distance, error) {
	sum, carry := bits.Add64(AbsDiff(a.X, b.X), AbsDiff(a.Y, b.Y), 0)
	if carry != 0 {
		return 0, fmt.Errorf("distance %v -> %v: %w", a, b, ErrOverflow)
	}
	d, err := safecast.Conv[int64](sum)
	if err != nil {
		return 0, fmt.Errorf("distance %v -> %v: %w", a, b, errors.Join(ErrOverflow, err))
	}
	return d, nil
}

// CheckedAdd returns a + b or ErrOverflow.
func CheckedAdd(a, b int64) (int64, error) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, fmt.Errorf("%d + %d: %w", a, b, ErrOverflow)
	}
	return a + b, nil
}

// CheckedSub returns a - b or ErrOverflow.
func CheckedSub(a, b int64) (int64, error) {
	if (b < 0 && a > math.MaxInt64+b) || (b > 0 && a < math.MinInt64+b) {
		return 0, fmt.Errorf("%d - %d: %w", a, b, ErrOverflow)
	}
	return a - b, nil
}
