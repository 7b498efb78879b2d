package coverage

import "fmt"

// Interval is an inclusive range of columns [Lo, Hi]. Lo <= Hi for every
// interval produced by this package.
type Interval struct {
	Lo int64
	Hi int64
}

// Len returns the number of columns in the interval. It is unsigned because
// an interval may span more than MaxInt64 columns.
func (iv Interval) Len() uint64 {
	if iv.Hi < iv.Lo {
		return 0
	}
	return uint64(iv.Hi) - uint64(iv.Lo) + 1
}

// Contains reports whether x lies in the interval.
func (iv Interval) Contains(x int64) bool {
	return iv.Lo <= x && x <= iv.Hi
}

func (iv Interval) String() string {
	return fmt.Sprintf("[%d, %d]", iv.Lo, iv.Hi)
}
