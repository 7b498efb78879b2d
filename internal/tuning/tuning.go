// Package tuning encodes a distress-beacon position as a single number.
package tuning

import (
	"fmt"
	"math"

	"beaconzone/internal/geom"
)

// Multiplier scales the x coordinate in Frequency.
const Multiplier = 4_000_000

// Frequency returns x*Multiplier + y. It fails with geom.ErrOverflow when the
// result does not fit into int64.
func Frequency(c geom.Coordinate) (int64, error) {
	const lim = math.MaxInt64 / Multiplier
	if c.X > lim || c.X < -lim {
		return 0, fmt.Errorf("tuning frequency of %v: %w", c, geom.ErrOverflow)
	}
	f, err := geom.CheckedAdd(c.X*Multiplier, c.Y)
	if err != nil {
		return 0, fmt.Errorf("tuning frequency of %v: %w", c, err)
	}
	return f, nil
}
