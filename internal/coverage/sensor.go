// Package coverage models a sensor's diamond-shaped coverage area.
//
// A sensor at position P whose nearest beacon is B covers every point within
// Manhattan distance |P-B| of P. The diamond is never materialized; callers ask
// for the horizontal slice of it on a given row or test single points.
package coverage

import (
	"fmt"
	"math"

	"beaconzone/internal/geom"
)

// Sensor is immutable once constructed. Use NewSensor.
type Sensor struct {
	position geom.Coordinate
	beacon   geom.Coordinate
	radius   geom.Distance
}

// NewSensor derives the radius from the nearest beacon.
// It fails with geom.ErrOverflow when the radius, or any point of the diamond
// together with the column right after it, cannot be represented.
func NewSensor(position, beacon geom.Coordinate) (Sensor, error) {
	radius, err := geom.ManhattanDistance(position, beacon)
	if err != nil {
		return Sensor{}, fmt.Errorf("sensor at %v: %w", position, err)
	}
	if err := checkExtent(position, radius); err != nil {
		return Sensor{}, fmt.Errorf("sensor at %v with radius %d: %w", position, radius, err)
	}
	return Sensor{position: position, beacon: beacon, radius: radius}, nil
}

// MustSensor is NewSensor for fixtures; it panics on error.
func MustSensor(position, beacon geom.Coordinate) Sensor {
	s, err := NewSensor(position, beacon)
	if err != nil {
		panic(err)
	}
	return s
}

// checkExtent keeps x-r, x+r+1, y-r and y+r inside int64.
func checkExtent(p geom.Coordinate, r geom.Distance) error {
	if _, err := geom.CheckedSub(p.X, r); err != nil {
		return err
	}
	if r == math.MaxInt64 {
		return fmt.Errorf("exit column: %w", geom.ErrOverflow)
	}
	if _, err := geom.CheckedAdd(p.X, r+1); err != nil {
		return err
	}
	if _, err := geom.CheckedSub(p.Y, r); err != nil {
		return err
	}
	if _, err := geom.CheckedAdd(p.Y, r); err != nil {
		return err
	}
	return nil
}

// Position returns the sensor's location.
func (s Sensor) Position() geom.Coordinate { return s.position }

// Beacon returns the nearest beacon the radius was derived from.
func (s Sensor) Beacon() geom.Coordinate { return s.beacon }

// Radius returns the cached Manhattan radius.
func (s Sensor) Radius() geom.Distance { return s.radius }

func (s Sensor) String() string {
	return fmt.Sprintf("sensor %v r=%d beacon %v", s.position, s.radius, s.beacon)
}

// reach returns how far the diamond extends left and right of the center
// column on row y, or false when the row misses the diamond.
func (s Sensor) reach(y int64) (int64, bool) {
	dy := geom.AbsDiff(y, s.position.Y)
	if dy > uint64(s.radius) {
		return 0, false
	}
	// dy <= radius <= MaxInt64, so the conversion is exact.
	return s.radius - int64(dy), true
}

// RowInterval returns the inclusive x range the sensor covers on row y.
func (s Sensor) RowInterval(y int64) (Interval, bool) {
	half, ok := s.reach(y)
	if !ok {
		return Interval{}, false
	}
	return Interval{Lo: s.position.X - half, Hi: s.position.X + half}, true
}

// Covers reports whether p lies within the sensor's radius. Points whose
// distance overflows are farther than any radius and are not covered.
func (s Sensor) Covers(p geom.Coordinate) bool {
	d, err := geom.ManhattanDistance(s.position, p)
	if err != nil {
		return false
	}
	return d <= s.radius
}

// ExitX returns the first column right of the sensor's coverage on row y.
// The result is only meaningful when the row intersects the diamond.
func (s Sensor) ExitX(y int64) (int64, bool) {
	half, ok := s.reach(y)
	if !ok {
		return 0, false
	}
	return s.position.X + half + 1, true
}

// Beacons returns the distinct beacon positions of the given sensors.
func Beacons(sensors []Sensor) map[geom.Coordinate]struct{} {
	set := make(map[geom.Coordinate]struct{}, len(sensors))
	for _, s := range sensors {
		set[s.beacon] = struct{}{}
	}
	return set
}
