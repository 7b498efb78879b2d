package scan

import (
	"context"
	"errors"
	"fmt"

	"beaconzone/internal/coverage"
	"beaconzone/internal/geom"
	"beaconzone/internal/trace"
)

var (
	// ErrNoSolution is returned when the square has no uncovered cell.
	// Squares with several uncovered cells are not detected: the first one in
	// row-major order wins.
	ErrNoSolution = errors.New("no uncovered position in square")

	// ErrInvalidSquare is returned for squares with a negative bound.
	ErrInvalidSquare = errors.New("invalid search square")
)

// ctxCheckRows is how many rows are scanned between cancellation checks.
const ctxCheckRows = 1024

// Square is the search area [0, MaxX] x [0, MaxY], bounds inclusive.
type Square struct {
	MaxX int64
	MaxY int64
}

// Validate rejects squares that do not contain the origin.
func (sq Square) Validate() error {
	if sq.MaxX < 0 || sq.MaxY < 0 {
		return fmt.Errorf("%w: [0, %d] x [0, %d]", ErrInvalidSquare, sq.MaxX, sq.MaxY)
	}
	return nil
}

// Rows returns the number of rows in the square.
func (sq Square) Rows() uint64 {
	if sq.MaxY < 0 {
		return 0
	}
	return uint64(sq.MaxY) + 1
}

func (sq Square) String() string {
	return fmt.Sprintf("[0, %d] x [0, %d]", sq.MaxX, sq.MaxY)
}

// GapInRow runs the skip-scan on a single row and returns the first uncovered
// column in [0, maxX].
//
// Whenever a sensor covers the current column, x jumps to the column right
// after that sensor's slice of the row and all sensors are tested again,
// since they are not sorted. Each sensor can push x at most once per row.
func GapInRow(sensors []coverage.Sensor, y, maxX int64) (int64, bool) {
	x := int64(0)
cast:
	for x <= maxX {
		p := geom.Coordinate{X: x, Y: y}
		for _, s := range sensors {
			if !s.Covers(p) {
				continue
			}
			// Covers implies the row intersects the diamond, so ExitX > x.
			exit, _ := s.ExitX(y)
			x = max(x, exit)
			continue cast
		}
		return x, true
	}
	return 0, false
}

// FindGap scans the square row by row, top to bottom, and returns the first
// cell not covered by any sensor.
func FindGap(ctx context.Context, sensors []coverage.Sensor, sq Square) (geom.Coordinate, error) {
	if err := sq.Validate(); err != nil {
		return geom.Coordinate{}, err
	}
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeQuery, "gap", trace.CurrentSpan(ctx).SpanID)
	span.WithExtra("square", sq.String())

	for y := int64(0); y <= sq.MaxY; y++ {
		if y%ctxCheckRows == 0 {
			if err := ctx.Err(); err != nil {
				span.End("canceled")
				return geom.Coordinate{}, err
			}
		}
		if x, ok := GapInRow(sensors, y, sq.MaxX); ok {
			c := geom.Coordinate{X: x, Y: y}
			span.End("found " + c.String())
			return c, nil
		}
		// guards y++ overflow when MaxY == MaxInt64
		if y == sq.MaxY {
			break
		}
	}
	span.End("exhausted")
	return geom.Coordinate{}, fmt.Errorf("%w %v", ErrNoSolution, sq)
}
