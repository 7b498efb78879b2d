package scan

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"beaconzone/internal/coverage"
	"beaconzone/internal/geom"
	"beaconzone/internal/trace"
)

// progressRows is how many rows a band scans between progress reports.
const progressRows = 1 << 16

// Options tunes FindGapParallel.
type Options struct {
	Jobs     int             // max concurrent bands (0 = GOMAXPROCS)
	Bands    int             // number of row bands (0 = 4 * Jobs)
	Progress chan<- Progress // optional; the caller owns and closes it
}

// Progress reports how many rows have been scanned so far.
type Progress struct {
	Band      int
	RowsDone  uint64
	RowsTotal uint64
	BandDone  bool
	Found     bool
}

type band struct {
	index  int
	lo, hi int64
}

// splitRows cuts [0, maxY] into at most n contiguous bands.
func splitRows(maxY int64, n int) []band {
	rows := uint64(maxY) + 1
	if n <= 0 {
		n = 1
	}
	if uint64(n) > rows {
		n = int(rows)
	}
	size := rows / uint64(n)
	extra := rows % uint64(n)

	bands := make([]band, 0, n)
	lo := uint64(0)
	for i := 0; i < n; i++ {
		width := size
		if uint64(i) < extra {
			width++
		}
		hi := lo + width - 1
		bands = append(bands, band{index: i, lo: int64(lo), hi: int64(hi)})
		lo = hi + 1
	}
	return bands
}

// FindGapParallel splits the square into row bands and scans them
// concurrently. The result is the same cell FindGap returns: bands keep
// scanning until no earlier row can still hold a hit, and the hit with the
// smallest row wins.
func FindGapParallel(ctx context.Context, sensors []coverage.Sensor, sq Square, opts Options) (geom.Coordinate, error) {
	if err := sq.Validate(); err != nil {
		return geom.Coordinate{}, err
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	nBands := opts.Bands
	if nBands <= 0 {
		nBands = jobs * 4
	}
	bands := splitRows(sq.MaxY, nBands)

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeQuery, "gap-parallel", trace.CurrentSpan(ctx).SpanID)
	span.WithExtra("square", sq.String()).WithExtra("bands", strconv.Itoa(len(bands)))

	var (
		bestRow  atomic.Int64
		mu       sync.Mutex
		best     geom.Coordinate
		found    bool
		rowsDone atomic.Uint64
	)
	bestRow.Store(math.MaxInt64)
	total := sq.Rows()

	report := func(gctx context.Context, p Progress) {
		if opts.Progress == nil {
			return
		}
		select {
		case opts.Progress <- p:
		case <-gctx.Done():
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(bands)))

	for _, b := range bands {
		g.Go(func() error {
			bandSpan := trace.Begin(tracer, trace.ScopeBand, "band:"+strconv.Itoa(b.index), span.ID())
			var pending uint64
			flush := func(done, hit bool) {
				n := rowsDone.Add(pending)
				pending = 0
				report(gctx, Progress{Band: b.index, RowsDone: n, RowsTotal: total, BandDone: done, Found: hit})
			}

			for y := b.lo; y <= b.hi; y++ {
				if y > bestRow.Load() {
					flush(true, false)
					bandSpan.End("superseded")
					return nil
				}
				if (y-b.lo)%ctxCheckRows == 0 {
					if err := gctx.Err(); err != nil {
						bandSpan.End("canceled")
						return err
					}
				}
				pending++
				if x, ok := GapInRow(sensors, y, sq.MaxX); ok {
					c := geom.Coordinate{X: x, Y: y}
					mu.Lock()
					if !found || c.Less(best) {
						best, found = c, true
						bestRow.Store(y)
					}
					mu.Unlock()
					flush(true, true)
					bandSpan.End("found " + c.String())
					return nil
				}
				if pending == progressRows {
					flush(false, false)
				}
				if y == b.hi {
					break
				}
			}
			flush(true, false)
			bandSpan.End("clear")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		span.End("error")
		return geom.Coordinate{}, err
	}
	if !found {
		span.End("exhausted")
		return geom.Coordinate{}, fmt.Errorf("%w %v", ErrNoSolution, sq)
	}
	span.End("found " + best.String())
	return best, nil
}
