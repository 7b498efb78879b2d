package main

import (
	"errors"
	"fmt"
	"strconv"

	"beaconzone/internal/cache"
	"beaconzone/internal/geom"
	"beaconzone/internal/scan"
	"beaconzone/internal/trace"
	"beaconzone/internal/tuning"
)

// gapPlan describes how the gap search runs.
type gapPlan struct {
	square     scan.Square
	jobs       int
	sequential bool
	ui         bool
}

func (s *session) cached(key cache.Digest, query string) (cache.Entry, bool) {
	var e cache.Entry
	if s.cache == nil {
		return e, false
	}
	ok, err := s.cache.Get(key, &e)
	if err != nil {
		trace.Point(s.tracer, trace.ScopeQuery, "cache", err.Error(), s.span.ID())
		return e, false
	}
	if ok && e.Query != query {
		return e, false
	}
	return e, ok
}

func (s *session) store(key cache.Digest, e cache.Entry) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Put(key, &e); err != nil {
		fmt.Fprintf(s.cmd.ErrOrStderr(), "cache: %v\n", err)
	}
}

// rowQuery answers the covered-but-beaconless count for row y.
func (s *session) rowQuery(y int64) (rowResult, error) {
	res := rowResult{Query: "row", Y: y}
	key := cache.Key(s.raw, "row", y)
	if e, ok := s.cached(key, "row"); ok {
		res.Count, res.Cached = e.Count, true
		return res, nil
	}

	idx := s.timer.Begin("row")
	span := trace.Begin(s.tracer, trace.ScopeQuery, "row", s.span.ID())
	res.Count = scan.NoBeaconCount(s.sensors, y)
	span.WithExtra("y", strconv.FormatInt(y, 10)).End(strconv.FormatUint(res.Count, 10))
	s.timer.End(idx, "y="+strconv.FormatInt(y, 10))

	s.store(key, cache.Entry{Query: "row", Count: res.Count})
	return res, nil
}

// gapQuery finds the uncovered cell and its tuning frequency.
func (s *session) gapQuery(plan gapPlan) (gapResult, error) {
	res := gapResult{Query: "gap", MaxX: plan.square.MaxX, MaxY: plan.square.MaxY}
	if err := plan.square.Validate(); err != nil {
		return res, err
	}
	key := cache.Key(s.raw, "gap", plan.square.MaxX, plan.square.MaxY)

	var (
		c   geom.Coordinate
		err error
	)
	if e, ok := s.cached(key, "gap"); ok {
		c, res.Cached = geom.C(e.X, e.Y), true
	} else {
		idx := s.timer.Begin("gap")
		switch {
		case plan.sequential:
			c, err = scan.FindGap(s.ctx, s.sensors, plan.square)
		case plan.ui:
			c, err = runGapWithUI(s.ctx, s.sensors, plan)
		default:
			c, err = scan.FindGapParallel(s.ctx, s.sensors, plan.square, scan.Options{Jobs: plan.jobs})
		}
		note := "no gap"
		if err == nil {
			note = c.String()
		}
		s.timer.End(idx, note)
		if err != nil {
			if errors.Is(err, scan.ErrNoSolution) {
				return res, fmt.Errorf("%w (is the square size right for this input?)", err)
			}
			return res, err
		}
		s.store(key, cache.Entry{Query: "gap", X: c.X, Y: c.Y})
	}

	res.X, res.Y = c.X, c.Y
	if res.Frequency, err = tuning.Frequency(c); err != nil {
		return res, err
	}
	return res, nil
}
