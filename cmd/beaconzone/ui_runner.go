package main

import (
	"context"
	"os"
	"runtime"

	tea "github.com/charmbracelet/bubbletea"

	"beaconzone/internal/coverage"
	"beaconzone/internal/geom"
	"beaconzone/internal/scan"
	"beaconzone/internal/ui"
)

type gapOutcome struct {
	point geom.Coordinate
	err   error
}

// runGapWithUI runs the parallel search in the background while a Bubble Tea
// program renders its progress. Quitting the UI early cancels the search.
func runGapWithUI(ctx context.Context, sensors []coverage.Sensor, plan gapPlan) (geom.Coordinate, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := plan.jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	bands := jobs * 4
	if rows := plan.square.Rows(); uint64(bands) > rows {
		bands = int(rows)
	}

	events := make(chan scan.Progress, 256)
	outcomeCh := make(chan gapOutcome, 1)

	go func() {
		c, err := scan.FindGapParallel(ctx, sensors, plan.square, scan.Options{
			Jobs:     jobs,
			Bands:    bands,
			Progress: events,
		})
		outcomeCh <- gapOutcome{point: c, err: err}
		close(events)
	}()

	model := ui.NewGapModel("searching "+plan.square.String(), bands, plan.square.Rows(), events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithContext(ctx))
	_, uiErr := program.Run()
	// A finished search has already sent its outcome; otherwise the user
	// quit and the search must stop.
	cancel()
	outcome := <-outcomeCh
	if outcome.err != nil {
		return outcome.point, outcome.err
	}
	return outcome.point, uiErr
}
