package sensorfile

import (
	_ "embed"

	"beaconzone/internal/coverage"
)

// ExampleInput is the 14-sensor sample from the puzzle statement. On row 10
// it has 26 beacon-free positions; in the square [0, 20] x [0, 20] the only
// uncovered cell is (14, 11).
//
//go:embed example.txt
var ExampleInput []byte

// Example parses ExampleInput.
func Example() []coverage.Sensor {
	sensors, err := ParseBytes(ExampleInput)
	if err != nil {
		panic(err)
	}
	return sensors
}
