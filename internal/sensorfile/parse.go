// Package sensorfile reads sensor reports of the form
//
//	Sensor at x=2, y=18: closest beacon is at x=-2, y=15
//
// one per line, into coverage.Sensor values.
package sensorfile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"beaconzone/internal/coverage"
	"beaconzone/internal/geom"
)

const (
	sensorPrefix = "Sensor at x="
	ySep         = ", y="
	beaconSep    = ": closest beacon is at x="
)

// Field names a number within a report line.
type Field string

const (
	FieldSensorX Field = "sensor-x"
	FieldSensorY Field = "sensor-y"
	FieldBeaconX Field = "beacon-x"
	FieldBeaconY Field = "beacon-y"
	FieldRadius  Field = "radius"
)

// Reason says why a field could not be read.
type Reason string

const (
	ReasonNotFound  Reason = "not found"
	ReasonMalformed Reason = "malformed"
	ReasonOverflow  Reason = "out of range"
)

// ErrParse is matched by every *ParseError.
var ErrParse = errors.New("malformed sensor report")

// ParseError describes a bad line. Line is 1-based.
type ParseError struct {
	Line   int
	Field  Field
	Reason Reason
	Text   string
	Err    error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("line %d: %s %s", e.Line, e.Field, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrParse}
	}
	return []error{ErrParse, e.Err}
}

// Parse reads every report from r. Blank lines are skipped. When the same
// sensor position appears twice the later report wins, keeping the position
// of the first one in the result.
func Parse(r io.Reader) ([]coverage.Sensor, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)

	var sensors []coverage.Sensor
	index := make(map[geom.Coordinate]int)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		s, err := ParseLine(text)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.Line = line
			}
			return nil, err
		}
		if i, ok := index[s.Position()]; ok {
			sensors[i] = s
			continue
		}
		index[s.Position()] = len(sensors)
		sensors = append(sensors, s)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read sensor reports: %w", err)
	}
	return sensors, nil
}

// ParseBytes is Parse over an in-memory input.
func ParseBytes(data []byte) ([]coverage.Sensor, error) {
	return Parse(bytes.NewReader(data))
}

// ParseLine parses a single report. The returned *ParseError has Line 0.
func ParseLine(text string) (coverage.Sensor, error) {
	rest, ok := strings.CutPrefix(text, sensorPrefix)
	if !ok {
		return coverage.Sensor{}, lineError(text, FieldSensorX, ReasonNotFound, nil)
	}
	sx, rest, ok := strings.Cut(rest, ySep)
	if !ok {
		return coverage.Sensor{}, lineError(text, FieldSensorY, ReasonNotFound, nil)
	}
	sy, rest, ok := strings.Cut(rest, beaconSep)
	if !ok {
		return coverage.Sensor{}, lineError(text, FieldBeaconX, ReasonNotFound, nil)
	}
	bx, by, ok := strings.Cut(rest, ySep)
	if !ok {
		return coverage.Sensor{}, lineError(text, FieldBeaconY, ReasonNotFound, nil)
	}

	var vals [4]int64
	for i, f := range []struct {
		field Field
		raw   string
	}{{FieldSensorX, sx}, {FieldSensorY, sy}, {FieldBeaconX, bx}, {FieldBeaconY, by}} {
		v, err := strconv.ParseInt(f.raw, 10, 64)
		if err != nil {
			return coverage.Sensor{}, lineError(text, f.field, ReasonMalformed, err)
		}
		vals[i] = v
	}

	s, err := coverage.NewSensor(geom.C(vals[0], vals[1]), geom.C(vals[2], vals[3]))
	if err != nil {
		return coverage.Sensor{}, lineError(text, FieldRadius, ReasonOverflow, err)
	}
	return s, nil
}

func lineError(text string, field Field, reason Reason, err error) *ParseError {
	return &ParseError{Field: field, Reason: reason, Text: text, Err: err}
}

// Format renders sensors back into report lines.
func Format(w io.Writer, sensors []coverage.Sensor) error {
	bw := bufio.NewWriter(w)
	for _, s := range sensors {
		p, b := s.Position(), s.Beacon()
		if _, err := fmt.Fprintf(bw, "%s%d%s%d%s%d%s%d\n", sensorPrefix, p.X, ySep, p.Y, beaconSep, b.X, ySep, b.Y); err != nil {
			return err
		}
	}
	return bw.Flush()
}
