package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"beaconzone/internal/observ"
)

type outputFormat string

const (
	formatPretty outputFormat = "pretty"
	formatJSON   outputFormat = "json"
)

func readOutputFormat(cmd *cobra.Command) (outputFormat, error) {
	if cmd.Flags().Lookup("format") == nil {
		return formatPretty, nil
	}
	value, err := cmd.Flags().GetString("format")
	if err != nil {
		return "", fmt.Errorf("failed to get format flag: %w", err)
	}
	switch outputFormat(strings.ToLower(strings.TrimSpace(value))) {
	case formatPretty:
		return formatPretty, nil
	case formatJSON:
		return formatJSON, nil
	default:
		return "", fmt.Errorf("unsupported format %q (must be pretty or json)", value)
	}
}

var (
	answerColor = color.New(color.FgGreen, color.Bold)
	labelColor  = color.New(color.FgCyan)
	cachedColor = color.New(color.Faint)

	numbers = message.NewPrinter(language.English)
)

// grouped renders n with thousands separators.
func grouped[T ~int64 | ~uint64](n T) string {
	return numbers.Sprintf("%d", n)
}

type rowResult struct {
	Query  string `json:"query"`
	Y      int64  `json:"y"`
	Count  uint64 `json:"count"`
	Cached bool   `json:"cached,omitempty"`
}

type gapResult struct {
	Query     string `json:"query"`
	MaxX      int64  `json:"max_x"`
	MaxY      int64  `json:"max_y"`
	X         int64  `json:"x"`
	Y         int64  `json:"y"`
	Frequency int64  `json:"tuning_frequency"`
	Cached    bool   `json:"cached,omitempty"`
}

type solveResult struct {
	Row     rowResult      `json:"part1"`
	Gap     gapResult      `json:"part2"`
	Timings *observ.Report `json:"timings,omitempty"`
}

func cachedNote(cached bool) string {
	if !cached {
		return ""
	}
	return " " + cachedColor.Sprint("(cached)")
}

func printRowPretty(w io.Writer, r rowResult, quiet bool) {
	if quiet {
		fmt.Fprintln(w, r.Count)
		return
	}
	fmt.Fprintf(w, "%s %s positions cannot contain a beacon%s\n",
		labelColor.Sprintf("row y=%s:", grouped(r.Y)), answerColor.Sprint(grouped(r.Count)), cachedNote(r.Cached))
}

func printGapPretty(w io.Writer, r gapResult, quiet bool) {
	if quiet {
		fmt.Fprintln(w, r.Frequency)
		return
	}
	fmt.Fprintf(w, "%s distress beacon at (%d, %d)%s\n",
		labelColor.Sprintf("square [0, %s] x [0, %s]:", grouped(r.MaxX), grouped(r.MaxY)), r.X, r.Y, cachedNote(r.Cached))
	fmt.Fprintf(w, "%s %s\n", labelColor.Sprint("tuning frequency:"), answerColor.Sprint(r.Frequency))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
