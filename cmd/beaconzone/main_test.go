package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"beaconzone/internal/config"
	"beaconzone/internal/scan"
)

// resetFlags puts every flag of cmd and its children back to its default so
// runs of the shared command tree do not leak into each other.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	root := assembleRoot()
	resetFlags(root)

	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--color", "off"}, args...))
	err := root.Execute()
	return out.String(), errOut.String(), err
}

// exampleProject writes a manifest sized for the sample input into a fresh
// directory and returns the manifest path.
func exampleProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if _, _, err := execute(t, "", "init", "--example", dir); err != nil {
		t.Fatalf("init: %v", err)
	}
	return filepath.Join(dir, config.FileName)
}

func TestInitWritesManifestAndExample(t *testing.T) {
	manifest := exampleProject(t)
	s, err := config.Load(manifest)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.RowY != 10 || s.MaxX != 20 || s.MaxY != 20 {
		t.Fatalf("unexpected settings %+v", s)
	}
	if _, err := os.Stat(s.Input); err != nil {
		t.Fatalf("example input missing: %v", err)
	}

	_, _, err = execute(t, "", "init", filepath.Dir(manifest))
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected refusal to overwrite, got %v", err)
	}
	if _, _, err := execute(t, "", "init", "--force", filepath.Dir(manifest)); err != nil {
		t.Fatalf("init --force: %v", err)
	}
}

func TestRowCommand(t *testing.T) {
	manifest := exampleProject(t)
	out, _, err := execute(t, "", "--config", manifest, "--quiet", "row")
	if err != nil {
		t.Fatalf("row: %v", err)
	}
	if out != "26\n" {
		t.Fatalf("row output = %q, want 26", out)
	}

	out, _, err = execute(t, "", "--config", manifest, "row", "--y", "11", "--format", "json")
	if err != nil {
		t.Fatalf("row --format json: %v", err)
	}
	var res rowResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if res.Y != 11 || res.Query != "row" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestRowCommandReadsStdin(t *testing.T) {
	manifest := exampleProject(t)
	input := "Sensor at x=8, y=7: closest beacon is at x=2, y=10\n"
	out, _, err := execute(t, input, "--config", manifest, "--quiet", "row", "--y", "10", "-")
	if err != nil {
		t.Fatalf("row: %v", err)
	}
	// [2, 14] minus the beacon at x=2
	if out != "12\n" {
		t.Fatalf("row output = %q, want 12", out)
	}
}

func TestGapCommand(t *testing.T) {
	manifest := exampleProject(t)
	for _, extra := range [][]string{nil, {"--sequential"}, {"--jobs", "3"}} {
		args := append([]string{"--config", manifest, "--quiet", "gap", "--ui", "off"}, extra...)
		out, _, err := execute(t, "", args...)
		if err != nil {
			t.Fatalf("gap %v: %v", extra, err)
		}
		if out != "56000011\n" {
			t.Fatalf("gap %v output = %q, want 56000011", extra, out)
		}
	}
}

func TestGapCommandPretty(t *testing.T) {
	manifest := exampleProject(t)
	out, _, err := execute(t, "", "--config", manifest, "gap", "--ui", "off")
	if err != nil {
		t.Fatalf("gap: %v", err)
	}
	if !strings.Contains(out, "(14, 11)") || !strings.Contains(out, "56000011") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestGapCommandNoSolution(t *testing.T) {
	manifest := exampleProject(t)
	_, _, err := execute(t, "", "--config", manifest, "gap", "--ui", "off", "--max", "0")
	if !errors.Is(err, scan.ErrNoSolution) {
		t.Fatalf("expected ErrNoSolution, got %v", err)
	}
	_, _, err = execute(t, "", "--config", manifest, "gap", "--ui", "off", "--max-x=-1")
	if !errors.Is(err, scan.ErrInvalidSquare) {
		t.Fatalf("expected ErrInvalidSquare, got %v", err)
	}
}

func TestSolveCommand(t *testing.T) {
	manifest := exampleProject(t)
	out, _, err := execute(t, "", "--config", manifest, "--quiet", "solve")
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if out != "26\n56000011\n" {
		t.Fatalf("solve output = %q", out)
	}

	out, _, err = execute(t, "", "--config", manifest, "--timings", "solve", "--format", "json")
	if err != nil {
		t.Fatalf("solve json: %v", err)
	}
	var res solveResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if res.Row.Count != 26 || res.Gap.Frequency != 56000011 {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Timings == nil || len(res.Timings.Phases) < 3 {
		t.Fatalf("expected parse, row and gap timings, got %+v", res.Timings)
	}
}

func TestQueryCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	manifest := exampleProject(t)

	first, _, err := execute(t, "", "--config", manifest, "--cache", "row")
	if err != nil {
		t.Fatalf("row: %v", err)
	}
	if strings.Contains(first, "(cached)") {
		t.Fatalf("first run must compute, got %q", first)
	}
	second, _, err := execute(t, "", "--config", manifest, "--cache", "row")
	if err != nil {
		t.Fatalf("row: %v", err)
	}
	if !strings.Contains(second, "(cached)") || !strings.Contains(second, "26") {
		t.Fatalf("second run should hit the cache, got %q", second)
	}

	out, _, err := execute(t, "", "cache", "clean")
	if err != nil {
		t.Fatalf("cache clean: %v", err)
	}
	if !strings.Contains(out, "removed 1 cached answers") {
		t.Fatalf("unexpected clean output %q", out)
	}
}

func TestVersionCommandJSON(t *testing.T) {
	out, _, err := execute(t, "", "version", "--format", "json", "--full")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if payload.Tool != appName || payload.Version == "" || payload.GitCommit == "" {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestReadUIMode(t *testing.T) {
	cases := map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, "on": uiModeOn, " off ": uiModeOff}
	for in, want := range cases {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Fatalf("readUIMode(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestReadInput(t *testing.T) {
	data, name, err := readInput("-", strings.NewReader("abc"))
	if err != nil || string(data) != "abc" || name != "<stdin>" {
		t.Fatalf("readInput(-) = %q, %q, %v", data, name, err)
	}
	if _, _, err := readInput(filepath.Join(t.TempDir(), "missing.txt"), nil); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
