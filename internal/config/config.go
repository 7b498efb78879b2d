// Package config loads the optional beaconzone.toml manifest.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the manifest file looked up from the working directory upwards.
const FileName = "beaconzone.toml"

// Defaults used when neither a flag nor the manifest sets a value.
const (
	DefaultRowY   int64 = 2_000_000
	DefaultSquare int64 = 4_000_000
)

// ErrNoManifest is returned by Find when no manifest exists up to the filesystem root.
var ErrNoManifest = errors.New("no " + FileName + " found")

// File mirrors the manifest layout.
type File struct {
	Input  InputSection  `toml:"input"`
	Row    RowSection    `toml:"row"`
	Square SquareSection `toml:"square"`
	Scan   ScanSection   `toml:"scan"`
	Cache  CacheSection  `toml:"cache"`
}

type InputSection struct {
	Path string `toml:"path"`
}

type RowSection struct {
	Y int64 `toml:"y"`
}

type SquareSection struct {
	MaxX int64 `toml:"max_x"`
	MaxY int64 `toml:"max_y"`
}

type ScanSection struct {
	Jobs int `toml:"jobs"`
}

type CacheSection struct {
	Enabled bool `toml:"enabled"`
}

// Settings are the effective values after defaults and the manifest are applied.
type Settings struct {
	Input      string // "" or "-" means stdin
	RowY       int64
	MaxX       int64
	MaxY       int64
	Jobs       int
	Cache      bool
	SourcePath string // manifest path, empty when built from defaults
}

// Default returns settings for the full-size puzzle.
func Default() Settings {
	return Settings{
		RowY: DefaultRowY,
		MaxX: DefaultSquare,
		MaxY: DefaultSquare,
	}
}

// Find walks from startDir up to the root looking for FileName.
func Find(startDir string) (string, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoManifest
		}
		dir = parent
	}
}

// Load decodes the manifest at path on top of Default. A relative input path
// is resolved against the manifest's directory.
func Load(path string) (Settings, error) {
	var f File
	meta, err := toml.DecodeFile(path, &f)
	if err != nil {
		return Settings{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Settings{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}

	s := Default()
	s.SourcePath = path
	if meta.IsDefined("input", "path") && f.Input.Path != "" && f.Input.Path != "-" {
		s.Input = f.Input.Path
		if !filepath.IsAbs(s.Input) {
			s.Input = filepath.Join(filepath.Dir(path), filepath.FromSlash(s.Input))
		}
	}
	if meta.IsDefined("row", "y") {
		s.RowY = f.Row.Y
	}
	if meta.IsDefined("square", "max_x") {
		s.MaxX = f.Square.MaxX
	}
	if meta.IsDefined("square", "max_y") {
		s.MaxY = f.Square.MaxY
	}
	if s.MaxX < 0 || s.MaxY < 0 {
		return Settings{}, fmt.Errorf("%s: [square] bounds must not be negative", path)
	}
	if meta.IsDefined("scan", "jobs") {
		if f.Scan.Jobs < 0 {
			return Settings{}, fmt.Errorf("%s: [scan].jobs must not be negative", path)
		}
		s.Jobs = f.Scan.Jobs
	}
	if meta.IsDefined("cache", "enabled") {
		s.Cache = f.Cache.Enabled
	}
	return s, nil
}

// Discover finds and loads the manifest above startDir, or returns Default
// when there is none.
func Discover(startDir string) (Settings, error) {
	path, err := Find(startDir)
	if errors.Is(err, ErrNoManifest) {
		return Default(), nil
	}
	if err != nil {
		return Settings{}, err
	}
	return Load(path)
}

// Template returns the manifest written by "beaconzone init".
func Template(input string) File {
	return File{
		Input:  InputSection{Path: input},
		Row:    RowSection{Y: DefaultRowY},
		Square: SquareSection{MaxX: DefaultSquare, MaxY: DefaultSquare},
		Scan:   ScanSection{Jobs: 0},
		Cache:  CacheSection{Enabled: false},
	}
}

// Write encodes f as TOML.
func Write(w io.Writer, f File) error {
	if _, err := io.WriteString(w, "# beaconzone manifest\n"); err != nil {
		return err
	}
	return toml.NewEncoder(w).Encode(f)
}
