package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"beaconzone/internal/cache"
	"beaconzone/internal/config"
	"beaconzone/internal/coverage"
	"beaconzone/internal/observ"
	"beaconzone/internal/sensorfile"
	"beaconzone/internal/trace"
)

const appName = "beaconzone"

// session is everything a query command needs: effective settings, the
// parsed sensors, and the ambient tracer, timer and cache.
type session struct {
	cmd      *cobra.Command
	ctx      context.Context
	tracer   trace.Tracer
	span     *trace.Span
	settings config.Settings
	timer    *observ.Timer
	cache    *cache.DiskCache // nil when caching is off
	raw      []byte
	sensors  []coverage.Sensor
	quiet    bool
	timings  bool
	format   outputFormat
}

// runQuery sets up tracing, profiling and colors, loads the input named by
// args or the manifest, and runs fn. Teardown happens in reverse order.
func runQuery(cmd *cobra.Command, args []string, fn func(s *session) error) (err error) {
	if cmd.Context() == nil {
		cmd.SetContext(context.Background())
	}

	tracer, stopTrace, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer stopTrace()
	defer dumpTraceOnPanic(tracer)

	stopProf, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProf()

	s, err := openSession(cmd, args, tracer)
	if err != nil {
		return err
	}
	defer func() {
		detail := "ok"
		if err != nil {
			detail = err.Error()
		}
		s.span.End(detail)
	}()

	if err := fn(s); err != nil {
		return err
	}
	if s.timings && !s.quiet {
		fmt.Fprint(cmd.ErrOrStderr(), s.timer.Summary())
	}
	return nil
}

func openSession(cmd *cobra.Command, args []string, tracer trace.Tracer) (*session, error) {
	root := cmd.Root().PersistentFlags()

	colorMode, err := root.GetString("color")
	if err != nil {
		return nil, fmt.Errorf("failed to get color flag: %w", err)
	}
	if err := applyColorMode(colorMode); err != nil {
		return nil, err
	}
	quiet, err := root.GetBool("quiet")
	if err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	timings, err := root.GetBool("timings")
	if err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	format, err := readOutputFormat(cmd)
	if err != nil {
		return nil, err
	}

	settings, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}
	if len(args) > 0 {
		settings.Input = args[0]
	}

	span := trace.Begin(tracer, trace.ScopeDriver, cmd.Name(), 0)
	s := &session{
		cmd:      cmd,
		ctx:      trace.WithSpan(cmd.Context(), span),
		tracer:   tracer,
		span:     span,
		settings: settings,
		timer:    observ.NewTimer(),
		quiet:    quiet,
		timings:  timings,
		format:   format,
	}

	useCache, err := root.GetBool("cache")
	if err != nil {
		return nil, fmt.Errorf("failed to get cache flag: %w", err)
	}
	if useCache || settings.Cache {
		dir, err := cache.DefaultDir(appName)
		if err != nil {
			return nil, fmt.Errorf("cache directory: %w", err)
		}
		if s.cache, err = cache.Open(dir); err != nil {
			return nil, fmt.Errorf("open cache: %w", err)
		}
	}

	if err := s.load(); err != nil {
		span.End(err.Error())
		return nil, err
	}
	return s, nil
}

// loadSettings reads --config, or discovers a manifest from the working directory.
func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return config.Settings{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		return config.Load(path)
	}
	return config.Discover(".")
}

func (s *session) load() error {
	idx := s.timer.Begin("parse")
	span := trace.Begin(s.tracer, trace.ScopeQuery, "parse", s.span.ID())

	raw, name, err := readInput(s.settings.Input, s.cmd.InOrStdin())
	if err != nil {
		span.End("read failed")
		s.timer.End(idx, "")
		return err
	}
	sensors, err := sensorfile.ParseBytes(raw)
	if err != nil {
		span.End("parse failed")
		s.timer.End(idx, "")
		return fmt.Errorf("%s: %w", name, err)
	}
	s.raw, s.sensors = raw, sensors

	note := strconv.Itoa(len(sensors)) + " sensors"
	span.WithExtra("input", name).End(note)
	s.timer.End(idx, note)
	return nil
}

// readInput returns the bytes of path, or of stdin for "" and "-".
func readInput(path string, stdin io.Reader) ([]byte, string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, "<stdin>", fmt.Errorf("read stdin: %w", err)
		}
		return data, "<stdin>", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read input: %w", err)
	}
	return data, path, nil
}

func (s *session) out() io.Writer { return s.cmd.OutOrStdout() }
