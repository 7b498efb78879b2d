package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"beaconzone/internal/scan"
)

var gapCmd = &cobra.Command{
	Use:   "gap [flags] [input]",
	Short: "Find the only position in a square that no sensor covers",
	Long: `Search the square [0, max-x] x [0, max-y] for the single position outside
every sensor's range and print it with its tuning frequency (x*4000000 + y).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGap,
}

func init() {
	registerGapFlags(gapCmd)
	gapCmd.Flags().String("ui", "auto", "progress UI on stderr (auto|on|off)")
	gapCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func registerGapFlags(cmd *cobra.Command) {
	cmd.Flags().Int64("max", 0, "square size for both axes (default from manifest, else 4000000)")
	cmd.Flags().Int64("max-x", 0, "largest x of the square")
	cmd.Flags().Int64("max-y", 0, "largest y of the square")
	cmd.Flags().Int("jobs", 0, "parallel row bands (0 = manifest, else GOMAXPROCS)")
	cmd.Flags().Bool("sequential", false, "scan rows one by one on a single goroutine")
}

// readGapPlan merges the gap flags over the manifest settings.
func readGapPlan(cmd *cobra.Command, s *session) (gapPlan, error) {
	plan := gapPlan{
		square: scan.Square{MaxX: s.settings.MaxX, MaxY: s.settings.MaxY},
		jobs:   s.settings.Jobs,
	}
	flags := cmd.Flags()

	if flags.Changed("max") {
		v, err := flags.GetInt64("max")
		if err != nil {
			return plan, fmt.Errorf("failed to get max flag: %w", err)
		}
		plan.square.MaxX, plan.square.MaxY = v, v
	}
	if flags.Changed("max-x") {
		v, err := flags.GetInt64("max-x")
		if err != nil {
			return plan, fmt.Errorf("failed to get max-x flag: %w", err)
		}
		plan.square.MaxX = v
	}
	if flags.Changed("max-y") {
		v, err := flags.GetInt64("max-y")
		if err != nil {
			return plan, fmt.Errorf("failed to get max-y flag: %w", err)
		}
		plan.square.MaxY = v
	}
	if flags.Changed("jobs") {
		v, err := flags.GetInt("jobs")
		if err != nil {
			return plan, fmt.Errorf("failed to get jobs flag: %w", err)
		}
		if v < 0 {
			return plan, fmt.Errorf("--jobs must not be negative")
		}
		plan.jobs = v
	}
	seq, err := flags.GetBool("sequential")
	if err != nil {
		return plan, fmt.Errorf("failed to get sequential flag: %w", err)
	}
	plan.sequential = seq

	if flags.Lookup("ui") != nil {
		value, err := flags.GetString("ui")
		if err != nil {
			return plan, fmt.Errorf("failed to get ui flag: %w", err)
		}
		mode, err := readUIMode(value)
		if err != nil {
			return plan, err
		}
		plan.ui = !seq && !s.quiet && s.format == formatPretty && shouldUseTUI(mode)
	}
	return plan, plan.square.Validate()
}

func runGap(cmd *cobra.Command, args []string) error {
	return runQuery(cmd, args, func(s *session) error {
		plan, err := readGapPlan(cmd, s)
		if err != nil {
			return err
		}
		res, err := s.gapQuery(plan)
		if err != nil {
			return err
		}
		if s.format == formatJSON {
			return writeJSON(s.out(), res)
		}
		printGapPretty(s.out(), res, s.quiet)
		return nil
	})
}
