package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var solveCmd = &cobra.Command{
	Use:   "solve [flags] [input]",
	Short: "Answer both puzzle parts",
	Long: `Run the row count and the gap search side by side over the same sensors and
print both answers.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSolve,
}

func init() {
	solveCmd.Flags().Int64("y", 0, "row for part 1 (default from manifest, else 2000000)")
	registerGapFlags(solveCmd)
	solveCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runSolve(cmd *cobra.Command, args []string) error {
	return runQuery(cmd, args, func(s *session) error {
		y := s.settings.RowY
		if cmd.Flags().Changed("y") {
			var err error
			if y, err = cmd.Flags().GetInt64("y"); err != nil {
				return fmt.Errorf("failed to get y flag: %w", err)
			}
		}
		plan, err := readGapPlan(cmd, s)
		if err != nil {
			return err
		}

		// Both queries only read the sensor list.
		var out solveResult
		var g errgroup.Group
		g.Go(func() error {
			var err error
			out.Row, err = s.rowQuery(y)
			return err
		})
		g.Go(func() error {
			var err error
			out.Gap, err = s.gapQuery(plan)
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}

		if s.format == formatJSON {
			if s.timings {
				report := s.timer.Report()
				out.Timings = &report
			}
			return writeJSON(s.out(), out)
		}
		w := s.out()
		if !s.quiet {
			fmt.Fprintln(w, labelColor.Sprint("part 1"))
		}
		printRowPretty(w, out.Row, s.quiet)
		if !s.quiet {
			fmt.Fprintln(w, labelColor.Sprint("part 2"))
		}
		printGapPretty(w, out.Gap, s.quiet)
		return nil
	})
}
