package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rowCmd = &cobra.Command{
	Use:   "row [flags] [input]",
	Short: "Count positions on a row that cannot contain a beacon",
	Long: `Count the positions on row y that lie inside at least one sensor's range and
are not themselves a known beacon. Reads stdin when no input is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRow,
}

func init() {
	rowCmd.Flags().Int64("y", 0, "row to inspect (default from manifest, else 2000000)")
	rowCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runRow(cmd *cobra.Command, args []string) error {
	return runQuery(cmd, args, func(s *session) error {
		y := s.settings.RowY
		if cmd.Flags().Changed("y") {
			var err error
			if y, err = cmd.Flags().GetInt64("y"); err != nil {
				return fmt.Errorf("failed to get y flag: %w", err)
			}
		}

		res, err := s.rowQuery(y)
		if err != nil {
			return err
		}
		if s.format == formatJSON {
			return writeJSON(s.out(), res)
		}
		printRowPretty(s.out(), res, s.quiet)
		return nil
	})
}
