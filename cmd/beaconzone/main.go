package main

import (
	"os"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"beaconzone/internal/config"
	"beaconzone/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "beaconzone",
	Short: "Sensor coverage solver for the beacon exclusion zone puzzle",
	Long: `beaconzone reads sensor reports and answers two questions: how many cells of a
row cannot hold a beacon, and which single cell of a square no sensor covers.`,
	SilenceUsage: true,
}

var assembleOnce sync.Once

// assembleRoot registers subcommands and persistent flags on rootCmd once.
func assembleRoot() *cobra.Command {
	assembleOnce.Do(func() {
		rootCmd.Version = version.Version

		rootCmd.AddCommand(rowCmd)
		rootCmd.AddCommand(gapCmd)
		rootCmd.AddCommand(solveCmd)
		rootCmd.AddCommand(initCmd)
		rootCmd.AddCommand(cacheCmd)
		rootCmd.AddCommand(versionCmd)

		registerGlobalFlags(rootCmd)
	})
	return rootCmd
}

// main executes the root command. Any command error exits with status 1.
func main() {
	if err := assembleRoot().Execute(); err != nil {
		os.Exit(1)
	}
}

func registerGlobalFlags(root *cobra.Command) {
	pf := root.PersistentFlags()
	pf.String("config", "", "path to "+config.FileName+" (default: search upwards from the working directory)")
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "print only the answers")
	pf.Bool("timings", false, "show timing information")
	pf.Bool("cache", false, "reuse answers stored in the on-disk cache")

	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.Int("trace-ring-size", 4096, "events kept in the trace ring")
	pf.Duration("trace-heartbeat", 0, "emit a heartbeat event at this interval (0 disables)")

	pf.String("cpu-profile", "", "write a CPU profile to this file")
	pf.String("mem-profile", "", "write a heap profile to this file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to this file")
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
