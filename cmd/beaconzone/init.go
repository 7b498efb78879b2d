package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"beaconzone/internal/config"
	"beaconzone/internal/sensorfile"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create a " + config.FileName + " manifest",
	Long: `Write a starter manifest into dir (default: the working directory). With
--example the 14-sensor sample is written too and the manifest is sized for it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().String("input", "input.txt", "input path stored in the manifest")
	initCmd.Flags().Bool("example", false, "also write the sample input and size the manifest for it")
	initCmd.Flags().Bool("force", false, "overwrite existing files")
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	input, err := cmd.Flags().GetString("input")
	if err != nil {
		return fmt.Errorf("failed to get input flag: %w", err)
	}
	example, err := cmd.Flags().GetBool("example")
	if err != nil {
		return fmt.Errorf("failed to get example flag: %w", err)
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return fmt.Errorf("failed to get force flag: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	manifest := config.Template(input)
	if example {
		manifest.Row.Y = 10
		manifest.Square.MaxX, manifest.Square.MaxY = 20, 20
		if err := writeNew(filepath.Join(dir, filepath.FromSlash(input)), force, func(f *os.File) error {
			return sensorfile.Format(f, sensorfile.Example())
		}); err != nil {
			return err
		}
	}

	path := filepath.Join(dir, config.FileName)
	if err := writeNew(path, force, func(f *os.File) error {
		return config.Write(f, manifest)
	}); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)
	return nil
}

// writeNew creates path and fills it with write. Existing files are kept
// unless force is set.
func writeNew(path string, force bool, write func(*os.File) error) (err error) {
	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return write(f)
}
