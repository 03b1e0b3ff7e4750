package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/getmockd/httpfixture/pkg/resource"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// PackOutput is the JSON form of the pack command.
type PackOutput struct {
	Archive string   `json:"archive"`
	Files   []string `json:"files"`
}

var (
	packDir      string
	packOut      string
	packIncludes []string
)

var packCmd = &cobra.Command{
	Use:   "pack",
	Short: "Archive a fixture directory into a zip file",
	Example: `  httpfixture pack --dir testdata/fixtures --out fixtures.zip
  httpfixture pack --dir testdata/fixtures --out api.zip --include 'api.example.com/**'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := packDirectory(packDir, packOut, packIncludes)
		if err != nil {
			return err
		}
		out := PackOutput{Archive: packOut, Files: files}
		return printResult(cmd, out, func() {
			fmt.Fprintf(cmd.OutOrStdout(), "packed %d file(s) into %s\n", len(files), packOut)
		})
	},
}

// packDirectory writes the zip through a temporary file and renames it
// into place.
func packDirectory(dir, out string, includes []string) ([]string, error) {
	if dir == "" || out == "" {
		return nil, errors.New("--dir and --out are required")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", filepath.Dir(out), err)
	}
	tmpPath := out + "." + uuid.NewString() + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file: %w", err)
	}

	files, err := resource.WriteZip(f, os.DirFS(dir), includes...)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to write temporary file: %w", closeErr)
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return nil, err
	}

	if err := os.Rename(tmpPath, out); err != nil {
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return files, nil
}

func init() {
	packCmd.Flags().StringVarP(&packDir, "dir", "d", defaultDir(), "Fixture directory")
	packCmd.Flags().StringVarP(&packOut, "out", "o", "", "Zip archive to write")
	packCmd.Flags().StringSliceVarP(&packIncludes, "include", "i", nil, "Glob of files to include (default: all)")
	_ = packCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(packCmd)
}
