package cli

import (
	"errors"
	"io"
	"os"

	"github.com/getmockd/httpfixture/pkg/config"
	"github.com/getmockd/httpfixture/pkg/lint"
	"github.com/getmockd/httpfixture/pkg/resource"
	"github.com/spf13/cobra"
)

// storeFlags selects a fixture directory or archive for read-only commands.
type storeFlags struct {
	dir string
	zip string
}

func (f *storeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.dir, "dir", "d", defaultDir(), "Fixture directory")
	cmd.Flags().StringVarP(&f.zip, "zip", "z", "", "Fixture zip archive (overrides --dir)")
}

// open returns the selected store. The caller must call closeStore.
func (f *storeFlags) open() (lint.Store, error) {
	if f.zip != "" {
		return resource.OpenZip(f.zip)
	}
	if f.dir == "" {
		return nil, errors.New("--dir or --zip is required")
	}
	return resource.NewFileStore(f.dir)
}

func closeStore(s resource.Store) {
	if c, ok := s.(io.Closer); ok {
		_ = c.Close()
	}
}

func defaultDir() string {
	if dir := os.Getenv(config.EnvDir); dir != "" {
		return dir
	}
	return config.DefaultStorePath
}
