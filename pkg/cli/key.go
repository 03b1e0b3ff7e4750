package cli

import (
	"errors"
	"fmt"
	"net/url"
	"path"

	"github.com/getmockd/httpfixture/pkg/cli/internal/output"
	"github.com/getmockd/httpfixture/pkg/config"
	"github.com/getmockd/httpfixture/pkg/fixture"
	"github.com/spf13/cobra"
)

// KeyOutput is the JSON form of the key command.
type KeyOutput struct {
	Folder    string `json:"folder"`
	LongName  string `json:"longName"`
	ShortName string `json:"shortName"`
	Query     string `json:"query"`
	Record    string `json:"record"`
	Fallback  string `json:"fallback"`
}

var (
	keyFilters     []string
	keyExpression  string
	keyNoSensitive bool
)

var keyCmd = &cobra.Command{
	Use:   "key METHOD URL",
	Short: "Show the fixture names a request maps to",
	Example: `  httpfixture key GET 'https://api.example.com/users?page=2&apikey=s3cr3t'
  httpfixture key GET 'https://api.example.com/users?page=2&session=1' --filter session`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Default()
		sensitive := !keyNoSensitive
		cfg.Callbacks.FilterSensitive = &sensitive
		cfg.Callbacks.FilterParameters = keyFilters
		cfg.Callbacks.FilterExpression = keyExpression
		callbacks, err := cfg.BuildCallbacks()
		if err != nil {
			return err
		}

		out, err := deriveKey(args[0], args[1], callbacks.FilterParameter)
		if err != nil {
			return err
		}

		return printResult(cmd, out, func() {
			w := output.Table(cmd.OutOrStdout())
			fmt.Fprintf(w, "folder:\t%s\n", out.Folder)
			fmt.Fprintf(w, "long:\t%s\n", out.LongName)
			fmt.Fprintf(w, "short:\t%s\n", out.ShortName)
			fmt.Fprintf(w, "query:\t%s\n", out.Query)
			fmt.Fprintf(w, "record:\t%s\n", out.Record)
			fmt.Fprintf(w, "fallback:\t%s\n", out.Fallback)
			_ = w.Flush()
		})
	},
}

func deriveKey(method, rawURL string, filter fixture.ParameterFilter) (KeyOutput, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return KeyOutput{}, fmt.Errorf("invalid URL: %w", err)
	}
	if u.Host == "" {
		return KeyOutput{}, errors.New("URL must be absolute, e.g. https://host/path")
	}

	key := fixture.DeriveKey(u, method, filter, nil)
	return KeyOutput{
		Folder:    key.Folder,
		LongName:  key.LongName,
		ShortName: key.ShortName,
		Query:     key.Query,
		Record:    path.Join(key.Folder, fixture.RecordName(key.LongName)),
		Fallback:  path.Join(key.Folder, fixture.RecordName(key.ShortName)),
	}, nil
}

func init() {
	keyCmd.Flags().StringSliceVarP(&keyFilters, "filter", "f", nil, "Additional parameter names to leave out of the key")
	keyCmd.Flags().StringVarP(&keyExpression, "expr", "e", "", "Filter expression over name and value")
	keyCmd.Flags().BoolVar(&keyNoSensitive, "no-sensitive", false, "Keep common credential parameters in the key")
	rootCmd.AddCommand(keyCmd)
}
