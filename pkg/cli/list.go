package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listStore storeFlags

var listCmd = &cobra.Command{
	Use:   "list [pattern]",
	Short: "List fixture records",
	Long: `List fixture files in a directory or zip archive. The pattern is a
doublestar glob relative to the store root and defaults to every record.`,
	Example: `  httpfixture list --dir testdata/fixtures
  httpfixture list --zip fixtures.zip 'api.example.com/**'`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := listStore.open()
		if err != nil {
			return err
		}
		defer closeStore(store)

		var pattern string
		if len(args) > 0 {
			pattern = args[0]
		}
		files, err := store.List(pattern)
		if err != nil {
			return fmt.Errorf("failed to list fixtures: %w", err)
		}
		if files == nil {
			files = []string{}
		}

		return printResult(cmd, files, func() {
			for _, f := range files {
				fmt.Fprintln(cmd.OutOrStdout(), f)
			}
		})
	},
}

func init() {
	listStore.register(listCmd)
	rootCmd.AddCommand(listCmd)
}
