package cli

import (
	"fmt"

	"github.com/getmockd/httpfixture/pkg/lint"
	"github.com/spf13/cobra"
)

var lintStore storeFlags

var lintCmd = &cobra.Command{
	Use:   "lint [pattern]",
	Short: "Check fixture records and their content files",
	Long: `Validate every fixture record against the record schema and check that
the content file it names exists and matches its content type. Exits
non-zero when problems are found.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := lintStore.open()
		if err != nil {
			return err
		}
		defer closeStore(store)

		var pattern string
		if len(args) > 0 {
			pattern = args[0]
		}
		report, err := lint.Lint(store, pattern)
		if err != nil {
			return err
		}

		if err := printResult(cmd, report, func() {
			w := cmd.OutOrStdout()
			for _, p := range report.Problems {
				fmt.Fprintln(w, p.String())
			}
			fmt.Fprintf(w, "%d record(s) checked, %d problem(s)\n", report.Checked, len(report.Problems))
		}); err != nil {
			return err
		}
		if !report.OK() {
			return fmt.Errorf("%d problem(s) found", len(report.Problems))
		}
		return nil
	},
}

func init() {
	lintStore.register(lintCmd)
	rootCmd.AddCommand(lintCmd)
}
