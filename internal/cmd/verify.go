package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dendrascience/iocify/config"
	"github.com/dendrascience/iocify/util"
)

var errVerificationFailed = errors.New("verification failed")

// NewVerifyCmd creates and returns the verify subcommand for the iocify CLI.
// It re-hashes the files listed in a report and compares digests.
func NewVerifyCmd() *cobra.Command {
	var (
		reportPath string
		sourcePath string
		delimiter  string
		processes  int
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check files against a previously written report",
		Long: `Re-hash every file listed in a report and compare it to the recorded digest.

Relative paths in the report are resolved against --source. The algorithm is
read from the report header. The command fails if any file changed or can no
longer be read.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			delim, err := config.ParseDelimiter(delimiter)
			if err != nil {
				return fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
			}
			report, err := util.ReadReport(reportPath, delim)
			if err != nil {
				return err
			}

			res, err := util.Verify(cmd.Context(), report, sourcePath, processes)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, r := range res.Mismatched {
				fmt.Fprintf(out, "CHANGED  %s\n", r.Path)
			}
			for _, fe := range res.Missing {
				fmt.Fprintf(out, "MISSING  %s (%s)\n", fe.Path, fe.Kind)
			}
			if verbose || !res.OK() {
				fmt.Fprintf(out, "\nVerification complete:\n")
				fmt.Fprintf(out, "  Files checked: %d\n", len(report.Records))
				fmt.Fprintf(out, "  Matched: %d\n", res.Matched)
				fmt.Fprintf(out, "  Changed: %d\n", len(res.Mismatched))
				fmt.Fprintf(out, "  Missing: %d\n", len(res.Missing))
			}
			if !res.OK() {
				return errVerificationFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&reportPath, "report", "r", "", "Path to the report to verify (required)")
	cmd.Flags().StringVarP(&sourcePath, "source", "s", ".", "Root the report paths are relative to")
	cmd.Flags().StringVarP(&delimiter, "delimiter", "d", ",", "CSV delimiter of the report")
	cmd.Flags().IntVarP(&processes, "processes", "p", util.DefaultWorkers, "Number of concurrent workers")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print totals even when everything matches")

	cmd.MarkFlagRequired("report")

	return cmd
}
