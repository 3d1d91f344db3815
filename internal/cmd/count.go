package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dendrascience/iocify/util"
)

// NewCountCmd creates and returns the count subcommand for the iocify CLI.
// It counts the files a hashing run would visit.
func NewCountCmd() *cobra.Command {
	var (
		path         string
		showProgress bool
	)

	cmd := &cobra.Command{
		Use:   "count [PATH]",
		Short: "Count the files a run would hash",
		Long: `Count the regular files below a directory, using the same traversal as a
hashing run: symlinks and special files are skipped. Useful for sizing a run
before starting it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				path = args[0]
			}
			paths, err := util.Enumerate(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			count, unreadable := 0, 0
			for entry := range paths {
				if entry.Err != nil {
					unreadable++
					continue
				}
				count++
				if showProgress && count%10000 == 0 {
					fmt.Fprintf(out, "Progress: %d files counted\n", count)
				}
			}

			fmt.Fprintf(out, "Total files: %d\n", count)
			if unreadable > 0 {
				fmt.Fprintf(out, "Unreadable entries: %d\n", unreadable)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "./", "Path to count files in")
	cmd.Flags().BoolVar(&showProgress, "progress", false, "Show progress every 10,000 files")

	return cmd
}
