package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dendrascience/iocify/config"
	"github.com/dendrascience/iocify/internal/logx"
	"github.com/dendrascience/iocify/version"
)

// NewRootCmd creates and returns the root cobra command for the iocify CLI.
// The root command itself hashes a tree; verify and count are subcommands.
func NewRootCmd() *cobra.Command {
	var logLevel string

	rootCmd := newHashCmd(&logLevel)
	rootCmd.Version = version.GetFullVersion()
	rootCmd.SilenceUsage = true
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error, none)")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(".env"); err != nil {
			return err
		}
		level := logLevel
		if !cmd.Flags().Changed("log-level") {
			if v, ok := os.LookupEnv(config.EnvPrefix + "LOG_LEVEL"); ok && v != "" {
				level = v
			}
		}
		logx.Configure(level)
		return nil
	}

	groupUtilities := "utilities"
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupUtilities,
		Title: "Utility Commands",
	})

	verifyCmd := NewVerifyCmd()
	countCmd := NewCountCmd()
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			version.PrintVersion(cmd.OutOrStdout())
		},
	}
	verifyCmd.GroupID = groupUtilities
	countCmd.GroupID = groupUtilities
	versionCmd.GroupID = groupUtilities

	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(countCmd)
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}
