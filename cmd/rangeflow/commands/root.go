// Package commands implements the rangeflow subcommands.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// BuildInfo identifies the running binary.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand returns the rangeflow root command with every subcommand
// attached.
func NewRootCommand(info BuildInfo) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rangeflow",
		Short: "Extract AWK-style ranges from line streams",
		Long: `rangeflow extracts every run of lines that starts at a line matching a
first pattern and ends at the next line matching a last pattern, like
AWK's /first/,/last/ range patterns.

Commands:
  extract   Print the ranges found in files, stdin or a SQLite query`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(NewExtractCommand())
	rootCmd.AddCommand(versionCmd(info))

	return rootCmd
}

func versionCmd(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rangeflow %s (commit: %s, built: %s)\n", info.Version, info.Commit, info.Date)
		},
	}
}
