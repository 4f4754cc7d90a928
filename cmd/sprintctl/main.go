package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sprintctl",
		Short: "Sprint board maintenance commands",
		Long:  "sprintctl runs scheduler passes and data migrations against the sprint board database.",
	}

	cmd.PersistentFlags().StringP("config", "c", "configs/config.yaml", "path to config file")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "log at debug level")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newTickCmd())
	cmd.AddCommand(newMigrateCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sprintctl %s (commit: %s, built: %s)\n", Version, Commit, Date)
		},
	}
}

func execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(newRootCmd()))
}
