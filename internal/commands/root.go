// Package commands wires the dcmtrack CLI.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dcmtrack/dcmtrack/internal/buildinfo"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
	verbose    bool
	quiet      bool
}

// NewRootCommand creates the root CLI command with all subcommands
// registered.
func NewRootCommand() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "dcmtrack",
		Short:   "CVM public offerings ledger",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "dcmtrack.yaml", "config file path")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging")
	pf.BoolVarP(&flags.quiet, "quiet", "q", false, "warnings and errors only")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newRunCommand(flags))
	rootCmd.AddCommand(newEnrichCommand(flags))
	rootCmd.AddCommand(newReportCommand(flags))
	rootCmd.AddCommand(newStatusCommand(flags))

	return rootCmd
}
