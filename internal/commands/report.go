package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dcmtrack/dcmtrack/internal/config"
	"github.com/dcmtrack/dcmtrack/internal/ledger"
	"github.com/dcmtrack/dcmtrack/internal/report"
)

func newReportCommand(flags *globalFlags) *cobra.Command {
	var windowDays int

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a summary of recently closed offerings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return err
			}
			window := windowDays
			if window == 0 {
				window = cfg.Report.WindowDays
			}
			return runReport(flags, cfg, window)
		},
	}

	cmd.Flags().IntVar(&windowDays, "window", 0, "window in days (default from config)")

	return cmd
}

func runReport(flags *globalFlags, cfg *config.Config, windowDays int) error {
	log := newLogger(flags, cfg)

	entries, err := ledger.NewStore(cfg.Ledger.Dir).Load()
	if err != nil {
		return err
	}

	now := time.Now()
	closed := report.Closed(entries, now, windowDays)
	if len(closed) == 0 {
		fmt.Printf("No offerings closed in the last %d days\n", windowDays)
		return nil
	}

	path, err := report.Write(cfg.Ledger.Dir, now, closed)
	if err != nil {
		return err
	}

	log.Info().Int("entries", len(closed)).Str("path", path).Msg("summary written")
	fmt.Printf("Summary of %d closed offerings written to %s\n", len(closed), path)
	return nil
}
