package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dcmtrack/dcmtrack/internal/config"
	"github.com/dcmtrack/dcmtrack/internal/ledger"
	"github.com/dcmtrack/dcmtrack/internal/model"
)

func newStatusCommand(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show ledger bucket counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return err
			}
			return runStatus(cfg)
		},
	}
	return cmd
}

func runStatus(cfg *config.Config) error {
	store := ledger.NewStore(cfg.Ledger.Dir)
	entries, err := store.Load()
	if err != nil {
		return err
	}

	counts := ledger.Counts(entries)
	fmt.Printf("Ledger: %s\n", store.Path())
	fmt.Printf("  Total:      %d\n", len(entries))
	fmt.Printf("  Pipeline:   %d\n", counts[model.BucketPipeline])
	fmt.Printf("  Registered: %d\n", counts[model.BucketRegistered])
	fmt.Printf("  Ignored:    %d\n", counts[model.BucketIgnored])
	return nil
}
