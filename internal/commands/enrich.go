package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dcmtrack/dcmtrack/internal/config"
	"github.com/dcmtrack/dcmtrack/internal/enrich"
	"github.com/dcmtrack/dcmtrack/internal/ledger"
)

func newEnrichCommand(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enrich <file>",
		Short: "Merge scraped enrichment data into the ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return err
			}
			return runEnrich(flags, cfg, args[0])
		},
	}
	return cmd
}

func runEnrich(flags *globalFlags, cfg *config.Config, path string) error {
	log := newLogger(flags, cfg)

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening enrichment file: %w", err)
	}
	defer f.Close()

	data, err := enrich.ReadFile(f)
	if err != nil {
		return err
	}

	store := ledger.NewStore(cfg.Ledger.Dir)
	entries, err := store.Load()
	if err != nil {
		return err
	}

	byID := make(map[string]int, len(entries))
	for i, e := range entries {
		byID[e.RequestID] = i
	}

	applied, unknown := 0, 0
	for _, d := range data {
		i, ok := byID[d.RequestID]
		if !ok {
			unknown++
			log.Warn().Str("key", d.RequestID).Msg("enrichment for unknown entry")
			continue
		}
		if enrich.Apply(&entries[i], d) {
			applied++
			log.Debug().Str("key", d.RequestID).Msg("entry enriched")
		}
	}

	if err := store.Save(entries); err != nil {
		return err
	}

	log.Info().Int("applied", applied).Int("unknown", unknown).Msg("enrichment merged")
	fmt.Printf("Enrichment applied to %d entries\n", applied)
	return nil
}
