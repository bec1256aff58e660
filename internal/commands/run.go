package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dcmtrack/dcmtrack/internal/anomaly"
	"github.com/dcmtrack/dcmtrack/internal/config"
	"github.com/dcmtrack/dcmtrack/internal/engine"
	"github.com/dcmtrack/dcmtrack/internal/ledger"
	"github.com/dcmtrack/dcmtrack/internal/model"
	"github.com/dcmtrack/dcmtrack/internal/snapshot"
)

func newRunCommand(flags *globalFlags) *cobra.Command {
	var input string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch the CVM snapshot and reconcile the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return err
			}
			return runRun(cmd, flags, cfg, input, dryRun)
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "use an already-downloaded snapshot file instead of fetching")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "merge without persisting the ledger")

	return cmd
}

func runRun(cmd *cobra.Command, flags *globalFlags, cfg *config.Config, input string, dryRun bool) error {
	log := newLogger(flags, cfg)

	var data []byte
	var err error
	if input != "" {
		data, err = snapshot.ReadFile(input)
	} else {
		data, err = snapshot.NewFetcher(cfg.Source.URL, log).Fetch(cmd.Context())
	}
	if err != nil {
		return err
	}

	rec := anomaly.NewRecorder()
	offerings, err := snapshot.Parse(data, cfg.Source.FilterYear, rec)
	if err != nil {
		return err
	}
	log.Info().Int("rows", len(offerings)).Msg("snapshot parsed")

	store := ledger.NewStore(cfg.Ledger.Dir)
	entries, err := store.Load()
	if err != nil {
		return err
	}

	next, res := engine.New(log).Merge(entries, offerings, rec)

	counts := ledger.Counts(next)
	log.Info().
		Int("created", res.Created).
		Int("updated", res.Updated).
		Int("unchanged", res.Unchanged).
		Int("closed", res.Closed).
		Int("pipeline", counts[model.BucketPipeline]).
		Int("registered", counts[model.BucketRegistered]).
		Int("ignored", counts[model.BucketIgnored]).
		Str("anomalies", rec.Summary()).
		Msg("merge complete")

	if len(res.NeedsEnrichment) > 0 {
		log.Info().Strs("keys", res.NeedsEnrichment).Msg("entries awaiting enrichment")
	}

	if dryRun {
		log.Warn().Msg("dry run, ledger not persisted")
		return nil
	}

	if err := store.Save(next); err != nil {
		return err
	}
	if err := anomaly.Append(cfg.Ledger.Dir, rec.Entries("run", time.Now())); err != nil {
		return err
	}

	fmt.Printf("Ledger updated: %d created, %d updated, %d closed (%d entries)\n",
		res.Created, res.Updated, res.Closed, len(next))
	return nil
}
