package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-lakeetl/internal/logging"
	"github.com/pgEdge/pgedge-lakeetl/internal/pipeline"
	"github.com/pgEdge/pgedge-lakeetl/internal/storage"
	"github.com/pgEdge/pgedge-lakeetl/internal/tables"
)

var (
	runTimezone    string
	runJoin        string
	runPage        string
	runWorkers     int
	runCompression string
	runAllSubjects bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the catalog and event stages",
	Long: `Read catalog and event JSON files from the input location and write the
items, attributes, subjects, time and fact datasets to the output location.
Each dataset is replaced on every run.

Join Types:
  inner - plays that match no catalog item are dropped (default)
  left  - unmatched plays are kept with null item_id and creator_id

Example:
  pgedge-lakeetl run --input s3a://udacity-dend/ --output s3://my-bucket/lake/
  pgedge-lakeetl run --input ./data --output ./lake --join left --timezone Local`,
	RunE: runRun,
}

func init() {
	addRunFlags(runCmd)
}

// addRunFlags registers the pipeline flags on cmd. They are shared by the
// root command and run.
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&runTimezone, "timezone", "",
		"timezone for calendar fields: UTC, Local, or an IANA name (default: UTC)")
	cmd.Flags().StringVar(&runJoin, "join", "",
		"fact join type: inner or left")
	cmd.Flags().StringVar(&runPage, "page", "",
		"page value identifying play events (default: NextSong)")
	cmd.Flags().IntVar(&runWorkers, "workers", 0,
		"concurrent file reads and partition writes")
	cmd.Flags().StringVar(&runCompression, "compression", "",
		"Parquet compression: snappy, zstd, gzip, none")
	cmd.Flags().BoolVar(&runAllSubjects, "all-subjects", false,
		"keep one subjects row per play instead of one per subject")
}

func runRun(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if runTimezone != "" {
		cfg.Timezone = runTimezone
	}
	if runJoin != "" {
		cfg.Events.Join = runJoin
	}
	if runPage != "" {
		cfg.Events.Page = runPage
	}
	if runWorkers > 0 {
		cfg.Writer.Workers = runWorkers
	}
	if runCompression != "" {
		cfg.Writer.Compression = runCompression
	}
	if runAllSubjects {
		cfg.Events.DistinctSubjects = false
	}

	// Validate configuration
	if err := cfg.ValidateRun(); err != nil {
		return err
	}

	join, err := tables.ParseJoinType(cfg.Events.Join)
	if err != nil {
		return err
	}
	loc, err := tables.LoadLocation(cfg.Timezone)
	if err != nil {
		return err
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case sig := <-sigChan:
			logging.Info().
				Str("signal", sig.String()).
				Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	in, err := storage.Open(ctx, cfg.Input, cfg.StorageOptions())
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	out, err := storage.Open(ctx, cfg.Output, cfg.StorageOptions())
	if err != nil {
		return fmt.Errorf("failed to open output: %w", err)
	}

	session, err := pipeline.NewSession(pipeline.SessionConfig{
		Input:            in,
		Output:           out,
		CatalogPattern:   cfg.Catalog.Pattern,
		EventsPattern:    cfg.Events.Pattern,
		Page:             cfg.Events.Page,
		Join:             join,
		DistinctSubjects: cfg.Events.DistinctSubjects,
		Location:         loc,
		Write:            cfg.WriteOptions(),
	})
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	if err := session.Run(ctx); err != nil {
		if ctx.Err() != nil {
			logging.Info().Msg("Pipeline stopped")
			session.PrintSummary()
		}
		return err
	}

	session.PrintSummary()
	return nil
}
