//-------------------------------------------------------------------------
//
// pgEdge Lake ETL
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for pgedge-lakeetl.
package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-lakeetl/internal/config"
	"github.com/pgEdge/pgedge-lakeetl/internal/logging"
	"github.com/pgEdge/pgedge-lakeetl/internal/tables"
	"github.com/pgEdge/pgedge-lakeetl/pkg/version"
)

var (
	// Global flags
	cfgFile  string
	input    string
	output   string
	logLevel string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "pgedge-lakeetl",
		Short: "Batch ETL from raw JSON logs into a partitioned Parquet lake",
		Long: `pgedge-lakeetl reads a catalog of songs and a log of user events stored
as JSON files, and writes five analytical datasets (items, attributes,
subjects, time and fact) as Parquet files to a local directory or an
S3-compatible bucket.

Running pgedge-lakeetl without a subcommand is the same as 'run'.

Example:
  pgedge-lakeetl --input s3a://udacity-dend/ --output s3://my-bucket/lake/
  pgedge-lakeetl generate --output ./data --seed 42
  pgedge-lakeetl run --input ./data --output ./lake
  pgedge-lakeetl load --output ./lake --connection "postgres://..."`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		RunE:          runRun,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./pgedge-lakeetl.yaml)")
	rootCmd.PersistentFlags().StringVar(&input, "input", "",
		"input location holding song_data/ and log_data/ (path, file://, s3://, s3a://)")
	rootCmd.PersistentFlags().StringVar(&output, "output", "",
		"output location for the Parquet datasets (path, file://, s3://, s3a://)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	addRunFlags(rootCmd)

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(tablesCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if input != "" {
		cfg.Input = input
	}
	if output != "" {
		cfg.Output = output
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Reinitialize logger with config
	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.LogLevel
	logging.Init(logCfg)

	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List the datasets written by the pipeline",
	Long: `List the five datasets written under the output location, with their
columns and partition columns. The load command creates PostgreSQL tables
with the same names and columns.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("Datasets:")
		cmd.Println()
		for _, d := range tables.Datasets {
			cmd.Printf("  %-11s - %s\n", d.Name, d.Description)
			cmd.Printf("                columns: %s\n", strings.Join(d.Columns, ", "))
			if len(d.PartitionBy) > 0 {
				cmd.Printf("                partitioned by: %s\n", strings.Join(d.PartitionBy, ", "))
			}
		}
	},
}
