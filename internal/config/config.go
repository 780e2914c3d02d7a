//-------------------------------------------------------------------------
//
// pgEdge Lake ETL
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for pgedge-lakeetl.
// Configuration is loaded from config files and CLI flags (no environment variables).
// CLI flags take precedence over config file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/pgEdge/pgedge-lakeetl/internal/datagen/profiles"
	"github.com/pgEdge/pgedge-lakeetl/internal/lake"
	"github.com/pgEdge/pgedge-lakeetl/internal/storage"
	"github.com/pgEdge/pgedge-lakeetl/internal/tables"
)

// Config holds all configuration for pgedge-lakeetl.
type Config struct {
	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// Input is the location holding the raw catalog and event files,
	// e.g. "s3a://udacity-dend/" or "./data".
	Input string `mapstructure:"input"`

	// Output is the location the Parquet datasets are written to.
	Output string `mapstructure:"output"`

	// Timezone is used to derive calendar fields from event timestamps.
	// "UTC" (default), "Local", or an IANA name.
	Timezone string `mapstructure:"timezone"`

	// Access holds object storage credentials and endpoint settings.
	Access AccessConfig `mapstructure:"access"`

	// Catalog holds configuration for the catalog stage.
	Catalog CatalogConfig `mapstructure:"catalog"`

	// Events holds configuration for the event stage.
	Events EventsConfig `mapstructure:"events"`

	// Writer holds Parquet writer settings.
	Writer WriterConfig `mapstructure:"writer"`

	// Warehouse holds configuration for the load subcommand.
	Warehouse WarehouseConfig `mapstructure:"warehouse"`

	// Generate holds configuration for the generate subcommand.
	Generate GenerateConfig `mapstructure:"generate"`
}

// AccessConfig holds object storage credentials.
type AccessConfig struct {
	AccessKeyID     string `mapstructure:"aws_access_key_id"`
	SecretAccessKey string `mapstructure:"aws_secret_access_key"`
	Region          string `mapstructure:"region"`

	// Endpoint overrides the S3 endpoint for S3-compatible stores.
	Endpoint string `mapstructure:"endpoint"`

	// PathStyle forces path-style bucket addressing.
	PathStyle bool `mapstructure:"path_style"`
}

// CatalogConfig holds configuration for the catalog stage.
type CatalogConfig struct {
	// Pattern is the glob, relative to Input, matching catalog files.
	Pattern string `mapstructure:"pattern"`
}

// EventsConfig holds configuration for the event stage.
type EventsConfig struct {
	// Pattern is the glob, relative to Input, matching event files.
	Pattern string `mapstructure:"pattern"`

	// Page is the page value identifying play events.
	Page string `mapstructure:"page"`

	// Join is the fact join type: "inner" or "left".
	Join string `mapstructure:"join"`

	// DistinctSubjects keeps one subjects row per subject_id.
	DistinctSubjects bool `mapstructure:"distinct_subjects"`
}

// WriterConfig holds Parquet writer settings.
type WriterConfig struct {
	// Compression is snappy, zstd, gzip, or none.
	Compression string `mapstructure:"compression"`

	// Workers bounds concurrent file reads and partition writes.
	Workers int `mapstructure:"workers"`
}

// WarehouseConfig holds configuration for loading datasets into PostgreSQL.
type WarehouseConfig struct {
	// Connection is the PostgreSQL connection string.
	Connection string `mapstructure:"connection"`
}

// GenerateConfig holds configuration for synthetic input generation.
type GenerateConfig struct {
	// Output is the location the generated input files are written to.
	Output string `mapstructure:"output"`

	// CatalogRecords is the number of catalog items to generate.
	CatalogRecords int `mapstructure:"catalog_records"`

	// EventRecords is the number of events to generate.
	EventRecords int `mapstructure:"event_records"`

	// Seed makes generation reproducible; 0 picks a random seed.
	Seed int64 `mapstructure:"seed"`

	// Profile names the listening profile shaping event times
	// (flat, commute, evening, worldwide). Evaluated in Timezone.
	Profile string `mapstructure:"profile"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Timezone: "UTC",
		Catalog: CatalogConfig{
			Pattern: "song_data/*/*/*/*.json",
		},
		Events: EventsConfig{
			Pattern:          "log_data/*/*/*.json",
			Page:             "NextSong",
			Join:             "inner",
			DistinctSubjects: true,
		},
		Writer: WriterConfig{
			Compression: "snappy",
			Workers:     8,
		},
		Generate: GenerateConfig{
			Output:         "./data",
			CatalogRecords: 200,
			EventRecords:   5000,
			Profile:        "evening",
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./pgedge-lakeetl.yaml
// 3. ~/.config/pgedge-lakeetl/pgedge-lakeetl.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("pgedge-lakeetl")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "pgedge-lakeetl"))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// StorageOptions returns the storage backend options built from Access.
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		AccessKeyID:     c.Access.AccessKeyID,
		SecretAccessKey: c.Access.SecretAccessKey,
		Region:          c.Access.Region,
		Endpoint:        c.Access.Endpoint,
		PathStyle:       c.Access.PathStyle,
	}
}

// WriteOptions returns the dataset writer options.
func (c *Config) WriteOptions() lake.WriteOptions {
	return lake.WriteOptions{
		Compression: c.Writer.Compression,
		Workers:     c.Writer.Workers,
	}
}

// ValidateRun checks configuration required for the run command.
func (c *Config) ValidateRun() error {
	if c.Input == "" {
		return fmt.Errorf("input location is required")
	}
	if c.Output == "" {
		return fmt.Errorf("output location is required")
	}
	if _, err := storage.ParseLocation(c.Input); err != nil {
		return fmt.Errorf("input: %w", err)
	}
	if _, err := storage.ParseLocation(c.Output); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	if c.Catalog.Pattern == "" {
		return fmt.Errorf("catalog.pattern is required")
	}
	if c.Events.Pattern == "" {
		return fmt.Errorf("events.pattern is required")
	}
	if c.Events.Page == "" {
		return fmt.Errorf("events.page is required")
	}
	if _, err := tables.ParseJoinType(c.Events.Join); err != nil {
		return err
	}
	if _, err := lake.Codec(c.Writer.Compression); err != nil {
		return err
	}
	if c.Writer.Workers < 1 {
		return fmt.Errorf("writer.workers must be at least 1")
	}
	if _, err := tables.LoadLocation(c.Timezone); err != nil {
		return err
	}
	return nil
}

// ValidateLoad checks configuration required for the load command.
func (c *Config) ValidateLoad() error {
	if c.Output == "" {
		return fmt.Errorf("output location is required")
	}
	if _, err := storage.ParseLocation(c.Output); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	if c.Warehouse.Connection == "" {
		return fmt.Errorf("warehouse.connection is required")
	}
	return nil
}

// ValidateGenerate checks configuration required for the generate command.
func (c *Config) ValidateGenerate() error {
	if c.Generate.Output == "" {
		return fmt.Errorf("generate.output is required")
	}
	if _, err := storage.ParseLocation(c.Generate.Output); err != nil {
		return fmt.Errorf("generate.output: %w", err)
	}
	if c.Generate.CatalogRecords < 1 {
		return fmt.Errorf("generate.catalog_records must be at least 1")
	}
	if c.Generate.EventRecords < 1 {
		return fmt.Errorf("generate.event_records must be at least 1")
	}
	if c.Generate.Profile != "" {
		if _, err := profiles.Get(c.Generate.Profile, nil); err != nil {
			return err
		}
	}
	return nil
}
