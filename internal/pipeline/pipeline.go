//-------------------------------------------------------------------------
//
// pgEdge Lake ETL
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package pipeline runs the catalog and event transforms that turn raw JSON
// records into the five lake datasets.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/pgEdge/pgedge-lakeetl/internal/lake"
	"github.com/pgEdge/pgedge-lakeetl/internal/logging"
	"github.com/pgEdge/pgedge-lakeetl/internal/storage"
	"github.com/pgEdge/pgedge-lakeetl/internal/tables"
)

// SessionConfig holds configuration for a pipeline session.
type SessionConfig struct {
	Input  storage.Store
	Output storage.Store

	CatalogPattern   string
	EventsPattern    string
	Page             string
	Join             tables.JoinType
	DistinctSubjects bool

	// Location is used for calendar fields; nil means UTC.
	Location *time.Location

	Write lake.WriteOptions
}

// Session runs the pipeline stages against one input and one output store.
type Session struct {
	input  storage.Store
	output storage.Store

	catalogPattern   string
	eventsPattern    string
	page             string
	join             tables.JoinType
	distinctSubjects bool
	loc              *time.Location
	write            lake.WriteOptions

	runID     string
	startTime time.Time

	// Metrics
	filesRead   atomic.Int64
	recordsRead atomic.Int64
	plays       atomic.Int64

	mu       sync.Mutex
	datasets []DatasetResult
}

// DatasetResult describes one written dataset.
type DatasetResult struct {
	Name  string
	Rows  int
	Files int
}

// CatalogOutput is the location of the catalog stage's datasets, consumed
// by the event stage.
type CatalogOutput struct {
	Store          storage.Store
	ItemsPath      string
	AttributesPath string
}

// NewSession creates a pipeline session.
func NewSession(cfg SessionConfig) (*Session, error) {
	if cfg.Input == nil || cfg.Output == nil {
		return nil, fmt.Errorf("input and output stores are required")
	}

	join, err := tables.ParseJoinType(string(cfg.Join))
	if err != nil {
		return nil, err
	}
	if _, err := lake.Codec(cfg.Write.Compression); err != nil {
		return nil, err
	}

	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	write := cfg.Write
	if write.Workers < 1 {
		write.Workers = 1
	}

	return &Session{
		input:            cfg.Input,
		output:           cfg.Output,
		catalogPattern:   cfg.CatalogPattern,
		eventsPattern:    cfg.EventsPattern,
		page:             cfg.Page,
		join:             join,
		distinctSubjects: cfg.DistinctSubjects,
		loc:              loc,
		write:            write,
		runID:            uuid.NewString(),
	}, nil
}

// RunID returns the identifier of this session's run.
func (s *Session) RunID() string {
	return s.runID
}

// Run executes the catalog stage and then the event stage.
func (s *Session) Run(ctx context.Context) error {
	s.startTime = time.Now()

	logging.Info().
		Str("run_id", s.runID).
		Str("input", s.input.String()).
		Str("output", s.output.String()).
		Str("join", string(s.join)).
		Str("timezone", s.loc.String()).
		Msg("Starting pipeline")

	catalog, err := s.ProcessCatalog(ctx)
	if err != nil {
		return fmt.Errorf("catalog stage failed: %w", err)
	}

	if err := s.ProcessEvents(ctx, catalog); err != nil {
		return fmt.Errorf("event stage failed: %w", err)
	}

	logging.Info().
		Str("run_id", s.runID).
		Dur("elapsed", time.Since(s.startTime)).
		Msg("Pipeline complete")

	return nil
}

// Results returns the datasets written so far, in write order.
func (s *Session) Results() []DatasetResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]DatasetResult, len(s.datasets))
	copy(out, s.datasets)
	return out
}

func (s *Session) record(name string, res lake.WriteResult) {
	s.mu.Lock()
	s.datasets = append(s.datasets, DatasetResult{Name: name, Rows: res.Rows, Files: res.Files})
	s.mu.Unlock()
}

// PrintSummary logs a final summary of the run.
func (s *Session) PrintSummary() {
	var elapsed time.Duration
	if !s.startTime.IsZero() {
		elapsed = time.Since(s.startTime)
	}

	logging.Info().
		Str("run_id", s.runID).
		Dur("duration", elapsed).
		Int64("files_read", s.filesRead.Load()).
		Int64("records_read", s.recordsRead.Load()).
		Int64("plays", s.plays.Load()).
		Msg("Final summary")

	logging.Info().Msg("Per-dataset statistics:")
	for _, d := range s.Results() {
		logging.Info().
			Str("dataset", d.Name).
			Int("rows", d.Rows).
			Int("files", d.Files).
			Msg("")
	}
}
