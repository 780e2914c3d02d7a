//-------------------------------------------------------------------------
//
// pgEdge Lake ETL
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/pgEdge/pgedge-lakeetl/internal/lake"
	"github.com/pgEdge/pgedge-lakeetl/internal/logging"
	"github.com/pgEdge/pgedge-lakeetl/internal/records"
	"github.com/pgEdge/pgedge-lakeetl/internal/storage"
	"github.com/pgEdge/pgedge-lakeetl/internal/tables"
)

// ProcessCatalog reads catalog records and writes the items and attributes
// datasets.
func (s *Session) ProcessCatalog(ctx context.Context) (CatalogOutput, error) {
	log := logging.Stage("catalog")
	log.Info().Str("pattern", s.catalogPattern).Msg("Reading catalog records")

	recs, err := loadRecords[records.CatalogRecord](ctx, s, s.catalogPattern)
	if err != nil {
		return CatalogOutput{}, err
	}

	out := CatalogOutput{
		Store:          s.output,
		ItemsPath:      tables.ItemsDataset,
		AttributesPath: tables.AttributesDataset,
	}

	res, err := lake.Write(ctx, s.output, out.ItemsPath, tables.Items(recs), tables.ItemPartition, s.write)
	if err != nil {
		return CatalogOutput{}, fmt.Errorf("failed to write %s: %w", tables.ItemsDataset, err)
	}
	s.record(tables.ItemsDataset, res)

	res, err = lake.Write(ctx, s.output, out.AttributesPath, tables.Attributes(recs), nil, s.write)
	if err != nil {
		return CatalogOutput{}, fmt.Errorf("failed to write %s: %w", tables.AttributesDataset, err)
	}
	s.record(tables.AttributesDataset, res)

	log.Info().Int("records", len(recs)).Msg("Catalog stage finished")
	return out, nil
}

// ProcessEvents reads event records, keeps plays, and writes the subjects,
// time and fact datasets. The fact join reads items and attributes back
// from catalog.
func (s *Session) ProcessEvents(ctx context.Context, catalog CatalogOutput) error {
	log := logging.Stage("events")
	log.Info().Str("pattern", s.eventsPattern).Msg("Reading event records")

	events, err := loadRecords[records.EventRecord](ctx, s, s.eventsPattern)
	if err != nil {
		return err
	}
	plays := tables.FilterPage(events, s.page)
	s.plays.Add(int64(len(plays)))

	log.Info().
		Int("events", len(events)).
		Int("plays", len(plays)).
		Str("page", s.page).
		Msg("Filtered events")

	res, err := lake.Write(ctx, s.output, tables.SubjectsDataset,
		tables.Subjects(plays, s.distinctSubjects), nil, s.write)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", tables.SubjectsDataset, err)
	}
	s.record(tables.SubjectsDataset, res)

	res, err = lake.Write(ctx, s.output, tables.TimeDataset,
		tables.Times(plays, s.loc), tables.TimePartition, s.write)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", tables.TimeDataset, err)
	}
	s.record(tables.TimeDataset, res)

	items, err := lake.Read[tables.ItemRow](ctx, catalog.Store, catalog.ItemsPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", catalog.ItemsPath, err)
	}
	attrs, err := lake.Read[tables.AttributeRow](ctx, catalog.Store, catalog.AttributesPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", catalog.AttributesPath, err)
	}
	idx := tables.NewCatalogIndex(items, attrs)

	facts := tables.Facts(plays, idx, s.loc, s.join)
	if len(facts) == 0 && len(plays) > 0 {
		log.Warn().
			Int("plays", len(plays)).
			Int("catalog_keys", idx.Len()).
			Msg("No plays matched the catalog")
	}

	res, err = lake.Write(ctx, s.output, tables.FactDataset, facts, nil, s.write)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", tables.FactDataset, err)
	}
	s.record(tables.FactDataset, res)

	log.Info().
		Int("facts", len(facts)).
		Str("join", string(s.join)).
		Msg("Event stage finished")
	return nil
}

// loadRecords decodes every file matching pattern in the session's input
// store. Records keep file name order, then their order within each file.
func loadRecords[T any](ctx context.Context, s *Session, pattern string) ([]T, error) {
	names, err := s.input.Glob(ctx, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", pattern, err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no input files match %s in %s", pattern, s.input)
	}

	results := make([][]T, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.write.Workers)
	for i, name := range names {
		g.Go(func() error {
			recs, err := decodeFile[T](gctx, s.input, name)
			if err != nil {
				return err
			}
			results[i] = recs
			s.filesRead.Add(1)
			s.recordsRead.Add(int64(len(recs)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []T
	for _, recs := range results {
		out = append(out, recs...)
	}

	logging.Debug().
		Str("pattern", pattern).
		Int("files", len(names)).
		Int("records", len(out)).
		Msg("Loaded records")

	return out, nil
}

func decodeFile[T any](ctx context.Context, store storage.Store, name string) ([]T, error) {
	rc, err := store.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer rc.Close()
	return records.Decode[T](rc, name)
}
