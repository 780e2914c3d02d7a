//-------------------------------------------------------------------------
//
// pgEdge Lake ETL
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package warehouse

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgEdge/pgedge-lakeetl/internal/lake"
	"github.com/pgEdge/pgedge-lakeetl/internal/logging"
	"github.com/pgEdge/pgedge-lakeetl/internal/storage"
	"github.com/pgEdge/pgedge-lakeetl/internal/tables"
)

// LoadResult summarizes a warehouse load.
type LoadResult struct {
	RunID    string
	Rows     map[string]int64
	Duration time.Duration
}

// table copies one dataset into its warehouse table.
type table struct {
	name string
	load func(ctx context.Context, tx pgx.Tx, store storage.Store) (int64, error)
}

var loadOrder = []table{
	{tables.ItemsDataset, copier(tables.ItemsDataset, itemValues)},
	{tables.AttributesDataset, copier(tables.AttributesDataset, attributeValues)},
	{tables.SubjectsDataset, copier(tables.SubjectsDataset, subjectValues)},
	{tables.TimeDataset, copier(tables.TimeDataset, timeValues)},
	{tables.FactDataset, copier(tables.FactDataset, factValues)},
}

// Load replaces the contents of the warehouse tables with the datasets in
// store. All tables are truncated and copied in a single transaction, so a
// failed load leaves the previous contents in place.
func Load(ctx context.Context, pool *pgxpool.Pool, store storage.Store) (LoadResult, error) {
	start := time.Now()
	res := LoadResult{
		RunID: uuid.NewString(),
		Rows:  make(map[string]int64),
	}

	if err := CreateSchema(ctx, pool); err != nil {
		return res, fmt.Errorf("failed to create schema: %w", err)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, t := range loadOrder {
		if _, err := tx.Exec(ctx, "TRUNCATE TABLE "+pgx.Identifier{t.name}.Sanitize()); err != nil {
			return res, fmt.Errorf("failed to truncate %s: %w", t.name, err)
		}

		n, err := t.load(ctx, tx, store)
		if err != nil {
			return res, fmt.Errorf("failed to load %s: %w", t.name, err)
		}
		res.Rows[t.name] = n

		logging.Info().
			Str("table", t.name).
			Int64("rows", n).
			Msg("Table loaded")
	}

	if err := SaveMetadata(ctx, tx, res.RunID, store.String(), res.Rows); err != nil {
		return res, err
	}

	if err := tx.Commit(ctx); err != nil {
		return res, fmt.Errorf("failed to commit load: %w", err)
	}

	res.Duration = time.Since(start)
	return res, nil
}

// copier returns a loader that reads dataset rows of type T and copies
// them into the table of the same name.
func copier[T any](dataset string, values func(T) []any) func(context.Context, pgx.Tx, storage.Store) (int64, error) {
	return func(ctx context.Context, tx pgx.Tx, store storage.Store) (int64, error) {
		rows, err := lake.Read[T](ctx, store, dataset)
		if err != nil {
			return 0, err
		}
		return tx.CopyFrom(ctx, pgx.Identifier{dataset}, columns(dataset), copyRows(rows, values))
	}
}

func copyRows[T any](rows []T, values func(T) []any) pgx.CopyFromSource {
	return pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
		return values(rows[i]), nil
	})
}

func columns(dataset string) []string {
	for _, d := range tables.Datasets {
		if d.Name == dataset {
			return d.Columns
		}
	}
	return nil
}

func itemValues(r tables.ItemRow) []any {
	return []any{r.ID, r.Title, r.CreatorID, r.Year, r.Duration}
}

func attributeValues(r tables.AttributeRow) []any {
	return []any{r.CreatorID, r.CreatorName, r.CreatorLocation, r.Latitude, r.Longitude}
}

func subjectValues(r tables.SubjectRow) []any {
	return []any{r.SubjectID, r.FirstName, r.LastName, r.Gender, r.Level}
}

func timeValues(r tables.TimeRow) []any {
	return []any{r.StartTime, r.Hour, r.Day, r.Week, r.Month, r.Year, r.Weekday}
}

func factValues(r tables.FactRow) []any {
	return []any{r.Timestamp, r.SubjectID, r.Level, r.ItemID, r.CreatorID,
		r.SessionID, r.Location, r.UserAgent, r.Year, r.Month}
}
