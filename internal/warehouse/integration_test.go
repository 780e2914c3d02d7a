//-------------------------------------------------------------------------
//
// pgEdge Lake ETL
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

//go:build integration
// +build integration

// Integration tests for the warehouse load.
// Run with: go test -tags=integration ./internal/warehouse/...
// Requires PostgreSQL to be available.
// Set LAKEETL_TEST_CONN environment variable to override connection string.

package warehouse_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pgEdge/pgedge-lakeetl/internal/lake"
	"github.com/pgEdge/pgedge-lakeetl/internal/pipeline"
	"github.com/pgEdge/pgedge-lakeetl/internal/storage"
	"github.com/pgEdge/pgedge-lakeetl/internal/tables"
	"github.com/pgEdge/pgedge-lakeetl/internal/testutil"
	"github.com/pgEdge/pgedge-lakeetl/internal/warehouse"
)

// buildLake runs the pipeline over the sample input and returns the
// output directory.
func buildLake(ctx context.Context, t *testing.T) string {
	t.Helper()

	in := t.TempDir()
	testutil.WriteSampleInput(t, in)
	out := t.TempDir()

	session, err := pipeline.NewSession(pipeline.SessionConfig{
		Input:            storage.NewLocalStore(in),
		Output:           storage.NewLocalStore(out),
		CatalogPattern:   "song_data/*/*/*/*.json",
		EventsPattern:    "log_data/*/*/*.json",
		Page:             "NextSong",
		Join:             tables.InnerJoin,
		DistinctSubjects: true,
		Write:            lake.DefaultWriteOptions(),
	})
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	if err := session.Run(ctx); err != nil {
		t.Fatalf("Pipeline failed: %v", err)
	}
	return out
}

func TestLoadIntegration(t *testing.T) {
	baseConnStr := testutil.SkipIfNoPostgres(t)

	testConnStr := testutil.CreateTestDB(t, baseConnStr, "load")
	dbName := testutil.GetDBNameFromConnStr(testConnStr)
	cleanup := testutil.NewTestCleanup(t, baseConnStr, dbName)
	defer cleanup.Cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	output := storage.NewLocalStore(buildLake(ctx, t))

	pool, err := warehouse.Connect(ctx, testConnStr)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	cleanup.SetPool(pool)

	// Load twice; the second load must replace, not append
	var res warehouse.LoadResult
	for i := 0; i < 2; i++ {
		res, err = warehouse.Load(ctx, pool, output)
		if err != nil {
			t.Fatalf("Load %d failed: %v", i+1, err)
		}
	}

	want := map[string]int64{
		tables.ItemsDataset:      2,
		tables.AttributesDataset: 2,
		tables.SubjectsDataset:   2,
		tables.TimeDataset:       1,
		tables.FactDataset:       1,
	}
	for name, n := range want {
		if res.Rows[name] != n {
			t.Errorf("Expected %d rows loaded into %s, got %d", n, name, res.Rows[name])
		}
		var count int64
		if err := pool.QueryRow(ctx, `SELECT count(*) FROM "`+name+`"`).Scan(&count); err != nil {
			t.Fatalf("Failed to count %s: %v", name, err)
		}
		if count != n {
			t.Errorf("Expected %d rows in %s, got %d", n, name, count)
		}
	}

	var itemID, creatorID string
	err = pool.QueryRow(ctx, `SELECT item_id, creator_id FROM fact`).Scan(&itemID, &creatorID)
	if err != nil {
		t.Fatalf("Failed to read fact: %v", err)
	}
	if itemID != "S1" || creatorID != "C1" {
		t.Errorf("Expected S1/C1, got %s/%s", itemID, creatorID)
	}

	var location *string
	err = pool.QueryRow(ctx, `SELECT creator_location FROM attributes WHERE creator_id = 'C1'`).Scan(&location)
	if err != nil {
		t.Fatalf("Failed to read attributes: %v", err)
	}
	if location != nil {
		t.Errorf("Expected NULL creator_location, got %q", *location)
	}

	runID, err := warehouse.GetMetadataValue(ctx, pool, "run_id")
	if err != nil {
		t.Fatalf("Failed to read metadata: %v", err)
	}
	if runID != res.RunID {
		t.Errorf("Expected run_id %s, got %s", res.RunID, runID)
	}

	md, err := warehouse.GetAllMetadata(ctx, pool)
	if err != nil {
		t.Fatalf("Failed to read metadata: %v", err)
	}
	if md["rows_fact"] != "1" {
		t.Errorf("Expected rows_fact=1, got %q", md["rows_fact"])
	}

	if err := warehouse.DropSchema(ctx, pool); err != nil {
		t.Errorf("Failed to drop schema: %v", err)
	}
	if err := warehouse.DropMetadata(ctx, pool); err != nil {
		t.Errorf("Failed to drop metadata: %v", err)
	}
	exists, err := warehouse.MetadataExists(ctx, pool)
	if err != nil || exists {
		t.Errorf("Expected metadata table gone, got exists=%v err=%v", exists, err)
	}
}

func TestLoadFailureKeepsPreviousRows(t *testing.T) {
	baseConnStr := testutil.SkipIfNoPostgres(t)

	testConnStr := testutil.CreateTestDB(t, baseConnStr, "rollback")
	dbName := testutil.GetDBNameFromConnStr(testConnStr)
	cleanup := testutil.NewTestCleanup(t, baseConnStr, dbName)
	defer cleanup.Cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dir := buildLake(ctx, t)
	output := storage.NewLocalStore(dir)

	pool := testutil.ConnectTestDB(t, testConnStr)
	cleanup.SetPool(pool)

	first, err := warehouse.Load(ctx, pool, output)
	if err != nil {
		t.Fatalf("Initial load failed: %v", err)
	}

	// Corrupt the last dataset so the second load fails after the
	// other tables were already truncated inside the transaction
	corrupt := filepath.Join(dir, tables.FactDataset, "part-00000.parquet")
	if err := os.WriteFile(corrupt, []byte("not parquet"), 0644); err != nil {
		t.Fatalf("Failed to corrupt fact file: %v", err)
	}
	if _, err := warehouse.Load(ctx, pool, output); err == nil {
		t.Fatal("Expected load of corrupt dataset to fail")
	}

	var items int64
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM items`).Scan(&items); err != nil {
		t.Fatalf("Failed to count items: %v", err)
	}
	if items != 2 {
		t.Errorf("Expected previous 2 items to survive, got %d", items)
	}

	runID, err := warehouse.GetMetadataValue(ctx, pool, "run_id")
	if err != nil {
		t.Fatalf("Failed to read metadata: %v", err)
	}
	if runID != first.RunID {
		t.Errorf("Expected run_id %s to survive, got %s", first.RunID, runID)
	}
}
