//-------------------------------------------------------------------------
//
// pgEdge Lake ETL
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package lake writes and reads typed rows as Parquet datasets, optionally
// partitioned into Hive-style column=value directories.
package lake

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress"
	"golang.org/x/sync/errgroup"

	"github.com/pgEdge/pgedge-lakeetl/internal/logging"
	"github.com/pgEdge/pgedge-lakeetl/internal/storage"
)

const (
	// partFile is the data file name within each partition directory.
	partFile = "part-00000.parquet"

	// successFile marks a dataset as completely written.
	successFile = "_SUCCESS"
)

// WriteOptions configures dataset writes.
type WriteOptions struct {
	// Compression is the page codec: snappy, zstd, gzip, or none.
	Compression string

	// Workers bounds the number of partition files written concurrently.
	Workers int
}

// DefaultWriteOptions returns snappy compression with 8 workers.
func DefaultWriteOptions() WriteOptions {
	return WriteOptions{
		Compression: "snappy",
		Workers:     8,
	}
}

// WriteResult summarizes a dataset write.
type WriteResult struct {
	Rows  int
	Files int
}

// Codec returns the parquet codec for a compression name.
func Codec(name string) (compress.Codec, error) {
	switch strings.ToLower(name) {
	case "", "snappy":
		return &parquet.Snappy, nil
	case "zstd":
		return &parquet.Zstd, nil
	case "gzip":
		return &parquet.Gzip, nil
	case "none", "uncompressed":
		return &parquet.Uncompressed, nil
	}
	return nil, fmt.Errorf("unknown compression: %s", name)
}

type partition[T any] struct {
	path string
	rows []T
}

// Write replaces the dataset at dir with rows. When partitionBy is nil the
// rows go to a single file; otherwise they are grouped by partition path,
// keeping first-appearance order of partitions and input order within each.
// Existing data under dir is removed first.
func Write[T any](ctx context.Context, store storage.Store, dir string, rows []T,
	partitionBy func(T) []PartitionValue, opts WriteOptions) (WriteResult, error) {
	codec, err := Codec(opts.Compression)
	if err != nil {
		return WriteResult{}, err
	}

	if err := store.RemoveAll(ctx, dir); err != nil {
		return WriteResult{}, fmt.Errorf("failed to clear %s: %w", dir, err)
	}

	parts := group(rows, partitionBy)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, opts.Workers))
	for _, p := range parts {
		g.Go(func() error {
			return writeFile(gctx, store, path.Join(dir, p.path, partFile), p.rows, codec)
		})
	}
	if err := g.Wait(); err != nil {
		return WriteResult{}, err
	}

	if err := writeMarker(ctx, store, path.Join(dir, successFile)); err != nil {
		return WriteResult{}, err
	}

	logging.Debug().
		Str("dataset", dir).
		Int("rows", len(rows)).
		Int("files", len(parts)).
		Msg("Wrote dataset")

	return WriteResult{Rows: len(rows), Files: len(parts)}, nil
}

func group[T any](rows []T, partitionBy func(T) []PartitionValue) []*partition[T] {
	if partitionBy == nil {
		return []*partition[T]{{rows: rows}}
	}

	index := make(map[string]*partition[T])
	var parts []*partition[T]
	for _, r := range rows {
		p := PartitionPath(partitionBy(r))
		part, ok := index[p]
		if !ok {
			part = &partition[T]{path: p}
			index[p] = part
			parts = append(parts, part)
		}
		part.rows = append(part.rows, r)
	}
	return parts
}

func writeFile[T any](ctx context.Context, store storage.Store, name string, rows []T, codec compress.Codec) error {
	w, err := store.Create(ctx, name)
	if err != nil {
		return err
	}

	pw := parquet.NewGenericWriter[T](w, parquet.Compression(codec))
	if _, err := pw.Write(rows); err != nil {
		w.Close()
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	if err := pw.Close(); err != nil {
		w.Close()
		return fmt.Errorf("failed to finish %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", name, err)
	}
	return nil
}

func writeMarker(ctx context.Context, store storage.Store, name string) error {
	w, err := store.Create(ctx, name)
	if err != nil {
		return err
	}
	return w.Close()
}

// Read loads every Parquet file under dir into rows of T. Files are read
// in name order so the result is deterministic.
func Read[T any](ctx context.Context, store storage.Store, dir string) ([]T, error) {
	files, err := Files(ctx, store, dir)
	if err != nil {
		return nil, err
	}

	results := make([][]T, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, name := range files {
		g.Go(func() error {
			data, err := storage.ReadAll(gctx, store, name)
			if err != nil {
				return err
			}
			rows, err := parquet.Read[T](bytes.NewReader(data), int64(len(data)))
			if err != nil {
				return fmt.Errorf("failed to decode %s: %w", name, err)
			}
			results[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []T
	for _, rows := range results {
		out = append(out, rows...)
	}
	return out, nil
}

// Files returns the Parquet file names of the dataset at dir.
func Files(ctx context.Context, store storage.Store, dir string) ([]string, error) {
	names, err := store.List(ctx, dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, n := range names {
		if strings.HasSuffix(n, ".parquet") {
			files = append(files, n)
		}
	}
	return files, nil
}
