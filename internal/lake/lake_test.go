//-------------------------------------------------------------------------
//
// pgEdge Lake ETL
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package lake

import (
	"context"
	"path"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/pgEdge/pgedge-lakeetl/internal/storage"
)

type sampleRow struct {
	ID    string   `parquet:"id"`
	Group string   `parquet:"group"`
	Year  int64    `parquet:"year"`
	Score *float64 `parquet:"score"`
}

func byYearGroup(r sampleRow) []PartitionValue {
	return []PartitionValue{
		{Column: "year", Value: strconv.FormatInt(r.Year, 10)},
		{Column: "group", Value: r.Group},
	}
}

func TestPartitionPath(t *testing.T) {
	tests := []struct {
		values []PartitionValue
		want   string
	}{
		{[]PartitionValue{{"year", "2000"}, {"creator_id", "C1"}}, "year=2000/creator_id=C1"},
		{[]PartitionValue{{"creator_id", ""}}, "creator_id=" + DefaultPartition},
		{[]PartitionValue{{"name", "a/b=c:d"}}, "name=a%2Fb%3Dc%3Ad"},
		{[]PartitionValue{{"name", "100%"}}, "name=100%25"},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := PartitionPath(tt.values); got != tt.want {
			t.Errorf("PartitionPath(%v) = %q, want %q", tt.values, got, tt.want)
		}
	}
}

func TestCodec(t *testing.T) {
	for _, name := range []string{"", "snappy", "zstd", "gzip", "none", "ZSTD"} {
		if _, err := Codec(name); err != nil {
			t.Errorf("Codec(%q) failed: %v", name, err)
		}
	}
	if _, err := Codec("lzo"); err == nil {
		t.Error("Expected error for unknown codec")
	}
}

func TestWritePartitionedRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := storage.NewLocalStore(t.TempDir())

	score := 4.5
	rows := []sampleRow{
		{ID: "a", Group: "G1", Year: 2000, Score: &score},
		{ID: "b", Group: "G2", Year: 2000},
		{ID: "c", Group: "G1", Year: 2000},
		{ID: "d", Group: "", Year: 1999},
	}

	res, err := Write(ctx, store, "out/sample", rows, byYearGroup, DefaultWriteOptions())
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if res.Rows != 4 || res.Files != 3 {
		t.Errorf("Expected 4 rows in 3 files, got %+v", res)
	}

	files, err := Files(ctx, store, "out/sample")
	if err != nil {
		t.Fatalf("Files failed: %v", err)
	}
	want := []string{
		"out/sample/year=1999/group=" + DefaultPartition + "/part-00000.parquet",
		"out/sample/year=2000/group=G1/part-00000.parquet",
		"out/sample/year=2000/group=G2/part-00000.parquet",
	}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("Expected files %v, got %v", want, files)
	}

	// Every row sits in exactly the partition its own values name.
	for _, f := range files {
		dir := path.Dir(f)
		got, err := Read[sampleRow](ctx, store, dir)
		if err != nil {
			t.Fatalf("Read %s failed: %v", dir, err)
		}
		for _, r := range got {
			expected := path.Join("out/sample", PartitionPath(byYearGroup(r)))
			if dir != expected {
				t.Errorf("Row %s found in %s, expected %s", r.ID, dir, expected)
			}
		}
	}

	all, err := Read[sampleRow](ctx, store, "out/sample")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("Expected 4 rows back, got %d", len(all))
	}
	var ids []string
	for _, r := range all {
		ids = append(ids, r.ID)
		if r.ID == "a" && (r.Score == nil || *r.Score != 4.5) {
			t.Errorf("Optional column lost: %+v", r)
		}
		if r.ID != "a" && r.Score != nil {
			t.Errorf("Expected null score for %s", r.ID)
		}
	}
	if strings.Join(ids, ",") != "d,a,c,b" {
		t.Errorf("Expected file-order ids d,a,c,b, got %v", ids)
	}
}

func TestWriteOverwrites(t *testing.T) {
	ctx := context.Background()
	store := storage.NewLocalStore(t.TempDir())

	first := []sampleRow{{ID: "old", Group: "G9", Year: 1990}}
	if _, err := Write(ctx, store, "ds", first, byYearGroup, DefaultWriteOptions()); err != nil {
		t.Fatalf("First write failed: %v", err)
	}
	second := []sampleRow{{ID: "new", Group: "G1", Year: 2000}}
	if _, err := Write(ctx, store, "ds", second, byYearGroup, DefaultWriteOptions()); err != nil {
		t.Fatalf("Second write failed: %v", err)
	}

	got, err := Read[sampleRow](ctx, store, "ds")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "new" {
		t.Errorf("Expected only the new row after overwrite, got %+v", got)
	}
}

func TestWriteUnpartitionedEmpty(t *testing.T) {
	ctx := context.Background()
	store := storage.NewLocalStore(t.TempDir())

	res, err := Write[sampleRow](ctx, store, "empty", nil, nil, WriteOptions{Compression: "none", Workers: 1})
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if res.Files != 1 {
		t.Errorf("Expected a single schema-only file, got %d", res.Files)
	}

	names, _ := store.List(ctx, "empty")
	if !reflect.DeepEqual(names, []string{"empty/_SUCCESS", "empty/part-00000.parquet"}) {
		t.Errorf("Unexpected objects: %v", names)
	}

	got, err := Read[sampleRow](ctx, store, "empty")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected no rows, got %d", len(got))
	}
}

func TestWriteUnknownCompression(t *testing.T) {
	store := storage.NewLocalStore(t.TempDir())
	_, err := Write(context.Background(), store, "ds", []sampleRow{{ID: "x"}}, nil,
		WriteOptions{Compression: "lzo", Workers: 1})
	if err == nil {
		t.Error("Expected error for unknown compression")
	}
}
