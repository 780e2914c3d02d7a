//-------------------------------------------------------------------------
//
// pgEdge Lake ETL
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datagen

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/pgEdge/pgedge-lakeetl/internal/datagen/profiles"
	"github.com/pgEdge/pgedge-lakeetl/internal/records"
	"github.com/pgEdge/pgedge-lakeetl/internal/storage"
)

func smallConfig() GeneratorConfig {
	return GeneratorConfig{
		CatalogRecords: 20,
		EventRecords:   300,
		Seed:           7,
		Days:           3,
		Workers:        4,
	}
}

func decodeAll[T any](t *testing.T, store storage.Store, names []string) []T {
	t.Helper()

	var out []T
	for _, name := range names {
		data, err := storage.ReadAll(context.Background(), store, name)
		if err != nil {
			t.Fatalf("ReadAll %s failed: %v", name, err)
		}
		recs, err := records.Decode[T](strings.NewReader(string(data)), name)
		if err != nil {
			t.Fatalf("Decode %s failed: %v", name, err)
		}
		out = append(out, recs...)
	}
	return out
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()
	store := storage.NewLocalStore(t.TempDir())

	res, err := NewGenerator(smallConfig()).Generate(ctx, store)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if res.CatalogFiles != 20 || res.Events != 300 {
		t.Errorf("Unexpected result: %+v", res)
	}
	if res.EventFiles < 1 || res.EventFiles > 3 {
		t.Errorf("Expected 1-3 event files, got %d", res.EventFiles)
	}
	if res.Plays == 0 || res.Plays == res.Events {
		t.Errorf("Expected a mix of plays and other pages, got %d of %d", res.Plays, res.Events)
	}
	if res.Bytes == 0 {
		t.Error("Expected bytes written")
	}

	songFiles, err := store.Glob(ctx, "song_data/*/*/*/*.json")
	if err != nil {
		t.Fatalf("Glob failed: %v", err)
	}
	if len(songFiles) != 20 {
		t.Fatalf("Expected 20 catalog files, got %d", len(songFiles))
	}
	catalog := decodeAll[records.CatalogRecord](t, store, songFiles)
	for _, c := range catalog {
		if !strings.HasPrefix(string(c.ID), "SO") || !strings.HasPrefix(string(c.CreatorID), "AR") {
			t.Errorf("Unexpected ids: %+v", c)
		}
		if c.Duration < 60 || c.Duration > 600 {
			t.Errorf("Duration out of range: %v", c.Duration)
		}
		if (c.Latitude == nil) != (c.Longitude == nil) {
			t.Errorf("Coordinates should be set together: %+v", c)
		}
	}

	logFiles, err := store.Glob(ctx, "log_data/*/*/*.json")
	if err != nil {
		t.Fatalf("Glob failed: %v", err)
	}
	if len(logFiles) != res.EventFiles {
		t.Fatalf("Expected %d event files, got %v", res.EventFiles, logFiles)
	}
	events := decodeAll[records.EventRecord](t, store, logFiles)
	if len(events) != 300 {
		t.Fatalf("Expected 300 events, got %d", len(events))
	}

	start := time.Date(2018, 11, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 3)
	plays := 0
	for _, e := range events {
		ts := time.UnixMilli(int64(e.TS))
		if ts.Before(start) || !ts.Before(end) {
			t.Errorf("Event outside the generated window: %v", ts)
		}
		if e.Page == PlayPage {
			plays++
			if e.Duration == nil || e.Title == "" {
				t.Errorf("Play without song: %+v", e)
			}
		} else if e.Duration != nil || e.Title != "" {
			t.Errorf("Non-play with song: %+v", e)
		}
	}
	if plays != res.Plays {
		t.Errorf("Expected %d plays, decoded %d", res.Plays, plays)
	}
}

func TestGenerateReproducible(t *testing.T) {
	ctx := context.Background()
	a := storage.NewLocalStore(t.TempDir())
	b := storage.NewLocalStore(t.TempDir())

	if _, err := NewGenerator(smallConfig()).Generate(ctx, a); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if _, err := NewGenerator(smallConfig()).Generate(ctx, b); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	namesA, _ := a.List(ctx, "")
	namesB, _ := b.List(ctx, "")
	if !reflect.DeepEqual(namesA, namesB) {
		t.Fatalf("Same seed produced different files:\n%v\n%v", namesA, namesB)
	}
	for _, name := range namesA {
		da, _ := storage.ReadAll(ctx, a, name)
		db, _ := storage.ReadAll(ctx, b, name)
		if string(da) != string(db) {
			t.Errorf("Same seed produced different content for %s", name)
		}
	}
}

func TestPaths(t *testing.T) {
	if got := CatalogPath("TRABCEI128F424C983"); got != "song_data/A/B/C/TRABCEI128F424C983.json" {
		t.Errorf("Unexpected catalog path: %s", got)
	}
	day := time.Date(2018, 11, 5, 13, 0, 0, 0, time.UTC)
	if got := EventPath(day); got != "log_data/2018/11/2018-11-05-events.json" {
		t.Errorf("Unexpected event path: %s", got)
	}
}

func TestProgressReporter(t *testing.T) {
	p := NewProgressReporter("song_data", 10, 3)
	p.Update(2)
	p.Update(2)
	p.Set(9)
	if p.Current() != 9 {
		t.Errorf("Expected progress 9, got %d", p.Current())
	}
	p.Done()
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{512, "512 B"},
		{2048, "2.00 KB"},
		{5 * 1024 * 1024, "5.00 MB"},
		{3 * 1024 * 1024 * 1024, "3.00 GB"},
		{2 * 1024 * 1024 * 1024 * 1024, "2.00 TB"},
	}
	for _, tt := range tests {
		if got := FormatSize(tt.bytes); got != tt.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}

func TestGenerateFollowsProfile(t *testing.T) {
	profile, err := profiles.Get("commute", time.UTC)
	if err != nil {
		t.Fatalf("Failed to get profile: %v", err)
	}

	cfg := smallConfig()
	cfg.EventRecords = 2000
	cfg.Days = 2
	cfg.Profile = profile
	g := NewGenerator(cfg)
	events := g.events(g.catalog())

	// 2018-11-01 starts on a Thursday, so both days are weekdays
	var night, peak int
	for _, e := range events {
		hour := time.UnixMilli(int64(e.TS)).UTC().Hour()
		switch {
		case hour < 6:
			night++
		case hour >= 7 && hour < 9:
			peak++
		}
	}
	// Six night hours at 5% against two commute hours at 100%
	if night >= peak {
		t.Errorf("Expected more commute than night events, got night=%d commute=%d", night, peak)
	}
}
