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
	"fmt"
	"io"
	"path"
	"sort"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/pgEdge/pgedge-lakeetl/internal/datagen/profiles"
	"github.com/pgEdge/pgedge-lakeetl/internal/logging"
	"github.com/pgEdge/pgedge-lakeetl/internal/records"
	"github.com/pgEdge/pgedge-lakeetl/internal/storage"
)

// PlayPage is the page value of a play event.
const PlayPage = "NextSong"

var (
	otherPages   = []string{"Home", "Logout", "Settings", "Help", "About", "Upgrade"}
	otherWeights = []int{40, 15, 10, 10, 5, 5}
)

// GeneratorConfig configures synthetic input generation.
type GeneratorConfig struct {
	// CatalogRecords is the number of catalog items, one file each.
	CatalogRecords int

	// EventRecords is the number of events spread across the day files.
	EventRecords int

	// Seed makes output reproducible; 0 picks a random seed.
	Seed int64

	// Start is the first event day. Defaults to 2018-11-01 UTC.
	Start time.Time

	// Days is the number of daily event files. Defaults to 30.
	Days int

	// Profile shapes event timestamps over the day and week. Nil spreads
	// them evenly.
	Profile profiles.Profile

	// PlayShare is the fraction of events that are plays. Defaults to 0.8.
	PlayShare float64

	// MatchShare is the fraction of plays that name a catalog item
	// exactly. Defaults to 0.9.
	MatchShare float64

	// Workers bounds concurrent file writes. Defaults to 8.
	Workers int

	// ProgressInterval is how often to log progress (in files).
	ProgressInterval int64
}

// DefaultGeneratorConfig returns default generation settings.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		CatalogRecords:   200,
		EventRecords:     5000,
		Start:            time.Date(2018, time.November, 1, 0, 0, 0, 0, time.UTC),
		Days:             30,
		PlayShare:        0.8,
		MatchShare:       0.9,
		Workers:          8,
		ProgressInterval: 100,
	}
}

// GenerateResult summarizes generated input.
type GenerateResult struct {
	CatalogFiles int
	EventFiles   int
	Events       int
	Plays        int
	Bytes        int64
}

// Generator writes a synthetic catalog and event log to a store.
type Generator struct {
	cfg   GeneratorConfig
	faker *Faker
	bytes atomic.Int64
}

// NewGenerator creates a generator, filling unset fields from
// DefaultGeneratorConfig.
func NewGenerator(cfg GeneratorConfig) *Generator {
	def := DefaultGeneratorConfig()
	if cfg.Start.IsZero() {
		cfg.Start = def.Start
	}
	if cfg.Days < 1 {
		cfg.Days = def.Days
	}
	if cfg.PlayShare <= 0 {
		cfg.PlayShare = def.PlayShare
	}
	if cfg.MatchShare <= 0 {
		cfg.MatchShare = def.MatchShare
	}
	if cfg.Workers < 1 {
		cfg.Workers = def.Workers
	}
	if cfg.ProgressInterval < 1 {
		cfg.ProgressInterval = def.ProgressInterval
	}

	faker := NewFaker()
	if cfg.Seed != 0 {
		faker = NewFakerWithSeed(uint64(cfg.Seed))
	}

	return &Generator{cfg: cfg, faker: faker}
}

// Generate writes catalog files under song_data/ and daily event files
// under log_data/.
func (g *Generator) Generate(ctx context.Context, store storage.Store) (GenerateResult, error) {
	catalog := g.catalog()
	events := g.events(catalog)

	if err := g.writeCatalog(ctx, store, catalog); err != nil {
		return GenerateResult{}, err
	}
	days, err := g.writeEvents(ctx, store, events)
	if err != nil {
		return GenerateResult{}, err
	}

	res := GenerateResult{
		CatalogFiles: len(catalog),
		EventFiles:   days,
		Events:       len(events),
		Bytes:        g.bytes.Load(),
	}
	for _, e := range events {
		if e.Page == PlayPage {
			res.Plays++
		}
	}

	logging.Info().
		Str("output", store.String()).
		Int("catalog_files", res.CatalogFiles).
		Int("event_files", res.EventFiles).
		Int("events", res.Events).
		Int("plays", res.Plays).
		Str("size", FormatSize(res.Bytes)).
		Msg("Generated input data")

	return res, nil
}

type artist struct {
	id       string
	name     string
	location *string
	lat      *float64
	lon      *float64
}

func (g *Generator) catalog() []records.CatalogRecord {
	f := g.faker

	artists := make([]artist, max(1, g.cfg.CatalogRecords/2))
	for i := range artists {
		a := artist{
			id:   f.ID("AR", 16),
			name: f.Name(),
		}
		if f.Chance(0.6) {
			loc := f.Location()
			a.location = &loc
			if f.Chance(0.7) {
				lat, lon := Round(f.Latitude(), 5), Round(f.Longitude(), 5)
				a.lat, a.lon = &lat, &lon
			}
		}
		artists[i] = a
	}

	years := []int{0, 1}
	yearWeights := []int{30, 70}

	out := make([]records.CatalogRecord, 0, g.cfg.CatalogRecords)
	for i := 0; i < g.cfg.CatalogRecords; i++ {
		a := Choose(f, artists)
		year := 0
		if ChooseWeighted(f, years, yearWeights) == 1 {
			year = f.Int(1960, 2018)
		}
		out = append(out, records.CatalogRecord{
			ID:              records.String(f.ID("SO", 16)),
			Title:           f.Title(),
			CreatorID:       records.String(a.id),
			Year:            records.Int64(year),
			Duration:        Round(f.Float64(60, 600), 5),
			CreatorName:     a.name,
			CreatorLocation: a.location,
			Latitude:        a.lat,
			Longitude:       a.lon,
			NumSongs:        1,
		})
	}
	return out
}

type user struct {
	id        int
	firstName string
	lastName  string
	gender    string
	level     string
	location  string
	agent     string
	session   int64
}

func (g *Generator) events(catalog []records.CatalogRecord) []records.EventRecord {
	f := g.faker

	users := make([]*user, max(1, g.cfg.EventRecords/50))
	for i := range users {
		users[i] = &user{
			id:        i + 1,
			firstName: f.FirstName(),
			lastName:  f.LastName(),
			gender:    f.Gender(),
			level:     ChooseWeighted(f, []string{"free", "paid"}, []int{70, 30}),
			location:  f.Location(),
			agent:     f.UserAgent(),
			session:   int64(f.Int(1, 1000)),
		}
	}

	start := g.cfg.Start
	end := start.AddDate(0, 0, g.cfg.Days).Add(-time.Millisecond)

	out := make([]records.EventRecord, 0, g.cfg.EventRecords)
	for i := 0; i < g.cfg.EventRecords; i++ {
		u := Choose(f, users)

		// Occasional subscription changes and new sessions.
		if f.Chance(0.02) {
			if u.level == "free" {
				u.level = "paid"
			} else {
				u.level = "free"
			}
		}
		if f.Chance(0.1) {
			u.session += int64(f.Int(1, 50))
		}

		e := records.EventRecord{
			SubjectID: records.String(fmt.Sprintf("%d", u.id)),
			FirstName: u.firstName,
			LastName:  u.lastName,
			Gender:    u.gender,
			Level:     u.level,
			TS:        records.Int64(g.timestamp(start, end).UnixMilli()),
			SessionID: records.Int64(u.session),
			Location:  u.location,
			UserAgent: u.agent,
		}

		if f.Chance(g.cfg.PlayShare) {
			e.Page = PlayPage
			if f.Chance(g.cfg.MatchShare) {
				item := Choose(f, catalog)
				d := item.Duration
				e.Title, e.CreatorName, e.Duration = item.Title, item.CreatorName, &d
			} else {
				d := Round(f.Float64(60, 600), 5)
				e.Title, e.CreatorName, e.Duration = f.Title(), f.Name(), &d
			}
		} else {
			e.Page = ChooseWeighted(f, otherPages, otherWeights)
		}

		out = append(out, e)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].TS < out[j].TS })
	return out
}

// maxProfileDraws bounds rejection sampling in timestamp.
const maxProfileDraws = 64

// timestamp draws an event time in [start, end] weighted by the listening
// profile.
func (g *Generator) timestamp(start, end time.Time) time.Time {
	f := g.faker
	t := f.DateRange(start, end)
	if g.cfg.Profile == nil {
		return t
	}
	for i := 1; i < maxProfileDraws; i++ {
		if f.Float64(0, profiles.Ceiling) < g.cfg.Profile.Activity(t) {
			break
		}
		t = f.DateRange(start, end)
	}
	return t
}

// CatalogPath returns the song_data path of a catalog item, nested by the
// third to fifth characters of its track id like the public song dataset.
func CatalogPath(trackID string) string {
	return path.Join("song_data", trackID[2:3], trackID[3:4], trackID[4:5], trackID+".json")
}

// EventPath returns the log_data path of the event file for day.
func EventPath(day time.Time) string {
	return path.Join("log_data", day.Format("2006"), day.Format("01"),
		day.Format("2006-01-02")+"-events.json")
}

func (g *Generator) writeCatalog(ctx context.Context, store storage.Store, catalog []records.CatalogRecord) error {
	progress := NewProgressReporter("song_data", int64(len(catalog)), g.cfg.ProgressInterval)

	// Track ids are drawn up front so file names do not depend on write order.
	names := make([]string, len(catalog))
	for i := range catalog {
		names[i] = CatalogPath(g.faker.ID("TR", 16))
	}

	var done atomic.Int64
	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(g.cfg.Workers)
	for i := range catalog {
		grp.Go(func() error {
			if err := writeJSON(gctx, g, store, names[i], catalog[i:i+1]); err != nil {
				return err
			}
			progress.Set(done.Add(1))
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return err
	}
	progress.Done()
	return nil
}

func (g *Generator) writeEvents(ctx context.Context, store storage.Store, events []records.EventRecord) (int, error) {
	byDay := make(map[string][]records.EventRecord)
	var days []string
	for _, e := range events {
		name := EventPath(time.UnixMilli(int64(e.TS)).UTC())
		if _, ok := byDay[name]; !ok {
			days = append(days, name)
		}
		byDay[name] = append(byDay[name], e)
	}

	progress := NewProgressReporter("log_data", int64(len(days)), g.cfg.ProgressInterval)

	var done atomic.Int64
	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(g.cfg.Workers)
	for _, name := range days {
		grp.Go(func() error {
			if err := writeJSON(gctx, g, store, name, byDay[name]); err != nil {
				return err
			}
			progress.Set(done.Add(1))
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return 0, err
	}
	progress.Done()
	return len(days), nil
}

// writeJSON writes values to name as JSON lines.
func writeJSON[T any](ctx context.Context, g *Generator, store storage.Store, name string, values []T) error {
	w, err := store.Create(ctx, name)
	if err != nil {
		return err
	}

	cw := &countingWriter{w: w}
	enc := json.NewEncoder(cw)
	for _, v := range values {
		if err := enc.Encode(v); err != nil {
			w.Close()
			return fmt.Errorf("failed to encode %s: %w", name, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", name, err)
	}

	g.bytes.Add(cw.n)
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
