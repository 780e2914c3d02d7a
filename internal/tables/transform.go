//-------------------------------------------------------------------------
//
// pgEdge Lake ETL
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package tables

import (
	"fmt"
	"sort"
	"time"

	"github.com/pgEdge/pgedge-lakeetl/internal/records"
)

// JoinType selects how plays without a catalog match are treated.
type JoinType string

const (
	// InnerJoin drops plays that match no catalog item.
	InnerJoin JoinType = "inner"
	// LeftJoin keeps unmatched plays with null item and creator ids.
	LeftJoin JoinType = "left"
)

// ParseJoinType validates a join type name.
func ParseJoinType(s string) (JoinType, error) {
	switch JoinType(s) {
	case InnerJoin, LeftJoin:
		return JoinType(s), nil
	case "":
		return InnerJoin, nil
	}
	return "", fmt.Errorf("unknown join type: %s", s)
}

// Items projects catalog records onto the items table.
func Items(recs []records.CatalogRecord) []ItemRow {
	out := make([]ItemRow, 0, len(recs))
	for _, r := range recs {
		out = append(out, ItemRow{
			ID:        string(r.ID),
			Title:     r.Title,
			CreatorID: string(r.CreatorID),
			Year:      int64(r.Year),
			Duration:  r.Duration,
		})
	}
	return out
}

// Attributes projects catalog records onto the attributes table.
func Attributes(recs []records.CatalogRecord) []AttributeRow {
	out := make([]AttributeRow, 0, len(recs))
	for _, r := range recs {
		out = append(out, AttributeRow{
			CreatorID:       string(r.CreatorID),
			CreatorName:     r.CreatorName,
			CreatorLocation: r.CreatorLocation,
			Latitude:        r.Latitude,
			Longitude:       r.Longitude,
		})
	}
	return out
}

// FilterPage keeps the events whose page equals page.
func FilterPage(events []records.EventRecord, page string) []records.EventRecord {
	out := make([]records.EventRecord, 0, len(events))
	for _, e := range events {
		if e.Page == page {
			out = append(out, e)
		}
	}
	return out
}

// Subjects projects events onto the subjects table. With distinct set, each
// subject appears once, in order of first appearance, carrying the columns
// of its latest event so level reflects the last known subscription.
func Subjects(events []records.EventRecord, distinct bool) []SubjectRow {
	if !distinct {
		out := make([]SubjectRow, 0, len(events))
		for _, e := range events {
			out = append(out, subjectFrom(e))
		}
		return out
	}

	type latest struct {
		pos int
		ts  int64
		row SubjectRow
	}
	seen := make(map[string]*latest)
	var order []string
	for _, e := range events {
		id := string(e.SubjectID)
		cur, ok := seen[id]
		if !ok {
			seen[id] = &latest{ts: int64(e.TS), row: subjectFrom(e)}
			order = append(order, id)
			continue
		}
		// Ties go to the later event in input order.
		if int64(e.TS) >= cur.ts {
			cur.ts = int64(e.TS)
			cur.row = subjectFrom(e)
		}
	}

	out := make([]SubjectRow, 0, len(order))
	for _, id := range order {
		out = append(out, seen[id].row)
	}
	return out
}

func subjectFrom(e records.EventRecord) SubjectRow {
	return SubjectRow{
		SubjectID: string(e.SubjectID),
		FirstName: e.FirstName,
		LastName:  e.LastName,
		Gender:    e.Gender,
		Level:     e.Level,
	}
}

// Times derives the time dimension from event timestamps. Rows are distinct
// on start_time and sorted by it.
func Times(events []records.EventRecord, loc *time.Location) []TimeRow {
	seen := make(map[int64]struct{}, len(events))
	out := make([]TimeRow, 0, len(events))
	for _, e := range events {
		secs := UnixSeconds(int64(e.TS))
		if _, ok := seen[secs]; ok {
			continue
		}
		seen[secs] = struct{}{}
		out = append(out, TimeRowFor(Calendar(int64(e.TS), loc)))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out
}

type joinKey struct {
	title    string
	creator  string
	duration float64
}

// CatalogIndex looks up catalog items by (title, creator name, duration).
type CatalogIndex struct {
	items map[joinKey][]ItemRow
}

// NewCatalogIndex joins items to creator names through creator_id and
// indexes the result. A creator_id listed under several names is indexed
// under each of them.
func NewCatalogIndex(items []ItemRow, attrs []AttributeRow) *CatalogIndex {
	names := make(map[string][]string)
	for _, a := range attrs {
		known := names[a.CreatorID]
		dup := false
		for _, n := range known {
			if n == a.CreatorName {
				dup = true
				break
			}
		}
		if !dup {
			names[a.CreatorID] = append(known, a.CreatorName)
		}
	}

	idx := &CatalogIndex{items: make(map[joinKey][]ItemRow)}
	for _, it := range items {
		for _, name := range names[it.CreatorID] {
			k := joinKey{title: it.Title, creator: name, duration: it.Duration}
			idx.items[k] = append(idx.items[k], it)
		}
	}
	return idx
}

// Lookup returns the catalog items matching a play. Plays without a
// duration never match.
func (c *CatalogIndex) Lookup(title, creatorName string, duration *float64) []ItemRow {
	if duration == nil {
		return nil
	}
	return c.items[joinKey{title: title, creator: creatorName, duration: *duration}]
}

// Len returns the number of distinct join keys.
func (c *CatalogIndex) Len() int {
	return len(c.items)
}

// Facts joins play events with catalog items on title, creator name and
// duration equality. Each matching item yields one fact row.
func Facts(events []records.EventRecord, idx *CatalogIndex, loc *time.Location, join JoinType) []FactRow {
	out := make([]FactRow, 0, len(events))
	for _, e := range events {
		matches := idx.Lookup(e.Title, e.CreatorName, e.Duration)
		if len(matches) == 0 {
			if join == LeftJoin {
				out = append(out, factFrom(e, nil, loc))
			}
			continue
		}
		for i := range matches {
			out = append(out, factFrom(e, &matches[i], loc))
		}
	}
	return out
}

func factFrom(e records.EventRecord, item *ItemRow, loc *time.Location) FactRow {
	cal := Calendar(int64(e.TS), loc)
	row := FactRow{
		Timestamp: UnixSeconds(int64(e.TS)),
		SubjectID: string(e.SubjectID),
		Level:     e.Level,
		SessionID: int64(e.SessionID),
		Location:  e.Location,
		UserAgent: e.UserAgent,
		Year:      int32(cal.Year()),
		Month:     int32(cal.Month()),
	}
	if item != nil {
		id, creator := item.ID, item.CreatorID
		row.ItemID = &id
		row.CreatorID = &creator
	}
	return row
}
