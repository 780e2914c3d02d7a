//-------------------------------------------------------------------------
//
// pgEdge Lake ETL
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package profiles

import (
	"math"
	"time"
)

// Evening follows a single region whose listeners play most after work.
// Night: 12AM - 6AM (10%)
// Morning: 6AM - 12PM (35%)
// Afternoon: 12PM - 6PM (55%)
// Evening peak: 6PM - 11PM (100%)
// Late night: 11PM - 12AM (60%)
// Weekend: 125% of weekday
type Evening struct {
	tz *time.Location
}

// NewEvening creates a new Evening profile.
func NewEvening(tz *time.Location) Profile {
	return &Evening{tz: tz}
}

func (p *Evening) Name() string {
	return "evening"
}

func (p *Evening) Description() string {
	return "Single region, evening peak (6PM-11PM)"
}

func (p *Evening) Activity(t time.Time) float64 {
	t = t.In(p.tz)
	hour := t.Hour()

	var base float64
	switch {
	case hour < 6:
		base = 0.10
	case hour < 12:
		base = 0.35
	case hour < 18:
		base = 0.55
	case hour < 23:
		base = 1.0
	default:
		base = 0.60
	}

	if isWeekend(t.Weekday()) {
		base *= 1.25
	}
	return base
}

// Worldwide follows listeners in the Americas, Europe and Asia, each with
// an evening peak in its own local time. Activity never drops below 40%.
// Weekend: 110% of weekday
type Worldwide struct{}

// NewWorldwide creates a new Worldwide profile. Regional peaks are fixed in
// UTC, so the timezone is ignored.
func NewWorldwide(*time.Location) Profile {
	return Worldwide{}
}

func (Worldwide) Name() string {
	return "worldwide"
}

func (Worldwide) Description() string {
	return "Three regions, rolling evening peaks (24/7)"
}

func (Worldwide) Activity(t time.Time) float64 {
	utc := t.UTC()
	hour := utc.Hour()

	// 6PM-11PM local in each region, expressed in UTC
	americas := peak(hour, 23, 4)
	europe := peak(hour, 17, 22)
	asia := peak(hour, 9, 14)

	activity := 0.40 + 0.60*math.Max(americas, math.Max(europe, asia))
	if isWeekend(utc.Weekday()) {
		activity *= 1.10
	}
	return activity
}

// peak returns 1 inside [start, end) and ramps 0.6 then 0.3 over the two
// hours either side. Windows may wrap past midnight.
func peak(hour, start, end int) float64 {
	dist := func(a, b int) int {
		return ((a-b)%24 + 24) % 24
	}

	if dist(hour, start) < dist(end, start) {
		return 1.0
	}
	switch min(dist(start, hour), dist(hour, end)+1) {
	case 1:
		return 0.6
	case 2:
		return 0.3
	}
	return 0.0
}
