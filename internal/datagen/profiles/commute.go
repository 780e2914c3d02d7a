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
	"time"
)

// Flat spreads plays evenly over the day and week.
type Flat struct{}

// NewFlat creates a new Flat profile.
func NewFlat(*time.Location) Profile {
	return Flat{}
}

func (Flat) Name() string {
	return "flat"
}

func (Flat) Description() string {
	return "Uniform activity at every hour"
}

func (Flat) Activity(time.Time) float64 {
	return 1.0
}

// Commute follows listeners who play music on the way to and from work.
// Morning commute: 7AM - 9AM (100%)
// Working hours: 9AM - 5PM (45%, lunch hour 70%)
// Evening commute: 5PM - 7PM (100%)
// Evening: 7PM - 11PM (ramp down from 60% to 20%)
// Night: 11PM - 6AM (5%)
// Weekend: flat 50% from 10AM to 10PM, 10% otherwise
type Commute struct {
	tz *time.Location
}

// NewCommute creates a new Commute profile.
func NewCommute(tz *time.Location) Profile {
	return &Commute{tz: tz}
}

func (p *Commute) Name() string {
	return "commute"
}

func (p *Commute) Description() string {
	return "Weekday commute peaks (7-9AM, 5-7PM)"
}

func (p *Commute) Activity(t time.Time) float64 {
	t = t.In(p.tz)
	hour := t.Hour()

	if isWeekend(t.Weekday()) {
		if hour >= 10 && hour < 22 {
			return 0.50
		}
		return 0.10
	}

	switch {
	case hour < 6 || hour >= 23:
		return 0.05
	case hour < 7:
		// Wake up: ramp from 5% to 100% over the hour
		return 0.05 + 0.95*float64(t.Minute())/60.0
	case hour < 9, hour >= 17 && hour < 19:
		return 1.0
	case hour == 12:
		return 0.70
	case hour < 17:
		return 0.45
	default:
		progress := (float64(hour-19) + float64(t.Minute())/60.0) / 4.0
		return 0.60 - 0.40*progress
	}
}
