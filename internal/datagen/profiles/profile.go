//-------------------------------------------------------------------------
//
// pgEdge Lake ETL
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package profiles implements listening profiles that shape when synthetic
// play events happen during the day and week.
package profiles

import (
	"fmt"
	"sort"
	"time"
)

// Ceiling is the highest activity any profile returns.
const Ceiling = 1.25

// Profile defines the interface for listening profiles.
type Profile interface {
	// Name returns the profile name.
	Name() string

	// Description returns a human-readable description.
	Description() string

	// Activity returns the relative listening activity at t, between 0 and
	// Ceiling. 1.0 is a normal weekday peak.
	Activity(t time.Time) float64
}

var registry = make(map[string]func(tz *time.Location) Profile)

// Register adds a profile constructor to the registry.
func Register(name string, constructor func(tz *time.Location) Profile) {
	registry[name] = constructor
}

// Get retrieves a profile by name evaluated in tz. A nil tz means UTC.
func Get(name string, tz *time.Location) (Profile, error) {
	constructor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown profile: %s", name)
	}
	if tz == nil {
		tz = time.UTC
	}
	return constructor(tz), nil
}

// List returns all registered profile names, sorted.
func List() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func isWeekend(d time.Weekday) bool {
	return d == time.Saturday || d == time.Sunday
}

func init() {
	Register("flat", NewFlat)
	Register("commute", NewCommute)
	Register("evening", NewEvening)
	Register("worldwide", NewWorldwide)
}
