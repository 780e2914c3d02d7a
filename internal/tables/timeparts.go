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
	"time"
)

// UnixSeconds converts an epoch timestamp in milliseconds to whole seconds.
func UnixSeconds(ms int64) int64 {
	return ms / 1000
}

// Calendar converts an epoch timestamp in milliseconds to a calendar time
// in loc, truncated to the second.
func Calendar(ms int64, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Unix(UnixSeconds(ms), 0).In(loc)
}

// TimeRowFor breaks a calendar time into the time dimension columns.
// Week is the ISO 8601 week; weekday runs 1 (Monday) to 7 (Sunday).
func TimeRowFor(t time.Time) TimeRow {
	_, week := t.ISOWeek()
	return TimeRow{
		StartTime: t,
		Hour:      int32(t.Hour()),
		Day:       int32(t.Day()),
		Week:      int32(week),
		Month:     int32(t.Month()),
		Year:      int32(t.Year()),
		Weekday:   isoWeekday(t.Weekday()),
	}
}

func isoWeekday(d time.Weekday) int32 {
	return int32((int(d)+6)%7 + 1)
}

// LoadLocation resolves a timezone name. Empty and "UTC" mean UTC, "Local"
// means the host timezone.
func LoadLocation(name string) (*time.Location, error) {
	switch name {
	case "", "UTC":
		return time.UTC, nil
	case "Local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone: %w", err)
	}
	return loc, nil
}
