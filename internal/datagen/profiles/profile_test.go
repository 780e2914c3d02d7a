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
	"testing"
	"time"
)

// monday is 2018-11-19, a Monday.
func at(day time.Weekday, hour, minute int) time.Time {
	return time.Date(2018, 11, 18+int(day), hour, minute, 0, 0, time.UTC)
}

func TestGet(t *testing.T) {
	tests := []struct {
		name      string
		profile   string
		wantError bool
	}{
		{"flat", "flat", false},
		{"commute", "commute", false},
		{"evening", "evening", false},
		{"worldwide", "worldwide", false},
		{"invalid profile", "invalid", true},
		{"empty profile", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, err := Get(tt.profile, nil)
			if tt.wantError {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if profile.Name() != tt.profile {
				t.Errorf("Expected %s, got %s", tt.profile, profile.Name())
			}
		})
	}
}

func TestList(t *testing.T) {
	expected := []string{"commute", "evening", "flat", "worldwide"}
	got := List()
	if len(got) != len(expected) {
		t.Fatalf("Expected %v, got %v", expected, got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("Expected %s at %d, got %s", expected[i], i, got[i])
		}
	}
}

func TestCommuteProfile(t *testing.T) {
	profile, _ := Get("commute", time.UTC)

	testCases := []struct {
		day         time.Weekday
		hour        int
		minute      int
		min, max    float64
		description string
	}{
		{time.Monday, 8, 0, 1.0, 1.0, "8 AM Monday - commute"},
		{time.Tuesday, 18, 0, 1.0, 1.0, "6 PM Tuesday - commute"},
		{time.Wednesday, 14, 0, 0.3, 0.6, "2 PM Wednesday - working"},
		{time.Thursday, 12, 30, 0.6, 0.8, "12:30 PM Thursday - lunch"},
		{time.Friday, 3, 0, 0, 0.1, "3 AM Friday - night"},
		{time.Saturday, 15, 0, 0.4, 0.6, "3 PM Saturday - weekend"},
		{time.Sunday, 23, 0, 0, 0.2, "11 PM Sunday - weekend night"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			level := profile.Activity(at(tc.day, tc.hour, tc.minute))
			if level < tc.min || level > tc.max {
				t.Errorf("Expected activity in [%f, %f], got %f", tc.min, tc.max, level)
			}
		})
	}
}

func TestEveningProfile(t *testing.T) {
	profile, _ := Get("evening", time.UTC)

	evening := profile.Activity(at(time.Monday, 20, 0))
	night := profile.Activity(at(time.Monday, 4, 0))
	if evening <= night {
		t.Errorf("Evening should have higher activity than night: evening=%f, night=%f",
			evening, night)
	}

	weekend := profile.Activity(at(time.Saturday, 20, 0))
	if weekend <= evening {
		t.Errorf("Weekend evening should exceed weekday evening: weekend=%f, weekday=%f",
			weekend, evening)
	}
}

func TestEveningProfileTimezone(t *testing.T) {
	tz := time.FixedZone("UTC-8", -8*3600)
	profile, _ := Get("evening", tz)

	// 04:00 UTC Tuesday is 20:00 Monday at UTC-8
	level := profile.Activity(at(time.Tuesday, 4, 0))
	if level != 1.0 {
		t.Errorf("Expected evening peak in local time, got %f", level)
	}
}

func TestWorldwideProfile(t *testing.T) {
	profile, _ := Get("worldwide", nil)

	for hour := 0; hour < 24; hour++ {
		level := profile.Activity(at(time.Monday, hour, 0))
		if level < 0.4 {
			t.Errorf("Worldwide profile at hour %d should have min 40%% activity, got %f", hour, level)
		}
	}
}

func TestPeak(t *testing.T) {
	tests := []struct {
		hour, start, end int
		want             float64
	}{
		{18, 17, 22, 1.0},
		{16, 17, 22, 0.6},
		{15, 17, 22, 0.3},
		{22, 17, 22, 0.6},
		{23, 17, 22, 0.3},
		{5, 17, 22, 0.0},
		{1, 23, 4, 1.0},
		{22, 23, 4, 0.6},
		{4, 23, 4, 0.6},
		{5, 23, 4, 0.3},
		{12, 23, 4, 0.0},
	}

	for _, tt := range tests {
		if got := peak(tt.hour, tt.start, tt.end); got != tt.want {
			t.Errorf("peak(%d, %d, %d): expected %f, got %f", tt.hour, tt.start, tt.end, tt.want, got)
		}
	}
}

func TestActivityRange(t *testing.T) {
	for _, name := range List() {
		t.Run(name, func(t *testing.T) {
			profile, err := Get(name, time.UTC)
			if err != nil {
				t.Fatalf("Failed to get profile: %v", err)
			}

			start := at(time.Monday, 0, 0)
			for i := 0; i < 7*24*4; i++ {
				ts := start.Add(time.Duration(i) * 15 * time.Minute)
				level := profile.Activity(ts)
				if level < 0 || level > Ceiling {
					t.Errorf("Activity at %v out of range: %f", ts, level)
				}
			}
		})
	}
}
