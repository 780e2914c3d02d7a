//-------------------------------------------------------------------------
//
// pgEdge Lake ETL
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package records defines the raw catalog and event records read from the
// input location, and the lenient JSON scalar types they are decoded with.
package records

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/goccy/go-json"
)

// CatalogRecord describes one catalog item (a song) and its creator.
type CatalogRecord struct {
	ID              String   `json:"song_id"`
	Title           string   `json:"title"`
	CreatorID       String   `json:"artist_id"`
	Year            Int64    `json:"year"`
	Duration        float64  `json:"duration"`
	CreatorName     string   `json:"artist_name"`
	CreatorLocation *string  `json:"artist_location"`
	Latitude        *float64 `json:"artist_latitude"`
	Longitude       *float64 `json:"artist_longitude"`
	NumSongs        Int64    `json:"num_songs,omitempty"`
}

// EventRecord is one logged user action.
type EventRecord struct {
	SubjectID   String   `json:"userId"`
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Gender      string   `json:"gender"`
	Level       string   `json:"level"`
	Page        string   `json:"page"`
	TS          Int64    `json:"ts"`
	Title       string   `json:"song"`
	CreatorName string   `json:"artist"`
	Duration    *float64 `json:"length"`
	SessionID   Int64    `json:"sessionId"`
	Location    string   `json:"location"`
	UserAgent   string   `json:"userAgent"`
}

// Int64 is an integer that decodes from a JSON number or from a string
// holding one. Empty strings and null decode to zero.
type Int64 int64

// UnmarshalJSON implements json.Unmarshaler.
func (n *Int64) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}

	s := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*n = 0
			return nil
		}
	}

	v, err := ParseInt(s)
	if err != nil {
		return err
	}
	*n = Int64(v)
	return nil
}

// ParseInt parses an integer that may have been written in float notation
// (e.g. 1.542837407796E12). Fractional parts are truncated.
func ParseInt(s string) (int64, error) {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	return int64(f), nil
}

// String is a string that also accepts a JSON number. Identifiers such as
// userId are numeric in some exports and quoted in others.
type String string

// UnmarshalJSON implements json.Unmarshaler.
func (s *String) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = String(v)
		return nil
	}
	*s = String(b)
	return nil
}
