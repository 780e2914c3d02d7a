//-------------------------------------------------------------------------
//
// pgEdge Lake ETL
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package records

import (
	"strings"
	"testing"
)

func TestInt64Unmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Int64
		wantErr bool
	}{
		{"number", `1542837407796`, 1542837407796, false},
		{"string", `"1542837407796"`, 1542837407796, false},
		{"float notation", `1.542837407796E12`, 1542837407796, false},
		{"empty string", `""`, 0, false},
		{"null", `null`, 0, false},
		{"garbage", `"abc"`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n Int64
			err := n.UnmarshalJSON([]byte(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for %s, got nil", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if n != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, n)
			}
		})
	}
}

func TestStringUnmarshal(t *testing.T) {
	tests := []struct {
		input string
		want  String
	}{
		{`"39"`, "39"},
		{`39`, "39"},
		{`null`, ""},
		{`""`, ""},
	}

	for _, tt := range tests {
		var s String
		if err := s.UnmarshalJSON([]byte(tt.input)); err != nil {
			t.Fatalf("Unexpected error for %s: %v", tt.input, err)
		}
		if s != tt.want {
			t.Errorf("Input %s: expected %q, got %q", tt.input, tt.want, s)
		}
	}
}

func TestDecodeCatalogObject(t *testing.T) {
	input := `{"num_songs": 1, "artist_id": "ARD7TVE1187B99BFB1", "artist_latitude": null,
"artist_longitude": null, "artist_location": "California - LA", "artist_name": "Casual",
"song_id": "SOMZWCG12A8C13C480", "title": "I Didn't Mean To", "duration": 218.93179, "year": 0}`

	recs, err := Decode[CatalogRecord](strings.NewReader(input), "song.json")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(recs))
	}

	r := recs[0]
	if r.ID != "SOMZWCG12A8C13C480" {
		t.Errorf("ID mismatch: %s", r.ID)
	}
	if r.CreatorID != "ARD7TVE1187B99BFB1" {
		t.Errorf("CreatorID mismatch: %s", r.CreatorID)
	}
	if r.Latitude != nil || r.Longitude != nil {
		t.Error("Expected null coordinates")
	}
	if r.CreatorLocation == nil || *r.CreatorLocation != "California - LA" {
		t.Errorf("CreatorLocation mismatch: %v", r.CreatorLocation)
	}
	if r.Duration != 218.93179 {
		t.Errorf("Duration mismatch: %v", r.Duration)
	}
}

func TestDecodeEventLines(t *testing.T) {
	input := `{"artist":null,"auth":"Logged In","firstName":"Walter","gender":"M","level":"free","page":"Home","sessionId":38,"song":null,"ts":1541105830796,"userAgent":"Mozilla","userId":"39","length":null}
{"artist":"Des'ree","auth":"Logged In","firstName":"Kaylee","gender":"F","level":"free","page":"NextSong","sessionId":139,"song":"You Gotta Be","ts":"1541106106796","userAgent":"Mozilla","userId":8,"length":246.30812}

`
	recs, err := Decode[EventRecord](strings.NewReader(input), "events.json")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(recs))
	}

	if recs[0].Duration != nil {
		t.Error("Expected null length for first event")
	}
	if recs[1].TS != 1541106106796 {
		t.Errorf("Expected string-encoded ts to decode, got %d", recs[1].TS)
	}
	if recs[1].SubjectID != "8" {
		t.Errorf("Expected numeric userId to decode as string, got %q", recs[1].SubjectID)
	}
	if recs[1].Duration == nil || *recs[1].Duration != 246.30812 {
		t.Errorf("Length mismatch: %v", recs[1].Duration)
	}
	if recs[1].SessionID != 139 {
		t.Errorf("SessionID mismatch: %d", recs[1].SessionID)
	}
}

func TestDecodeEmpty(t *testing.T) {
	recs, err := Decode[EventRecord](strings.NewReader("  \n"), "empty.json")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("Expected no records, got %d", len(recs))
	}
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Decode[EventRecord](strings.NewReader(`{"userId": "1",`), "bad.json")
	if err == nil {
		t.Fatal("Expected error for malformed JSON, got nil")
	}
	if !strings.Contains(err.Error(), "bad.json") {
		t.Errorf("Expected error to name the file, got: %v", err)
	}
}
