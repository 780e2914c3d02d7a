//-------------------------------------------------------------------------
//
// pgEdge Lake ETL
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package tables defines the five analytical output tables and the pure
// transformations that derive them from catalog and event records.
package tables

import (
	"strconv"
	"time"

	"github.com/pgEdge/pgedge-lakeetl/internal/lake"
)

// Dataset names, also used as directory names under the output location
// and as warehouse table names.
const (
	ItemsDataset      = "items"
	AttributesDataset = "attributes"
	SubjectsDataset   = "subjects"
	TimeDataset       = "time"
	FactDataset       = "fact"
)

// ItemRow is one row of the items table.
type ItemRow struct {
	ID        string  `parquet:"id"`
	Title     string  `parquet:"title"`
	CreatorID string  `parquet:"creator_id"`
	Year      int64   `parquet:"year"`
	Duration  float64 `parquet:"duration"`
}

// AttributeRow is one row of the attributes (creator) table.
type AttributeRow struct {
	CreatorID       string   `parquet:"creator_id"`
	CreatorName     string   `parquet:"creator_name"`
	CreatorLocation *string  `parquet:"creator_location"`
	Latitude        *float64 `parquet:"latitude"`
	Longitude       *float64 `parquet:"longitude"`
}

// SubjectRow is one row of the subjects (user) table.
type SubjectRow struct {
	SubjectID string `parquet:"subject_id"`
	FirstName string `parquet:"first_name"`
	LastName  string `parquet:"last_name"`
	Gender    string `parquet:"gender"`
	Level     string `parquet:"level"`
}

// TimeRow is one row of the time dimension table.
type TimeRow struct {
	StartTime time.Time `parquet:"start_time,timestamp(millisecond)"`
	Hour      int32     `parquet:"hour"`
	Day       int32     `parquet:"day"`
	Week      int32     `parquet:"week"`
	Month     int32     `parquet:"month"`
	Year      int32     `parquet:"year"`
	Weekday   int32     `parquet:"weekday"`
}

// FactRow is one qualifying play joined with its catalog item.
// ItemID and CreatorID are nil only for unmatched plays under a left join.
type FactRow struct {
	Timestamp int64   `parquet:"timestamp"`
	SubjectID string  `parquet:"subject_id"`
	Level     string  `parquet:"level"`
	ItemID    *string `parquet:"item_id"`
	CreatorID *string `parquet:"creator_id"`
	SessionID int64   `parquet:"session_id"`
	Location  string  `parquet:"location"`
	UserAgent string  `parquet:"user_agent"`
	Year      int32   `parquet:"year"`
	Month     int32   `parquet:"month"`
}

// ItemPartition partitions items by year, then creator_id.
func ItemPartition(r ItemRow) []lake.PartitionValue {
	return []lake.PartitionValue{
		{Column: "year", Value: strconv.FormatInt(r.Year, 10)},
		{Column: "creator_id", Value: r.CreatorID},
	}
}

// TimePartition partitions the time table by year, then month.
func TimePartition(r TimeRow) []lake.PartitionValue {
	return []lake.PartitionValue{
		{Column: "year", Value: strconv.Itoa(int(r.Year))},
		{Column: "month", Value: strconv.Itoa(int(r.Month))},
	}
}

// Dataset describes an output dataset for listing and warehouse loading.
type Dataset struct {
	Name        string
	Description string
	Columns     []string
	PartitionBy []string
}

// Datasets lists the output datasets in the order they are produced.
var Datasets = []Dataset{
	{
		Name:        ItemsDataset,
		Description: "Catalog items",
		Columns:     []string{"id", "title", "creator_id", "year", "duration"},
		PartitionBy: []string{"year", "creator_id"},
	},
	{
		Name:        AttributesDataset,
		Description: "Creator attributes",
		Columns:     []string{"creator_id", "creator_name", "creator_location", "latitude", "longitude"},
	},
	{
		Name:        SubjectsDataset,
		Description: "Subjects seen in play events",
		Columns:     []string{"subject_id", "first_name", "last_name", "gender", "level"},
	},
	{
		Name:        TimeDataset,
		Description: "Time dimension of play events",
		Columns:     []string{"start_time", "hour", "day", "week", "month", "year", "weekday"},
		PartitionBy: []string{"year", "month"},
	},
	{
		Name:        FactDataset,
		Description: "Play events joined with catalog items",
		Columns: []string{"timestamp", "subject_id", "level", "item_id", "creator_id",
			"session_id", "location", "user_agent", "year", "month"},
	},
}
