//-------------------------------------------------------------------------
//
// pgEdge Lake ETL
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package warehouse

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema SQL for the warehouse copies of the lake datasets. Column names
// and order match the Parquet files.
const createSchemaSQL = `
-- Items: catalog items
CREATE TABLE IF NOT EXISTS items (
    id         TEXT NOT NULL,
    title      TEXT NOT NULL,
    creator_id TEXT NOT NULL,
    year       BIGINT NOT NULL,
    duration   DOUBLE PRECISION NOT NULL
);

-- Attributes: creator attributes, one row per catalog record
CREATE TABLE IF NOT EXISTS attributes (
    creator_id       TEXT NOT NULL,
    creator_name     TEXT NOT NULL,
    creator_location TEXT,
    latitude         DOUBLE PRECISION,
    longitude        DOUBLE PRECISION
);

-- Subjects: subjects seen in play events
CREATE TABLE IF NOT EXISTS subjects (
    subject_id TEXT NOT NULL,
    first_name TEXT NOT NULL,
    last_name  TEXT NOT NULL,
    gender     TEXT NOT NULL,
    level      TEXT NOT NULL
);

-- Time: one row per distinct play start time
CREATE TABLE IF NOT EXISTS "time" (
    start_time TIMESTAMPTZ PRIMARY KEY,
    hour       INTEGER NOT NULL,
    day        INTEGER NOT NULL,
    week       INTEGER NOT NULL,
    month      INTEGER NOT NULL,
    year       INTEGER NOT NULL,
    weekday    INTEGER NOT NULL
);

-- Fact: plays joined with catalog items
CREATE TABLE IF NOT EXISTS fact (
    "timestamp" BIGINT NOT NULL,
    subject_id  TEXT NOT NULL,
    level       TEXT NOT NULL,
    item_id     TEXT,
    creator_id  TEXT,
    session_id  BIGINT NOT NULL,
    location    TEXT NOT NULL,
    user_agent  TEXT NOT NULL,
    year        INTEGER NOT NULL,
    month       INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_items_creator ON items(creator_id);
CREATE INDEX IF NOT EXISTS idx_fact_subject ON fact(subject_id);
CREATE INDEX IF NOT EXISTS idx_fact_year_month ON fact(year, month);
`

// Drop schema SQL
const dropSchemaSQL = `
DROP TABLE IF EXISTS fact CASCADE;
DROP TABLE IF EXISTS "time" CASCADE;
DROP TABLE IF EXISTS subjects CASCADE;
DROP TABLE IF EXISTS attributes CASCADE;
DROP TABLE IF EXISTS items CASCADE;
`

// CreateSchema creates the warehouse tables.
func CreateSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, createSchemaSQL)
	return err
}

// DropSchema drops the warehouse tables.
func DropSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, dropSchemaSQL)
	return err
}
