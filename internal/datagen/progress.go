//-------------------------------------------------------------------------
//
// pgEdge Lake ETL
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datagen

import (
	"fmt"
	"sync/atomic"

	"github.com/pgEdge/pgedge-lakeetl/internal/logging"
)

// ProgressReporter tracks and reports generation progress. It is safe for
// concurrent use.
type ProgressReporter struct {
	dataset          string
	total            int64
	current          atomic.Int64
	progressInterval int64
}

// NewProgressReporter creates a new progress reporter.
func NewProgressReporter(dataset string, total int64, interval int64) *ProgressReporter {
	if interval < 1 {
		interval = 1
	}
	return &ProgressReporter{
		dataset:          dataset,
		total:            total,
		progressInterval: interval,
	}
}

// Update adds n to the progress and logs if an interval was crossed.
func (p *ProgressReporter) Update(n int64) {
	cur := p.current.Add(n)
	p.report(cur-n, cur)
}

// Set records absolute progress, as counted by the caller.
func (p *ProgressReporter) Set(n int64) {
	old := p.current.Swap(n)
	p.report(old, n)
}

// Current returns the recorded progress.
func (p *ProgressReporter) Current() int64 {
	return p.current.Load()
}

func (p *ProgressReporter) report(old, cur int64) {
	if cur/p.progressInterval <= old/p.progressInterval {
		return
	}
	var pct float64
	if p.total > 0 {
		pct = float64(cur) / float64(p.total) * 100
	}
	logging.Info().
		Str("dataset", p.dataset).
		Int64("files", cur).
		Int64("total", p.total).
		Float64("percent", pct).
		Msg("Generating data")
}

// Done logs completion.
func (p *ProgressReporter) Done() {
	logging.Info().
		Str("dataset", p.dataset).
		Int64("files", p.current.Load()).
		Msg("Dataset complete")
}

// FormatSize formats a byte count as a human-readable string.
func FormatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
		TB = GB * 1024
	)

	switch {
	case bytes >= TB:
		return fmt.Sprintf("%.2f TB", float64(bytes)/float64(TB))
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
