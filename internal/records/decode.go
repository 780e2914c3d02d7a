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
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// Decode reads every JSON value in r into a slice of T. The input may be a
// single object, concatenated objects, or JSON lines. The name is only used
// in error messages.
func Decode[T any](r io.Reader, name string) ([]T, error) {
	dec := json.NewDecoder(r)

	var out []T
	for n := 1; ; n++ {
		var rec T
		err := dec.Decode(&rec)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%s: record %d: %w", name, n, err)
		}
		out = append(out, rec)
	}
}
