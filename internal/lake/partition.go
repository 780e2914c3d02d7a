//-------------------------------------------------------------------------
//
// pgEdge Lake ETL
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package lake

import (
	"fmt"
	"strings"
)

// DefaultPartition is the directory value used for empty partition values,
// matching Hive so downstream engines read it back as null.
const DefaultPartition = "__HIVE_DEFAULT_PARTITION__"

// PartitionValue is one column=value component of a partition path.
type PartitionValue struct {
	Column string
	Value  string
}

// PartitionPath renders partition values as a Hive-style relative path,
// e.g. "year=2000/creator_id=C1".
func PartitionPath(values []PartitionValue) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, EscapePathName(v.Column)+"="+EscapePartitionValue(v.Value))
	}
	return strings.Join(parts, "/")
}

// EscapePartitionValue escapes a partition value for use in a path.
func EscapePartitionValue(v string) string {
	if v == "" {
		return DefaultPartition
	}
	return EscapePathName(v)
}

// EscapePathName percent-encodes the characters Hive escapes in partition
// directory names.
func EscapePathName(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if needsEscape(c) {
			fmt.Fprintf(&b, "%%%02X", c)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func needsEscape(c byte) bool {
	if c < 0x20 || c == 0x7f {
		return true
	}
	switch c {
	case '"', '#', '%', '\'', '*', '/', ':', '=', '?', '\\', '{', '[', ']', '^':
		return true
	}
	return false
}
