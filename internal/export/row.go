// Copyright 2026 The Plaintes Authors
// SPDX-License-Identifier: MIT

// Package export turns view models into downloadable artifacts: CSV files
// readable by spreadsheet software, JSON snapshots, and PDF reports.
package export

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrNothingToExport is returned when an export has no rows.
var ErrNothingToExport = errors.New("aucune donnée à exporter")

// Field is one key/value pair of a Row.
type Field struct {
	Key   string
	Value any
}

// Row is an ordered set of fields. Key order is insertion order.
type Row []Field

// Set returns a copy of r with key set to value. An existing key keeps its
// position.
func (r Row) Set(key string, value any) Row {
	out := make(Row, len(r), len(r)+1)
	copy(out, r)
	for i := range out {
		if out[i].Key == key {
			out[i].Value = value
			return out
		}
	}
	return append(out, Field{Key: key, Value: value})
}

// Get returns the value stored under key.
func (r Row) Get(key string) (any, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Keys returns the row's keys in order.
func (r Row) Keys() []string {
	keys := make([]string, len(r))
	for i, f := range r {
		keys[i] = f.Key
	}
	return keys
}

// String returns the formatted value of key, or "" if missing.
func (r Row) String(key string) string {
	v, _ := r.Get(key)
	return FormatValue(v)
}

// FormatValue renders a cell value. nil renders as the empty string and
// floats use the shortest representation that round-trips.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case *string:
		if x == nil {
			return ""
		}
		return *x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case *float64:
		if x == nil {
			return ""
		}
		return strconv.FormatFloat(*x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.Format(time.RFC3339)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
