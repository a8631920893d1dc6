// Copyright 2026 The Plaintes Authors
// SPDX-License-Identifier: MIT

package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
)

const (
	bom       = "\ufeff"
	separator = ';'
)

// ToCSV encodes rows as a UTF-8 CSV document with a byte order mark, ';'
// separators, and every field quoted. The header is the first row's keys;
// later rows are projected onto it and missing keys render empty. Lines are
// joined with '\n' and there is no trailing newline.
func ToCSV(rows []Row) ([]byte, error) {
	if len(rows) == 0 {
		return nil, ErrNothingToExport
	}
	header := rows[0].Keys()

	var buf bytes.Buffer
	buf.WriteString(bom)
	writeRecord(&buf, header)
	cells := make([]string, len(header))
	for _, r := range rows {
		for i, k := range header {
			cells[i] = r.String(k)
		}
		buf.WriteByte('\n')
		writeRecord(&buf, cells)
	}
	return buf.Bytes(), nil
}

// writeRecord writes one line with every cell quoted. encoding/csv only
// quotes cells that need it, so quoting is done here.
func writeRecord(buf *bytes.Buffer, cells []string) {
	for i, c := range cells {
		if i > 0 {
			buf.WriteByte(separator)
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(c, `"`, `""`))
		buf.WriteByte('"')
	}
}

// ParseCSV decodes a document produced by ToCSV. Every value is returned as a
// string. A leading byte order mark is optional.
func ParseCSV(data []byte) ([]Row, error) {
	data = bytes.TrimPrefix(data, []byte(bom))
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = separator
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNothingToExport
	}

	header := records[0]
	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(Row, 0, len(header))
		for i, k := range header {
			v := ""
			if i < len(rec) {
				v = rec[i]
			}
			row = append(row, Field{Key: k, Value: v})
		}
		rows = append(rows, row)
	}
	return rows, nil
}
