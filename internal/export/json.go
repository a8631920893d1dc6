// Copyright 2026 The Plaintes Authors
// SPDX-License-Identifier: MIT

package export

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ToJSON encodes v with two-space indentation and without HTML escaping.
func ToJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
