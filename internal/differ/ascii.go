// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"encoding/json"
	"fmt"

	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/hexilium/swagger-api-compare/internal/document"
)

// Ascii renders a unified-style, optionally colored text view of the changes
// between two documents. This is presentation only; the delta shown is
// gojsondiff's positional view of the raw serializations, while Compare
// remains the authoritative (order-insensitive) verdict.
func Ascii(old, new *document.Document, coloring bool) (string, error) {
	oldJSON, err := json.Marshal(old)
	if err != nil {
		return "", fmt.Errorf("failed to serialize old document: %w", err)
	}
	newJSON, err := json.Marshal(new)
	if err != nil {
		return "", fmt.Errorf("failed to serialize new document: %w", err)
	}

	delta, err := gojsondiff.New().Compare(oldJSON, newJSON)
	if err != nil {
		return "", fmt.Errorf("failed to compare documents: %w", err)
	}

	if !delta.Modified() {
		return "", nil
	}

	var jdoc interface{}
	if err := json.Unmarshal(oldJSON, &jdoc); err != nil {
		return "", fmt.Errorf("failed to unmarshal old document: %w", err)
	}

	config := formatter.AsciiFormatterConfig{
		ShowArrayIndex: false,
		Coloring:       coloring,
	}

	text, err := formatter.NewAsciiFormatter(jdoc, config).Format(delta)
	if err != nil {
		return "", err
	}

	return text, nil
}
