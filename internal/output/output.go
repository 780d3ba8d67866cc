// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/dustin/go-humanize"
	yaml "gopkg.in/yaml.v2"

	"github.com/hexilium/swagger-api-compare/internal/differ"
	"github.com/hexilium/swagger-api-compare/internal/document"
	"github.com/hexilium/swagger-api-compare/internal/store"
)

// valueWidth caps how much of a subtree is shown on a text report line.
const valueWidth = 60

// History renders snapshot metadata. Formats: text (default), json, yaml.
func History(w io.Writer, snaps []store.Snapshot, format string, titles bool) error {
	if w == nil {
		w = os.Stdout
	}

	type row struct {
		Resource  string `json:"resource" yaml:"resource"`
		Timestamp string `json:"timestamp" yaml:"timestamp"`
		Age       string `json:"age" yaml:"age"`
	}
	rows := make([]row, len(snaps))
	for i, s := range snaps {
		rows[i] = row{
			Resource:  s.Resource,
			Timestamp: store.FormatStamp(s.Timestamp),
			Age:       humanize.Time(s.Timestamp),
		}
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "yaml":
		out, err := yaml.Marshal(rows)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	default:
		cells := make([][]string, len(rows))
		for i, r := range rows {
			cells[i] = []string{r.Resource, r.Timestamp, r.Age}
		}
		var headers []string
		if titles {
			headers = []string{"RESOURCE", "TIMESTAMP", "AGE"}
		}
		tableWriter(w, headers, cells)
		return nil
	}
}

// Report renders a diff report. Formats: text (default), json, yaml. Text
// prints one change per line; an empty report prints a short notice so a
// human watching a terminal is not left guessing.
func Report(w io.Writer, report differ.Report, format string) error {
	if w == nil {
		w = os.Stdout
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "yaml":
		// The report's canonical serialization is its JSON form; round-trip
		// through it rather than teaching yaml about the entry types.
		raw, err := json.Marshal(report)
		if err != nil {
			return err
		}
		var generic interface{}
		if err := json.Unmarshal(raw, &generic); err != nil {
			return err
		}
		out, err := yaml.Marshal(generic)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	default:
		if report.Empty() {
			fmt.Fprintln(w, "No changes found.")
			return nil
		}
		for _, e := range report {
			switch e.Kind {
			case differ.Added:
				fmt.Fprintf(w, "added         %s = %s\n", e.Path, compact(e.NewValue))
			case differ.Removed:
				fmt.Fprintf(w, "removed       %s = %s\n", e.Path, compact(e.OldValue))
			case differ.ValueChanged:
				fmt.Fprintf(w, "value-changed %s: %s -> %s\n", e.Path, compact(e.OldValue), compact(e.NewValue))
			case differ.TypeChanged:
				fmt.Fprintf(w, "type-changed  %s: %s -> %s\n", e.Path, compact(e.OldValue), compact(e.NewValue))
			}
		}
		return nil
	}
}

func compact(doc *document.Document) string {
	if doc == nil {
		return "-"
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return "?"
	}
	s := string(raw)
	if len(s) > valueWidth {
		s = s[:valueWidth-3] + "..."
	}
	return s
}

// tableWriter renders rows in the borderless tabular form used across
// commands.
func tableWriter(w io.Writer, headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}

	headerStyle := lipgloss.NewStyle().Align(lipgloss.Left).Bold(true)
	cellStyle := lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)

	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := cellStyle
			if row == table.HeaderRow {
				style = headerStyle
			}
			if col > 0 {
				style = style.PaddingLeft(2)
			}
			return style
		}).
		Rows(rows...)

	if len(headers) > 0 {
		// https://github.com/charmbracelet/lipgloss/issues/261
		t = t.Headers(headers...).BorderHeader(false)
	}
	fmt.Fprintln(w, t)
}
