// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"os"
	"regexp"
	"strings"

	"github.com/hexilium/swagger-api-compare/internal/differ"
	"github.com/hexilium/swagger-api-compare/internal/log"
)

// filterRegex parses a filter expression into key, operator and target
// components: a key, optionally followed by an operator (optionally prefixed
// with '!' for negation) and a target. Operators are one of = ^ ~.
// Examples: "kind=added", "path^paths", "path!~deprecated".
var filterRegex = regexp.MustCompile(`^([^!=^~]*)(!?[=^~])?(.*)$`)

// Filter is a single parsed --filter expression.
type Filter struct {
	Key     string `yaml:"key" json:"Key"`
	Negate  bool   `yaml:"negate" json:"Negate"`
	Operand string `yaml:"operand" json:"Operand"`
	Value   string `yaml:"value" json:"Value"`
}

// BuildFilters parses a filter specification string into a slice of Filter.
// Invalid expressions are skipped with a logged error, never fatal.
func BuildFilters(spec string) []Filter {
	//nolint:prealloc
	var filters []Filter

	if spec == "" {
		return filters
	}

	// Default delimiter is ",", allow an override for values that contain
	// commas.
	delim := ","
	if d, ok := os.LookupEnv("SWAGCMP_FILTER_DELIM"); ok {
		delim = d
	}

	for _, filterSpec := range strings.Split(spec, delim) {
		filterSpec = strings.TrimSpace(filterSpec)
		if filterSpec == "" {
			continue
		}

		parts := filterRegex.FindStringSubmatch(filterSpec)
		if parts == nil || parts[1] == "" {
			log.Errorf("invalid filter: %s", filterSpec)
			continue
		}

		f := Filter{Key: parts[1], Operand: parts[2], Value: parts[3]}
		if strings.HasPrefix(f.Operand, "!") {
			f.Negate = true
			f.Operand = f.Operand[1:]
		}

		switch f.Key {
		case "kind", "path":
		default:
			log.Errorf("unknown filter key: %s", f.Key)
			continue
		}

		filters = append(filters, f)
	}

	return filters
}

// Apply returns the report entries matching every filter. A nil filter list
// passes everything through untouched.
func Apply(report differ.Report, filters []Filter) differ.Report {
	if len(filters) == 0 {
		return report
	}

	//nolint:prealloc
	var out differ.Report
	for _, e := range report {
		if matchesAll(e, filters) {
			out = append(out, e)
		}
	}
	return out
}

func matchesAll(e differ.Entry, filters []Filter) bool {
	for _, f := range filters {
		if !matches(e, f) {
			return false
		}
	}
	return true
}

func matches(e differ.Entry, f Filter) bool {
	var subject string
	switch f.Key {
	case "kind":
		subject = e.Kind.String()
	case "path":
		subject = e.Path.String()
	}

	var hit bool
	switch f.Operand {
	case "=":
		hit = subject == f.Value
	case "^":
		hit = strings.HasPrefix(subject, f.Value)
	case "~":
		hit = strings.Contains(subject, f.Value)
	default:
		// Bare key with no operator: require the subject be non-empty.
		hit = subject != ""
	}

	if f.Negate {
		return !hit
	}
	return hit
}
