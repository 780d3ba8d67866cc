// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package filters narrows diff reports with --filter expressions of the form
// key[op]value, where key is "kind" or "path" and op is one of = ^ ~,
// optionally negated with a leading !.
package filters
