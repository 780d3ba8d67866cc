// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package output renders snapshot histories and diff reports in text, json
// and yaml forms. Presentation only; nothing here feeds back into the core.
package output
