// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package driller extracts sub-documents from an API description so commands
// can diff or show one corner of a large document.
package driller
