// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package document defines the immutable tree model for a loaded API
// description: objects, arrays and scalars. Every other package consumes
// documents read-only.
package document
