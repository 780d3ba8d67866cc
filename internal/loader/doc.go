// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package loader acquires API description documents from URLs or files and
// decodes them into document trees. The diff engine and the store never do
// their own fetching; this package is the acquisition boundary.
package loader
