// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package store defines the versioned snapshot store contract: documents
// persisted per resource key under second-precision timestamps, with
// time-ranged latest queries. Backends live in the fs and s3 subpackages.
package store
