// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package differ computes the structural differences between two versions of
// an API description document. Arrays compare order-insensitively so that
// re-serialized collections do not report spurious churn.
package differ
