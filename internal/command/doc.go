// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package command wires the CLI: flag definitions, subcommand builders and
// the orchestration glue between loader, differ and store.
package command
