// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"errors"
	"fmt"

	"github.com/hexilium/swagger-api-compare/internal/document"
)

var (
	// ErrNotFound means no snapshot exists at the referenced (key, timestamp).
	ErrNotFound = errors.New("snapshot not found")

	// ErrDuplicateTimestamp means a save collided with an existing snapshot
	// at the same (key, timestamp).
	ErrDuplicateTimestamp = errors.New("snapshot timestamp already exists")

	// ErrMalformedDocument means a stored payload did not decode into a
	// well-formed document tree.
	ErrMalformedDocument = document.ErrMalformed
)

// StorageError wraps an underlying storage-layer failure (permissions, disk
// full, network to S3, ...). It is distinct from the sentinel errors above:
// those describe the contract, this one the infrastructure. Callers own any
// retry policy.
type StorageError struct {
	Op       string
	Resource string
	Err      error
}

// Error implements error.
func (e *StorageError) Error() string {
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Resource, e.Err)
}

// Unwrap exposes the cause for errors.Is/As.
func (e *StorageError) Unwrap() error { return e.Err }

// Failure builds a StorageError.
func Failure(op, resource string, err error) *StorageError {
	return &StorageError{Op: op, Resource: resource, Err: err}
}
