// Copyright 2022 The TVL Contributors
// SPDX-License-Identifier: Apache-2.0

// Package storage implements an interface that can be implemented by
// treebank storage backends, such as the local filesystem, AWS S3 or
// Google Cloud Storage.
package storage

import (
	"context"
	"io"
)

// Persister is a user-supplied function that writes a corpus in the
// tabular format to the given writer. It returns the number of
// sentences written.
type Persister func(io.Writer) (int, error)

// Backend is a storage backend for treebank corpora.
type Backend interface {
	// Name returns the name of the storage backend, for use in log
	// messages and such.
	Name() string

	// Persist provides a user-supplied function with a writer that
	// stores a corpus in the storage backend. It returns the number
	// of sentences and the number of bytes written.
	Persist(ctx context.Context, key string, p Persister) (int, int64, error)

	// Fetch retrieves a corpus from the storage backend.
	Fetch(ctx context.Context, key string) (io.ReadCloser, error)

	// Move renames a corpus inside the storage backend.
	Move(ctx context.Context, old, new string) error
}

// countingWriter counts the bytes passed through to the underlying
// writer.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
