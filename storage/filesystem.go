// Copyright 2022 The TVL Contributors
// SPDX-License-Identifier: Apache-2.0

// Filesystem storage backend for treebank corpora.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"

	"github.com/im7mortal/kmutex"
	"github.com/pkg/xattr"
	log "github.com/sirupsen/logrus"
)

// sentenceCountAttr is the extended attribute in which the sentence
// count of a persisted corpus is recorded.
const sentenceCountAttr = "user.conllx.sentences"

type FSBackend struct {
	path string

	// Concurrent writes to the same key are serialized; writes to
	// different keys are not.
	writeLock *kmutex.Kmutex
}

func NewFSBackend() (*FSBackend, error) {
	p := os.Getenv("STORAGE_PATH")
	if p == "" {
		return nil, fmt.Errorf("STORAGE_PATH must be set for filesystem storage")
	}

	p = path.Clean(p)
	err := os.MkdirAll(p, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %s", err)
	}

	return &FSBackend{
		path:      p,
		writeLock: kmutex.New(),
	}, nil
}

func (b *FSBackend) Name() string {
	return fmt.Sprintf("Filesystem (%s)", b.path)
}

func (b *FSBackend) Persist(ctx context.Context, key string, p Persister) (int, int64, error) {
	b.writeLock.Lock(key)
	defer b.writeLock.Unlock(key)

	full := path.Join(b.path, key)
	dir := path.Dir(full)
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		log.WithError(err).WithField("path", dir).Error("failed to create storage directory")
		return 0, 0, err
	}

	file, err := os.OpenFile(full, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		log.WithError(err).WithField("file", full).Error("failed to write file")
		return 0, 0, err
	}
	defer file.Close()

	counting := &countingWriter{w: file}
	sentences, err := p(counting)
	if err != nil {
		return sentences, counting.n, err
	}

	// The sentence count is kept out of band so that corpora stay
	// byte-exact. Not all filesystems support extended attributes,
	// a corpus without the attribute is still valid.
	count := strconv.Itoa(sentences)
	if err := xattr.FSet(file, sentenceCountAttr, []byte(count)); err != nil {
		log.WithError(err).WithField("file", full).Warn("failed to record sentence count")
	}

	return sentences, counting.n, nil
}

// SentenceCount returns the sentence count recorded for a persisted
// corpus, if the filesystem kept it.
func (b *FSBackend) SentenceCount(key string) (int, bool) {
	count, err := xattr.Get(path.Join(b.path, key), sentenceCountAttr)
	if err != nil {
		return 0, false
	}

	n, err := strconv.Atoi(string(count))
	if err != nil {
		return 0, false
	}

	return n, true
}

func (b *FSBackend) Fetch(ctx context.Context, key string) (io.ReadCloser, error) {
	full := path.Join(b.path, key)
	return os.Open(full)
}

func (b *FSBackend) Move(ctx context.Context, old, new string) error {
	newpath := path.Join(b.path, new)
	err := os.MkdirAll(path.Dir(newpath), 0755)
	if err != nil {
		return err
	}

	return os.Rename(path.Join(b.path, old), newpath)
}
