// Copyright 2022 The TVL Contributors
// SPDX-License-Identifier: Apache-2.0

package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const corpus = "1\tDie\tdie\tART\tART\tnsf\t2\tDET\t_\t_\n" +
	"2\tGroßaufnahme\tGroßaufnahme\tN\tNN\tnsf\t0\tROOT\t_\t_"

func newTestBackend(t *testing.T) *FSBackend {
	t.Setenv("STORAGE_PATH", t.TempDir())

	backend, err := NewFSBackend()
	require.NoError(t, err)

	return backend
}

func persistCorpus(t *testing.T, backend *FSBackend, key string) (int, int64) {
	sentences, size, err := backend.Persist(context.Background(), key, func(w io.Writer) (int, error) {
		_, err := io.WriteString(w, corpus)
		return 1, err
	})
	require.NoError(t, err)

	return sentences, size
}

func TestFSBackendPersistFetch(t *testing.T) {
	backend := newTestBackend(t)

	sentences, size, err := backend.Persist(context.Background(), "de/tueba.conll", func(w io.Writer) (int, error) {
		_, err := io.WriteString(w, corpus)
		return 1, err
	})
	require.NoError(t, err)
	require.Equal(t, 1, sentences)
	require.Equal(t, int64(len(corpus)), size)

	r, err := backend.Fetch(context.Background(), "de/tueba.conll")
	require.NoError(t, err)
	defer r.Close()

	fetched, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, corpus, string(fetched))
}

func TestFSBackendMove(t *testing.T) {
	backend := newTestBackend(t)
	persistCorpus(t, backend, "staging/tueba.conll")

	err := backend.Move(context.Background(), "staging/tueba.conll", "corpora/tueba.conll")
	require.NoError(t, err)

	r, err := backend.Fetch(context.Background(), "corpora/tueba.conll")
	require.NoError(t, err)
	defer r.Close()

	fetched, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, corpus, string(fetched))

	_, err = backend.Fetch(context.Background(), "staging/tueba.conll")
	require.Error(t, err)
}

func TestFSBackendSentenceCount(t *testing.T) {
	backend := newTestBackend(t)
	persistCorpus(t, backend, "tueba.conll")

	// Extended attribute support depends on the filesystem backing
	// the test environment.
	if count, ok := backend.SentenceCount("tueba.conll"); ok && count != 1 {
		t.Errorf("unexpected sentence count: %d", count)
	}
}

func TestFSBackendName(t *testing.T) {
	backend := newTestBackend(t)
	require.True(t, strings.HasPrefix(backend.Name(), "Filesystem"))
}
