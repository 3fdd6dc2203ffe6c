// Copyright 2022 The TVL Contributors
// SPDX-License-Identifier: Apache-2.0

package conllx

import "io"

// SentenceWriter is implemented by sinks that sentences can be written
// to.
type SentenceWriter interface {
	WriteSentence(sentence Sentence) error
}

// Writer writes sentences in the CoNLL-X tabular format. Consecutive
// sentences are separated by a blank line.
type Writer struct {
	w     io.Writer
	first bool
}

// NewWriter creates a writer for CoNLL-X data.
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		w:     w,
		first: true,
	}
}

// WriteSentence writes a single sentence. Every token line carries all
// ten columns, using the empty field marker for absent fields.
func (w *Writer) WriteSentence(sentence Sentence) error {
	out := sentence.String()
	if w.first {
		w.first = false
	} else {
		out = "\n\n" + out
	}

	_, err := io.WriteString(w.w, out)
	return err
}

// PartitioningWriter distributes sentences over multiple writers in a
// round-robin fashion. This is useful for splitting a corpus into
// folds.
type PartitioningWriter struct {
	writers []SentenceWriter
	fold    int
}

// NewPartitioningWriter creates a writer that partitions sentences
// among the given writers.
func NewPartitioningWriter(writers ...SentenceWriter) *PartitioningWriter {
	return &PartitioningWriter{writers: writers}
}

// WriteSentence writes a sentence to the next writer in the rotation.
func (w *PartitioningWriter) WriteSentence(sentence Sentence) error {
	if w.fold == len(w.writers) {
		w.fold = 0
	}

	err := w.writers[w.fold].WriteSentence(sentence)
	w.fold++

	return err
}
