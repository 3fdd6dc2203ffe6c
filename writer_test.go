// Copyright 2022 The TVL Contributors
// SPDX-License-Identifier: Apache-2.0

package conllx

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWriter(t *testing.T) {
	var sb strings.Builder
	writer := NewWriter(&sb)

	for _, sentence := range testSentences() {
		if err := writer.WriteSentence(sentence); err != nil {
			t.Fatalf("cannot write sentence: %v", err)
		}
	}

	if sb.String() != testFragmentMarkedEmpty {
		t.Fatalf("unexpected output:\n%s", sb.String())
	}
}

func TestWriterReaderRoundTrip(t *testing.T) {
	var sb strings.Builder
	writer := NewWriter(&sb)

	for _, sentence := range testSentences() {
		if err := writer.WriteSentence(sentence); err != nil {
			t.Fatalf("cannot write sentence: %v", err)
		}
	}

	sentences, err := ReadAll(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("cannot read sentences back: %v", err)
	}

	if diff := cmp.Diff(testSentences(), sentences); diff != "" {
		t.Fatalf("round trip mismatch:\n%s", diff)
	}
}

func TestPartitioningWriter(t *testing.T) {
	var first, second strings.Builder
	writer := NewPartitioningWriter(NewWriter(&first), NewWriter(&second))

	sentences := testSentences()
	for i := 0; i < 2; i++ {
		for _, sentence := range sentences {
			if err := writer.WriteSentence(sentence); err != nil {
				t.Fatalf("cannot write sentence: %v", err)
			}
		}
	}

	firstSentences, err := ReadAll(strings.NewReader(first.String()))
	if err != nil {
		t.Fatalf("cannot read first partition: %v", err)
	}

	secondSentences, err := ReadAll(strings.NewReader(second.String()))
	if err != nil {
		t.Fatalf("cannot read second partition: %v", err)
	}

	expectedFirst := []Sentence{sentences[0], sentences[0]}
	if diff := cmp.Diff(expectedFirst, firstSentences); diff != "" {
		t.Fatalf("first partition mismatch:\n%s", diff)
	}

	expectedSecond := []Sentence{sentences[1], sentences[1]}
	if diff := cmp.Diff(expectedSecond, secondSentences); diff != "" {
		t.Fatalf("second partition mismatch:\n%s", diff)
	}
}
