// Copyright 2022 The TVL Contributors
// SPDX-License-Identifier: Apache-2.0

package conllx

import (
	"maps"
	"sort"
	"strings"
	"sync"
)

// Features holds the morphological features of a token.
//
// The CoNLL-X FEATS column is an opaque string as far as the tabular
// format is concerned. The conventional layout is a list of key-value
// pairs separated by a vertical bar (`|`), with keys and values
// separated by a colon (`:`). Features keeps the raw string around and
// only parses it into a map when a caller asks for the map view.
//
// The parse happens at most once per value, even when racing readers
// share it.
type Features struct {
	raw  string
	once sync.Once
	m    map[string]*string
}

// FeaturesFromString creates features from their raw string
// representation. Arbitrary strings are accepted, but only strings in
// the conventional `k:v|k:v` layout yield a useful map view.
func FeaturesFromString(s string) *Features {
	return &Features{raw: s}
}

// FeaturesFromMap creates features from a key-value mapping. A nil
// value marks a feature without a value. The raw representation is
// rendered with keys in lexicographic order, so constructing features
// from a map round-trips through Map.
func FeaturesFromMap(m map[string]*string) *Features {
	f := &Features{raw: featureMapString(m)}
	f.once.Do(func() {
		f.m = maps.Clone(m)
	})

	return f
}

// String returns the raw features string.
func (f *Features) String() string {
	return f.raw
}

// Map returns the features as a key-value mapping. Features that carry
// no value map to nil. The map is parsed on the first call and shared
// by all subsequent calls; callers must not modify it.
func (f *Features) Map() map[string]*string {
	f.once.Do(func() {
		f.m = parseFeatures(f.raw)
	})

	return f.m
}

// Clone returns a copy of the features. The copy re-parses the raw
// string on its first Map call.
func (f *Features) Clone() *Features {
	if f == nil {
		return nil
	}

	return &Features{raw: f.raw}
}

// Equal compares features by their parsed maps, so two values are
// equal when they contain the same features, regardless of the order
// within the raw string.
func (f *Features) Equal(other *Features) bool {
	if f == nil || other == nil {
		return f == other
	}

	return maps.EqualFunc(f.Map(), other.Map(), func(a, b *string) bool {
		if a == nil || b == nil {
			return a == b
		}

		return *a == *b
	})
}

func parseFeatures(raw string) map[string]*string {
	features := make(map[string]*string)

	for _, fv := range strings.Split(raw, "|") {
		if k, v, found := strings.Cut(fv, ":"); found {
			features[k] = &v
		} else {
			features[fv] = nil
		}
	}

	return features
}

func featureMapString(m map[string]*string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('|')
		}

		sb.WriteString(k)
		if v := m[k]; v != nil {
			sb.WriteByte(':')
			sb.WriteString(*v)
		}
	}

	return sb.String()
}
