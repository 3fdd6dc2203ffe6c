// Copyright 2022 The TVL Contributors
// SPDX-License-Identifier: Apache-2.0

// Package conllx processes dependency treebanks in the CoNLL-X tabular
// format.
//
// Each sentence is a sequence of tokens forming a labeled dependency
// tree, rooted at an artificial node at position 0. A token line has
// ten tab-separated columns:
//
//	ID  FORM  LEMMA  CPOSTAG  POSTAG  FEATS  HEAD  DEPREL  PHEAD  PDEPREL
//
// and sentences are separated by a blank line. Absent fields are
// written as an underscore.
//
// The package provides the token/sentence data model, lazily parsed
// morphological features, and a streaming reader and writer for the
// tabular format. The pseudo-projective transformation of dependency
// trees lives in the proj subpackage.
package conllx
