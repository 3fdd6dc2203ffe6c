// Copyright 2022 The TVL Contributors
// SPDX-License-Identifier: Apache-2.0

package conllx

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTokenBuilder(t *testing.T) {
	token := NewTokenBuilder("Deleuze").
		Lemma("Deleuze").
		CPos("N").
		Pos("NE").
		Features(FeaturesFromString("case:nominative")).
		Head(1).
		HeadRel("APP").
		PHead(1).
		PHeadRel("APP").
		Token()

	if token.Form() != "Deleuze" {
		t.Errorf("unexpected form: %q", token.Form())
	}

	if lemma, ok := token.Lemma(); !ok || lemma != "Deleuze" {
		t.Errorf("unexpected lemma: %q (%v)", lemma, ok)
	}

	if head, ok := token.Head(); !ok || head != 1 {
		t.Errorf("unexpected head: %d (%v)", head, ok)
	}

	if pHead, ok := token.PHead(); !ok || pHead != 1 {
		t.Errorf("unexpected projective head: %d (%v)", pHead, ok)
	}
}

func TestTokenAbsentFields(t *testing.T) {
	token := NewTokenBuilder("hello").Token()

	if _, ok := token.Lemma(); ok {
		t.Error("lemma should be absent")
	}

	if _, ok := token.Head(); ok {
		t.Error("head should be absent")
	}

	if token.Features() != nil {
		t.Error("features should be absent")
	}
}

func TestTokenEqualityDistinguishesAbsentFromEmpty(t *testing.T) {
	absent := NewTokenBuilder("hello").Token()
	empty := NewTokenBuilder("hello").Lemma("").Token()

	if absent.Equal(empty) {
		t.Error("a token with an absent lemma should differ from one with an empty lemma")
	}
}

func TestTokenEqualityComparesFeatureMaps(t *testing.T) {
	a := NewTokenBuilder("hello").Features(FeaturesFromString("a|b:c")).Token()
	b := NewTokenBuilder("hello").Features(FeaturesFromString("b:c|a")).Token()

	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("tokens with reordered features should be equal:\n%s", diff)
	}
}

func TestTokenSetHead(t *testing.T) {
	token := NewTokenBuilder("hello").Head(1).HeadRel("DET").Token()

	token.SetHead(2)
	token.SetHeadRel("APP")

	if head, _ := token.Head(); head != 2 {
		t.Errorf("unexpected head: %d", head)
	}

	if headRel, _ := token.HeadRel(); headRel != "APP" {
		t.Errorf("unexpected head relation: %q", headRel)
	}
}
