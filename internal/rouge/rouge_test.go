//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

package rouge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"the", "quick", "brown", "fox"}, Tokenize("The quick, brown fox!"))
	assert.Empty(t, Tokenize("..."))
}

func TestScoreNGramsIdentical(t *testing.T) {
	score, err := ScoreNGrams("the cat sat", "the cat sat", 1)
	require.NoError(t, err)
	assert.Equal(t, 1.0, score.Precision)
	assert.Equal(t, 1.0, score.Recall)
	assert.Equal(t, 1.0, score.FMeasure)
}

func TestScoreNGramsPartialOverlap(t *testing.T) {
	// Unigrams: {the, cat, sat} vs {the, dog, sat} -> overlap 2 of 3.
	score, err := ScoreNGrams("the cat sat", "the dog sat", 1)
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3.0, score.Precision, 1e-9)
	assert.InDelta(t, 2.0/3.0, score.Recall, 1e-9)
}

func TestScoreNGramsBigrams(t *testing.T) {
	score, err := ScoreNGrams("the cat sat down", "the cat stood up", 2)
	require.NoError(t, err)
	// Only "the cat" is shared out of 3 bigrams each.
	assert.InDelta(t, 1.0/3.0, score.Precision, 1e-9)
	assert.InDelta(t, 1.0/3.0, score.Recall, 1e-9)
}

func TestScoreNGramsDisjoint(t *testing.T) {
	score, err := ScoreNGrams("alpha beta", "gamma delta", 1)
	require.NoError(t, err)
	assert.Equal(t, Score{}, score)
}

func TestScoreNGramsEmptyInputs(t *testing.T) {
	score, err := ScoreNGrams("", "anything", 1)
	require.NoError(t, err)
	assert.Equal(t, Score{}, score)
}

func TestScoreNGramsInvalidOrder(t *testing.T) {
	_, err := ScoreNGrams("a", "a", 0)
	require.Error(t, err)
}

func TestScoreLCS(t *testing.T) {
	// LCS of [the cat sat on the mat] and [the cat was on the mat] is 5.
	score := ScoreLCS("the cat sat on the mat", "the cat was on the mat")
	assert.InDelta(t, 5.0/6.0, score.Precision, 1e-9)
	assert.InDelta(t, 5.0/6.0, score.Recall, 1e-9)

	assert.Equal(t, Score{}, ScoreLCS("", "something"))
}

func TestScoreSummaryLCS(t *testing.T) {
	score, err := ScoreSummaryLCS("The cat sat. The dog ran.", "The cat sat. The dog ran.")
	require.NoError(t, err)
	assert.Equal(t, 1.0, score.FMeasure)

	score, err = ScoreSummaryLCS("The cat sat. The dog ran.", "A bird flew by.")
	require.NoError(t, err)
	assert.Less(t, score.FMeasure, 0.5)
}

func TestSentTokenize(t *testing.T) {
	sents, err := SentTokenize("The cat sat. The dog ran!")
	require.NoError(t, err)
	require.Len(t, sents, 2)
	assert.Equal(t, "The cat sat.", sents[0])
	assert.Equal(t, "The dog ran!", sents[1])
}
