//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package rouge implements ROUGE scoring for text evaluation.
package rouge

import (
	"fmt"
	"strings"
	"unicode"
)

// Score holds ROUGE precision, recall and F-measure.
type Score struct {
	// Precision is the fraction of predicted units that match the reference in range [0, 1].
	Precision float64
	// Recall is the fraction of reference units that are matched by the prediction in range [0, 1].
	Recall float64
	// FMeasure is the harmonic mean of precision and recall in range [0, 1].
	FMeasure float64
}

// fMeasure computes the harmonic mean of precision and recall.
func fMeasure(precision, recall float64) float64 {
	if precision+recall > 0 {
		return 2 * precision * recall / (precision + recall)
	}
	return 0
}

// Tokenize lowercases the text and splits it into alphanumeric word tokens.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// ScoreNGrams computes ROUGE-N between a reference and a prediction.
func ScoreNGrams(target, prediction string, n int) (Score, error) {
	if n <= 0 {
		return Score{}, fmt.Errorf("invalid ngram order: %d", n)
	}
	targetGrams := countNGrams(Tokenize(target), n)
	predGrams := countNGrams(Tokenize(prediction), n)

	overlap := 0
	targetTotal := 0
	predTotal := 0
	for gram, count := range targetGrams {
		targetTotal += count
		if predCount, ok := predGrams[gram]; ok {
			overlap += min(count, predCount)
		}
	}
	for _, count := range predGrams {
		predTotal += count
	}
	if targetTotal == 0 || predTotal == 0 {
		return Score{}, nil
	}
	precision := float64(overlap) / float64(predTotal)
	recall := float64(overlap) / float64(targetTotal)
	return Score{Precision: precision, Recall: recall, FMeasure: fMeasure(precision, recall)}, nil
}

// ScoreLCS computes ROUGE-L between a reference and a prediction using the
// longest common subsequence of word tokens.
func ScoreLCS(target, prediction string) Score {
	targetTokens := Tokenize(target)
	predTokens := Tokenize(prediction)
	if len(targetTokens) == 0 || len(predTokens) == 0 {
		return Score{}
	}
	lcs := lcsLength(targetTokens, predTokens)
	precision := float64(lcs) / float64(len(predTokens))
	recall := float64(lcs) / float64(len(targetTokens))
	return Score{Precision: precision, Recall: recall, FMeasure: fMeasure(precision, recall)}
}

// ScoreSummaryLCS computes ROUGE-Lsum: the reference and prediction are split
// into sentences and matched via union LCS, the way summary-level ROUGE-L is
// defined.
func ScoreSummaryLCS(target, prediction string) (Score, error) {
	targetSents, err := SentTokenize(target)
	if err != nil {
		return Score{}, err
	}
	predSents, err := SentTokenize(prediction)
	if err != nil {
		return Score{}, err
	}
	targetTokens := make([][]string, 0, len(targetSents))
	targetTotal := 0
	for _, sent := range targetSents {
		tokens := Tokenize(sent)
		targetTokens = append(targetTokens, tokens)
		targetTotal += len(tokens)
	}
	predTokens := make([][]string, 0, len(predSents))
	predTotal := 0
	for _, sent := range predSents {
		tokens := Tokenize(sent)
		predTokens = append(predTokens, tokens)
		predTotal += len(tokens)
	}
	if targetTotal == 0 || predTotal == 0 {
		return Score{}, nil
	}
	hits := 0
	for _, refSent := range targetTokens {
		hits += unionLCSCount(refSent, predTokens)
	}
	precision := float64(hits) / float64(predTotal)
	recall := float64(hits) / float64(targetTotal)
	return Score{Precision: precision, Recall: recall, FMeasure: fMeasure(precision, recall)}, nil
}

// countNGrams counts n-gram occurrences in a token sequence.
func countNGrams(tokens []string, n int) map[string]int {
	grams := make(map[string]int)
	for i := 0; i+n <= len(tokens); i++ {
		grams[strings.Join(tokens[i:i+n], " ")]++
	}
	return grams
}

// lcsLength returns the length of the longest common subsequence of a and b.
func lcsLength(a, b []string) int {
	rows := make([][]int, len(a)+1)
	for i := range rows {
		rows[i] = make([]int, len(b)+1)
	}
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				rows[i][j] = rows[i-1][j-1] + 1
			} else {
				rows[i][j] = max(rows[i-1][j], rows[i][j-1])
			}
		}
	}
	return rows[len(a)][len(b)]
}

// unionLCSCount returns the number of reference-sentence token positions
// covered by LCS matches against any prediction sentence.
func unionLCSCount(refSent []string, predSents [][]string) int {
	covered := make([]bool, len(refSent))
	for _, predSent := range predSents {
		for _, idx := range lcsIndices(refSent, predSent) {
			covered[idx] = true
		}
	}
	count := 0
	for _, hit := range covered {
		if hit {
			count++
		}
	}
	return count
}

// lcsIndices returns the reference indices that participate in the LCS of a and b.
func lcsIndices(a, b []string) []int {
	rows := make([][]int, len(a)+1)
	for i := range rows {
		rows[i] = make([]int, len(b)+1)
	}
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				rows[i][j] = rows[i-1][j-1] + 1
			} else {
				rows[i][j] = max(rows[i-1][j], rows[i][j-1])
			}
		}
	}
	indices := make([]int, 0, rows[len(a)][len(b)])
	i, j := len(a), len(b)
	for i > 0 && j > 0 {
		switch {
		case a[i-1] == b[j-1]:
			indices = append(indices, i-1)
			i--
			j--
		case rows[i-1][j] >= rows[i][j-1]:
			i--
		default:
			j--
		}
	}
	return indices
}
