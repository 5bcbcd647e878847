//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

package grading

import (
	"context"
	"fmt"
	"math"
	"sync"

	"trpc.group/trpc-go/trpc-eval-go/model"
)

// MatchesSimilarity embeds the expected text and the candidate output and
// compares their cosine similarity against the threshold. The two embedding
// calls are independent and run concurrently. Token usage from both calls is
// summed into the result regardless of outcome; when both calls fail, the
// expected-side error takes priority.
func (g *Grader) MatchesSimilarity(ctx context.Context, expected, output string, threshold float64) (*Result, error) {
	if g.embedder == nil {
		return nil, fmt.Errorf("no embedder configured for similarity matching")
	}

	var (
		wg                                 sync.WaitGroup
		expectedEmbedding, outputEmbedding []float64
		expectedUsage, outputUsage         *model.Usage
		expectedErr, outErr                error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		expectedEmbedding, expectedUsage, expectedErr = g.embedder.GetEmbeddingWithUsage(ctx, expected)
	}()
	go func() {
		defer wg.Done()
		outputEmbedding, outputUsage, outErr = g.embedder.GetEmbeddingWithUsage(ctx, output)
	}()
	wg.Wait()

	tokens := &TokenUsage{}
	tokens.Add(usageFromModel(expectedUsage))
	tokens.Add(usageFromModel(outputUsage))

	if expectedErr != nil {
		return &Result{Pass: false, Reason: expectedErr.Error(), TokensUsed: tokens}, nil
	}
	if outErr != nil {
		return &Result{Pass: false, Reason: outErr.Error(), TokensUsed: tokens}, nil
	}
	if len(expectedEmbedding) == 0 || len(outputEmbedding) == 0 {
		return &Result{Pass: false, Reason: "Embedding not found", TokensUsed: tokens}, nil
	}

	similarity, err := cosineSimilarity(expectedEmbedding, outputEmbedding)
	if err != nil {
		return &Result{Pass: false, Reason: err.Error(), TokensUsed: tokens}, nil
	}
	if similarity >= threshold {
		return &Result{
			Pass:       true,
			Reason:     fmt.Sprintf("Similarity %.4f is greater than threshold %v", similarity, threshold),
			TokensUsed: tokens,
		}, nil
	}
	return &Result{
		Pass:       false,
		Reason:     fmt.Sprintf("Similarity %.4f is less than threshold %v", similarity, threshold),
		TokensUsed: tokens,
	}, nil
}

// cosineSimilarity returns the cosine of the angle between two vectors.
// It is defined only for vectors of equal dimensionality and non-zero magnitude.
func cosineSimilarity(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("embedding dimension mismatch: %d vs %d", len(a), len(b))
	}
	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}
	if magA == 0 || magB == 0 {
		return 0, fmt.Errorf("cosine similarity is undefined for zero-magnitude embeddings")
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB)), nil
}
