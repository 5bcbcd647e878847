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
	"fmt"

	"trpc.group/trpc-go/trpc-eval-go/internal/rouge"
)

// rougeNGramOrder is the n-gram order used by rouge-n assertions.
const rougeNGramOrder = 1

// matchesRougeN scores lexical overlap between the expected text and the
// candidate output using ROUGE-N F-measure.
func matchesRougeN(expected, output string, threshold float64) (*Result, error) {
	score, err := rouge.ScoreNGrams(expected, output, rougeNGramOrder)
	if err != nil {
		return nil, fmt.Errorf("score rouge-n: %w", err)
	}
	if score.FMeasure >= threshold {
		return &Result{
			Pass:   true,
			Reason: fmt.Sprintf("ROUGE-N score %.4f is greater than threshold %v", score.FMeasure, threshold),
		}, nil
	}
	return &Result{
		Pass:   false,
		Reason: fmt.Sprintf("ROUGE-N score %.4f is less than threshold %v", score.FMeasure, threshold),
	}, nil
}
