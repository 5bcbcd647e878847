//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package assertion defines declarative checks applied to candidate model output.
package assertion

// Type enumerates the supported assertion kinds.
type Type string

const (
	// TypeEquals passes iff the candidate output is exactly the expected string.
	TypeEquals Type = "equals"
	// TypeIsJSON passes iff the candidate output parses as valid JSON text.
	TypeIsJSON Type = "is-json"
	// TypeContainsJSON passes iff the candidate output contains a valid JSON object or array.
	TypeContainsJSON Type = "contains-json"
	// TypeJavascript evaluates the assertion value as a sandboxed boolean
	// expression over a single bound variable named "output". Expressions use
	// CEL syntax; the legacy type name is kept for test-case compatibility.
	TypeJavascript Type = "javascript"
	// TypeSimilar passes iff the embedding cosine similarity between the
	// expected value and the candidate output reaches the threshold.
	TypeSimilar Type = "similar"
	// TypeLLMRubric grades the candidate output with a judge model against the
	// rubric in the assertion value.
	TypeLLMRubric Type = "llm-rubric"
	// TypeRougeN passes iff the ROUGE-N overlap between the expected value and
	// the candidate output reaches the threshold.
	TypeRougeN Type = "rouge-n"
)

// Assertion is a single declarative check applied to a candidate output.
// Value is required for similar, llm-rubric, javascript and rouge-n kinds.
// Threshold is meaningful only for similar and rouge-n.
type Assertion struct {
	// Type selects the evaluation semantics.
	Type Type `json:"type"`
	// Value is the expected text, rubric, or predicate expression.
	Value string `json:"value,omitempty"`
	// Threshold is the minimum score for threshold-based kinds.
	Threshold float64 `json:"threshold,omitempty"`
}
