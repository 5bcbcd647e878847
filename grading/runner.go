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
	"encoding/json"
	"fmt"
	"regexp"

	"trpc.group/trpc-go/trpc-eval-go/assertion"
)

// Canonical reasons for terminal runner states.
const (
	reasonNoAssertions = "No assertions"
	reasonAllPassed    = "All assertions passed"
	reasonPassed       = "Assertion passed"
)

// jsonBlockRegex greedily captures a JSON-object or JSON-array shaped substring.
var jsonBlockRegex = regexp.MustCompile(`(?s)\{.*\}|\[.*\]`)

// RunAssertions evaluates a test case's assertions in list order against the
// candidate output. It short-circuits on the first failing assertion and
// returns that assertion's result unchanged; token usage from passing
// assertions accumulates into the final all-passed result. An empty assertion
// list is an intentional immediate pass.
//
// A non-nil error signals a configuration problem in the harness (unknown
// assertion type, missing grading config), never a graded failure.
func (g *Grader) RunAssertions(ctx context.Context, test *TestCase, output string) (*Result, error) {
	if test == nil || len(test.Assertions) == 0 {
		return &Result{Pass: true, Reason: reasonNoAssertions, TokensUsed: &TokenUsage{}}, nil
	}
	total := &TokenUsage{}
	for _, a := range test.Assertions {
		result, err := g.RunAssertion(ctx, a, test, output)
		if err != nil {
			return nil, err
		}
		if !result.Pass {
			return result, nil
		}
		total.Add(result.TokensUsed)
	}
	return &Result{Pass: true, Reason: reasonAllPassed, TokensUsed: total}, nil
}

// RunAssertion evaluates a single assertion against the candidate output,
// dispatching on the assertion type. The test case supplies grading
// configuration for rubric assertions and may be nil for the other kinds.
func (g *Grader) RunAssertion(ctx context.Context, a *assertion.Assertion, test *TestCase, output string) (*Result, error) {
	if a == nil {
		return nil, fmt.Errorf("assertion is nil")
	}
	switch a.Type {
	case assertion.TypeEquals:
		return matchesEquality(a.Value, output), nil
	case assertion.TypeIsJSON:
		return matchesJSON(output), nil
	case assertion.TypeContainsJSON:
		return matchesContainedJSON(output), nil
	case assertion.TypeJavascript:
		return evalPredicate(a.Value, output), nil
	case assertion.TypeSimilar:
		if a.Value == "" {
			return nil, fmt.Errorf("similar assertion must have a string value")
		}
		threshold := a.Threshold
		if threshold == 0 {
			threshold = DefaultSimilarThreshold
		}
		return g.MatchesSimilarity(ctx, a.Value, output, threshold)
	case assertion.TypeLLMRubric:
		if a.Value == "" {
			return nil, fmt.Errorf("llm-rubric assertion must have a string value")
		}
		var cfg *Config
		if test != nil {
			cfg = test.Options
		}
		return g.MatchesLLMRubric(ctx, a.Value, output, cfg)
	case assertion.TypeRougeN:
		if a.Value == "" {
			return nil, fmt.Errorf("rouge-n assertion must have a string value")
		}
		threshold := a.Threshold
		if threshold == 0 {
			threshold = DefaultRougeThreshold
		}
		return matchesRougeN(a.Value, output, threshold)
	default:
		return nil, fmt.Errorf("unknown assertion type: %s", a.Type)
	}
}

// matchesEquality checks exact string identity with the expected value.
func matchesEquality(expected, output string) *Result {
	if expected == output {
		return &Result{Pass: true, Reason: reasonPassed}
	}
	return &Result{Pass: false, Reason: fmt.Sprintf("Expected output to equal %q", expected)}
}

// matchesJSON checks that the whole output parses as valid JSON text.
func matchesJSON(output string) *Result {
	var parsed any
	if err := json.Unmarshal([]byte(output), &parsed); err != nil {
		return &Result{Pass: false, Reason: fmt.Sprintf("Expected output to be valid JSON: %v", err)}
	}
	return &Result{Pass: true, Reason: reasonPassed}
}

// matchesContainedJSON checks that the output contains a JSON-bracket-shaped
// substring that parses as valid JSON.
func matchesContainedJSON(output string) *Result {
	candidate := jsonBlockRegex.FindString(output)
	if candidate == "" {
		return &Result{Pass: false, Reason: "Expected output to contain valid JSON"}
	}
	var parsed any
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		return &Result{Pass: false, Reason: fmt.Sprintf("Expected output to contain valid JSON: %v", err)}
	}
	return &Result{Pass: true, Reason: reasonPassed}
}
