//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

package assertion

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultShorthandSimilarThreshold is applied when a shorthand similar
// assertion omits or carries an unparsable threshold.
const DefaultShorthandSimilarThreshold = 0.8

// similarPrefixRegex matches "similar:" and "similar(<float>):" prefixes.
var similarPrefixRegex = regexp.MustCompile(`^similar(?:\((\d+(?:\.\d+)?)\))?:`)

// FromString converts compact assertion shorthand into a structured Assertion.
// The grammar, checked in precedence order:
//
//	similar(0.9): <text>   similarity with explicit threshold
//	similar: <text>        similarity with default threshold
//	fn: <expr>             sandboxed predicate expression
//	eval: <expr>           legacy spelling of fn:
//	grade: <rubric>        LLM rubric grading
//	is-json                JSON well-formedness
//	contains-json          embedded JSON detection
//	<anything else>        exact string equality
//
// Every input maps to exactly one Assertion; FromString never fails.
func FromString(expected string) *Assertion {
	if match := similarPrefixRegex.FindStringSubmatch(expected); match != nil {
		threshold := DefaultShorthandSimilarThreshold
		if match[1] != "" {
			if parsed, err := strconv.ParseFloat(match[1], 64); err == nil {
				threshold = parsed
			}
		}
		return &Assertion{
			Type:      TypeSimilar,
			Value:     strings.TrimSpace(expected[len(match[0]):]),
			Threshold: threshold,
		}
	}
	if rest, ok := strings.CutPrefix(expected, "fn:"); ok {
		return &Assertion{Type: TypeJavascript, Value: rest}
	}
	if rest, ok := strings.CutPrefix(expected, "eval:"); ok {
		return &Assertion{Type: TypeJavascript, Value: rest}
	}
	if rest, ok := strings.CutPrefix(expected, "grade:"); ok {
		return &Assertion{Type: TypeLLMRubric, Value: rest}
	}
	if expected == string(TypeIsJSON) || expected == string(TypeContainsJSON) {
		return &Assertion{Type: Type(expected)}
	}
	return &Assertion{Type: TypeEquals, Value: expected}
}
