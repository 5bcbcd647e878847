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
	"strings"

	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types/ref"
)

var predicateEnv *celgo.Env

func init() {
	// The predicate environment exposes a single string variable named
	// "output", bound to the candidate output under evaluation. CEL programs
	// are pure expressions with no I/O, which keeps assertion-supplied code
	// away from ambient capabilities.
	env, err := celgo.NewEnv(
		celgo.Variable("output", celgo.StringType),
	)
	if err != nil {
		panic(fmt.Sprintf("failed to create CEL environment: %v", err))
	}
	predicateEnv = env
}

// evalPredicate evaluates the assertion-supplied expression with the candidate
// output bound to "output". Any evaluation error (parse, type-check, runtime)
// converts into a graded failure carrying the error message; it is never
// propagated as a fatal error.
func evalPredicate(expr, output string) *Result {
	value, err := evalCEL(expr, output)
	if err != nil {
		return &Result{Pass: false, Reason: err.Error()}
	}
	if truthy(value) {
		return &Result{Pass: true, Reason: reasonPassed}
	}
	return &Result{
		Pass:   false,
		Reason: fmt.Sprintf("Expression %q evaluated to a falsy value", strings.TrimSpace(expr)),
	}
}

// evalCEL compiles and runs a CEL expression against the candidate output.
func evalCEL(expr, output string) (any, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, fmt.Errorf("predicate expression is empty")
	}
	ast, issues := predicateEnv.Parse(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("parse predicate: %w", issues.Err())
	}
	ast, issues = predicateEnv.Check(ast)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("type-check predicate: %w", issues.Err())
	}
	prg, err := predicateEnv.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("build predicate program: %w", err)
	}
	out, _, err := prg.Eval(map[string]any{"output": output})
	if err != nil {
		return nil, fmt.Errorf("evaluate predicate: %w", err)
	}
	return unwrap(out), nil
}

// unwrap converts a CEL value into its underlying Go value.
func unwrap(v any) any {
	if rv, ok := v.(ref.Val); ok {
		return rv.Value()
	}
	return v
}

// truthy applies permissive truthiness to a predicate result: booleans report
// themselves, empty strings and zero numbers are falsy, everything else is truthy.
func truthy(v any) bool {
	switch value := v.(type) {
	case nil:
		return false
	case bool:
		return value
	case string:
		return value != ""
	case int64:
		return value != 0
	case uint64:
		return value != 0
	case float64:
		return value != 0
	default:
		return true
	}
}
