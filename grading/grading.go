//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package grading evaluates language-model output against declarative assertions.
//
// A Grader takes a test case (an ordered list of assertions plus optional
// grading configuration) and a candidate output string, and produces a
// structured pass/fail verdict with a human-readable reason and token-cost
// accounting. Deterministic kinds (equals, is-json, contains-json, javascript,
// rouge-n) are evaluated locally; similar and llm-rubric consult an embedding
// provider and a judge model respectively.
package grading

import (
	"fmt"
	"strings"

	"trpc.group/trpc-go/trpc-eval-go/assertion"
	"trpc.group/trpc-go/trpc-eval-go/embedder"
	"trpc.group/trpc-go/trpc-eval-go/model"
	"trpc.group/trpc-go/trpc-eval-go/model/provider"
)

// Default thresholds for threshold-based assertion kinds. Structured similar
// assertions that omit a threshold use DefaultSimilarThreshold; the shorthand
// parser applies its own default (see assertion.DefaultShorthandSimilarThreshold).
const (
	DefaultSimilarThreshold = 0.75
	DefaultRougeThreshold   = 0.75
)

// TokenUsage counts language-model tokens consumed during grading.
// Counters are additive across sub-calls.
type TokenUsage struct {
	// Total is the total number of tokens consumed.
	Total int `json:"total"`
	// Prompt is the number of prompt-side tokens consumed.
	Prompt int `json:"prompt"`
	// Completion is the number of completion-side tokens consumed.
	Completion int `json:"completion"`
}

// Add accumulates another usage record into this one field-wise.
// A nil argument contributes zero.
func (u *TokenUsage) Add(other *TokenUsage) {
	if other == nil {
		return
	}
	u.Total += other.Total
	u.Prompt += other.Prompt
	u.Completion += other.Completion
}

// usageFromModel converts model-layer usage into grading token accounting.
func usageFromModel(usage *model.Usage) *TokenUsage {
	if usage == nil {
		return &TokenUsage{}
	}
	return &TokenUsage{
		Total:      usage.TotalTokens,
		Prompt:     usage.PromptTokens,
		Completion: usage.CompletionTokens,
	}
}

// Result is the verdict for a single assertion or a whole test case.
// Reason is always populated, on pass as well as on failure.
type Result struct {
	// Pass reports whether the check held.
	Pass bool `json:"pass"`
	// Reason states why the check passed or failed.
	Reason string `json:"reason"`
	// TokensUsed accounts for model tokens consumed by the check.
	TokensUsed *TokenUsage `json:"tokensUsed,omitempty"`
}

// ProviderRef identifies a judge model either lazily by identifier or by an
// already-constructed handle. When Model is set it takes precedence; otherwise
// ID is resolved through the Grader's resolver at grading time.
type ProviderRef struct {
	// ID is a "provider:model" identifier, e.g. "openai:gpt-4o-mini".
	ID string `json:"id,omitempty"`
	// Model is a live model handle.
	Model model.Model `json:"-"`
}

// Config is the grading configuration used by rubric assertions.
type Config struct {
	// Provider selects the judge model.
	Provider ProviderRef `json:"provider,omitempty"`
	// RubricPrompt overrides the default judge prompt template. The template
	// receives {{.Output}} and {{.Rubric}}.
	RubricPrompt string `json:"rubricPrompt,omitempty"`
}

// TestCase holds an ordered sequence of assertions plus optional grading
// configuration, evaluated against one candidate output. Assertion order is
// evaluation order.
type TestCase struct {
	// Description is an optional human-readable label.
	Description string `json:"description,omitempty"`
	// Assertions are evaluated in list order.
	Assertions []*assertion.Assertion `json:"assertions,omitempty"`
	// Options configures rubric grading.
	Options *Config `json:"options,omitempty"`
}

// Resolver maps a provider identifier to a live model handle.
type Resolver func(id string) (model.Model, error)

// ResolveProvider is the default Resolver. It parses "provider:model"
// identifiers and constructs the model through the provider registry.
func ResolveProvider(id string) (model.Model, error) {
	providerName, modelName, ok := strings.Cut(id, ":")
	if !ok || providerName == "" || modelName == "" {
		return nil, fmt.Errorf("invalid provider identifier %q, want provider:model", id)
	}
	return provider.Model(providerName, modelName)
}

// Grader evaluates test cases. The zero value is unusable; construct with New.
// A Grader is stateless across calls and safe for concurrent use.
type Grader struct {
	embedder   embedder.Embedder
	resolver   Resolver
	judge      model.Model
	generation model.GenerationConfig
}

// Option configures a Grader.
type Option func(*Grader)

// WithEmbedder sets the embedding provider used by similar assertions.
func WithEmbedder(e embedder.Embedder) Option {
	return func(g *Grader) {
		g.embedder = e
	}
}

// WithResolver overrides the provider identifier resolver.
func WithResolver(r Resolver) Option {
	return func(g *Grader) {
		g.resolver = r
	}
}

// WithJudgeModel sets the default judge model used by rubric assertions whose
// grading config does not name a provider.
func WithJudgeModel(m model.Model) Option {
	return func(g *Grader) {
		g.judge = m
	}
}

// WithGeneration sets the generation parameters for judge model calls.
func WithGeneration(cfg model.GenerationConfig) Option {
	return func(g *Grader) {
		g.generation = cfg
	}
}

// New constructs a Grader.
func New(opts ...Option) *Grader {
	g := &Grader{
		resolver: ResolveProvider,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}
