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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-eval-go/model"
)

func TestMatchesLLMRubricVerdicts(t *testing.T) {
	tests := []struct {
		name    string
		content string
		pass    bool
		reason  string
	}{
		{
			name:    "passing verdict",
			content: `{"pass": true, "reason": "contains a greeting"}`,
			pass:    true,
			reason:  "contains a greeting",
		},
		{
			name:    "failing verdict",
			content: `{"pass": false, "reason": "too verbose"}`,
			pass:    false,
			reason:  "too verbose",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			judge := &fakeModel{content: tt.content}
			g := New(WithJudgeModel(judge))
			result, err := g.MatchesLLMRubric(context.Background(), "be concise", "hello", &Config{})
			require.NoError(t, err)
			assert.Equal(t, tt.pass, result.Pass)
			assert.Equal(t, tt.reason, result.Reason)
		})
	}
}

func TestMatchesLLMRubricNilConfig(t *testing.T) {
	g := New(WithJudgeModel(&fakeModel{}))
	_, err := g.MatchesLLMRubric(context.Background(), "rubric", "out", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "without grading config")
}

func TestMatchesLLMRubricNoJudge(t *testing.T) {
	g := New()
	_, err := g.MatchesLLMRubric(context.Background(), "rubric", "out", &Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no judge model configured")
}

func TestMatchesLLMRubricUsageOverridesVerdict(t *testing.T) {
	// The judge cannot vouch for its own token accounting: whatever usage the
	// verdict text claims is replaced by the actual usage of this call.
	judge := &fakeModel{
		content: `{"pass": true, "reason": "ok", "tokensUsed": {"total": 999}}`,
		usage:   &model.Usage{PromptTokens: 7, CompletionTokens: 3, TotalTokens: 10},
	}
	g := New(WithJudgeModel(judge))
	result, err := g.MatchesLLMRubric(context.Background(), "rubric", "out", &Config{})
	require.NoError(t, err)
	assert.True(t, result.Pass)
	assert.Equal(t, &TokenUsage{Total: 10, Prompt: 7, Completion: 3}, result.TokensUsed)
}

func TestMatchesLLMRubricInvalidVerdictJSON(t *testing.T) {
	judge := &fakeModel{content: "Sure! The output passes."}
	g := New(WithJudgeModel(judge))
	result, err := g.MatchesLLMRubric(context.Background(), "rubric", "out", &Config{})
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Reason, "Output is not valid JSON")
	assert.Contains(t, result.Reason, "Sure! The output passes.")
}

func TestMatchesLLMRubricEmptyContent(t *testing.T) {
	judge := &fakeModel{content: ""}
	g := New(WithJudgeModel(judge))
	result, err := g.MatchesLLMRubric(context.Background(), "rubric", "out", &Config{})
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Equal(t, "No output", result.Reason)
}

func TestMatchesLLMRubricResponseError(t *testing.T) {
	judge := &fakeModel{rspErr: &model.ResponseError{Message: "context length exceeded"}}
	g := New(WithJudgeModel(judge))
	result, err := g.MatchesLLMRubric(context.Background(), "rubric", "out", &Config{})
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Equal(t, "context length exceeded", result.Reason)
}

func TestMatchesLLMRubricCallError(t *testing.T) {
	judge := &fakeModel{callErr: errors.New("connection refused")}
	g := New(WithJudgeModel(judge))
	result, err := g.MatchesLLMRubric(context.Background(), "rubric", "out", &Config{})
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Reason, "connection refused")
}

func TestMatchesLLMRubricDefaultPrompt(t *testing.T) {
	judge := &fakeModel{content: `{"pass": true, "reason": "ok"}`}
	g := New(WithJudgeModel(judge))
	_, err := g.MatchesLLMRubric(context.Background(), "no pirate speak", "ahoy matey", &Config{})
	require.NoError(t, err)
	require.NotNil(t, judge.lastRequest)
	require.Len(t, judge.lastRequest.Messages, 1)
	prompt := judge.lastRequest.Messages[0].Content
	assert.Equal(t, model.RoleUser, judge.lastRequest.Messages[0].Role)
	assert.Contains(t, prompt, "Output: ahoy matey")
	assert.Contains(t, prompt, "Rubric: no pirate speak")
	assert.Contains(t, prompt, "JSON object")
}

func TestMatchesLLMRubricCustomPrompt(t *testing.T) {
	judge := &fakeModel{content: `{"pass": true, "reason": "ok"}`}
	g := New(WithJudgeModel(judge))
	cfg := &Config{RubricPrompt: "Judge {{.Output}} against {{.Rubric}}."}
	_, err := g.MatchesLLMRubric(context.Background(), "the rubric", "the output", cfg)
	require.NoError(t, err)
	require.NotNil(t, judge.lastRequest)
	assert.Equal(t, "Judge the output against the rubric.", judge.lastRequest.Messages[0].Content)
}

func TestMatchesLLMRubricBadPromptTemplate(t *testing.T) {
	g := New(WithJudgeModel(&fakeModel{}))
	cfg := &Config{RubricPrompt: "{{.Output"}
	_, err := g.MatchesLLMRubric(context.Background(), "rubric", "out", cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse rubric prompt template")
}

func TestMatchesLLMRubricResolverPath(t *testing.T) {
	judge := &fakeModel{content: `{"pass": true, "reason": "ok"}`}
	resolver := func(id string) (model.Model, error) {
		if id != "fake:judge-1" {
			return nil, errors.New("unexpected provider id")
		}
		return judge, nil
	}
	g := New(WithResolver(resolver))
	cfg := &Config{Provider: ProviderRef{ID: "fake:judge-1"}}
	result, err := g.MatchesLLMRubric(context.Background(), "rubric", "out", cfg)
	require.NoError(t, err)
	assert.True(t, result.Pass)
	assert.NotNil(t, judge.lastRequest)
}

func TestMatchesLLMRubricExplicitModelWins(t *testing.T) {
	explicit := &fakeModel{content: `{"pass": true, "reason": "ok"}`}
	fallback := &fakeModel{content: `{"pass": false, "reason": "wrong judge"}`}
	g := New(WithJudgeModel(fallback))
	cfg := &Config{Provider: ProviderRef{Model: explicit}}
	result, err := g.MatchesLLMRubric(context.Background(), "rubric", "out", cfg)
	require.NoError(t, err)
	assert.True(t, result.Pass)
	assert.NotNil(t, explicit.lastRequest)
	assert.Nil(t, fallback.lastRequest)
}
