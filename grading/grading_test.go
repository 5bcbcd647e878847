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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-eval-go/model"
)

// fakeModel is a channel-based model.Model test double.
type fakeModel struct {
	content string
	usage   *model.Usage
	rspErr  *model.ResponseError
	callErr error

	// lastRequest records the most recent request for prompt assertions.
	lastRequest *model.Request
}

func (f *fakeModel) GenerateContent(ctx context.Context, request *model.Request) (<-chan *model.Response, error) {
	f.lastRequest = request
	if f.callErr != nil {
		return nil, f.callErr
	}
	ch := make(chan *model.Response, 1)
	rsp := &model.Response{
		Done:  true,
		Usage: f.usage,
		Error: f.rspErr,
	}
	if f.rspErr == nil {
		rsp.Choices = []model.Choice{{Message: model.NewAssistantMessage(f.content)}}
	}
	ch <- rsp
	close(ch)
	return ch, nil
}

// fakeEmbedder is a deterministic embedder.Embedder test double keyed by input text.
type fakeEmbedder struct {
	vectors map[string][]float64
	usages  map[string]*model.Usage
	errs    map[string]error
	calls   int
}

func (f *fakeEmbedder) GetEmbedding(ctx context.Context, text string) ([]float64, error) {
	embedding, _, err := f.GetEmbeddingWithUsage(ctx, text)
	return embedding, err
}

func (f *fakeEmbedder) GetEmbeddingWithUsage(ctx context.Context, text string) ([]float64, *model.Usage, error) {
	f.calls++
	return f.vectors[text], f.usages[text], f.errs[text]
}

func (f *fakeEmbedder) GetDimensions() int {
	return 2
}

func TestTokenUsageAdd(t *testing.T) {
	total := &TokenUsage{}
	total.Add(&TokenUsage{Total: 10, Prompt: 7, Completion: 3})
	total.Add(&TokenUsage{Total: 5, Prompt: 2, Completion: 3})
	total.Add(nil)
	assert.Equal(t, &TokenUsage{Total: 15, Prompt: 9, Completion: 6}, total)
}

func TestUsageFromModel(t *testing.T) {
	assert.Equal(t, &TokenUsage{}, usageFromModel(nil))
	assert.Equal(t,
		&TokenUsage{Total: 15, Prompt: 10, Completion: 5},
		usageFromModel(&model.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15}),
	)
}

func TestResolveProvider(t *testing.T) {
	_, err := ResolveProvider("missing-separator")
	require.Error(t, err)

	_, err = ResolveProvider(":model-only")
	require.Error(t, err)

	_, err = ResolveProvider("provider-only:")
	require.Error(t, err)

	// The openai provider is registered by default.
	judge, err := ResolveProvider("openai:gpt-4o-mini")
	require.NoError(t, err)
	assert.NotNil(t, judge)

	_, err = ResolveProvider("no-such-provider:m")
	require.Error(t, err)
}
