//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

package openai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-eval-go/model"
)

func TestNewOptions(t *testing.T) {
	m := New("gpt-4o-mini",
		WithAPIKey("test-key"),
		WithBaseURL("https://example.com/v1"),
		WithChannelBufferSize(4),
	)
	assert.Equal(t, "gpt-4o-mini", m.name)
	assert.Equal(t, "test-key", m.apiKey)
	assert.Equal(t, "https://example.com/v1", m.baseURL)
	assert.Equal(t, 4, m.channelBufferSize)

	// Non-positive sizes keep the default.
	m = New("gpt-4o-mini", WithChannelBufferSize(0))
	assert.Equal(t, defaultChannelBufferSize, m.channelBufferSize)
}

func TestGenerateContentValidation(t *testing.T) {
	m := New("gpt-4o-mini", WithAPIKey("test-key"))

	_, err := m.GenerateContent(context.Background(), nil)
	require.Error(t, err)

	_, err = m.GenerateContent(context.Background(), &model.Request{})
	require.Error(t, err)
}

func TestBuildMessages(t *testing.T) {
	messages := buildMessages([]model.Message{
		model.NewSystemMessage("be terse"),
		model.NewUserMessage("hello"),
		model.NewAssistantMessage("hi"),
	})
	require.Len(t, messages, 3)
	assert.NotNil(t, messages[0].OfSystem)
	assert.NotNil(t, messages[1].OfUser)
	assert.NotNil(t, messages[2].OfAssistant)
}
