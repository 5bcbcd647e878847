//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package openai provides an OpenAI-compatible model implementation.
package openai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"trpc.group/trpc-go/trpc-eval-go/model"
)

// Verify that Model implements the model.Model interface.
var _ model.Model = (*Model)(nil)

// defaultChannelBufferSize is the buffer size of the response channel.
const defaultChannelBufferSize = 1

// Model implements model.Model backed by the OpenAI chat completions API.
// It also works with OpenAI-compatible endpoints via WithBaseURL.
type Model struct {
	name              string
	client            openai.Client
	apiKey            string
	baseURL           string
	requestOptions    []option.RequestOption
	channelBufferSize int
}

// Option configures the OpenAI model.
type Option func(*Model)

// WithAPIKey sets the OpenAI API key.
// If not provided, the OPENAI_API_KEY environment variable is used.
func WithAPIKey(apiKey string) Option {
	return func(m *Model) {
		m.apiKey = apiKey
	}
}

// WithBaseURL sets the base URL for OpenAI-compatible APIs.
func WithBaseURL(baseURL string) Option {
	return func(m *Model) {
		m.baseURL = baseURL
	}
}

// WithRequestOptions sets additional options for the OpenAI client requests.
func WithRequestOptions(opts ...option.RequestOption) Option {
	return func(m *Model) {
		m.requestOptions = append(m.requestOptions, opts...)
	}
}

// WithChannelBufferSize sets the buffer size of the response channel.
func WithChannelBufferSize(size int) Option {
	return func(m *Model) {
		if size > 0 {
			m.channelBufferSize = size
		}
	}
}

// New creates a new OpenAI model with the given name and options.
func New(name string, opts ...Option) *Model {
	m := &Model{
		name:              name,
		channelBufferSize: defaultChannelBufferSize,
	}
	for _, opt := range opts {
		opt(m)
	}
	var clientOpts []option.RequestOption
	if m.apiKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(m.apiKey))
	}
	if m.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(m.baseURL))
	}
	clientOpts = append(clientOpts, m.requestOptions...)
	m.client = openai.NewClient(clientOpts...)
	return m
}

// GenerateContent calls the chat completions API and emits the final
// response on the returned channel. Streaming is not used; the grading
// engine consumes complete responses only.
func (m *Model) GenerateContent(ctx context.Context, request *model.Request) (<-chan *model.Response, error) {
	if request == nil {
		return nil, fmt.Errorf("request is nil")
	}
	if len(request.Messages) == 0 {
		return nil, fmt.Errorf("request has no messages")
	}
	ch := make(chan *model.Response, m.channelBufferSize)
	go func() {
		defer close(ch)
		rsp := m.complete(ctx, request)
		select {
		case ch <- rsp:
		case <-ctx.Done():
		}
	}()
	return ch, nil
}

// complete performs a single non-streaming chat completion call.
func (m *Model) complete(ctx context.Context, request *model.Request) *model.Response {
	params := openai.ChatCompletionNewParams{
		Model:    m.name,
		Messages: buildMessages(request.Messages),
	}
	if request.Temperature != nil {
		params.Temperature = openai.Float(*request.Temperature)
	}
	if request.TopP != nil {
		params.TopP = openai.Float(*request.TopP)
	}
	if request.MaxTokens != nil {
		params.MaxTokens = openai.Int(int64(*request.MaxTokens))
	}
	completion, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return &model.Response{
			Object:    model.ObjectTypeError,
			Model:     m.name,
			Timestamp: time.Now(),
			Done:      true,
			Error: &model.ResponseError{
				Message: err.Error(),
				Type:    model.ErrorTypeAPIError,
			},
		}
	}
	rsp := &model.Response{
		ID:        completion.ID,
		Object:    model.ObjectTypeChatCompletion,
		Created:   completion.Created,
		Model:     completion.Model,
		Timestamp: time.Now(),
		Done:      true,
		Usage: &model.Usage{
			PromptTokens:     int(completion.Usage.PromptTokens),
			CompletionTokens: int(completion.Usage.CompletionTokens),
			TotalTokens:      int(completion.Usage.TotalTokens),
		},
	}
	for i, choice := range completion.Choices {
		finishReason := string(choice.FinishReason)
		rsp.Choices = append(rsp.Choices, model.Choice{
			Index: i,
			Message: model.Message{
				Role:    model.RoleAssistant,
				Content: choice.Message.Content,
			},
			FinishReason: &finishReason,
		})
	}
	return rsp
}

// buildMessages converts model messages to OpenAI message unions.
func buildMessages(messages []model.Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case model.RoleSystem:
			result = append(result, openai.SystemMessage(msg.Content))
		case model.RoleAssistant:
			result = append(result, openai.AssistantMessage(msg.Content))
		default:
			result = append(result, openai.UserMessage(msg.Content))
		}
	}
	return result
}
