//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package embedder defines the text embedding interface.
package embedder

import (
	"context"

	"trpc.group/trpc-go/trpc-eval-go/model"
)

// Embedder converts text into fixed-dimensional numeric vectors.
type Embedder interface {
	// GetEmbedding generates an embedding vector for the given text.
	GetEmbedding(ctx context.Context, text string) ([]float64, error)

	// GetEmbeddingWithUsage generates an embedding vector for the given text
	// and reports the token usage of the call. Usage may be non-nil even when
	// an error is returned, so that callers can account for failed calls.
	GetEmbeddingWithUsage(ctx context.Context, text string) ([]float64, *model.Usage, error)

	// GetDimensions returns the number of dimensions in the embedding vectors.
	GetDimensions() int
}
