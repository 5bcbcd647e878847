//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package store defines persistence for graded run records.
package store

import (
	"context"
	"time"

	"trpc.group/trpc-go/trpc-eval-go/grading"
)

// Record is one graded test case within a run.
type Record struct {
	RunID       string          `json:"runId"`
	CaseIndex   int             `json:"caseIndex"`
	Description string          `json:"description,omitempty"`
	Output      string          `json:"output"`
	Result      *grading.Result `json:"result"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Store persists graded run records.
type Store interface {
	// Save appends a record to its run.
	Save(ctx context.Context, record *Record) error
	// List returns all records of a run in case order.
	List(ctx context.Context, runID string) ([]*Record, error)
	// Close releases owned resources.
	Close() error
}
