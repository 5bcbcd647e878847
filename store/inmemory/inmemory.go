//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package inmemory provides an in-memory store for graded run records.
package inmemory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"trpc.group/trpc-go/trpc-eval-go/store"
)

// Store implements store.Store backed by process memory.
type Store struct {
	mu      sync.RWMutex
	records map[string][]*store.Record
}

// New creates a new in-memory record store.
func New() *Store {
	return &Store{records: make(map[string][]*store.Record)}
}

// Save appends a record to its run.
func (s *Store) Save(ctx context.Context, record *store.Record) error {
	_ = ctx
	if record == nil {
		return errors.New("record is nil")
	}
	if record.RunID == "" {
		return errors.New("run id is empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.RunID] = append(s.records[record.RunID], record)
	return nil
}

// List returns all records of a run in case order.
func (s *Store) List(ctx context.Context, runID string) ([]*store.Record, error) {
	_ = ctx
	if runID == "" {
		return nil, errors.New("run id is empty")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := make([]*store.Record, len(s.records[runID]))
	copy(records, s.records[runID])
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CaseIndex < records[j].CaseIndex
	})
	return records, nil
}

// Close implements store.Store. It is a no-op for memory storage.
func (s *Store) Close() error {
	return nil
}
