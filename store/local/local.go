//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package local provides a local file store for graded run records.
package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"trpc.group/trpc-go/trpc-eval-go/store"
)

const resultFileSuffix = ".grade_result.json"

// Store implements store.Store on a directory of per-run JSON files.
type Store struct {
	baseDir string
	mu      sync.Mutex
}

// New creates a local file record store rooted at baseDir.
func New(baseDir string) (*Store, error) {
	if baseDir == "" {
		return nil, errors.New("base dir is empty")
	}
	return &Store{baseDir: baseDir}, nil
}

// Save appends a record to its run file. The file is rewritten atomically
// through a temporary file.
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
	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return err
	}
	records, err := s.load(record.RunID)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	records = append(records, record)
	path := s.runPath(record.RunID)
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// List returns all records of a run in case order.
func (s *Store) List(ctx context.Context, runID string) ([]*store.Record, error) {
	_ = ctx
	if runID == "" {
		return nil, errors.New("run id is empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	records, err := s.load(runID)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []*store.Record{}, nil
		}
		return nil, err
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CaseIndex < records[j].CaseIndex
	})
	return records, nil
}

// Close implements store.Store. It is a no-op for file storage.
func (s *Store) Close() error {
	return nil
}

func (s *Store) runPath(runID string) string {
	return filepath.Join(s.baseDir, runID+resultFileSuffix)
}

func (s *Store) load(runID string) ([]*store.Record, error) {
	f, err := os.Open(s.runPath(runID))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var records []*store.Record
	if err := json.NewDecoder(f).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode run %s: %w", runID, err)
	}
	return records, nil
}
