//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package suite runs batches of graded test cases on a worker pool.
package suite

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/panjf2000/ants/v2"

	"trpc.group/trpc-go/trpc-eval-go/grading"
	"trpc.group/trpc-go/trpc-eval-go/log"
	"trpc.group/trpc-go/trpc-eval-go/store"
)

// Case pairs a test case with the candidate output to grade.
type Case struct {
	Test   *grading.TestCase
	Output string
}

// CaseResult is the outcome of grading a single case. Exactly one of Result
// and Err is set: Err reports a configuration problem in the harness, never a
// graded failure.
type CaseResult struct {
	Index       int             `json:"index"`
	Description string          `json:"description,omitempty"`
	Result      *grading.Result `json:"result,omitempty"`
	Err         error           `json:"-"`
}

// Summary aggregates the outcome of a run.
type Summary struct {
	RunID      string              `json:"runId"`
	Total      int                 `json:"total"`
	Passed     int                 `json:"passed"`
	Failed     int                 `json:"failed"`
	TokensUsed *grading.TokenUsage `json:"tokensUsed"`
	Results    []*CaseResult       `json:"results"`
}

// Suite grades batches of cases concurrently with a shared Grader.
type Suite struct {
	grader      *grading.Grader
	parallelism int
	pool        *ants.PoolWithFunc
	store       store.Store
	runIDFn     func() string
}

// New creates a suite around the given grader.
// If no Option is provided, the suite uses the default options.
func New(grader *grading.Grader, opt ...Option) (*Suite, error) {
	if grader == nil {
		return nil, errors.New("grader is nil")
	}
	opts := newOptions(opt...)
	if opts.parallelism <= 0 {
		return nil, errors.New("parallelism must be greater than 0")
	}
	s := &Suite{
		grader:      grader,
		parallelism: opts.parallelism,
		store:       opts.store,
		runIDFn:     opts.runIDFn,
	}
	if s.runIDFn == nil {
		s.runIDFn = func() string { return uuid.New().String() }
	}
	pool, err := createGradePool(s.parallelism)
	if err != nil {
		return nil, fmt.Errorf("create grade pool: %w", err)
	}
	s.pool = pool
	return s, nil
}

// Close releases the worker pool.
func (s *Suite) Close() error {
	if s.pool != nil {
		s.pool.Release()
	}
	return nil
}

// Run grades all cases concurrently and aggregates their verdicts into a
// Summary. Case order is preserved in the summary regardless of completion
// order. Configuration errors from individual cases and store failures are
// collected into the returned error; the summary is still returned so callers
// can inspect the cases that did grade.
func (s *Suite) Run(ctx context.Context, cases []*Case) (*Summary, error) {
	runID := s.runIDFn()
	summary := &Summary{
		RunID:      runID,
		Total:      len(cases),
		TokensUsed: &grading.TokenUsage{},
		Results:    make([]*CaseResult, len(cases)),
	}
	if len(cases) == 0 {
		return summary, nil
	}

	var wg sync.WaitGroup
	for i, c := range cases {
		wg.Add(1)
		param := gradeParamPool.Get().(*gradeParam)
		param.idx = i
		param.ctx = ctx
		param.c = c
		param.suite = s
		param.results = summary.Results
		param.wg = &wg
		if err := s.pool.Invoke(param); err != nil {
			param.reset()
			gradeParamPool.Put(param)
			wg.Done()
			summary.Results[i] = &CaseResult{Index: i, Err: fmt.Errorf("submit case %d: %w", i, err)}
		}
	}
	wg.Wait()

	var merr *multierror.Error
	for i, cr := range summary.Results {
		if cr.Err != nil {
			summary.Failed++
			merr = multierror.Append(merr, fmt.Errorf("case %d: %w", cr.Index, cr.Err))
			continue
		}
		if cr.Result.Pass {
			summary.Passed++
		} else {
			summary.Failed++
		}
		summary.TokensUsed.Add(cr.Result.TokensUsed)
		if s.store != nil {
			if err := s.persist(ctx, runID, i, cases[i], cr); err != nil {
				merr = multierror.Append(merr, fmt.Errorf("persist case %d: %w", i, err))
			}
		}
	}
	log.Infof("graded run %s: %d/%d passed, %d tokens", runID, summary.Passed, summary.Total, summary.TokensUsed.Total)
	return summary, merr.ErrorOrNil()
}

func (s *Suite) gradeCase(ctx context.Context, idx int, c *Case) *CaseResult {
	cr := &CaseResult{Index: idx}
	if c == nil {
		cr.Err = errors.New("case is nil")
		return cr
	}
	if c.Test != nil {
		cr.Description = c.Test.Description
	}
	result, err := s.grader.RunAssertions(ctx, c.Test, c.Output)
	if err != nil {
		log.Errorf("grade case %d failed: %v", idx, err)
		cr.Err = err
		return cr
	}
	cr.Result = result
	return cr
}

func (s *Suite) persist(ctx context.Context, runID string, idx int, c *Case, cr *CaseResult) error {
	return s.store.Save(ctx, &store.Record{
		RunID:       runID,
		CaseIndex:   idx,
		Description: cr.Description,
		Output:      c.Output,
		Result:      cr.Result,
		CreatedAt:   time.Now(),
	})
}
