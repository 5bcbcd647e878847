//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

package suite

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
)

type gradeParam struct {
	idx     int
	ctx     context.Context
	c       *Case
	suite   *Suite
	results []*CaseResult
	wg      *sync.WaitGroup
}

func (p *gradeParam) reset() {
	p.idx = 0
	p.ctx = nil
	p.c = nil
	p.suite = nil
	p.results = nil
	p.wg = nil
}

var gradeParamPool = &sync.Pool{
	New: func() any { return new(gradeParam) },
}

func createGradePool(size int) (*ants.PoolWithFunc, error) {
	if size <= 0 {
		return nil, errors.New("pool size must be greater than 0")
	}
	pool, err := ants.NewPoolWithFunc(size, func(args any) {
		param, ok := args.(*gradeParam)
		if !ok {
			panic("grade pool args type error")
		}
		wg := param.wg
		defer func() {
			wg.Done()
			param.reset()
			gradeParamPool.Put(param)
		}()
		param.results[param.idx] = param.suite.gradeCase(param.ctx, param.idx, param.c)
	})
	if err != nil {
		return nil, fmt.Errorf("create grade pool: %w", err)
	}
	return pool, nil
}
