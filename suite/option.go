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
	"trpc.group/trpc-go/trpc-eval-go/store"
)

// defaultParallelism bounds concurrent case grading when not overridden.
const defaultParallelism = 4

// Option configures a Suite.
type Option func(*options)

type options struct {
	parallelism int
	store       store.Store
	runIDFn     func() string
}

func newOptions(opt ...Option) *options {
	opts := &options{parallelism: defaultParallelism}
	for _, o := range opt {
		o(opts)
	}
	return opts
}

// WithParallelism sets the number of cases graded concurrently.
func WithParallelism(n int) Option {
	return func(o *options) { o.parallelism = n }
}

// WithStore persists each graded case through the given store.
func WithStore(s store.Store) Option {
	return func(o *options) {
		if s != nil {
			o.store = s
		}
	}
}

// WithRunIDSupplier overrides how run IDs are generated.
func WithRunIDSupplier(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.runIDFn = fn
		}
	}
}
