//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

package log

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordLogger captures log lines for assertions.
type recordLogger struct {
	lines []string
}

func (r *recordLogger) log(level string, args ...any) {
	r.lines = append(r.lines, level+": "+fmt.Sprint(args...))
}

func (r *recordLogger) logf(level, format string, args ...any) {
	r.lines = append(r.lines, level+": "+fmt.Sprintf(format, args...))
}

func (r *recordLogger) Debug(args ...any)                 { r.log("debug", args...) }
func (r *recordLogger) Debugf(format string, args ...any) { r.logf("debug", format, args...) }
func (r *recordLogger) Info(args ...any)                  { r.log("info", args...) }
func (r *recordLogger) Infof(format string, args ...any)  { r.logf("info", format, args...) }
func (r *recordLogger) Warn(args ...any)                  { r.log("warn", args...) }
func (r *recordLogger) Warnf(format string, args ...any)  { r.logf("warn", format, args...) }
func (r *recordLogger) Error(args ...any)                 { r.log("error", args...) }
func (r *recordLogger) Errorf(format string, args ...any) { r.logf("error", format, args...) }
func (r *recordLogger) Fatal(args ...any)                 { r.log("fatal", args...) }
func (r *recordLogger) Fatalf(format string, args ...any) { r.logf("fatal", format, args...) }

func TestPackageHelpersDelegateToDefault(t *testing.T) {
	original := Default
	t.Cleanup(func() { Default = original })

	rec := &recordLogger{}
	Default = rec

	Debug("d")
	Debugf("d%s", "f")
	Info("i")
	Infof("i%s", "f")
	Warn("w")
	Warnf("w%s", "f")
	Error("e")
	Errorf("e%s", "f")

	require.Len(t, rec.lines, 8)
	assert.Equal(t, "debug: d", rec.lines[0])
	assert.Equal(t, "debug: df", rec.lines[1])
	assert.Equal(t, "info: i", rec.lines[2])
	assert.Equal(t, "warn: w", rec.lines[4])
	assert.Equal(t, "error: ef", rec.lines[7])
}

func TestSetLevel(t *testing.T) {
	t.Cleanup(func() { SetLevel(LevelInfo) })

	for _, level := range []string{LevelDebug, LevelInfo, LevelWarn, LevelError, LevelFatal, "bogus"} {
		// Must not panic for any input, including unknown levels.
		SetLevel(level)
	}
}
