//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

package mysql

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-eval-go/grading"
	"trpc.group/trpc-go/trpc-eval-go/store"
)

func newTestStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	s, err := New(WithDB(db), WithSkipDBInit())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, mock
}

func TestNewValidation(t *testing.T) {
	_, err := New()
	require.Error(t, err)
}

func TestNewInitsSchema(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS custom_records").
		WillReturnResult(sqlmock.NewResult(0, 0))

	s, err := New(WithDB(db), WithTable("custom_records"))
	require.NoError(t, err)
	defer s.Close()
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewInitFailureClosesDB(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS grade_records").
		WillReturnError(errors.New("access denied"))
	mock.ExpectClose()

	_, err = New(WithDB(db))
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSave(t *testing.T) {
	s, mock := newTestStore(t)
	result := &grading.Result{Pass: true, Reason: "All assertions passed", TokensUsed: &grading.TokenUsage{Total: 7}}
	payload, err := json.Marshal(result)
	require.NoError(t, err)
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO grade_records").
		WithArgs("run-1", 0, "greeting case", "hello", payload, createdAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = s.Save(context.Background(), &store.Record{
		RunID:       "run-1",
		CaseIndex:   0,
		Description: "greeting case",
		Output:      "hello",
		Result:      result,
		CreatedAt:   createdAt,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveValidation(t *testing.T) {
	s, _ := newTestStore(t)
	require.Error(t, s.Save(context.Background(), nil))
	require.Error(t, s.Save(context.Background(), &store.Record{}))
}

func TestList(t *testing.T) {
	s, mock := newTestStore(t)
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	passPayload, err := json.Marshal(&grading.Result{Pass: true, Reason: "All assertions passed"})
	require.NoError(t, err)
	failPayload, err := json.Marshal(&grading.Result{Pass: false, Reason: "mismatch"})
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"case_index", "description", "output", "result", "created_at"}).
		AddRow(0, "first", "a", passPayload, createdAt).
		AddRow(1, "second", "b", failPayload, createdAt)
	mock.ExpectQuery("SELECT case_index, description, output, result, created_at FROM grade_records").
		WithArgs("run-1").
		WillReturnRows(rows)

	records, err := s.List(context.Background(), "run-1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "run-1", records[0].RunID)
	assert.Equal(t, "first", records[0].Description)
	assert.True(t, records[0].Result.Pass)
	assert.False(t, records[1].Result.Pass)
	assert.Equal(t, "mismatch", records[1].Result.Reason)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListQueryError(t *testing.T) {
	s, mock := newTestStore(t)
	mock.ExpectQuery("SELECT case_index, description, output, result, created_at FROM grade_records").
		WithArgs("run-1").
		WillReturnError(errors.New("connection reset"))

	_, err := s.List(context.Background(), "run-1")
	require.Error(t, err)

	_, err = s.List(context.Background(), "")
	require.Error(t, err)
}
