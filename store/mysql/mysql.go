//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package mysql provides a MySQL-backed store for graded run records.
package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	// Registers the mysql driver with database/sql.
	_ "github.com/go-sql-driver/mysql"

	"trpc.group/trpc-go/trpc-eval-go/grading"
	"trpc.group/trpc-go/trpc-eval-go/store"
)

const defaultTable = "grade_records"

var schemaTemplate = `CREATE TABLE IF NOT EXISTS %s (
  id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
  run_id VARCHAR(128) NOT NULL,
  case_index INT NOT NULL,
  description VARCHAR(512) NOT NULL DEFAULT '',
  output MEDIUMTEXT NOT NULL,
  result JSON NOT NULL,
  created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
  PRIMARY KEY (id),
  KEY idx_run_id (run_id, case_index)
)`

// Store implements store.Store on a MySQL table.
type Store struct {
	db    *sql.DB
	table string
}

// Option configures the MySQL store.
type Option func(*options)

type options struct {
	dsn        string
	table      string
	db         *sql.DB
	skipDBInit bool
}

// WithDSN sets the data source name used to open the connection.
func WithDSN(dsn string) Option {
	return func(o *options) { o.dsn = dsn }
}

// WithTable overrides the table name.
func WithTable(table string) Option {
	return func(o *options) {
		if table != "" {
			o.table = table
		}
	}
}

// WithDB injects an existing database handle instead of opening one from the
// DSN. The store takes ownership and closes it.
func WithDB(db *sql.DB) Option {
	return func(o *options) { o.db = db }
}

// WithSkipDBInit skips schema creation on startup.
func WithSkipDBInit() Option {
	return func(o *options) { o.skipDBInit = true }
}

// New creates a MySQL-backed record store.
func New(opt ...Option) (*Store, error) {
	opts := options{table: defaultTable}
	for _, o := range opt {
		o(&opts)
	}
	db := opts.db
	if db == nil {
		if opts.dsn == "" {
			return nil, errors.New("mysql dsn is empty")
		}
		opened, err := sql.Open("mysql", opts.dsn)
		if err != nil {
			return nil, fmt.Errorf("open mysql connection: %w", err)
		}
		db = opened
	}
	s := &Store{db: db, table: opts.table}
	if !opts.skipDBInit {
		if err := s.ensureSchema(context.Background()); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init database: %w", err)
		}
	}
	return s, nil
}

// Save appends a record to its run.
func (s *Store) Save(ctx context.Context, record *store.Record) error {
	if record == nil {
		return errors.New("record is nil")
	}
	if record.RunID == "" {
		return errors.New("run id is empty")
	}
	payload, err := json.Marshal(record.Result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	query := fmt.Sprintf(
		"INSERT INTO %s (run_id, case_index, description, output, result, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		s.table,
	)
	if _, err := s.db.ExecContext(ctx, query,
		record.RunID, record.CaseIndex, record.Description, record.Output, payload, createdAt); err != nil {
		return fmt.Errorf("store record %s/%d: %w", record.RunID, record.CaseIndex, err)
	}
	return nil
}

// List returns all records of a run in case order.
func (s *Store) List(ctx context.Context, runID string) ([]*store.Record, error) {
	if runID == "" {
		return nil, errors.New("run id is empty")
	}
	query := fmt.Sprintf(
		"SELECT case_index, description, output, result, created_at FROM %s WHERE run_id = ? ORDER BY case_index",
		s.table,
	)
	rows, err := s.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("load run %s: %w", runID, err)
	}
	defer rows.Close()
	records := []*store.Record{}
	for rows.Next() {
		record := &store.Record{RunID: runID}
		var payload []byte
		if err := rows.Scan(&record.CaseIndex, &record.Description, &record.Output, &payload, &record.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan record of run %s: %w", runID, err)
		}
		var result grading.Result
		if err := json.Unmarshal(payload, &result); err != nil {
			return nil, fmt.Errorf("unmarshal result of run %s: %w", runID, err)
		}
		record.Result = &result
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run %s: %w", runID, err)
	}
	return records, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(schemaTemplate, s.table))
	return err
}
