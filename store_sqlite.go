package main

import (
	"context"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

const (
	sqliteBatchSize = 500

	reportSchema = `
CREATE TABLE IF NOT EXISTS report (
	run_id    TEXT    NOT NULL,
	step      INTEGER NOT NULL,
	sub_step  INTEGER NOT NULL,
	hour      REAL    NOT NULL,
	key_value TEXT    NOT NULL,
	variable  TEXT    NOT NULL,
	units     TEXT    NOT NULL,
	value     REAL    NOT NULL
);
CREATE INDEX IF NOT EXISTS report_run ON report (run_id, variable, key_value);`

	insertReport = `INSERT INTO report (run_id, step, sub_step, hour, key_value, variable, units, value)
VALUES (:run_id, :step, :sub_step, :hour, :key_value, :variable, :units, :value)`

	selectReport = `SELECT run_id, step, sub_step, hour, key_value, variable, units, value
FROM report WHERE run_id = ? ORDER BY rowid`
)

type SQLiteSink struct {
	db *sqlx.DB
}

func NewSQLiteSink(ctx context.Context, dbFile string) (*SQLiteSink, error) {
	db, err := sqlx.Open("sqlite3", dbFile)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to open %s", dbFile)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.WithMessagef(err, "failed to open %s", dbFile)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, reportSchema); err != nil {
		db.Close()
		return nil, errors.WithMessage(err, "failed to create report table")
	}
	return &SQLiteSink{db: db}, nil
}

func (s *SQLiteSink) Write(ctx context.Context, rows []ReportRow) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.WithMessage(err, "failed to begin transaction")
	}
	for _, b := range batches(len(rows), sqliteBatchSize) {
		if _, err := tx.NamedExecContext(ctx, insertReport, rows[b[0]:b[1]]); err != nil {
			tx.Rollback()
			return errors.WithMessage(err, "failed to insert report rows")
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.WithMessage(err, "failed to commit report rows")
	}
	L().Infof("Inserted %d report rows into SQLite", len(rows))
	return nil
}

func (s *SQLiteSink) Rows(ctx context.Context, runID string) ([]ReportRow, error) {
	var rows []ReportRow
	if err := s.db.SelectContext(ctx, &rows, selectReport, runID); err != nil {
		return nil, errors.WithMessage(err, "failed to select report rows")
	}
	return rows, nil
}

func (s *SQLiteSink) Close(context.Context) error {
	return s.db.Close()
}
