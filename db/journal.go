package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Journal records the physical moves of one run.
type Journal struct {
	db    *sql.DB
	RunID int64
	moved int64
}

// BeginRun opens a run for an operation on path.
func BeginRun(ctx context.Context, db *sql.DB, operation, path string) (*Journal, error) {
	result, err := db.ExecContext(ctx,
		"INSERT INTO runs (operation, path, started_at) VALUES (?, ?, strftime('%s', 'now'))",
		operation, path,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert into runs: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	return &Journal{db: db, RunID: runID}, nil
}

func (j *Journal) RecordMove(ctx context.Context, origin, destination string, size int64) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO moves (run_id, origin_path, destination_path, size_bytes, moved_at)
		VALUES (?, ?, ?, ?, strftime('%s', 'now'))
	`, j.RunID, origin, destination, size)
	if err != nil {
		return fmt.Errorf("failed to insert move: %w", err)
	}
	j.moved++
	return nil
}

// Finish closes the run with the outcome of the operation.
func (j *Journal) Finish(ctx context.Context, runErr error) error {
	status := "ok"
	var message sql.NullString
	if runErr != nil {
		status = "failed"
		message = sql.NullString{String: runErr.Error(), Valid: true}
	}

	_, err := j.db.ExecContext(ctx, `
		UPDATE runs
		SET finished_at = strftime('%s', 'now'), moved_files = ?, status = ?, error = ?
		WHERE run_id = ?
	`, j.moved, status, message, j.RunID)
	if err != nil {
		return fmt.Errorf("failed to finish run %d: %w", j.RunID, err)
	}
	return nil
}

// Run is one journaled operation.
type Run struct {
	RunID      int64
	Operation  string
	Path       string
	StartedAt  int64
	MovedFiles int64
	Status     string
	Error      string
}

// Move is one journaled rename.
type Move struct {
	Origin      string
	Destination string
	SizeBytes   int64
}

// RecentRuns returns up to limit runs, newest first.
func RecentRuns(ctx context.Context, db *sql.DB, limit int) ([]Run, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT run_id, operation, path, started_at, moved_files, status, COALESCE(error, '')
		FROM runs
		ORDER BY run_id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.RunID, &r.Operation, &r.Path, &r.StartedAt, &r.MovedFiles, &r.Status, &r.Error); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Moves returns the moves of a run in the order they happened.
func Moves(ctx context.Context, db *sql.DB, runID int64) ([]Move, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT origin_path, destination_path, size_bytes
		FROM moves
		WHERE run_id = ?
		ORDER BY move_id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query moves: %w", err)
	}
	defer rows.Close()

	var moves []Move
	for rows.Next() {
		var m Move
		if err := rows.Scan(&m.Origin, &m.Destination, &m.SizeBytes); err != nil {
			return nil, fmt.Errorf("failed to scan move row: %w", err)
		}
		moves = append(moves, m)
	}
	return moves, rows.Err()
}
