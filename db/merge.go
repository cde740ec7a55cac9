package db

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/nrtkbb/fsorg/logging"
	"github.com/nrtkbb/fsorg/rulestore"
)

// ImportRules copies every record of source into the organized_directories
// table of dest in one transaction. Paths dest already knows are skipped.
func ImportRules(ctx context.Context, source rulestore.Store, dest *sql.DB) (imported, skipped int, err error) {
	records, err := source.All(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read source rules: %w", err)
	}

	tx, err := dest.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	existsStmt, err := tx.PrepareContext(ctx, `SELECT COUNT(*) FROM organized_directories WHERE path = ?`)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to prepare lookup statement: %w", err)
	}
	defer existsStmt.Close()

	insertStmt, err := tx.PrepareContext(ctx, upsertRule)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer insertStmt.Close()

	for _, rec := range records {
		select {
		case <-ctx.Done():
			return 0, 0, ctx.Err()
		default:
		}

		var count int
		if err := existsStmt.QueryRowContext(ctx, rec.Path).Scan(&count); err != nil {
			return 0, 0, fmt.Errorf("failed to check %s: %w", rec.Path, err)
		}
		if count > 0 {
			logging.L().Debug("rule already imported", zap.String("path", rec.Path))
			skipped++
			continue
		}
		if _, err := insertStmt.ExecContext(ctx, recordArgs(rec)...); err != nil {
			return 0, 0, fmt.Errorf("failed to insert rules for %s: %w", rec.Path, err)
		}
		imported++
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("failed to commit import: %w", err)
	}
	return imported, skipped, nil
}
