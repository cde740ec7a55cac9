package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nrtkbb/fsorg/models"
	"github.com/nrtkbb/fsorg/organize"
	"github.com/nrtkbb/fsorg/rulestore"
)

const ruleColumns = `
	path, organize_by_file_type, organize_by_date, insert_date_to_file_name,
	insert_directory_name_to_file_name, remove_uppercase,
	replace_spaces_with_underscores, use_only_ascii, remove_original_file_name,
	add_custom_name, date_type, custom_name, component_order, index_position`

const upsertRule = `
	INSERT INTO organized_directories (` + ruleColumns + `, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, strftime('%s', 'now'))
	ON CONFLICT(path) DO UPDATE SET
		organize_by_file_type = excluded.organize_by_file_type,
		organize_by_date = excluded.organize_by_date,
		insert_date_to_file_name = excluded.insert_date_to_file_name,
		insert_directory_name_to_file_name = excluded.insert_directory_name_to_file_name,
		remove_uppercase = excluded.remove_uppercase,
		replace_spaces_with_underscores = excluded.replace_spaces_with_underscores,
		use_only_ascii = excluded.use_only_ascii,
		remove_original_file_name = excluded.remove_original_file_name,
		add_custom_name = excluded.add_custom_name,
		date_type = excluded.date_type,
		custom_name = excluded.custom_name,
		component_order = excluded.component_order,
		index_position = excluded.index_position`

// RuleStore keeps rule records in the organized_directories table, including
// the fields the CSV layout has no room for.
type RuleStore struct {
	db *sql.DB
}

func NewRuleStore(db *sql.DB) *RuleStore {
	return &RuleStore{db: db}
}

var _ rulestore.Store = (*RuleStore)(nil)

// Lookup prefers an exact path match and otherwise takes the oldest record
// whose path contains path.
func (s *RuleStore) Lookup(ctx context.Context, path string) (rulestore.Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+ruleColumns+` FROM organized_directories WHERE path = ?`, path)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		row = s.db.QueryRowContext(ctx, `
			SELECT `+ruleColumns+` FROM organized_directories
			WHERE instr(path, ?) > 0
			ORDER BY rowid
			LIMIT 1
		`, path)
		rec, err = scanRecord(row)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return rulestore.Record{}, fmt.Errorf("%w: no rules stored for %s", models.ErrNotFound, path)
	}
	if err != nil {
		return rulestore.Record{}, fmt.Errorf("failed to look up rules for %s: %w", path, err)
	}
	return rec, nil
}

// Append stores rec, replacing an older record for the same path.
func (s *RuleStore) Append(ctx context.Context, rec rulestore.Record) error {
	if _, err := s.db.ExecContext(ctx, upsertRule, recordArgs(rec)...); err != nil {
		return fmt.Errorf("failed to store rules for %s: %w", rec.Path, err)
	}
	return nil
}

func (s *RuleStore) Remove(ctx context.Context, path string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM organized_directories WHERE path = ?`, path); err != nil {
		return fmt.Errorf("failed to remove rules for %s: %w", path, err)
	}
	return nil
}

func (s *RuleStore) All(ctx context.Context) ([]rulestore.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+ruleColumns+` FROM organized_directories ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}
	defer rows.Close()

	var records []rulestore.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rule row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (rulestore.Record, error) {
	var rec rulestore.Record
	var dateType, order, index string
	r := &rec.Rules
	err := row.Scan(
		&rec.Path,
		&r.OrganizeByFileType,
		&r.OrganizeByDate,
		&r.InsertDateToFileName,
		&r.InsertDirectoryNameToFileName,
		&r.RemoveUppercase,
		&r.ReplaceSpacesWithUnderscores,
		&r.UseOnlyASCII,
		&r.RemoveOriginalFileName,
		&r.AddCustomName,
		&dateType,
		&rec.CustomName,
		&order,
		&index,
	)
	if err != nil {
		return rulestore.Record{}, err
	}

	if rec.DateKind, err = models.ParseDateKind(dateType); err != nil {
		return rulestore.Record{}, err
	}
	if rec.Order, err = organize.ParseOrder(order); err != nil {
		return rulestore.Record{}, err
	}
	if rec.IndexPosition, err = organize.ParseIndexPosition(index); err != nil {
		return rulestore.Record{}, err
	}
	return rec, nil
}

func recordArgs(rec rulestore.Record) []any {
	r := rec.Rules
	return []any{
		rec.Path,
		r.OrganizeByFileType,
		r.OrganizeByDate,
		r.InsertDateToFileName,
		r.InsertDirectoryNameToFileName,
		r.RemoveUppercase,
		r.ReplaceSpacesWithUnderscores,
		r.UseOnlyASCII,
		r.RemoveOriginalFileName,
		r.AddCustomName,
		rec.DateKind.String(),
		rec.CustomName,
		organize.FormatOrder(rec.Order),
		rec.IndexPosition.String(),
	}
}
