package rulestore

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/nrtkbb/fsorg/models"
	"github.com/nrtkbb/fsorg/organize"
)

const (
	// FileName is the rule file inside the base path.
	FileName = ".save_file.csv"
	// Header is the first line of the rule file.
	Header = "path, organize_by_file_type, organize_by_date, insert_date_to_file_name, insert_directory_name_to_file_name, remove_uppercase, replace_spaces_with_underscores, use_only_ascii, date_type"

	fieldCount = 9
)

// CSVStore keeps records as rows of a comma separated text file.
type CSVStore struct {
	path string
}

func NewCSVStore(basePath string) *CSVStore {
	return &CSVStore{path: filepath.Join(basePath, FileName)}
}

// Path is the location of the rule file.
func (s *CSVStore) Path() string { return s.path }

// Lookup prefers a row whose path equals path and otherwise takes the first
// row whose path contains it.
func (s *CSVStore) Lookup(ctx context.Context, path string) (Record, error) {
	records, err := s.All(ctx)
	if err != nil {
		return Record{}, err
	}
	for _, rec := range records {
		if rec.Path == path {
			return rec, nil
		}
	}
	for _, rec := range records {
		if strings.Contains(rec.Path, path) {
			return rec, nil
		}
	}
	return Record{}, fmt.Errorf("%w: no rules stored for %s", models.ErrNotFound, path)
}

// Append adds a row, creating the file with its header if absent.
func (s *CSVStore) Append(_ context.Context, rec Record) error {
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open rule file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat rule file: %w", err)
	}
	if info.Size() == 0 {
		if _, err := io.WriteString(f, Header+"\n"); err != nil {
			return fmt.Errorf("failed to write rule file header: %w", err)
		}
	}

	w := csv.NewWriter(f)
	if err := w.Write(encodeRow(rec)); err != nil {
		return fmt.Errorf("failed to write rule: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write rule: %w", err)
	}
	return nil
}

// Remove rewrites the file without the rows for path.
func (s *CSVStore) Remove(_ context.Context, path string) error {
	rows, err := s.readRows()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), FileName+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary rule file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.WriteString(tmp, Header+"\n"); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write rule file header: %w", err)
	}
	w := csv.NewWriter(tmp)
	for _, row := range rows {
		if row[0] == path {
			continue
		}
		if err := w.Write(row); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to write rule: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write rule: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary rule file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace rule file: %w", err)
	}
	return nil
}

// All returns every record in file order. A missing file holds no records.
func (s *CSVStore) All(_ context.Context) ([]Record, error) {
	rows, err := s.readRows()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	records := make([]Record, 0, len(rows))
	for i, row := range rows {
		rec, err := decodeRow(row)
		if err != nil {
			return nil, fmt.Errorf("failed to parse rule file row %d: %w", i+1, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// readRows returns the data rows, header excluded.
func (s *CSVStore) readRows() ([][]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rule file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read rule file: %w", err)
		}
		if len(rows) == 0 && len(row) > 0 && row[0] == "path" {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func flags(r *organize.Rules) []*bool {
	return []*bool{
		&r.OrganizeByFileType,
		&r.OrganizeByDate,
		&r.InsertDateToFileName,
		&r.InsertDirectoryNameToFileName,
		&r.RemoveUppercase,
		&r.ReplaceSpacesWithUnderscores,
		&r.UseOnlyASCII,
	}
}

func encodeRow(rec Record) []string {
	row := []string{rec.Path}
	for _, flag := range flags(&rec.Rules) {
		if *flag {
			row = append(row, "1")
		} else {
			row = append(row, "0")
		}
	}
	return append(row, rec.DateKind.String())
}

// decodeRow reads the fixed fields. Trailing fields written by older
// versions hold the component order followed by the custom name.
func decodeRow(row []string) (Record, error) {
	if len(row) < fieldCount {
		return Record{}, fmt.Errorf("%w: expected %d fields, got %d", models.ErrInvalidInput, fieldCount, len(row))
	}

	rec := Record{Path: row[0]}
	for i, flag := range flags(&rec.Rules) {
		switch row[i+1] {
		case "1":
			*flag = true
		case "0":
		default:
			return Record{}, fmt.Errorf("%w: flag %q", models.ErrInvalidInput, row[i+1])
		}
	}
	kind, err := models.ParseDateKind(row[8])
	if err != nil {
		return Record{}, err
	}
	rec.DateKind = kind

	for _, field := range row[fieldCount:] {
		if order, err := organize.ParseOrder(field); err == nil && len(order) == 1 {
			rec.Order = append(rec.Order, order...)
			continue
		}
		rec.CustomName = field
	}
	return rec, nil
}
