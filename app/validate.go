package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/nrtkbb/fsorg/models"
	"github.com/nrtkbb/fsorg/organize"
	"github.com/nrtkbb/fsorg/rulestore"
)

func (s *Session) requireSelection() error {
	if s.ledger == nil {
		return fmt.Errorf("%w: no current directory", models.ErrNotFound)
	}
	if len(s.ledger.Selected) == 0 {
		return fmt.Errorf("%w: no files selected", models.ErrInvalidInput)
	}
	return nil
}

func validateNaming(in OrganizeInput) error {
	if in.Rules.RemoveOriginalFileName && (!in.Rules.AddCustomName || in.CustomName == "") {
		return fmt.Errorf("%w: a custom name is required when the original file name is removed", models.ErrInvalidInput)
	}
	if in.Rules.AddCustomName && in.IndexPosition == organize.IndexNone {
		return fmt.Errorf("%w: an index position is required with a custom name", models.ErrInvalidInput)
	}
	return nil
}

func (s *Session) validateOrganize(ctx context.Context, in OrganizeInput) error {
	if err := s.requireSelection(); err != nil {
		return err
	}
	if err := organize.ValidName(in.DirectoryName); err != nil {
		return err
	}
	if err := validateNaming(in); err != nil {
		return err
	}

	target := filepath.Join(s.cwd, in.DirectoryName)
	exists, err := rulestore.Contains(ctx, s.store, target)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: rules for %s are already stored", models.ErrDuplicateName, target)
	}
	return nil
}

func (s *Session) validateRename(in OrganizeInput) error {
	if err := s.requireSelection(); err != nil {
		return err
	}
	if in.Rules.OrganizeByFileType || in.Rules.OrganizeByDate {
		return fmt.Errorf("%w: grouping into buckets needs a new directory", models.ErrInvalidInput)
	}
	if !in.Rules.Renames() {
		return fmt.Errorf("%w: no renaming rule selected", models.ErrInvalidInput)
	}
	return validateNaming(in)
}
