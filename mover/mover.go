// Package mover performs the renames planned by the rule engine.
package mover

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/nrtkbb/fsorg/logging"
	"github.com/nrtkbb/fsorg/metrics"
	"github.com/nrtkbb/fsorg/models"
)

// Journal records every completed rename.
type Journal interface {
	RecordMove(ctx context.Context, origin, destination string, size int64) error
}

// Move renames each file with a destination path from its origin to its
// destination, in destination order. Missing ancestors are created and an
// existing destination is never overwritten. The pass stops at the first
// failure; files already moved stay moved.
//
// A moved file's metadata is updated to describe its new location, so
// running Move twice over the same files is a no-op.
func Move(ctx context.Context, files []*models.File, journal Journal) (*models.ProgressStats, error) {
	ctx, span := otel.Tracer("mover").Start(ctx, "Move")
	defer span.End()

	logger := logging.WithContext(ctx)
	stats := models.NewProgressStats()
	defer func() {
		metrics.RecordMove(int(stats.MovedFiles), time.Since(stats.StartTime))
		span.SetAttributes(
			attribute.Int64("moved_files", stats.MovedFiles),
			attribute.Int64("moved_bytes", stats.MovedBytes),
		)
	}()

	for _, f := range planned(files) {
		md := f.Metadata
		if md.OriginPath == "" {
			logger.Warn("skipping file without origin", zap.String("destination", md.DestinationPath))
			stats.SkippedFiles++
			continue
		}
		if md.OriginPath == md.DestinationPath {
			continue
		}

		if err := moveFile(md.OriginPath, md.DestinationPath); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return stats, err
		}

		var size int64
		if md.Size != nil {
			size = int64(*md.Size)
		}
		if journal != nil {
			if err := journal.RecordMove(ctx, md.OriginPath, md.DestinationPath, size); err != nil {
				return stats, fmt.Errorf("failed to journal move of %s: %w", md.OriginPath, err)
			}
		}
		logger.Debug("moved file",
			zap.String("origin", md.OriginPath),
			zap.String("destination", md.DestinationPath),
		)

		md.OriginPath = md.DestinationPath
		md.Name = filepath.Base(md.DestinationPath)
		stats.MovedFiles++
		stats.MovedBytes += size
	}

	logger.Info("move completed",
		zap.Int64("files", stats.MovedFiles),
		zap.Int64("bytes", stats.MovedBytes),
		zap.Duration("elapsed", time.Since(stats.StartTime)),
	)
	return stats, nil
}

func planned(files []*models.File) []*models.File {
	var out []*models.File
	for _, f := range files {
		if f != nil && f.Metadata != nil && f.Metadata.DestinationPath != "" {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Metadata.DestinationPath < out[j].Metadata.DestinationPath
	})
	return out
}

func moveFile(origin, destination string) error {
	if err := os.MkdirAll(filepath.Dir(destination), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", destination, err)
	}

	_, err := os.Lstat(destination)
	if err == nil {
		return fmt.Errorf("failed to move %s: %s: %w", origin, destination, fs.ErrExist)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to check destination %s: %w", destination, err)
	}

	if err := os.Rename(origin, destination); err != nil {
		return fmt.Errorf("failed to move %s to %s: %w", origin, destination, err)
	}
	return nil
}

// RemoveEmptyDirs removes root and every directory below it that is empty
// once its own empty children are gone. Non-empty directories are kept.
func RemoveEmptyDirs(root string) (int, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	removed := 0
	// children sort after their parents in walk order
	for i := len(dirs) - 1; i >= 0; i-- {
		entries, err := os.ReadDir(dirs[i])
		if err != nil {
			return removed, fmt.Errorf("failed to read directory %s: %w", dirs[i], err)
		}
		if len(entries) > 0 {
			continue
		}
		if err := os.Remove(dirs[i]); err != nil {
			return removed, fmt.Errorf("failed to remove directory %s: %w", dirs[i], err)
		}
		removed++
	}
	return removed, nil
}
