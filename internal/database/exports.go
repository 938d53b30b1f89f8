package database

import (
	"context"
	"database/sql"
	"fmt"

	"investment-backoffice-go/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultExportListLimit = 20

func (s *Service) RecordExport(ctx context.Context, record models.ExportRecord) (*models.ExportRecord, error) {
	if record.Id == "" {
		record.Id = uuid.New().String()
	}

	var stored models.ExportRecord
	err := s.db.QueryRowContext(ctx, queryInsertExport,
		record.Id, record.UserId, record.Title, record.Path, record.Rows).Scan(
		&stored.Id, &stored.UserId, &stored.Title, &stored.Path, &stored.Rows, &stored.CreatedAt)
	if err != nil {
		zap.L().Error("Failed to record export", zap.String("path", record.Path), zap.Error(err))
		return nil, fmt.Errorf("unable to record export: %w", err)
	}

	zap.L().Info("Export recorded",
		zap.String("id", stored.Id),
		zap.String("path", stored.Path),
		zap.Int("rows", stored.Rows))
	return &stored, nil
}

// ListExports returns the most recent exports of a user, newest first
func (s *Service) ListExports(ctx context.Context, userId string, limit int) ([]models.ExportRecord, error) {
	if limit <= 0 {
		limit = defaultExportListLimit
	}

	rows, err := s.db.QueryContext(ctx, queryListExports, userId, limit)
	if err != nil {
		return nil, fmt.Errorf("unable to query exports: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var exports []models.ExportRecord
	for rows.Next() {
		var e models.ExportRecord
		if err := rows.Scan(&e.Id, &e.UserId, &e.Title, &e.Path, &e.Rows, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("unable to scan export row: %w", err)
		}
		exports = append(exports, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating export rows: %w", err)
	}
	return exports, nil
}
