package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"investment-backoffice-go/internal/models"
	"investment-backoffice-go/internal/store"

	"go.uber.org/zap"
)

func (s *Service) LoadSession(ctx context.Context) (*models.SessionRecord, error) {
	zap.L().Debug("Loading stored session")

	var record models.SessionRecord
	err := s.db.QueryRowContext(ctx, queryGetSession).Scan(
		&record.UserId, &record.Name, &record.Email, &record.Token, &record.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNoSession
		}
		zap.L().Error("Failed to query session", zap.Error(err))
		return nil, fmt.Errorf("unable to query session: %w", err)
	}

	if record.UserId == "" || record.Token == "" {
		return nil, store.ErrInvalidSession
	}

	zap.L().Debug("Loaded stored session", zap.String("user_id", record.UserId))
	return &record, nil
}

func (s *Service) SaveSession(ctx context.Context, record models.SessionRecord) error {
	if record.UserId == "" || record.Token == "" {
		return store.ErrInvalidSession
	}

	_, err := s.db.ExecContext(ctx, queryUpsertSession, record.UserId, record.Name, record.Email, record.Token)
	if err != nil {
		zap.L().Error("Failed to store session", zap.String("user_id", record.UserId), zap.Error(err))
		return fmt.Errorf("unable to store session: %w", err)
	}

	zap.L().Info("Session stored", zap.String("user_id", record.UserId), zap.String("email", record.Email))
	return nil
}

// ClearSession removes the identity and every stored cookie
func (s *Service) ClearSession(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("unable to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			zap.L().Warn("Failed to roll back session clear", zap.Error(err))
		}
	}()

	if _, err := tx.ExecContext(ctx, queryDeleteSession); err != nil {
		return fmt.Errorf("unable to delete session: %w", err)
	}
	if _, err := tx.ExecContext(ctx, queryDeleteAllCookies); err != nil {
		return fmt.Errorf("unable to delete cookies: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("unable to commit session clear: %w", err)
	}

	zap.L().Info("Session cleared")
	return nil
}
