package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"investment-backoffice-go/internal/models"

	"go.uber.org/zap"
)

// LoadCookies returns the unexpired cookies stored for host
func (s *Service) LoadCookies(ctx context.Context, host string) ([]models.CookieRecord, error) {
	rows, err := s.db.QueryContext(ctx, queryGetCookies, host)
	if err != nil {
		zap.L().Error("Failed to query cookies", zap.String("host", host), zap.Error(err))
		return nil, fmt.Errorf("unable to query cookies: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	now := time.Now()
	var cookies []models.CookieRecord
	for rows.Next() {
		var c models.CookieRecord
		var expiresAt sql.NullTime
		if err := rows.Scan(&c.Host, &c.Name, &c.Value, &c.Path, &c.Domain, &expiresAt, &c.Secure, &c.HttpOnly); err != nil {
			return nil, fmt.Errorf("unable to scan cookie row: %w", err)
		}
		if expiresAt.Valid {
			if expiresAt.Time.Before(now) {
				continue
			}
			c.ExpiresAt = expiresAt.Time
		}
		cookies = append(cookies, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cookie rows: %w", err)
	}

	zap.L().Debug("Loaded cookies", zap.String("host", host), zap.Int("count", len(cookies)))
	return cookies, nil
}

// SaveCookies replaces the cookies stored for host
func (s *Service) SaveCookies(ctx context.Context, host string, cookies []models.CookieRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("unable to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			zap.L().Warn("Failed to roll back cookie update", zap.Error(err))
		}
	}()

	if _, err := tx.ExecContext(ctx, queryDeleteHostCookies, host); err != nil {
		return fmt.Errorf("unable to delete cookies: %w", err)
	}

	for _, c := range cookies {
		var expiresAt sql.NullTime
		if !c.ExpiresAt.IsZero() {
			expiresAt = sql.NullTime{Time: c.ExpiresAt.UTC(), Valid: true}
		}
		path := c.Path
		if path == "" {
			path = "/"
		}
		if _, err := tx.ExecContext(ctx, queryInsertCookie,
			host, c.Name, c.Value, path, c.Domain, expiresAt, c.Secure, c.HttpOnly); err != nil {
			return fmt.Errorf("unable to insert cookie %s: %w", c.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("unable to commit cookies: %w", err)
	}

	zap.L().Debug("Stored cookies", zap.String("host", host), zap.Int("count", len(cookies)))
	return nil
}
