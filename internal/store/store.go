package store

import (
	"context"
	"errors"

	"investment-backoffice-go/internal/models"
)

// Sentinel errors shared across all backend implementations.
var (
	ErrNoSession      = errors.New("no stored session")
	ErrInvalidSession = errors.New("stored session is incomplete")
)

// SessionStore defines the durable side of the signed-in session: the decoded
// identity, the backend cookies and the log of written exports.
type SessionStore interface {
	// --- Session ---
	LoadSession(ctx context.Context) (*models.SessionRecord, error)
	SaveSession(ctx context.Context, record models.SessionRecord) error
	ClearSession(ctx context.Context) error

	// --- Cookies ---
	LoadCookies(ctx context.Context, host string) ([]models.CookieRecord, error)
	SaveCookies(ctx context.Context, host string, cookies []models.CookieRecord) error

	// --- Exports ---
	RecordExport(ctx context.Context, record models.ExportRecord) (*models.ExportRecord, error)
	ListExports(ctx context.Context, userId string, limit int) ([]models.ExportRecord, error)

	// --- Lifecycle ---
	Close()
}
