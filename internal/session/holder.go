// Package session holds the identity of the signed-in user for the lifetime of
// a process and mirrors it to the durable session store.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"investment-backoffice-go/internal/models"
	"investment-backoffice-go/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var (
	ErrInvalidToken = errors.New("invalid credential token")
	ErrNotSignedIn  = errors.New("not signed in")
)

// Claims is the payload the backend puts in the credential token
type Claims struct {
	UserId string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// DecodeToken reads the identity claims without verifying the signature
func DecodeToken(token string) (models.Identity, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return models.Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.UserId == "" {
		return models.Identity{}, fmt.Errorf("%w: missing userId claim", ErrInvalidToken)
	}
	return models.Identity{
		UserId: claims.UserId,
		Name:   claims.Name,
		Email:  claims.Email,
	}, nil
}

// Holder is the process-wide session. A nil identity means signed out.
type Holder struct {
	store store.SessionStore

	mu          sync.RWMutex
	identity    *models.Identity
	token       string
	initialized bool
}

func NewHolder(s store.SessionStore) *Holder {
	return &Holder{store: s}
}

// Init loads the durable copy once. Later calls are no-ops.
func (h *Holder) Init(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.initialized {
		return nil
	}

	record, err := h.store.LoadSession(ctx)
	switch {
	case errors.Is(err, store.ErrNoSession):
		zap.L().Debug("No stored session")
	case errors.Is(err, store.ErrInvalidSession):
		zap.L().Warn("Ignoring incomplete stored session")
	case err != nil:
		return fmt.Errorf("unable to load session: %w", err)
	default:
		h.identity = &models.Identity{UserId: record.UserId, Name: record.Name, Email: record.Email}
		h.token = record.Token
		zap.L().Debug("Restored session", zap.String("user_id", record.UserId))
	}

	h.initialized = true
	return nil
}

// Set decodes token, persists the identity and makes it current
func (h *Holder) Set(ctx context.Context, token string) (models.Identity, error) {
	identity, err := DecodeToken(token)
	if err != nil {
		return models.Identity{}, err
	}

	err = h.store.SaveSession(ctx, models.SessionRecord{
		UserId: identity.UserId,
		Name:   identity.Name,
		Email:  identity.Email,
		Token:  token,
	})
	if err != nil {
		return models.Identity{}, fmt.Errorf("unable to persist session: %w", err)
	}

	h.mu.Lock()
	h.identity = &identity
	h.token = token
	h.initialized = true
	h.mu.Unlock()

	zap.L().Info("Signed in", zap.String("user_id", identity.UserId), zap.String("email", identity.Email))
	return identity, nil
}

// Clear removes the identity from memory and the durable store. Memory is
// cleared even when the store fails.
func (h *Holder) Clear(ctx context.Context) error {
	h.mu.Lock()
	h.identity = nil
	h.token = ""
	h.initialized = true
	h.mu.Unlock()

	if err := h.store.ClearSession(ctx); err != nil {
		return fmt.Errorf("unable to clear stored session: %w", err)
	}
	return nil
}

// Current returns the signed-in identity
func (h *Holder) Current() (models.Identity, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.identity == nil {
		return models.Identity{}, false
	}
	return *h.identity, true
}

// Require returns the identity or ErrNotSignedIn
func (h *Holder) Require() (models.Identity, error) {
	identity, ok := h.Current()
	if !ok {
		return models.Identity{}, ErrNotSignedIn
	}
	return identity, nil
}

func (h *Holder) SignedIn() bool {
	_, ok := h.Current()
	return ok
}

// Token returns the raw credential of the current session
func (h *Holder) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}
