package api

import (
	"context"
	"fmt"

	"investment-backoffice-go/internal/client"
	"investment-backoffice-go/internal/models"
	"investment-backoffice-go/internal/validation"

	"go.uber.org/zap"
)

// Register validates the sign-up form, creates the account and signs in
func (s *BackOfficeService) Register(ctx context.Context, values map[string]string) (models.Identity, error) {
	ctx = withOperation(ctx, "auth.register")
	if err := validation.RegisterRules.Validate(values).OrNil(); err != nil {
		return models.Identity{}, err
	}

	token, err := s.backend.Register(ctx, client.RegisterRequest{
		Name:     values["name"],
		Email:    values["email"],
		Password: values["password"],
	})
	if err != nil {
		return models.Identity{}, s.handleError(ctx, "register", err)
	}
	return s.session.Set(ctx, token)
}

// SignIn validates the sign-in form and stores the returned credential
func (s *BackOfficeService) SignIn(ctx context.Context, values map[string]string) (models.Identity, error) {
	ctx = withOperation(ctx, "auth.login")
	if err := validation.LoginRules.Validate(values).OrNil(); err != nil {
		return models.Identity{}, err
	}

	token, err := s.backend.Login(ctx, client.LoginRequest{
		Email:    values["email"],
		Password: values["password"],
	})
	if err != nil {
		return models.Identity{}, s.handleError(ctx, "sign-in", err)
	}
	return s.session.Set(ctx, token)
}

// Logout clears the local session first, then tells the backend
func (s *BackOfficeService) Logout(ctx context.Context) error {
	ctx = withOperation(ctx, "auth.logout")
	identity, _ := s.session.Current()
	if err := s.session.Clear(ctx); err != nil {
		zap.L().Error("Unable to clear stored session", zap.Error(err))
	}
	s.cache.Invalidate("")

	if err := s.backend.Logout(ctx); err != nil {
		return fmt.Errorf("backend logout failed: %w", err)
	}

	zap.L().Info("Signed out", zap.String("user_id", identity.UserId))
	return nil
}
