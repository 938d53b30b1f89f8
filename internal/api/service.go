/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package api

import (
	"context"
	"errors"

	"investment-backoffice-go/internal/cache"
	"investment-backoffice-go/internal/client"
	"investment-backoffice-go/internal/models"
	"investment-backoffice-go/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrRedeemed           = errors.New("investment is already redeemed")
	ErrInvestmentNotFound = errors.New("investment not found")
	ErrNoBankAccount      = errors.New("investor has no bank account")
)

// Backend is the REST surface the back office talks to
type Backend interface {
	Register(ctx context.Context, req client.RegisterRequest) (string, error)
	Login(ctx context.Context, req client.LoginRequest) (string, error)
	Logout(ctx context.Context) error

	ListInvestors(ctx context.Context, includeDeleted bool) ([]models.Investor, error)
	GetInvestor(ctx context.Context, id string) (*models.Investor, error)
	CreateInvestor(ctx context.Context, input models.InvestorInput) (*models.Investor, error)
	UpdateInvestor(ctx context.Context, id string, input models.InvestorInput) (*models.Investor, error)
	DeleteInvestor(ctx context.Context, id string) error
	RecoverInvestor(ctx context.Context, id string) error

	ListAgents(ctx context.Context, investorId string) ([]models.Agent, error)
	CreateAgent(ctx context.Context, input models.AgentInput) (*models.Agent, error)
	UnlinkAgent(ctx context.Context, id string) error

	ListInvestments(ctx context.Context, filter models.InvestmentFilter) ([]models.Investment, error)
	CreateInvestment(ctx context.Context, input models.InvestmentInput) (*models.Investment, error)
	UpdateInvestment(ctx context.Context, id string, input models.InvestmentInput) (*models.Investment, error)
	DeleteInvestment(ctx context.Context, id string) error
	RedeemInvestment(ctx context.Context, id string, input models.RedeemInput) (*models.Investment, error)
	Aggregate(ctx context.Context, r models.DateRange) (*models.Aggregate, error)
}

// Compile-time check: *client.Service must satisfy Backend.
var _ Backend = (*client.Service)(nil)

// BackOfficeService runs every screen operation: form validation, derived
// fields, optimistic cache update and the backend call
type BackOfficeService struct {
	backend Backend
	session *session.Holder
	cache   *cache.QueryCache
	sync    *cache.Synchronizer

	onAuthFailure func(ctx context.Context)
}

func NewBackOfficeService(backend Backend, holder *session.Holder, queries *cache.QueryCache) *BackOfficeService {
	return &BackOfficeService{
		backend: backend,
		session: holder,
		cache:   queries,
		sync:    cache.NewSynchronizer(queries),
	}
}

// OnAuthFailure registers the hook run after a 401/403 cleared the session
func (s *BackOfficeService) OnAuthFailure(fn func(ctx context.Context)) {
	s.onAuthFailure = fn
}

// Session returns the identity holder
func (s *BackOfficeService) Session() *session.Holder {
	return s.session
}

// Cache returns the query cache backing the list operations
func (s *BackOfficeService) Cache() *cache.QueryCache {
	return s.cache
}

// withOperation tags ctx so backend requests are logged under the operation name
func withOperation(ctx context.Context, operation string) context.Context {
	return models.WithRequestContext(ctx, &models.RequestContext{
		RequestId: uuid.NewString(),
		Operation: operation,
	})
}

// handleError forces a new sign-in on auth failures and returns err unchanged
func (s *BackOfficeService) handleError(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}

	if client.IsAuthError(err) {
		zap.L().Warn("Backend rejected the session, signing out", zap.String("operation", op), zap.Error(err))
		if clearErr := s.session.Clear(ctx); clearErr != nil {
			zap.L().Error("Unable to clear session", zap.Error(clearErr))
		}
		s.cache.Invalidate("")
		if s.onAuthFailure != nil {
			s.onAuthFailure(ctx)
		}
		return err
	}

	zap.L().Debug("Operation failed", zap.String("operation", op), zap.Error(err))
	return err
}
