package api

import (
	"context"
	"time"

	"investment-backoffice-go/internal/cache"
	"investment-backoffice-go/internal/models"

	"go.uber.org/zap"
)

func investorsKey(includeDeleted bool) cache.Key {
	if includeDeleted {
		return cache.NewKey(cache.InvestorsKey().String(), "all")
	}
	return cache.InvestorsKey()
}

// ListInvestors returns the investor list, deleted investors included on request
func (s *BackOfficeService) ListInvestors(ctx context.Context, includeDeleted bool) ([]models.Investor, error) {
	ctx = withOperation(ctx, "investor.list")
	list, err := cache.FetchAs(ctx, s.cache, investorsKey(includeDeleted), func(ctx context.Context) ([]models.Investor, error) {
		return s.backend.ListInvestors(ctx, includeDeleted)
	})
	if err != nil {
		return nil, s.handleError(ctx, "list investors", err)
	}
	return list, nil
}

// GetInvestor returns the investor detail, agents included
func (s *BackOfficeService) GetInvestor(ctx context.Context, id string) (*models.Investor, error) {
	ctx = withOperation(ctx, "investor.get")
	investor, err := cache.FetchAs(ctx, s.cache, cache.InvestorKey(id), func(ctx context.Context) (*models.Investor, error) {
		return s.backend.GetInvestor(ctx, id)
	})
	if err != nil {
		return nil, s.handleError(ctx, "get investor", err)
	}
	return investor, nil
}

// CreateInvestor validates the form and adds the investor, showing it in the
// cached list until the backend answers
func (s *BackOfficeService) CreateInvestor(ctx context.Context, values map[string]string, extraBanks []models.BankAccount) (*models.Investor, error) {
	ctx = withOperation(ctx, "investor.create")
	input, err := investorInput(values, extraBanks)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	placeholder := models.Investor{
		Id:        pendingId(),
		Name:      input.Name,
		Email:     input.Email,
		Code:      input.Code,
		Phone:     input.Phone,
		Address:   input.Address,
		Bank:      input.Bank,
		Balance:   input.Balance,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var created *models.Investor
	err = s.sync.Mutate(ctx, cache.InvestorsKey(),
		cache.ListTransform(func(list []models.Investor) []models.Investor {
			return cache.Append(list, placeholder)
		}),
		func(ctx context.Context) error {
			created, err = s.backend.CreateInvestor(ctx, input)
			return err
		})
	if err != nil {
		return nil, s.handleError(ctx, "create investor", err)
	}

	s.cache.Invalidate(cache.InvestorsKey())
	zap.L().Info("Investor created", zap.String("name", input.Name), zap.Int("code", input.Code))
	return created, nil
}

// UpdateInvestor applies changes on top of the current values of investor
func (s *BackOfficeService) UpdateInvestor(ctx context.Context, investor models.Investor, changes map[string]string) (*models.Investor, error) {
	ctx = withOperation(ctx, "investor.update")
	var extra []models.BankAccount
	if len(investor.Bank) > 1 {
		extra = investor.Bank[1:]
	}
	input, err := investorInput(mergeValues(InvestorValues(investor), changes), extra)
	if err != nil {
		return nil, err
	}

	var updated *models.Investor
	err = s.sync.Mutate(ctx, cache.InvestorsKey(),
		cache.ListTransform(func(list []models.Investor) []models.Investor {
			return cache.ReplaceWhere(list,
				func(i models.Investor) bool { return i.Id == investor.Id },
				func(i models.Investor) models.Investor {
					i.Name, i.Email, i.Code = input.Name, input.Email, input.Code
					i.Phone, i.Address, i.Bank, i.Balance = input.Phone, input.Address, input.Bank, input.Balance
					return i
				})
		}),
		func(ctx context.Context) error {
			updated, err = s.backend.UpdateInvestor(ctx, investor.Id, input)
			return err
		})
	if err != nil {
		return nil, s.handleError(ctx, "update investor", err)
	}

	s.invalidateInvestor(investor.Id)
	return updated, nil
}

// DeleteInvestor soft-deletes the investor
func (s *BackOfficeService) DeleteInvestor(ctx context.Context, id string) error {
	ctx = withOperation(ctx, "investor.delete")
	err := s.sync.Mutate(ctx, cache.InvestorsKey(),
		cache.ListTransform(func(list []models.Investor) []models.Investor {
			return cache.RemoveWhere(list, func(i models.Investor) bool { return i.Id == id })
		}),
		func(ctx context.Context) error {
			return s.backend.DeleteInvestor(ctx, id)
		})
	if err != nil {
		return s.handleError(ctx, "delete investor", err)
	}

	s.invalidateInvestor(id)
	s.cache.Invalidate(cache.DashboardKey())
	zap.L().Info("Investor deleted", zap.String("investor_id", id))
	return nil
}

// RecoverInvestor restores a soft-deleted investor
func (s *BackOfficeService) RecoverInvestor(ctx context.Context, id string) error {
	ctx = withOperation(ctx, "investor.recover")
	err := s.sync.Mutate(ctx, investorsKey(true),
		cache.ListTransform(func(list []models.Investor) []models.Investor {
			return cache.ReplaceWhere(list,
				func(i models.Investor) bool { return i.Id == id },
				func(i models.Investor) models.Investor {
					i.DeletedAt = nil
					return i
				})
		}),
		func(ctx context.Context) error {
			return s.backend.RecoverInvestor(ctx, id)
		})
	if err != nil {
		return s.handleError(ctx, "recover investor", err)
	}

	s.invalidateInvestor(id)
	s.cache.Invalidate(cache.DashboardKey())
	zap.L().Info("Investor recovered", zap.String("investor_id", id))
	return nil
}

func (s *BackOfficeService) invalidateInvestor(id string) {
	s.cache.Invalidate(cache.InvestorsKey())
	s.cache.Invalidate(cache.InvestorKey(id))
}
