package api

import (
	"context"
	"fmt"
	"time"

	"investment-backoffice-go/internal/cache"
	"investment-backoffice-go/internal/models"
	"investment-backoffice-go/internal/views"

	"go.uber.org/zap"
)

func rangeSegment(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}

// investmentsKey keeps each filtered list apart from the unfiltered one
func investmentsKey(investorId string, filter models.InvestmentFilter) cache.Key {
	if filter.Range.IsZero() {
		return cache.InvestmentsKey(investorId)
	}
	return cache.FilteredInvestmentsKey(investorId, string(filter.FilterType),
		rangeSegment(filter.Range.Start), rangeSegment(filter.Range.End))
}

// ListInvestments returns the investments of one investor, or every
// investment with investor names when investorId is empty. A filtered
// request always goes to the backend and is cached under its own key.
func (s *BackOfficeService) ListInvestments(ctx context.Context, investorId string, filter models.InvestmentFilter) ([]models.Investment, error) {
	ctx = withOperation(ctx, "investment.list")
	filterType, err := models.ParseDateFilterType(string(filter.FilterType))
	if err != nil {
		return nil, err
	}
	r, err := views.ValidateRange(filter.Range)
	if err != nil {
		return nil, err
	}

	filter.Range = r
	filter.InvestorId = investorId
	filter.WithInvestor = investorId == ""
	filter.FilterType = filterType

	key := investmentsKey(investorId, filter)
	if !r.IsZero() {
		s.cache.CancelFetches(key)
		s.cache.Invalidate(key)
	}

	list, err := cache.FetchAs(ctx, s.cache, key, func(ctx context.Context) ([]models.Investment, error) {
		return s.backend.ListInvestments(ctx, filter)
	})
	if err != nil {
		return nil, s.handleError(ctx, "list investments", err)
	}
	return list, nil
}

// Sort orders a list by amount without touching the cached copy
func (s *BackOfficeService) Sort(list []models.Investment, dir views.SortDirection) []models.Investment {
	return views.SortByAmount(list, dir)
}

// CreateInvestment adds an investment to investor, snapshotting its primary bank account
func (s *BackOfficeService) CreateInvestment(ctx context.Context, investor models.Investor, values map[string]string) (*models.Investment, error) {
	ctx = withOperation(ctx, "investment.create")
	bank, ok := investor.PrimaryBank()
	if !ok {
		return nil, ErrNoBankAccount
	}
	input, err := investmentInput(investor.Id, bank, values)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	placeholder := models.Investment{
		Id:              pendingId(),
		Type:            input.Type,
		Amount:          input.Amount,
		InterestRate:    input.InterestRate,
		ValueOnMaturity: input.ValueOnMaturity,
		RedemptionDate:  input.RedemptionDate,
		Bank:            input.Bank,
		CustomId:        input.CustomId,
		InvestorId:      investor.Id,
		CreatedAt:       now,
		UpdatedAt:       now,
		Investor:        &models.InvestorRef{Name: investor.Name},
	}

	var created *models.Investment
	err = s.mutateInvestments(ctx, investor.Id,
		cache.ListTransform(func(list []models.Investment) []models.Investment {
			return cache.Append(list, placeholder)
		}),
		func(ctx context.Context) error {
			created, err = s.backend.CreateInvestment(ctx, input)
			return err
		})
	if err != nil {
		return nil, s.handleError(ctx, "create investment", err)
	}

	zap.L().Info("Investment created",
		zap.String("investor_id", investor.Id),
		zap.String("type", string(input.Type)),
		zap.String("amount", input.Amount.String()))
	return created, nil
}

// UpdateInvestment applies changes on top of the current values of inv
func (s *BackOfficeService) UpdateInvestment(ctx context.Context, inv models.Investment, changes map[string]string) (*models.Investment, error) {
	ctx = withOperation(ctx, "investment.update")
	if inv.Redeemed {
		return nil, ErrRedeemed
	}
	input, err := investmentInput(inv.InvestorId, inv.Bank, mergeValues(InvestmentValues(inv), changes))
	if err != nil {
		return nil, err
	}

	var updated *models.Investment
	err = s.mutateInvestments(ctx, inv.InvestorId,
		cache.ListTransform(func(list []models.Investment) []models.Investment {
			return cache.ReplaceWhere(list, byId(inv.Id), func(i models.Investment) models.Investment {
				i.Type, i.Amount, i.InterestRate = input.Type, input.Amount, input.InterestRate
				i.ValueOnMaturity, i.RedemptionDate, i.CustomId = input.ValueOnMaturity, input.RedemptionDate, input.CustomId
				return i
			})
		}),
		func(ctx context.Context) error {
			updated, err = s.backend.UpdateInvestment(ctx, inv.Id, input)
			return err
		})
	if err != nil {
		return nil, s.handleError(ctx, "update investment", err)
	}
	return updated, nil
}

// DeleteInvestment removes an open investment
func (s *BackOfficeService) DeleteInvestment(ctx context.Context, inv models.Investment) error {
	ctx = withOperation(ctx, "investment.delete")
	if inv.Redeemed {
		return ErrRedeemed
	}

	err := s.mutateInvestments(ctx, inv.InvestorId,
		cache.ListTransform(func(list []models.Investment) []models.Investment {
			return cache.RemoveWhere(list, byId(inv.Id))
		}),
		func(ctx context.Context) error {
			return s.backend.DeleteInvestment(ctx, inv.Id)
		})
	if err != nil {
		return s.handleError(ctx, "delete investment", err)
	}

	zap.L().Info("Investment deleted", zap.String("investment_id", inv.Id))
	return nil
}

// RedeemInvestment redeems inv early for the given value, which may not be
// below the invested amount
func (s *BackOfficeService) RedeemInvestment(ctx context.Context, inv models.Investment, rawValue string) (*models.Investment, error) {
	ctx = withOperation(ctx, "investment.redeem")
	if inv.Redeemed {
		return nil, ErrRedeemed
	}
	value, err := redeemValue(inv, rawValue)
	if err != nil {
		return nil, err
	}

	var redeemed *models.Investment
	err = s.mutateInvestments(ctx, inv.InvestorId,
		cache.ListTransform(func(list []models.Investment) []models.Investment {
			return cache.ReplaceWhere(list, byId(inv.Id), func(i models.Investment) models.Investment {
				i.Redeemed = true
				i.ValueOnMaturity = value
				return i
			})
		}),
		func(ctx context.Context) error {
			redeemed, err = s.backend.RedeemInvestment(ctx, inv.Id, models.RedeemInput{ValueOnMaturity: value})
			return err
		})
	if err != nil {
		return nil, s.handleError(ctx, "redeem investment", err)
	}

	zap.L().Info("Investment redeemed",
		zap.String("investment_id", inv.Id),
		zap.String("value", value.String()))
	return redeemed, nil
}

// FindInvestment looks id up in a cached investment list
func (s *BackOfficeService) FindInvestment(investorId, id string) (models.Investment, error) {
	for _, key := range []cache.Key{cache.InvestmentsKey(investorId), cache.InvestmentsKey("")} {
		list, ok := cache.GetAs[[]models.Investment](s.cache, key)
		if !ok {
			continue
		}
		for _, inv := range list {
			if inv.Id == id {
				return inv, nil
			}
		}
	}
	return models.Investment{}, fmt.Errorf("%w: %s", ErrInvestmentNotFound, id)
}

func byId(id string) func(models.Investment) bool {
	return func(i models.Investment) bool { return i.Id == id }
}

// mutateInvestments applies transform to the investor's list and to the global
// list, restores both when request fails and invalidates every view derived
// from investments either way
func (s *BackOfficeService) mutateInvestments(ctx context.Context, investorId string, transform cache.Transform, request func(ctx context.Context) error) error {
	keys := []cache.Key{cache.InvestmentsKey(investorId)}
	if investorId != "" {
		keys = append(keys, cache.InvestmentsKey(""))
	}

	defer func() {
		s.cache.Invalidate(cache.InvestmentsKey(""))
		s.cache.Invalidate(cache.DashboardKey())
		s.cache.Invalidate(cache.InvestorsKey())
		if investorId != "" {
			s.cache.Invalidate(cache.InvestorKey(investorId))
		}
	}()

	txs := make([]*cache.Transaction, 0, len(keys))
	succeeded := false
	defer func() {
		for _, tx := range txs {
			cache.Settle(tx, succeeded)
		}
	}()

	for _, key := range keys {
		tx := s.cache.Begin(key)
		txs = append(txs, tx)
		if err := tx.Apply(transform); err != nil {
			return err
		}
	}

	if err := request(ctx); err != nil {
		zap.L().Warn("Investment mutation failed, restoring cached lists",
			zap.String("investor_id", investorId),
			zap.Error(err))
		return err
	}
	succeeded = true
	return nil
}
