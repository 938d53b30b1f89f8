package api

import (
	"context"
	"errors"

	"investment-backoffice-go/internal/cache"
	"investment-backoffice-go/internal/models"
	"investment-backoffice-go/internal/views"
)

// RangeIncompleteMessage is the localized text shown for ErrRangeIncomplete
const RangeIncompleteMessage = "يجب اختيار تاريخين"

var ErrRangeIncomplete = errors.New("both dates are required")

func dashboardKey(r models.DateRange) cache.Key {
	if r.IsZero() {
		return cache.DashboardKey()
	}
	return cache.NewKey(cache.DashboardKey().String(),
		r.Start.Format("2006-01-02"),
		r.End.Format("2006-01-02"))
}

// Aggregate returns the dashboard summary over every investment, or over a
// closed date range
func (s *BackOfficeService) Aggregate(ctx context.Context, r models.DateRange) (*models.Aggregate, error) {
	ctx = withOperation(ctx, "investment.aggregate")
	if !r.IsZero() && (r.Start == nil || r.End == nil) {
		return nil, ErrRangeIncomplete
	}
	r, err := views.ValidateRange(r)
	if err != nil {
		return nil, err
	}

	agg, err := cache.FetchAs(ctx, s.cache, dashboardKey(r), func(ctx context.Context) (*models.Aggregate, error) {
		return s.backend.Aggregate(ctx, r)
	})
	if err != nil {
		return nil, s.handleError(ctx, "aggregate", err)
	}
	return agg, nil
}
