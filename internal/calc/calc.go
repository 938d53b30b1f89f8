// Package calc holds the derived financial fields computed on the client:
// maturity value at submit time and the summaries shown above investment tables.
// Server aggregates (/investment/aggregate) remain the source of truth.
package calc

import (
	"investment-backoffice-go/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PercentToFraction converts a user-entered percentage (12.5) to the stored fraction (0.125)
func PercentToFraction(percent decimal.Decimal) decimal.Decimal {
	return percent.Div(hundred)
}

// FractionToPercent converts a stored fraction back to the percentage shown in forms
func FractionToPercent(fraction decimal.Decimal) decimal.Decimal {
	return fraction.Mul(hundred)
}

// MaturityValue returns amount * (1 + rate) where rate is a fraction
func MaturityValue(amount, rateFraction decimal.Decimal) decimal.Decimal {
	return amount.Mul(decimal.NewFromInt(1).Add(rateFraction))
}

// AverageROI is the mean ROI over investments that carry one. ok is false when
// no investment has an ROI.
func AverageROI(investments []models.Investment) (avg decimal.Decimal, ok bool) {
	sum := decimal.Zero
	count := 0
	for _, inv := range investments {
		if inv.ROI == nil {
			continue
		}
		sum = sum.Add(*inv.ROI)
		count++
	}
	if count == 0 {
		return decimal.Zero, false
	}
	return sum.Div(decimal.NewFromInt(int64(count))), true
}

// TotalOutstanding sums the amount of every investment not yet redeemed
func TotalOutstanding(investments []models.Investment) decimal.Decimal {
	total := decimal.Zero
	for _, inv := range investments {
		if inv.Redeemed {
			continue
		}
		total = total.Add(inv.Amount)
	}
	return total
}

// Summary is the header block of an investor detail screen
type Summary struct {
	TotalOutstanding decimal.Decimal
	AverageROI       decimal.Decimal
	HasROI           bool
	Count            int
	Redeemed         int
}

// Summarize computes the summary of the currently loaded investments
func Summarize(investments []models.Investment) Summary {
	s := Summary{
		TotalOutstanding: TotalOutstanding(investments),
		Count:            len(investments),
	}
	s.AverageROI, s.HasROI = AverageROI(investments)
	for _, inv := range investments {
		if inv.Redeemed {
			s.Redeemed++
		}
	}
	return s
}
