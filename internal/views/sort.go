package views

import (
	"errors"
	"slices"
	"time"

	"investment-backoffice-go/internal/models"
)

// RangeMessage is the localized text shown for ErrStartAfterEnd
const RangeMessage = "يجب أن يكون تاريخ البدء قبل تاريخ الانتهاء"

var ErrStartAfterEnd = errors.New("start must precede end")

// SortDirection of the amount column. The zero value keeps server order.
type SortDirection string

const (
	SortNone SortDirection = ""
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ParseSortDirection accepts "", "asc" and "desc"
func ParseSortDirection(s string) (SortDirection, error) {
	switch d := SortDirection(s); d {
	case SortNone, SortAsc, SortDesc:
		return d, nil
	}
	return SortNone, errors.New("sort must be asc or desc")
}

// SortToggle returns the next direction when the amount header is clicked
func SortToggle(d SortDirection) SortDirection {
	if d == SortAsc {
		return SortDesc
	}
	return SortAsc
}

// SortByAmount returns a sorted copy of list. Ascending is stable; descending
// is the exact reverse of ascending, ties included.
func SortByAmount(list []models.Investment, dir SortDirection) []models.Investment {
	out := slices.Clone(list)
	if dir == SortNone {
		return out
	}

	slices.SortStableFunc(out, func(a, b models.Investment) int {
		return a.Amount.Cmp(b.Amount)
	})
	if dir == SortDesc {
		slices.Reverse(out)
	}
	return out
}

// midnight truncates t to the start of its day in its own location
func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ValidateRange normalizes both bounds to midnight and rejects a start after
// the end. Open bounds are allowed.
func ValidateRange(r models.DateRange) (models.DateRange, error) {
	var out models.DateRange
	if r.Start != nil {
		start := midnight(*r.Start)
		out.Start = &start
	}
	if r.End != nil {
		end := midnight(*r.End)
		out.End = &end
	}
	if out.Start != nil && out.End != nil && out.Start.After(*out.End) {
		return models.DateRange{}, ErrStartAfterEnd
	}
	return out, nil
}

// InvestmentActions are the row buttons of an investment
type InvestmentActions struct {
	Edit   bool
	Delete bool
	Redeem bool
}

// RowActions disables every action of a redeemed investment
func RowActions(inv models.Investment) InvestmentActions {
	enabled := !inv.Redeemed
	return InvestmentActions{Edit: enabled, Delete: enabled, Redeem: enabled}
}

// InvestorActions are the row buttons of an investor
type InvestorActions struct {
	Edit    bool
	Delete  bool
	Recover bool
}

func InvestorRowActions(inv models.Investor) InvestorActions {
	if inv.IsDeleted() {
		return InvestorActions{Recover: true}
	}
	return InvestorActions{Edit: true, Delete: true}
}

// ActiveAgents drops unlinked agents
func ActiveAgents(agents []models.Agent) []models.Agent {
	out := make([]models.Agent, 0, len(agents))
	for _, a := range agents {
		if !a.IsDeleted() {
			out = append(out, a)
		}
	}
	return out
}
