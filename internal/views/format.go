package views

import (
	"time"

	"investment-backoffice-go/internal/calc"
	"investment-backoffice-go/internal/models"

	"github.com/shopspring/decimal"
)

const (
	Currency = "جنيه"
	yes      = "نعم"
	no       = "لا"
	Missing  = "N/A"
)

// InvestmentHeaders are the investment table columns after the optional investor column
var InvestmentHeaders = []string{
	"نوع الاستثمار",
	"المبلغ",
	"الفائدة",
	"تاريخ الإصدار",
	"تاريخ الاستحقاق",
	"تم الاسترداد",
	"البنك",
	"القيمة عند الاستحقاق",
	"رقم الاستثمار",
	"العائد على الاستثمار",
}

const InvestorNameHeader = "اسم المستثمر"

// InvestorHeaders are the investor table columns
var InvestorHeaders = []string{
	"كود",
	"اسم",
	"معلومات التواصل",
	"معلومات البنكية",
	"رصيد",
	"نسبة العائد الاستثماري",
	"الحالة",
}

func YesNo(b bool) string {
	if b {
		return yes
	}
	return no
}

// Percent renders a stored fraction as a percentage
func Percent(fraction decimal.Decimal) string {
	return calc.FractionToPercent(fraction).String() + "%"
}

func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func Date(t time.Time) string {
	if t.IsZero() {
		return Missing
	}
	return t.Local().Format("2006-01-02")
}

// OptionalPercent renders a backend-computed percentage, N/A when absent
func OptionalPercent(d *decimal.Decimal) string {
	if d == nil {
		return Missing
	}
	return d.StringFixed(2) + "٪"
}

// ShortId abbreviates a uuid for table output
func ShortId(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// HasInvestorColumn reports whether the first row carries an investor name
func HasInvestorColumn(list []models.Investment) bool {
	return len(list) > 0 && list[0].Investor != nil && list[0].Investor.Name != ""
}

// InvestmentRow returns the display cells of one investment, in header order
func InvestmentRow(inv models.Investment, withInvestor bool) []string {
	var row []string
	if withInvestor {
		name := ""
		if inv.Investor != nil {
			name = inv.Investor.Name
		}
		row = append(row, name)
	}
	customId := Missing
	if inv.CustomId != nil && *inv.CustomId != "" {
		customId = *inv.CustomId
	}
	return append(row,
		inv.Type.Label(),
		Money(inv.Amount),
		Percent(inv.InterestRate),
		Date(inv.CreatedAt),
		Date(inv.RedemptionDate),
		YesNo(inv.Redeemed),
		inv.Bank.BankName,
		Money(inv.ValueOnMaturity)+" "+Currency,
		customId,
		OptionalPercent(inv.ROI),
	)
}
