package common

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"investment-backoffice-go/internal/calc"
	"investment-backoffice-go/internal/models"
	"investment-backoffice-go/internal/views"

	"github.com/shopspring/decimal"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func writeRow(tw *tabwriter.Writer, cells []string) {
	fmt.Fprintln(tw, strings.Join(cells, "\t"))
}

// RenderInvestments writes the investment table
func RenderInvestments(w io.Writer, title string, list []models.Investment) error {
	PrintHeader(w, title, WideWidth)
	if len(list) == 0 {
		fmt.Fprintln(w, "No investments found")
		return nil
	}

	withInvestor := views.HasInvestorColumn(list)
	tw := newTable(w)
	header := []string{"#"}
	if withInvestor {
		header = append(header, views.InvestorNameHeader)
	}
	writeRow(tw, append(header, views.InvestmentHeaders...))
	for _, inv := range list {
		writeRow(tw, append([]string{views.ShortId(inv.Id)}, views.InvestmentRow(inv, withInvestor)...))
	}
	return tw.Flush()
}

// RenderInvestors writes the investor table
func RenderInvestors(w io.Writer, list []models.Investor) error {
	PrintHeader(w, fmt.Sprintf("Investors (%d)", len(list)), WideWidth)
	if len(list) == 0 {
		fmt.Fprintln(w, "No investors found")
		return nil
	}

	tw := newTable(w)
	writeRow(tw, append([]string{"#"}, views.InvestorHeaders...))
	for _, inv := range list {
		bank := views.Missing
		if primary, ok := inv.PrimaryBank(); ok {
			bank = primary.BankName + " " + primary.AccountNumber
		}
		status := ""
		if inv.IsDeleted() {
			status = "محذوف"
		}
		writeRow(tw, []string{
			views.ShortId(inv.Id),
			fmt.Sprintf("%d", inv.Code),
			inv.Name,
			inv.Phone + " " + inv.Email,
			bank,
			views.Money(inv.Balance),
			views.OptionalPercent(inv.ROI),
			status,
		})
	}
	return tw.Flush()
}

// RenderInvestorDetail writes the investor card, the investment summary and the agents
func RenderInvestorDetail(w io.Writer, investor models.Investor, investments []models.Investment, agents []models.Agent) error {
	PrintHeader(w, fmt.Sprintf("%s (%d)", investor.Name, investor.Code), DefaultWidth)
	fmt.Fprintf(w, "Email:   %s\n", investor.Email)
	fmt.Fprintf(w, "Phone:   %s\n", investor.Phone)
	fmt.Fprintf(w, "Address: %s\n", investor.Address)
	fmt.Fprintf(w, "Balance: %s %s\n", views.Money(investor.Balance), views.Currency)

	PrintBoxSeparator(w, 40)
	for i, bank := range investor.Bank {
		fmt.Fprintf(w, "%s%s %s\n", BoxPrefix(i == len(investor.Bank)-1), bank.BankName, bank.AccountNumber)
	}

	summary := calc.Summarize(investments)
	PrintBoxSeparator(w, 40)
	fmt.Fprintf(w, "Outstanding: %s %s\n", views.Money(summary.TotalOutstanding), views.Currency)
	if summary.HasROI {
		fmt.Fprintf(w, "Average ROI: %s%%\n", summary.AverageROI.StringFixed(2))
	} else {
		fmt.Fprintf(w, "Average ROI: %s\n", views.Missing)
	}
	fmt.Fprintf(w, "Investments: %d (%d redeemed)\n", summary.Count, summary.Redeemed)

	if err := RenderAgents(w, agents); err != nil {
		return err
	}
	return RenderInvestments(w, "Investments", investments)
}

// RenderAgents writes the linked agents of an investor
func RenderAgents(w io.Writer, agents []models.Agent) error {
	active := views.ActiveAgents(agents)
	PrintBoxSeparator(w, 40)
	fmt.Fprintf(w, "Agents (%d)\n", len(active))
	for i, a := range active {
		last := i == len(active)-1
		fmt.Fprintf(w, "%s%s [%s]\n", BoxPrefix(last), a.Name, views.ShortId(a.Id))
		fmt.Fprintf(w, "%s  %s, %s\n", BoxDetailPrefix(last), a.Phone, a.Address)
	}
	return nil
}

// RenderDashboard writes the aggregate cards
func RenderDashboard(w io.Writer, agg models.Aggregate) error {
	PrintHeader(w, "ملخص الاستثمارات", DefaultWidth)

	zeroIfNil := func(d *decimal.Decimal) decimal.Decimal {
		if d == nil {
			return decimal.Zero
		}
		return *d
	}

	tw := newTable(w)
	writeRow(tw, []string{"إجمالي رصيد", views.Money(zeroIfNil(agg.TotalInvestorsBalance))})
	writeRow(tw, []string{"إجمالي الأرباح", views.Money(agg.TotalProfit)})
	writeRow(tw, []string{"متوسط العائد السنوي", zeroIfNil(agg.AvgROI).StringFixed(2) + "%"})
	writeRow(tw, []string{"متوسط الفائدة السنوية", zeroIfNil(agg.AvgInterestRate).StringFixed(2) + "%"})
	return tw.Flush()
}
