package common

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"investment-backoffice-go/internal/models"

	"github.com/shopspring/decimal"
)

func TestRenderInvestorDetail(t *testing.T) {
	var buf bytes.Buffer
	now := time.Now()
	err := RenderInvestorDetail(&buf,
		models.Investor{Name: "Sara", Code: 7, Bank: []models.BankAccount{{BankName: "NBE", AccountNumber: "123"}}},
		[]models.Investment{
			{Id: "a", Amount: decimal.NewFromInt(1000)},
			{Id: "b", Amount: decimal.NewFromInt(500), Redeemed: true},
		},
		[]models.Agent{{Name: "Active Agent"}, {Name: "Gone Agent", DeletedAt: &now}},
	)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	out := buf.String()
	for _, s := range []string{"Sara (7)", "Outstanding: 1000.00", "Investments: 2 (1 redeemed)", "Agents (1)", "Active Agent", "NBE 123"} {
		if !strings.Contains(out, s) {
			t.Errorf("output missing %q:\n%s", s, out)
		}
	}
	if strings.Contains(out, "Gone Agent") {
		t.Error("unlinked agents must be hidden")
	}
}

func TestRenderInvestments_InvestorColumn(t *testing.T) {
	var buf bytes.Buffer
	list := []models.Investment{{Id: "inv-1", Amount: decimal.NewFromInt(10), Investor: &models.InvestorRef{Name: "Omar"}}}
	if err := RenderInvestments(&buf, "All", list); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(buf.String(), "اسم المستثمر") || !strings.Contains(buf.String(), "Omar") {
		t.Errorf("expected investor column:\n%s", buf.String())
	}

	buf.Reset()
	list[0].Investor = nil
	if err := RenderInvestments(&buf, "One", list); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if strings.Contains(buf.String(), "اسم المستثمر") {
		t.Errorf("investor column should be hidden:\n%s", buf.String())
	}
}

func TestRenderDashboard(t *testing.T) {
	var buf bytes.Buffer
	roi := decimal.RequireFromString("11.456")
	if err := RenderDashboard(&buf, models.Aggregate{TotalProfit: decimal.NewFromInt(250), AvgROI: &roi}); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	out := buf.String()
	for _, s := range []string{"إجمالي الأرباح", "250.00", "11.46%", "0.00"} {
		if !strings.Contains(out, s) {
			t.Errorf("output missing %q:\n%s", s, out)
		}
	}
}
