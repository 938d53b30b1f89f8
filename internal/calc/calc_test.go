package calc

import (
	"testing"

	"investment-backoffice-go/internal/models"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestPercentToFraction(t *testing.T) {
	for p := int64(1); p <= 100; p++ {
		percent := decimal.NewFromInt(p)
		fraction := PercentToFraction(percent)
		if !fraction.Mul(decimal.NewFromInt(100)).Equal(percent) {
			t.Fatalf("PercentToFraction(%d) = %s", p, fraction)
		}
		if !FractionToPercent(fraction).Equal(percent) {
			t.Fatalf("round trip of %d gave %s", p, FractionToPercent(fraction))
		}
	}

	if got := PercentToFraction(dec("12.5")); !got.Equal(dec("0.125")) {
		t.Errorf("expected 0.125, got %s", got)
	}
}

func TestMaturityValue(t *testing.T) {
	tests := []struct {
		amount  string
		percent string
		want    string
	}{
		{"10000", "10", "11000"},
		{"10000", "100", "20000"},
		{"2500.50", "12.5", "2813.0625"},
		{"1", "1", "1.01"},
	}
	for _, tt := range tests {
		got := MaturityValue(dec(tt.amount), PercentToFraction(dec(tt.percent)))
		if !got.Equal(dec(tt.want)) {
			t.Errorf("MaturityValue(%s, %s%%) = %s, want %s", tt.amount, tt.percent, got, tt.want)
		}
	}
}

func TestTotalOutstanding_ExcludesRedeemed(t *testing.T) {
	investments := []models.Investment{
		{Amount: dec("1000")},
		{Amount: dec("2000"), Redeemed: true},
		{Amount: dec("3000")},
		{Amount: dec("4000"), Redeemed: true},
	}

	got := TotalOutstanding(investments)
	if !got.Equal(dec("4000")) {
		t.Errorf("expected 4000, got %s", got)
	}

	if !TotalOutstanding(nil).IsZero() {
		t.Error("empty list should total zero")
	}
}

func TestAverageROI_IgnoresMissing(t *testing.T) {
	investments := []models.Investment{
		{ROI: decPtr("10")},
		{ROI: nil},
		{ROI: decPtr("20")},
	}

	avg, ok := AverageROI(investments)
	if !ok {
		t.Fatal("expected an average")
	}
	if !avg.Equal(dec("15")) {
		t.Errorf("expected 15, got %s", avg)
	}

	if _, ok := AverageROI([]models.Investment{{}}); ok {
		t.Error("no ROI values should yield ok=false")
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]models.Investment{
		{Amount: dec("500"), ROI: decPtr("8")},
		{Amount: dec("700"), Redeemed: true, ROI: decPtr("12")},
	})

	if s.Count != 2 || s.Redeemed != 1 {
		t.Errorf("unexpected counts: %+v", s)
	}
	if !s.TotalOutstanding.Equal(dec("500")) {
		t.Errorf("expected outstanding 500, got %s", s.TotalOutstanding)
	}
	if !s.HasROI || !s.AverageROI.Equal(dec("10")) {
		t.Errorf("expected average ROI 10, got %s (ok=%v)", s.AverageROI, s.HasROI)
	}
}
