package validation

import (
	"errors"
	"testing"
	"time"

	"investment-backoffice-go/internal/models"

	"github.com/shopspring/decimal"
)

func fixedClock(t *testing.T, now time.Time) {
	t.Helper()
	restore := SetClock(func() time.Time { return now })
	t.Cleanup(restore)
}

func TestValidateField_Investor(t *testing.T) {
	tests := []struct {
		field string
		value string
		want  string
	}{
		{"name", "Jo", ""},
		{"name", "J", "Name must contain at least 2 character(s)"},
		{"name", "", "Name is Required"},
		{"email", "jo@example.com", ""},
		{"email", "not-an-email", "Invalid email"},
		{"code", "42", ""},
		{"code", "4x2", "Code must be a number"},
		{"phone", "0123456789", ""},
		{"phone", "012345", "Number must be at least 10 digits"},
		{"phone", "0123456789012", "Number must be less than 12 digits"},
		{"balance", "1500.25", ""},
		{"balance", "abc", "Balance must be a number"},
		{"accountNumber", "1", "Account Number must contain at least 2 character(s)"},
		{"unknownField", "anything", ""},
	}
	for _, tt := range tests {
		if got := ValidateField(InvestorRules, tt.field, tt.value); got != tt.want {
			t.Errorf("ValidateField(investor, %q, %q) = %q, want %q", tt.field, tt.value, got, tt.want)
		}
	}
}

func TestValidateField_InterestRateBounds(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"1", ""},
		{"12.5", ""},
		{"100", ""},
		{"0.5", "Investment Interest Rate must be greater than 1"},
		{"100.01", "Investment Interest Rate must be less than 100"},
		{"ten", "Investment Interest Rate must be a number"},
	}
	for _, tt := range tests {
		if got := ValidateField(InvestmentRules, "interestRate", tt.value); got != tt.want {
			t.Errorf("interestRate %q = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestValidateField_RedemptionDateMustBeFuture(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 30, 0, 0, time.Local)
	fixedClock(t, now)

	tests := []struct {
		value string
		valid bool
	}{
		{"2024-06-14", false},
		{"2024-06-15", false}, // today at midnight is already in the past
		{"2024-06-16", true},
		{"2030-01-01", true},
		{"not a date", false},
	}
	for _, tt := range tests {
		got := ValidateField(InvestmentRules, "redemptionDate", tt.value)
		if (got == "") != tt.valid {
			t.Errorf("redemptionDate %q: got %q, want valid=%v", tt.value, got, tt.valid)
		}
	}
}

func TestValidateField_Password(t *testing.T) {
	tests := []struct {
		password string
		valid    bool
	}{
		{"Abcdef1!", true},
		{"Abcdef1!Abcdef1!Abcdef1!", true},
		{"Abcdef1!Abcdef1!Abcdef1!xy", false}, // 26 characters
		{"Abcde1!", false},
		{"abcdef1!", false},
		{"ABCDEF1!", false},
		{"Abcdefg!", false},
		{"Abcdefg1", false},
		{"Abcdef1_", false}, // underscore is a word character, not a symbol
	}
	for _, tt := range tests {
		got := ValidateField(RegisterRules, "password", tt.password)
		if (got == "") != tt.valid {
			t.Errorf("password %q: got %q, want valid=%v", tt.password, got, tt.valid)
		}
	}
}

func TestRedeemRules_RejectsBelowMinimum(t *testing.T) {
	rules := RedeemRules(decimal.NewFromInt(10000))

	if msg := ValidateField(rules, "valueOnMaturity", "5000"); msg != "value is below the minimum of 10000" {
		t.Errorf("unexpected message for 5000: %q", msg)
	}
	if msg := ValidateField(rules, "valueOnMaturity", "10000"); msg != "" {
		t.Errorf("10000 should be accepted, got %q", msg)
	}
	if msg := ValidateField(rules, "valueOnMaturity", "12500.75"); msg != "" {
		t.Errorf("12500.75 should be accepted, got %q", msg)
	}
}

func TestForm_SubmitBlockedWhileInvalid(t *testing.T) {
	form := NewForm(InvestorRules, map[string]string{
		"name":          "Sara Ahmed",
		"email":         "sara@example.com",
		"code":          "17",
		"phone":         "01001234567",
		"address":       "Cairo",
		"balance":       "0",
		"bankName":      "NBE",
		"accountNumber": "1",
	})

	called := false
	err := form.Submit(func(map[string]string) error {
		called = true
		return nil
	})

	if called {
		t.Fatal("submit callback must not run with invalid fields")
	}
	if !errors.Is(err, ErrInvalidForm) {
		t.Fatalf("expected ErrInvalidForm, got %v", err)
	}
	var fe FieldErrors
	if !errors.As(err, &fe) || fe["accountNumber"] == "" {
		t.Fatalf("expected accountNumber error, got %v", err)
	}

	form.Set("accountNumber", "123456")
	if !form.Valid() {
		t.Fatal("changing a field should clear its error")
	}
	err = form.Submit(func(values map[string]string) error {
		called = true
		if values["accountNumber"] != "123456" {
			t.Errorf("callback saw stale value %q", values["accountNumber"])
		}
		return nil
	})
	if err != nil || !called {
		t.Fatalf("expected successful submit, err=%v called=%v", err, called)
	}
}

func TestForm_SubmittingClearedAfterFailure(t *testing.T) {
	form := NewForm(LoginRules, map[string]string{"email": "a@b.co", "password": "x"})
	boom := errors.New("boom")

	err := form.Submit(func(map[string]string) error {
		if !form.Submitting() {
			t.Error("form should report submitting inside the callback")
		}
		if err := form.Submit(func(map[string]string) error { return nil }); !errors.Is(err, ErrSubmitInProgress) {
			t.Errorf("nested submit should be refused, got %v", err)
		}
		return boom
	})

	if !errors.Is(err, boom) {
		t.Fatalf("expected callback error, got %v", err)
	}
	if form.Submitting() {
		t.Fatal("submitting flag must be cleared after the callback returns")
	}
}

func TestForm_Blur(t *testing.T) {
	form := NewForm(AgentRules, nil)
	form.Set("name", "Ali")
	if msg := form.Blur("name"); msg == "" {
		t.Fatal("expected blur error for short agent name")
	}
	if form.Errors()["name"] == "" {
		t.Fatal("blur error should be recorded")
	}
	form.Set("name", "Ali Hassan")
	if msg := form.Blur("name"); msg != "" {
		t.Fatalf("unexpected blur error: %q", msg)
	}
}

func TestValidateBanks(t *testing.T) {
	if errs := ValidateBanks(nil); errs["bank"] == "" {
		t.Error("empty bank list must be rejected")
	}

	errs := ValidateBanks([]models.BankAccount{
		{BankName: "NBE", AccountNumber: "1234"},
		{BankName: "C", AccountNumber: "5678"},
	})
	if len(errs) != 1 || errs["bank[1].bankName"] == "" {
		t.Errorf("expected a single error on bank[1].bankName, got %v", errs)
	}
}
