package api

import (
	"maps"
	"strconv"
	"strings"

	"investment-backoffice-go/internal/calc"
	"investment-backoffice-go/internal/models"
	"investment-backoffice-go/internal/validation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const pendingPrefix = "pending-"

// pendingId is the placeholder id of an optimistically created row
func pendingId() string {
	return pendingPrefix + uuid.NewString()
}

// IsPending reports whether id belongs to a row the backend has not confirmed yet
func IsPending(id string) bool {
	return strings.HasPrefix(id, pendingPrefix)
}

// investorInput validates the investor form. The bankName/accountNumber
// fields hold the first bank account; extra holds the rest.
func investorInput(values map[string]string, extra []models.BankAccount) (models.InvestorInput, error) {
	errs := validation.InvestorRules.Validate(values)

	banks := append([]models.BankAccount{{
		BankName:      strings.TrimSpace(values["bankName"]),
		AccountNumber: strings.TrimSpace(values["accountNumber"]),
	}}, extra...)
	for field, msg := range validation.ValidateBanks(banks) {
		if field == "bank[0].bankName" || field == "bank[0].accountNumber" {
			continue
		}
		errs[field] = msg
	}
	if err := errs.OrNil(); err != nil {
		return models.InvestorInput{}, err
	}

	code, err := strconv.Atoi(strings.TrimSpace(values["code"]))
	if err != nil {
		return models.InvestorInput{}, validation.FieldErrors{"code": "Code must be a number"}
	}
	balance, err := decimal.NewFromString(strings.TrimSpace(values["balance"]))
	if err != nil {
		return models.InvestorInput{}, validation.FieldErrors{"balance": "Balance must be a number"}
	}

	return models.InvestorInput{
		Name:    strings.TrimSpace(values["name"]),
		Email:   strings.TrimSpace(values["email"]),
		Code:    code,
		Phone:   strings.TrimSpace(values["phone"]),
		Address: strings.TrimSpace(values["address"]),
		Bank:    banks,
		Balance: balance,
	}, nil
}

// InvestorValues returns the form values prefilled from an existing investor
func InvestorValues(inv models.Investor) map[string]string {
	values := map[string]string{
		"name":    inv.Name,
		"email":   inv.Email,
		"code":    strconv.Itoa(inv.Code),
		"phone":   inv.Phone,
		"address": inv.Address,
		"balance": inv.Balance.String(),
	}
	if bank, ok := inv.PrimaryBank(); ok {
		values["bankName"] = bank.BankName
		values["accountNumber"] = bank.AccountNumber
	}
	return values
}

func agentInput(investorId string, values map[string]string) (models.AgentInput, error) {
	if err := validation.AgentRules.Validate(values).OrNil(); err != nil {
		return models.AgentInput{}, err
	}
	return models.AgentInput{
		Name:       strings.TrimSpace(values["name"]),
		Phone:      strings.TrimSpace(values["phone"]),
		Address:    strings.TrimSpace(values["address"]),
		InvestorId: investorId,
	}, nil
}

// investmentInput validates the investment form and derives the stored rate
// fraction and the value on maturity from the typed percentage.
func investmentInput(investorId string, bank models.BankAccount, values map[string]string) (models.InvestmentInput, error) {
	if err := validation.InvestmentRules.Validate(values).OrNil(); err != nil {
		return models.InvestmentInput{}, err
	}

	kind, err := models.ParseInvestmentType(values["type"])
	if err != nil {
		return models.InvestmentInput{}, validation.FieldErrors{"type": "Investment Type must be a valid type"}
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(values["amount"]))
	if err != nil {
		return models.InvestmentInput{}, validation.FieldErrors{"amount": "Investment Amount must be a number"}
	}
	percent, err := decimal.NewFromString(strings.TrimSpace(values["interestRate"]))
	if err != nil {
		return models.InvestmentInput{}, validation.FieldErrors{"interestRate": "Investment Interest Rate must be a number"}
	}
	redemption, err := validation.ParseDate(values["redemptionDate"])
	if err != nil {
		return models.InvestmentInput{}, validation.FieldErrors{"redemptionDate": "Investment Redemption Date must be a date"}
	}

	rate := calc.PercentToFraction(percent)
	input := models.InvestmentInput{
		Type:            kind,
		Amount:          amount,
		InterestRate:    rate,
		ValueOnMaturity: calc.MaturityValue(amount, rate),
		RedemptionDate:  redemption,
		Bank:            bank,
		InvestorId:      investorId,
	}
	if customId := strings.TrimSpace(values["customId"]); customId != "" {
		input.CustomId = &customId
	}
	return input, nil
}

// InvestmentValues returns the form values prefilled from an investment, with
// the rate shown as a percentage
func InvestmentValues(inv models.Investment) map[string]string {
	values := map[string]string{
		"type":           string(inv.Type),
		"amount":         inv.Amount.String(),
		"interestRate":   calc.FractionToPercent(inv.InterestRate).String(),
		"redemptionDate": inv.RedemptionDate.Format("2006-01-02"),
	}
	if inv.CustomId != nil {
		values["customId"] = *inv.CustomId
	}
	return values
}

// mergeValues overlays changes on base without touching either map
func mergeValues(base, changes map[string]string) map[string]string {
	out := maps.Clone(base)
	if out == nil {
		out = map[string]string{}
	}
	maps.Copy(out, changes)
	return out
}

func redeemValue(inv models.Investment, raw string) (decimal.Decimal, error) {
	values := map[string]string{"valueOnMaturity": strings.TrimSpace(raw)}
	if err := validation.RedeemRules(inv.Amount).Validate(values).OrNil(); err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(values["valueOnMaturity"])
}
