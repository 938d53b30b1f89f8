package common

import (
	"flag"
	"fmt"
	"strings"

	"investment-backoffice-go/internal/models"
	"investment-backoffice-go/internal/validation"
)

// FormValues collects the flags set on the command line into form values.
// fields maps a flag name to its form field name.
func FormValues(fs *flag.FlagSet, fields map[string]string) map[string]string {
	values := map[string]string{}
	fs.Visit(func(f *flag.Flag) {
		if field, ok := fields[f.Name]; ok {
			values[field] = f.Value.String()
		}
	})
	return values
}

// ParseRange parses optional -start/-end flag values
func ParseRange(start, end string) (models.DateRange, error) {
	var r models.DateRange
	if start != "" {
		t, err := validation.ParseDate(start)
		if err != nil {
			return r, fmt.Errorf("invalid start date: %w", err)
		}
		r.Start = &t
	}
	if end != "" {
		t, err := validation.ParseDate(end)
		if err != nil {
			return r, fmt.Errorf("invalid end date: %w", err)
		}
		r.End = &t
	}
	return r, nil
}

// ParseBanks parses "Bank:Account,Bank:Account"
func ParseBanks(raw string) ([]models.BankAccount, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var banks []models.BankAccount
	for _, entry := range strings.Split(raw, ",") {
		name, account, ok := strings.Cut(strings.TrimSpace(entry), ":")
		if !ok {
			return nil, fmt.Errorf("bank entry %q must be Bank:Account", entry)
		}
		banks = append(banks, models.BankAccount{BankName: strings.TrimSpace(name), AccountNumber: strings.TrimSpace(account)})
	}
	return banks, nil
}
