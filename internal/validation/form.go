package validation

import (
	"fmt"
	"sync"

	"investment-backoffice-go/internal/models"
)

// Form holds the raw input of one screen form. Fields are validated on blur
// and all together on submit; a submit with any invalid field never reaches
// the submit callback.
type Form struct {
	rules RuleSet

	mu         sync.Mutex
	values     map[string]string
	errors     FieldErrors
	submitting bool
}

// NewForm creates a form bound to a rule table with optional initial values
func NewForm(rules RuleSet, initial map[string]string) *Form {
	values := make(map[string]string, len(initial))
	for k, v := range initial {
		values[k] = v
	}
	return &Form{
		rules:  rules,
		values: values,
		errors: FieldErrors{},
	}
}

// Set changes a field value and clears its error until the next blur or submit
func (f *Form) Set(field, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[field] = value
	delete(f.errors, field)
}

// Value returns the raw value of a field
func (f *Form) Value(field string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[field]
}

// Values returns a copy of every raw value
func (f *Form) Values() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// Blur validates a single field and records its error
func (f *Form) Blur(field string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg := ValidateField(f.rules, field, f.values[field])
	if msg == "" {
		delete(f.errors, field)
	} else {
		f.errors[field] = msg
	}
	return msg
}

// SetFieldError records an error produced outside the rule table
func (f *Form) SetFieldError(field, msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors[field] = msg
}

// Errors returns a copy of the current field errors
func (f *Form) Errors() FieldErrors {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(FieldErrors, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

// Valid reports whether no field currently carries an error
func (f *Form) Valid() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.errors) == 0
}

// Submitting reports whether a submit callback is running
func (f *Form) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

// Submit validates every field and, when all pass, runs fn with a copy of the
// values. The submitting flag is cleared whatever fn returns.
func (f *Form) Submit(fn func(values map[string]string) error) error {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return ErrSubmitInProgress
	}
	errs := f.rules.Validate(f.values)
	for field, msg := range f.errors {
		if _, ruled := f.rules.Rule(field); !ruled {
			errs[field] = msg
		}
	}
	f.errors = errs
	if len(errs) > 0 {
		f.mu.Unlock()
		return f.Errors()
	}
	values := make(map[string]string, len(f.values))
	for k, v := range f.values {
		values[k] = v
	}
	f.submitting = true
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.submitting = false
		f.mu.Unlock()
	}()

	return fn(values)
}

// ValidateBanks enforces the investor bank list: at least one entry, every
// entry valid. Errors are keyed "bank" or "bank[i].field".
func ValidateBanks(banks []models.BankAccount) FieldErrors {
	errs := FieldErrors{}
	if len(banks) == 0 {
		errs["bank"] = "Bank must have at least one entry"
		return errs
	}
	for i, bank := range banks {
		values := map[string]string{
			"bankName":      bank.BankName,
			"accountNumber": bank.AccountNumber,
		}
		for field, msg := range BankRules.Validate(values) {
			errs[fmt.Sprintf("bank[%d].%s", i, field)] = msg
		}
	}
	return errs
}
