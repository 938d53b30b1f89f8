package validation

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidForm is matched by every FieldErrors value
	ErrInvalidForm = errors.New("form has invalid fields")
	// ErrSubmitInProgress is returned when a form is submitted twice concurrently
	ErrSubmitInProgress = errors.New("submission already in progress")
)

const (
	minPasswordLength = 8
	maxPasswordLength = 25
)

var (
	engine     *validator.Validate
	engineOnce sync.Once

	clockMu sync.RWMutex
	clock   = time.Now
)

// SetClock replaces the time source used by the "future" rule and returns a
// function restoring the previous one.
func SetClock(now func() time.Time) (restore func()) {
	clockMu.Lock()
	prev := clock
	clock = now
	clockMu.Unlock()
	return func() {
		clockMu.Lock()
		clock = prev
		clockMu.Unlock()
	}
}

func currentTime() time.Time {
	clockMu.RLock()
	defer clockMu.RUnlock()
	return clock()
}

func getEngine() *validator.Validate {
	engineOnce.Do(func() {
		v := validator.New()
		mustRegister(v, "decimal", isDecimal)
		mustRegister(v, "dmin", decimalAtLeast)
		mustRegister(v, "dmax", decimalAtMost)
		mustRegister(v, "integer", isInteger)
		mustRegister(v, "date", isDate)
		mustRegister(v, "future", isFutureDate)
		mustRegister(v, "password", isStrongPassword)
		engine = v
	})
	return engine
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

// FieldErrors maps a field name to its human-readable error
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for field := range fe {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, fe[field]))
	}
	return strings.Join(parts, "; ")
}

func (fe FieldErrors) Is(target error) bool {
	return target == ErrInvalidForm
}

// OrNil returns nil when there are no field errors
func (fe FieldErrors) OrNil() error {
	if len(fe) == 0 {
		return nil
	}
	return fe
}

// ValidateField checks a raw input value against the named field's rule.
// It returns an empty string when the value is valid or the field has no rule.
func ValidateField(rules RuleSet, field, value string) string {
	rule, ok := rules.Rule(field)
	if !ok {
		return ""
	}
	return rule.Check(value)
}

// Check evaluates the rule against a raw value
func (r Rule) Check(value string) string {
	err := getEngine().Var(value, r.Tag)
	if err == nil {
		return ""
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		if msg, ok := r.Messages[verrs[0].Tag()]; ok {
			return msg
		}
		if r.Default != "" {
			return r.Default
		}
		return fmt.Sprintf("failed %q rule", verrs[0].Tag())
	}
	return err.Error()
}

// ParseDate accepts a calendar date (2006-01-02, local midnight) or an RFC 3339 timestamp
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.ParseInLocation("2006-01-02", raw, time.Local); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", raw)
	}
	return t, nil
}

func isDecimal(fl validator.FieldLevel) bool {
	_, err := decimal.NewFromString(fl.Field().String())
	return err == nil
}

func decimalAtLeast(fl validator.FieldLevel) bool {
	value, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	bound, err := decimal.NewFromString(fl.Param())
	if err != nil {
		panic(fmt.Sprintf("bad dmin parameter %q", fl.Param()))
	}
	return value.GreaterThanOrEqual(bound)
}

func decimalAtMost(fl validator.FieldLevel) bool {
	value, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	bound, err := decimal.NewFromString(fl.Param())
	if err != nil {
		panic(fmt.Sprintf("bad dmax parameter %q", fl.Param()))
	}
	return value.LessThanOrEqual(bound)
}

func isInteger(fl validator.FieldLevel) bool {
	_, err := strconv.Atoi(fl.Field().String())
	return err == nil
}

func isDate(fl validator.FieldLevel) bool {
	_, err := ParseDate(fl.Field().String())
	return err == nil
}

func isFutureDate(fl validator.FieldLevel) bool {
	date, err := ParseDate(fl.Field().String())
	if err != nil {
		return false
	}
	return date.After(currentTime())
}

func isStrongPassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()
	length := len([]rune(password))
	if length < minPasswordLength || length > maxPasswordLength {
		return false
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasDigit = true
		case !unicode.IsSpace(char) && char != '_':
			hasSymbol = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSymbol
}
