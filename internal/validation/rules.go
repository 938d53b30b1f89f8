package validation

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Rule is a declarative field constraint: a validator tag plus the message
// shown for each failing tag.
type Rule struct {
	Tag      string
	Messages map[string]string
	Default  string
}

// RuleSet is the named field->rule table of one entity. Create and update
// forms of the same entity share one RuleSet.
type RuleSet struct {
	Name   string
	fields []string
	rules  map[string]Rule
}

type fieldRule struct {
	field string
	rule  Rule
}

func newRuleSet(name string, entries ...fieldRule) RuleSet {
	rs := RuleSet{Name: name, rules: make(map[string]Rule, len(entries))}
	for _, e := range entries {
		rs.fields = append(rs.fields, e.field)
		rs.rules[e.field] = e.rule
	}
	return rs
}

// Rule returns the rule for a field
func (rs RuleSet) Rule(field string) (Rule, bool) {
	r, ok := rs.rules[field]
	return r, ok
}

// Fields returns the field names in declaration order
func (rs RuleSet) Fields() []string {
	out := make([]string, len(rs.fields))
	copy(out, rs.fields)
	return out
}

// Validate checks every field of the set against values. Missing values are
// validated as empty strings.
func (rs RuleSet) Validate(values map[string]string) FieldErrors {
	errs := FieldErrors{}
	for _, field := range rs.fields {
		if msg := rs.rules[field].Check(values[field]); msg != "" {
			errs[field] = msg
		}
	}
	return errs
}

func lengthRule(label string, min, max int) Rule {
	return Rule{
		Tag: fmt.Sprintf("required,min=%d,max=%d", min, max),
		Messages: map[string]string{
			"required": label + " is Required",
			"min":      fmt.Sprintf("%s must contain at least %d character(s)", label, min),
			"max":      fmt.Sprintf("%s must contain at most %d character(s)", label, max),
		},
	}
}

func minLengthRule(label string, min int) Rule {
	return Rule{
		Tag: fmt.Sprintf("required,min=%d", min),
		Messages: map[string]string{
			"required": label + " is Required",
			"min":      fmt.Sprintf("%s must contain at least %d character(s)", label, min),
		},
	}
}

var emailRule = Rule{
	Tag: "required,email",
	Messages: map[string]string{
		"required": "Email is Required",
		"email":    "Invalid email",
	},
}

// BankRules validates one {bankName, accountNumber} entry
var BankRules = newRuleSet("bank",
	fieldRule{"bankName", lengthRule("Bank Name", 2, 255)},
	fieldRule{"accountNumber", lengthRule("Account Number", 2, 255)},
)

// InvestorRules is shared by the investor create and update forms
var InvestorRules = newRuleSet("investor",
	fieldRule{"name", lengthRule("Name", 2, 255)},
	fieldRule{"email", emailRule},
	fieldRule{"code", Rule{
		Tag: "required,integer",
		Messages: map[string]string{
			"required": "Code is Required",
			"integer":  "Code must be a number",
		},
	}},
	fieldRule{"phone", Rule{
		Tag: "required,min=10,max=12",
		Messages: map[string]string{
			"required": "Phone is Required",
			"min":      "Number must be at least 10 digits",
			"max":      "Number must be less than 12 digits",
		},
	}},
	fieldRule{"address", lengthRule("Address", 2, 255)},
	fieldRule{"balance", Rule{
		Tag: "required,decimal",
		Messages: map[string]string{
			"required": "Balance is Required",
			"decimal":  "Balance must be a number",
		},
	}},
	fieldRule{"bankName", BankRules.rules["bankName"]},
	fieldRule{"accountNumber", BankRules.rules["accountNumber"]},
)

// InvestmentRules is shared by the investment create and update forms.
// interestRate is the percentage as typed by the user (1-100).
var InvestmentRules = newRuleSet("investment",
	fieldRule{"type", Rule{
		Tag: "required,oneof=BONDS CERTIFICATES",
		Messages: map[string]string{
			"required": "Investment Type is Required",
			"oneof":    "Investment Type must be a valid type",
		},
	}},
	fieldRule{"amount", Rule{
		Tag: "required,decimal,dmin=1",
		Messages: map[string]string{
			"required": "Investment Amount is Required",
			"decimal":  "Investment Amount must be a number",
			"dmin":     "Investment Amount must be greater than 0",
		},
	}},
	fieldRule{"interestRate", Rule{
		Tag: "required,decimal,dmin=1,dmax=100",
		Messages: map[string]string{
			"required": "Investment Interest Rate is Required",
			"decimal":  "Investment Interest Rate must be a number",
			"dmin":     "Investment Interest Rate must be greater than 1",
			"dmax":     "Investment Interest Rate must be less than 100",
		},
	}},
	fieldRule{"redemptionDate", Rule{
		Tag: "required,date,future",
		Messages: map[string]string{
			"required": "Investment Redemption Date is Required",
			"date":     "Investment Redemption Date must be a date",
			"future":   "Investment Redemption Date must be greater than today",
		},
	}},
	fieldRule{"customId", Rule{Tag: "omitempty,max=255", Default: "Investment number is too long"}},
)

// AgentRules validates the agent registration form
var AgentRules = newRuleSet("agent",
	fieldRule{"name", minLengthRule("Name", 5)},
	fieldRule{"phone", minLengthRule("Phone", 10)},
	fieldRule{"address", minLengthRule("Address", 5)},
)

var passwordRule = Rule{
	Tag: "required,password",
	Messages: map[string]string{
		"required": "Password is Required",
		"password": "Password must be 8 to 25 characters long and contain at least one uppercase letter, one lowercase letter, one digit, and one special character",
	},
}

// RegisterRules validates the sign-up form
var RegisterRules = newRuleSet("register",
	fieldRule{"name", minLengthRule("Name", 3)},
	fieldRule{"email", emailRule},
	fieldRule{"password", passwordRule},
)

// LoginRules validates the sign-in form
var LoginRules = newRuleSet("login",
	fieldRule{"email", emailRule},
	fieldRule{"password", Rule{
		Tag:      "required",
		Messages: map[string]string{"required": "Password is Required"},
	}},
)

// RedeemRules builds the early-redemption rule; the value may not be below
// the invested amount.
func RedeemRules(minValue decimal.Decimal) RuleSet {
	return newRuleSet("redeem",
		fieldRule{"valueOnMaturity", Rule{
			Tag: "required,decimal,dmin=" + minValue.String(),
			Messages: map[string]string{
				"required": "Value on maturity is Required",
				"decimal":  "Value on maturity must be a number",
				"dmin":     fmt.Sprintf("value is below the minimum of %s", minValue.String()),
			},
		}},
	)
}

// DateRangeRules validates the optional bounds of a list filter
var DateRangeRules = newRuleSet("dateRange",
	fieldRule{"startDate", Rule{Tag: "omitempty,date", Default: "Start date must be a date"}},
	fieldRule{"endDate", Rule{Tag: "omitempty,date", Default: "End date must be a date"}},
)
