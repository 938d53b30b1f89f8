package common

import (
	"errors"

	"investment-backoffice-go/internal/api"
	"investment-backoffice-go/internal/client"
	"investment-backoffice-go/internal/validation"
	"investment-backoffice-go/internal/views"
)

// Success notices shown after a mutation settles
const (
	InvestmentCreatedMessage  = "تم إضافة الاستثمار بنجاح"
	InvestmentUpdatedMessage  = "تم تعديل الاستثمار بنجاح"
	InvestmentRedeemedMessage = "تم اضافة الاسترداد المبكر بنجاح"
	InvestorRecoveredMessage  = "تم استعادة الحساب بنجاح"
	RedeemedMessage           = "تم استرداد هذا الاستثمار بالفعل"
)

// ErrorMessage returns the text shown to the operator for err
func ErrorMessage(err error) string {
	var fieldErrs validation.FieldErrors
	var apiErr *client.APIError

	switch {
	case err == nil:
		return ""
	case errors.As(err, &fieldErrs):
		return fieldErrs.Error()
	case errors.Is(err, views.ErrStartAfterEnd):
		return views.RangeMessage
	case errors.Is(err, api.ErrRangeIncomplete):
		return api.RangeIncompleteMessage
	case errors.Is(err, api.ErrRedeemed):
		return RedeemedMessage
	case errors.As(err, &apiErr):
		return apiErr.Error()
	case errors.Is(err, client.ErrNetwork):
		return client.GenericMessage
	}
	return err.Error()
}
