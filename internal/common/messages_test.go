package common

import (
	"errors"
	"fmt"
	"testing"

	"investment-backoffice-go/internal/api"
	"investment-backoffice-go/internal/client"
	"investment-backoffice-go/internal/validation"
	"investment-backoffice-go/internal/views"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"form", validation.FieldErrors{"name": "Name is Required"}, "name: Name is Required"},
		{"range", fmt.Errorf("list: %w", views.ErrStartAfterEnd), views.RangeMessage},
		{"incomplete range", api.ErrRangeIncomplete, "يجب اختيار تاريخين"},
		{"redeemed", api.ErrRedeemed, RedeemedMessage},
		{"backend", &client.APIError{StatusCode: 400, Message: "already exists", Target: []string{"email"}}, "email already exists"},
		{"network", fmt.Errorf("%w: dial tcp", client.ErrNetwork), client.GenericMessage},
		{"other", errors.New("boom"), "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorMessage(tt.err); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
