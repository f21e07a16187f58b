package lifecycle

import (
	"errors"
	"testing"

	"github.com/cashtrack/cashtrack_backend/models"
)

func TestEvaluateWithdrawalLimit(t *testing.T) {
	custom := func(s string) *models.Money {
		m, err := models.MoneyFromString(s)
		if err != nil {
			t.Fatalf("bad money literal %q: %v", s, err)
		}
		return &m
	}

	tests := []struct {
		name        string
		config      string
		customLimit *models.Money
		adminLimit  *models.Money
		amount      string
		wantErr     bool
	}{
		{"unlimited ignores both caps", models.LimitConfigUnlimited, custom("10"), custom("10"), "99999", false},
		{"custom within cap", models.LimitConfigCustom, custom("500"), nil, "500", false},
		{"custom over cap", models.LimitConfigCustom, custom("500"), nil, "600", true},
		{"custom ignores admin cap", models.LimitConfigCustom, custom("500"), custom("100"), "400", false},
		{"custom without cap set falls through", models.LimitConfigCustom, nil, nil, "99999", false},
		{"global within cap", models.LimitConfigGlobal, nil, custom("1000"), "1000", false},
		{"global over cap", models.LimitConfigGlobal, nil, custom("1000"), "1000.01", true},
		{"global without admin cap allows", models.LimitConfigGlobal, nil, nil, "99999", false},
		{"empty config defaults to global", "", nil, custom("1000"), "1500", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, err := models.MoneyFromString(tt.amount)
			if err != nil {
				t.Fatal(err)
			}
			err = EvaluateWithdrawalLimit(tt.config, tt.customLimit, tt.adminLimit, amount)
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("EvaluateWithdrawalLimit() error = %v, want ErrValidation", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("EvaluateWithdrawalLimit() unexpected error: %v", err)
			}
		})
	}
}
