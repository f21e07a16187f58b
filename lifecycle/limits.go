// lifecycle/limits.go
package lifecycle

import (
	"fmt"

	"github.com/cashtrack/cashtrack_backend/models"
)

// EvaluateWithdrawalLimit decides whether a proposed withdrawal amount is
// allowed under the requester's limit configuration. UNLIMITED always allows.
// CUSTOM caps at the requester's own limit, GLOBAL (the default) at the
// admin's; a missing limit value means no cap is configured and the amount
// passes. The check runs at creation time only and is never re-evaluated
// retroactively.
func EvaluateWithdrawalLimit(config string, customLimit, adminLimit *models.Money, amount models.Money) error {
	switch config {
	case models.LimitConfigUnlimited:
		return nil
	case models.LimitConfigCustom:
		if customLimit != nil && amount.GreaterThan(*customLimit) {
			return fmt.Errorf("%w: withdrawal amount cannot exceed your custom limit of %s",
				ErrValidation, customLimit.Display())
		}
		return nil
	default:
		// GLOBAL, or unset configuration: fall back to the admin's limit.
		if adminLimit != nil && amount.GreaterThan(*adminLimit) {
			return fmt.Errorf("%w: withdrawal amount cannot exceed the limit of %s",
				ErrValidation, adminLimit.Display())
		}
		return nil
	}
}
