// models/auth.go
package models

// LoginRequest is the credential payload for /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the token pair plus the signed-in profile.
type LoginResponse struct {
	Token        string                 `json:"token"`
	RefreshToken string                 `json:"refreshToken"`
	User         map[string]interface{} `json:"user"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// CreateVendorRequest is the admin payload for provisioning a vendor.
type CreateVendorRequest struct {
	Email       string       `json:"email" validate:"required,email"`
	Password    string       `json:"password" validate:"required,min=8"`
	Name        string       `json:"name" validate:"required"`
	BankDetails *BankDetails `json:"bankDetails,omitempty"`
	UPIID       string       `json:"upiId,omitempty"`
}

// UpdateVendorRequest updates a vendor's profile, destination details and
// withdrawal limit configuration. Nil fields are left untouched.
type UpdateVendorRequest struct {
	Name                  string       `json:"name,omitempty"`
	BankDetails           *BankDetails `json:"bankDetails,omitempty"`
	UPIID                 *string      `json:"upiId,omitempty"`
	WithdrawalLimitConfig string       `json:"withdrawalLimitConfig,omitempty" validate:"omitempty,oneof=GLOBAL CUSTOM UNLIMITED"`
	MaxWithdrawalLimit    *Money       `json:"maxWithdrawalLimit,omitempty"`
}

type UpdateBankDetailsRequest struct {
	BankDetails *BankDetails `json:"bankDetails,omitempty"`
	UPIID       *string      `json:"upiId,omitempty"`
	// MaxWithdrawalLimit is the global cap applied to vendors on the GLOBAL
	// limit configuration.
	MaxWithdrawalLimit *Money `json:"maxWithdrawalLimit,omitempty"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetWithTokenRequest completes the forgot-password flow with the emailed
// code.
type ResetWithTokenRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

type ResetPasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

type AdminResetPasswordRequest struct {
	UserID      string `json:"userId" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

// CreateRequestRequest is the payload for posting a new settlement request.
type CreateRequestRequest struct {
	Type        string       `json:"type" validate:"required,oneof=WITHDRAWAL DEPOSIT"`
	Amount      Money        `json:"amount"`
	BankDetails *BankDetails `json:"bankDetails,omitempty"`
	UPIID       string       `json:"upiId,omitempty"`
	QRCode      string       `json:"qrCode,omitempty"`
}

type AdminWithdrawalRequest struct {
	Amount Money `json:"amount"`
}

// PickRequestRequest optionally carries a partial amount; zero means the
// full request.
type PickRequestRequest struct {
	Amount *Money `json:"amount,omitempty"`
}

type VerifyPaymentRequest struct {
	Approved        *bool  `json:"approved" validate:"required"`
	RejectionReason string `json:"rejectionReason,omitempty"`
}

type FailPaymentRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type RevertRequestRequest struct {
	BankDetails *BankDetails `json:"bankDetails,omitempty"`
	UPIID       *string      `json:"upiId,omitempty"`
	Comment     string       `json:"comment,omitempty"`
}

type CancelRequestRequest struct {
	Reason string `json:"reason,omitempty"`
}
