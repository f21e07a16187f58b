// models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles
const (
	RoleSuperAdmin = "SUPER_ADMIN"
	RoleVendor     = "VENDOR"
)

// Withdrawal limit configurations
const (
	LimitConfigGlobal    = "GLOBAL"
	LimitConfigCustom    = "CUSTOM"
	LimitConfigUnlimited = "UNLIMITED"
)

// BankDetails holds the payment destination of a user or request.
type BankDetails struct {
	AccountNumber     string `json:"accountNumber,omitempty" bson:"accountNumber,omitempty"`
	IFSCCode          string `json:"ifscCode,omitempty" bson:"ifscCode,omitempty"`
	BankName          string `json:"bankName,omitempty" bson:"bankName,omitempty"`
	AccountHolderName string `json:"accountHolderName,omitempty" bson:"accountHolderName,omitempty"`
}

// User model
type User struct {
	ID       primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Email    string             `json:"email" bson:"email"`
	Password string             `json:"password,omitempty" bson:"password"`
	// TempPassword keeps the initial credential readable by the admin until
	// the vendor changes it. Cleared on password reset.
	TempPassword          string       `json:"-" bson:"tempPassword,omitempty"`
	Name                  string       `json:"name" bson:"name"`
	Role                  string       `json:"role" bson:"role"`
	BankDetails           *BankDetails `json:"bankDetails,omitempty" bson:"bankDetails,omitempty"`
	UPIID                 string       `json:"upiId,omitempty" bson:"upiId,omitempty"`
	QRCode                string       `json:"qrCode,omitempty" bson:"qrCode,omitempty"`
	WithdrawalLimitConfig string       `json:"withdrawalLimitConfig,omitempty" bson:"withdrawalLimitConfig,omitempty"`
	MaxWithdrawalLimit    *Money       `json:"maxWithdrawalLimit,omitempty" bson:"maxWithdrawalLimit,omitempty"`
	CreatedAt             time.Time    `json:"createdAt" bson:"createdAt"`
	UpdatedAt             time.Time    `json:"updatedAt" bson:"updatedAt"`
}

// PublicProfile strips credentials for API responses.
func (u *User) PublicProfile() map[string]interface{} {
	return map[string]interface{}{
		"id":          u.ID,
		"email":       u.Email,
		"name":        u.Name,
		"role":        u.Role,
		"bankDetails": u.BankDetails,
		"upiId":       u.UPIID,
		"qrCode":      u.QRCode,
		"createdAt":   u.CreatedAt,
	}
}

// Response is the standard API envelope.
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
