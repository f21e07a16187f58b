// models/request.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Request types
const (
	RequestTypeWithdrawal = "WITHDRAWAL"
	RequestTypeDeposit    = "DEPOSIT"
)

// Request statuses
const (
	StatusPending       = "PENDING"
	StatusPicked        = "PICKED"
	StatusPaidFull      = "PAID_FULL"
	StatusPaidPartial   = "PAID_PARTIAL"
	StatusCompleted     = "COMPLETED"
	StatusRejected      = "REJECTED"
	StatusPaymentFailed = "PAYMENT_FAILED"
)

// ValidRequestType reports whether t is a known request type.
func ValidRequestType(t string) bool {
	return t == RequestTypeWithdrawal || t == RequestTypeDeposit
}

// InvertRequestType returns the counterparty-facing type: a withdrawal is a
// deposit from the picker's point of view and vice versa.
func InvertRequestType(t string) string {
	if t == RequestTypeWithdrawal {
		return RequestTypeDeposit
	}
	return RequestTypeWithdrawal
}

// Request is the central settlement entity. Amount is immutable once created
// except when a partial pick shrinks it; PaidAmount + PendingAmount == Amount
// holds while the request is in PICKED, PAID_PARTIAL or PAID_FULL.
type Request struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Type        string             `json:"type" bson:"type"`
	Amount      Money              `json:"amount" bson:"amount"`
	Status      string             `json:"status" bson:"status"`
	BankDetails *BankDetails       `json:"bankDetails,omitempty" bson:"bankDetails,omitempty"`
	UPIID       string             `json:"upiId,omitempty" bson:"upiId,omitempty"`
	QRCode      string             `json:"qrCode,omitempty" bson:"qrCode,omitempty"`
	PaidAmount  Money              `json:"paidAmount" bson:"paidAmount"`
	// PendingAmount is the unpaid remainder, clamped at zero.
	PendingAmount        Money               `json:"pendingAmount" bson:"pendingAmount"`
	RejectionReason      string              `json:"rejectionReason,omitempty" bson:"rejectionReason,omitempty"`
	PaymentFailureReason string              `json:"paymentFailureReason,omitempty" bson:"paymentFailureReason,omitempty"`
	CancellationReason   string              `json:"cancellationReason,omitempty" bson:"cancellationReason,omitempty"`
	CreatedByID          primitive.ObjectID  `json:"createdById" bson:"createdById"`
	PickedByID           *primitive.ObjectID `json:"pickedById,omitempty" bson:"pickedById,omitempty"`
	CreatedAt            time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt            time.Time           `json:"updatedAt" bson:"updatedAt"`
	// DeletedAt is the cancellation tombstone. Soft-deleted requests stay
	// queryable for audit but never show up in active listings.
	DeletedAt *time.Time `json:"deletedAt,omitempty" bson:"deletedAt,omitempty"`
}

// ShortID is the request id prefix used in user-facing messages.
func (r *Request) ShortID() string {
	hex := r.ID.Hex()
	if len(hex) > 8 {
		return hex[:8]
	}
	return hex
}
