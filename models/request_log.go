// models/request_log.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Log action kinds, one per lifecycle transition.
const (
	LogActionCreated                = "CREATED"
	LogActionPicked                 = "PICKED"
	LogActionPaymentUploaded        = "PAYMENT_UPLOADED"
	LogActionPaymentApproved        = "PAYMENT_APPROVED"
	LogActionPartialPaymentApproved = "PARTIAL_PAYMENT_APPROVED"
	LogActionPaymentRejected        = "PAYMENT_REJECTED"
	LogActionPaymentFailed          = "PAYMENT_FAILED"
	LogActionRequestReverted        = "REQUEST_REVERTED"
	LogActionRequestCancelled       = "REQUEST_CANCELLED"
)

// RequestLog is the append-only audit trail. Metadata is intentionally
// schema-less; its shape varies by action.
type RequestLog struct {
	ID        primitive.ObjectID     `json:"id,omitempty" bson:"_id,omitempty"`
	RequestID primitive.ObjectID     `json:"requestId" bson:"requestId"`
	UserID    primitive.ObjectID     `json:"userId" bson:"userId"`
	Action    string                 `json:"action" bson:"action"`
	Comment   string                 `json:"comment,omitempty" bson:"comment,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty" bson:"metadata,omitempty"`
	CreatedAt time.Time              `json:"createdAt" bson:"createdAt"`
}
