// models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types
const (
	NotificationRequestPicked    = "REQUEST_PICKED"
	NotificationPaymentUploaded  = "PAYMENT_UPLOADED"
	NotificationPaymentApproved  = "PAYMENT_APPROVED"
	NotificationPaymentRejected  = "PAYMENT_REJECTED"
	NotificationPaymentFailed    = "PAYMENT_FAILED"
	NotificationRequestCancelled = "REQUEST_CANCELLED"
	NotificationAdminAlert       = "ADMIN_ALERT"
)

// Notification is a best-effort side-channel message about a lifecycle event.
// Only the read flag is ever mutated.
type Notification struct {
	ID        primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    primitive.ObjectID  `json:"userId" bson:"userId"`
	Message   string              `json:"message" bson:"message"`
	Type      string              `json:"type" bson:"type"`
	IsRead    bool                `json:"isRead" bson:"isRead"`
	RequestID *primitive.ObjectID `json:"requestId,omitempty" bson:"requestId,omitempty"`
	CreatedAt time.Time           `json:"createdAt" bson:"createdAt"`
}
