// models/payment_slip.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentSlip is the proof-of-payment artifact uploaded by a picker.
// Append-only; several slips may accumulate toward a request's paid amount.
type PaymentSlip struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	RequestID    primitive.ObjectID `json:"requestId" bson:"requestId"`
	UploadedByID primitive.ObjectID `json:"uploadedById" bson:"uploadedById"`
	// FileURL is an opaque reference into evidence storage; the engine never
	// interprets the file contents.
	FileURL   string    `json:"fileUrl,omitempty" bson:"fileUrl,omitempty"`
	Amount    Money     `json:"amount" bson:"amount"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// SlipSummary is the listing shape that deliberately omits the file URL so
// evidence blobs are only fetched on demand.
type SlipSummary struct {
	ID           primitive.ObjectID `json:"id" bson:"_id"`
	RequestID    primitive.ObjectID `json:"requestId" bson:"requestId"`
	UploadedByID primitive.ObjectID `json:"uploadedById" bson:"uploadedById"`
	Amount       Money              `json:"amount" bson:"amount"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
}
