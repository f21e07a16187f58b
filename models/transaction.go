// models/transaction.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Transaction types, from the owning vendor's perspective.
const (
	TransactionTypeWithdrawal = "WITHDRAWAL"
	TransactionTypeDeposit    = "DEPOSIT"
)

// TransactionStatusCompleted is the only status settled postings carry.
const TransactionStatusCompleted = "COMPLETED"

// Transaction is an immutable ledger posting. Settled requests always produce
// exactly two rows, one per side, for the same amount.
type Transaction struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	RequestID primitive.ObjectID `json:"requestId" bson:"requestId"`
	VendorID  primitive.ObjectID `json:"vendorId" bson:"vendorId"`
	Type      string             `json:"type" bson:"type"`
	Amount    Money              `json:"amount" bson:"amount"`
	Status    string             `json:"status" bson:"status"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}
