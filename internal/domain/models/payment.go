// internal/domain/models/payment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment statuses.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// Payment is a disbursement against an approved application.
// Area/District mirror the application for scoped aggregation.
type Payment struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ApplicationID *primitive.ObjectID `bson:"application_id,omitempty" json:"application_id,omitempty"`
	BeneficiaryID primitive.ObjectID  `bson:"beneficiary_id" json:"beneficiary_id"`

	Amount float64 `bson:"amount" json:"amount"`
	Method string  `bson:"method,omitempty" json:"method,omitempty"` // bank | cash | wallet
	Status string  `bson:"status" json:"status"`

	Area     string `bson:"area" json:"area"`
	District string `bson:"district" json:"district"`

	PaidAt    *time.Time `bson:"paid_at,omitempty" json:"paid_at,omitempty"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
}
