// internal/domain/models/application.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Aid application statuses.
const (
	ApplicationPending   = "pending"
	ApplicationApproved  = "approved"
	ApplicationRejected  = "rejected"
	ApplicationDisbursed = "disbursed"
)

// AidApplication is a beneficiary's request for assistance under a
// program. Area/District are denormalized from the beneficiary at
// submission time so scoped dashboard queries never need a join.
type AidApplication struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	BeneficiaryID primitive.ObjectID  `bson:"beneficiary_id" json:"beneficiary_id"`
	ProgramID     *primitive.ObjectID `bson:"program_id,omitempty" json:"program_id,omitempty"`

	Status string  `bson:"status" json:"status"`
	Amount float64 `bson:"amount" json:"amount"`

	Area     string `bson:"area" json:"area"`
	District string `bson:"district" json:"district"`

	SubmittedAt time.Time `bson:"submitted_at" json:"submitted_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}
