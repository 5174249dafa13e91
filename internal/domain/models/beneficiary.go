// internal/domain/models/beneficiary.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Beneficiary is a registered aid recipient.
type Beneficiary struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName   string             `bson:"full_name" json:"full_name"`
	FullNameCI string             `bson:"full_name_ci" json:"-"`
	Phone      string             `bson:"phone,omitempty" json:"phone,omitempty"`

	Area     string `bson:"area" json:"area"`
	District string `bson:"district" json:"district"`

	Status string `bson:"status" json:"status"` // active | disabled

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
