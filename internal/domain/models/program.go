// internal/domain/models/program.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Budget tracks allocation against spend for a program.
type Budget struct {
	Total float64 `bson:"total" json:"total"`
	Spent float64 `bson:"spent" json:"spent"`
}

// Utilization returns spend as a percentage of the total budget.
// A zero total yields 0, never a division error.
func (b Budget) Utilization() float64 {
	if b.Total == 0 {
		return 0
	}
	return b.Spent / b.Total * 100
}

// AidProgram is a funded assistance program (e.g. food aid, school
// support). Area is optional; empty means the program runs everywhere.
type AidProgram struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name   string             `bson:"name" json:"name"`
	Status string             `bson:"status" json:"status"` // active | closed
	Area   string             `bson:"area,omitempty" json:"area,omitempty"`

	Budget Budget `bson:"budget" json:"budget"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
