// internal/app/system/scope/scope.go

// Package scope derives and applies the caller's administrative scope.
// Every aggregation over applications, beneficiaries, or payments must
// pass through Apply before counting or grouping; an unscoped query on
// behalf of a restricted caller is a correctness bug, not a style
// choice.
package scope

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/dalemusser/reliefhub/internal/domain/models"
)

// Scope restricts reads to an administrative region. Empty fields mean
// unrestricted along that axis.
type Scope struct {
	Area     string
	District string
}

// FromUser derives the scope a user is confined to. Super admins see
// everything; everyone else is bound to whatever area/district fields
// are set on their record.
func FromUser(u *models.User) Scope {
	if u == nil {
		return Scope{}
	}
	if u.IsSuperAdmin {
		return Scope{}
	}
	return Scope{Area: u.Area, District: u.District}
}

// Global reports whether the scope imposes no restriction.
func (s Scope) Global() bool {
	return s.Area == "" && s.District == ""
}

// Apply adds the scope's predicates to a Mongo filter in place and
// returns it for chaining.
func (s Scope) Apply(filter bson.M) bson.M {
	if s.Area != "" {
		filter["area"] = s.Area
	}
	if s.District != "" {
		filter["district"] = s.District
	}
	return filter
}
