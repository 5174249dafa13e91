// internal/app/store/roleassign/store.go
package roleassign

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dalemusser/reliefhub/internal/app/store/storeutil"
	"github.com/dalemusser/reliefhub/internal/domain/models"
)

// ErrDuplicateAssignment is returned when a user already holds an active
// assignment of the same role. Enforced by a partial unique index, so
// concurrent assigns cannot race past the check.
var ErrDuplicateAssignment = errors.New("user already has an active assignment of this role")

// Store manages user role assignments.
type Store struct {
	c *mongo.Collection
}

// New creates a new role assignment Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("role_assignments")}
}

// Insert creates an assignment. Defaults: active, approved. The unique
// index on (user_id, role_id) over active rows rejects duplicates.
func (s *Store) Insert(ctx context.Context, a models.UserRoleAssignment) (models.UserRoleAssignment, error) {
	a.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	a.IsActive = true
	if a.ApprovalStatus == "" {
		a.ApprovalStatus = models.ApprovalApproved
	}

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		if storeutil.IsDup(err) {
			return models.UserRoleAssignment{}, ErrDuplicateAssignment
		}
		return models.UserRoleAssignment{}, err
	}
	return a, nil
}

// GetByID loads an assignment. Returns mongo.ErrNoDocuments if absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.UserRoleAssignment, error) {
	var a models.UserRoleAssignment
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

// ListEffectiveByUser returns the user's assignments that count toward
// permission resolution at the given time: active, approved, and not past
// their validity window.
func (s *Store) ListEffectiveByUser(ctx context.Context, userID primitive.ObjectID, now time.Time) ([]models.UserRoleAssignment, error) {
	query := bson.M{
		"user_id":         userID,
		"is_active":       true,
		"approval_status": models.ApprovalApproved,
		"$or": []bson.M{
			{"valid_until": nil},
			{"valid_until": bson.M{"$gte": now}},
		},
	}
	return s.find(ctx, query)
}

// ListByUser returns a user's assignments, newest first. With
// includeInactive, deactivated history rows are included.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID, includeInactive bool) ([]models.UserRoleAssignment, error) {
	query := bson.M{"user_id": userID}
	if !includeInactive {
		query["is_active"] = true
	}
	return s.find(ctx, query)
}

func (s *Store) find(ctx context.Context, query bson.M) ([]models.UserRoleAssignment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.c.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var assignments []models.UserRoleAssignment
	if err := cursor.All(ctx, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

// Deactivate marks an assignment inactive, recording who removed it and
// why. The row is kept for audit continuity. Returns the number of
// documents matched (0 when already inactive or absent).
func (s *Store) Deactivate(ctx context.Context, id, removedBy primitive.ObjectID, reason string) (int64, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "is_active": true},
		bson.M{"$set": bson.M{
			"is_active":      false,
			"removed_by":     removedBy,
			"removal_reason": reason,
			"updated_at":     time.Now().UTC(),
		}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// DeactivateExpired sweeps assignments whose valid_until has passed and
// marks them inactive. Idempotent: rows already swept no longer match.
// Returns how many were deactivated.
func (s *Store) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{
			"is_active":   true,
			"valid_until": bson.M{"$lt": now},
		},
		bson.M{"$set": bson.M{
			"is_active":      false,
			"removal_reason": "expired",
			"updated_at":     now.UTC(),
		}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// CountActiveByRole counts active assignments of a role. Used as the
// referential-integrity guard before role deletion and for role stats.
func (s *Store) CountActiveByRole(ctx context.Context, roleID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"role_id": roleID, "is_active": true})
}

// CountByRole counts all assignments of a role, including history rows.
func (s *Store) CountByRole(ctx context.Context, roleID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"role_id": roleID})
}

// AddGrant appends an additional permission to an assignment. Returns the
// number of documents matched.
func (s *Store) AddGrant(ctx context.Context, id primitive.ObjectID, grant models.PermissionGrant) (int64, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "is_active": true},
		bson.M{
			"$push": bson.M{"additional_permissions": grant},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// AddRestriction appends a permission restriction to an assignment.
// Returns the number of documents matched.
func (s *Store) AddRestriction(ctx context.Context, id primitive.ObjectID, restriction models.PermissionRestriction) (int64, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "is_active": true},
		bson.M{
			"$push": bson.M{"restricted_permissions": restriction},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}
