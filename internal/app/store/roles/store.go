// internal/app/store/roles/store.go
package roles

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

// ErrNameTaken is returned when creating a role whose name already exists.
var ErrNameTaken = errors.New("a role with this name already exists")

// Store manages role definitions.
type Store struct {
	c *mongo.Collection
}

// New creates a new role Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("roles")}
}

// Insert creates a new role. The caller is responsible for cycle-checking
// InheritsFrom before calling.
func (s *Store) Insert(ctx context.Context, role models.Role) (models.Role, error) {
	role.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	role.CreatedAt = now
	role.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, role); err != nil {
		if storeutil.IsDup(err) {
			return models.Role{}, ErrNameTaken
		}
		return models.Role{}, err
	}
	return role, nil
}

// GetByID loads a role by ObjectID. Returns mongo.ErrNoDocuments if absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Role, error) {
	var role models.Role
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&role); err != nil {
		return nil, err
	}
	return &role, nil
}

// GetByName loads a role by its unique name.
func (s *Store) GetByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	if err := s.c.FindOne(ctx, bson.M{"name": name}).Decode(&role); err != nil {
		return nil, err
	}
	return &role, nil
}

// List returns every role, highest level first.
func (s *Store) List(ctx context.Context) ([]models.Role, error) {
	opts := options.Find().SetSort(bson.D{{Key: "level", Value: -1}, {Key: "name", Value: 1}})
	cursor, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var roles []models.Role
	if err := cursor.All(ctx, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// Update holds the mutable fields of a custom role. Name and Type are
// fixed at creation.
type Update struct {
	DisplayName  string
	Level        int
	Category     string
	Permissions  []string
	InheritsFrom *primitive.ObjectID
	IsActive     bool
}

// UpdateByID applies an update to a role. The caller is responsible for
// cycle-checking InheritsFrom before calling. Returns the number of
// documents matched (0 when the role does not exist).
func (s *Store) UpdateByID(ctx context.Context, id primitive.ObjectID, upd Update) (int64, error) {
	set := bson.M{
		"display_name": upd.DisplayName,
		"level":        upd.Level,
		"category":     upd.Category,
		"permissions":  upd.Permissions,
		"is_active":    upd.IsActive,
		"updated_at":   time.Now().UTC(),
	}
	update := bson.M{"$set": set}
	if upd.InheritsFrom != nil {
		set["inherits_from"] = *upd.InheritsFrom
	} else {
		update["$unset"] = bson.M{"inherits_from": ""}
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// UpdateStats refreshes a role's assignment statistics.
func (s *Store) UpdateStats(ctx context.Context, id primitive.ObjectID, stats models.RoleStats) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"stats":      stats,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// Delete removes a role document. The caller must have verified no active
// assignments reference it. Returns the number of documents deleted.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// UpsertSeed writes a system role definition keyed by name, creating it
// if missing and realigning its definition if present. Returns the
// role's ID for chaining inheritance during seeding.
func (s *Store) UpsertSeed(ctx context.Context, role models.Role, inheritsFrom *primitive.ObjectID) (primitive.ObjectID, error) {
	now := time.Now().UTC()
	set := bson.M{
		"display_name": role.DisplayName,
		"level":        role.Level,
		"category":     role.Category,
		"type":         role.Type,
		"permissions":  role.Permissions,
		"is_active":    role.IsActive,
		"updated_at":   now,
	}
	update := bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"_id":        primitive.NewObjectID(),
			"created_at": now,
		},
	}
	if inheritsFrom != nil {
		set["inherits_from"] = *inheritsFrom
	} else {
		update["$unset"] = bson.M{"inherits_from": ""}
	}

	_, err := s.c.UpdateOne(ctx, bson.M{"name": role.Name}, update, options.Update().SetUpsert(true))
	if err != nil {
		return primitive.NilObjectID, err
	}

	seeded, err := s.GetByName(ctx, role.Name)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return seeded.ID, nil
}
