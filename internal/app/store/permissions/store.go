// internal/app/store/permissions/store.go
package permissions

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dalemusser/reliefhub/internal/domain/models"
)

// Store manages the permission catalog.
type Store struct {
	c *mongo.Collection
}

// New creates a new permission Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("permissions")}
}

// List returns the full catalog grouped by module.
func (s *Store) List(ctx context.Context) ([]models.Permission, error) {
	return s.list(ctx, bson.M{})
}

// ListActive returns only active permissions; inactive catalog entries
// never participate in resolution.
func (s *Store) ListActive(ctx context.Context) ([]models.Permission, error) {
	return s.list(ctx, bson.M{"is_active": true})
}

func (s *Store) list(ctx context.Context, query bson.M) ([]models.Permission, error) {
	opts := options.Find().SetSort(bson.D{{Key: "module", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := s.c.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var perms []models.Permission
	if err := cursor.All(ctx, &perms); err != nil {
		return nil, err
	}
	return perms, nil
}

// GetByName loads one permission. Returns mongo.ErrNoDocuments if absent.
func (s *Store) GetByName(ctx context.Context, name string) (*models.Permission, error) {
	var p models.Permission
	if err := s.c.FindOne(ctx, bson.M{"name": name}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Missing returns which of the given permission names do not exist in the
// catalog. Used to validate role definitions and per-assignment grants.
func (s *Store) Missing(ctx context.Context, names []string) ([]string, error) {
	if len(names) == 0 {
		return nil, nil
	}

	cursor, err := s.c.Find(ctx,
		bson.M{"name": bson.M{"$in": names}},
		options.Find().SetProjection(bson.M{"name": 1}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	found := make(map[string]struct{}, len(names))
	for cursor.Next(ctx) {
		var doc struct {
			Name string `bson:"name"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		found[doc.Name] = struct{}{}
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	var missing []string
	for _, name := range names {
		if _, ok := found[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing, nil
}

// UpsertSeed writes a catalog entry keyed by name, creating it if missing
// and realigning its definition if present.
func (s *Store) UpsertSeed(ctx context.Context, p models.Permission) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"name": p.Name},
		bson.M{
			"$set": bson.M{
				"display_name":   p.DisplayName,
				"module":         p.Module,
				"category":       p.Category,
				"scope":          p.Scope,
				"security_level": p.SecurityLevel,
				"dependencies":   p.Dependencies,
				"is_active":      p.IsActive,
			},
			"$setOnInsert": bson.M{
				"_id": primitive.NewObjectID(),
			},
		},
		options.Update().SetUpsert(true),
	)
	return err
}
