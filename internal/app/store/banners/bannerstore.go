// internal/app/store/banners/bannerstore.go
package bannerstore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dalemusser/reliefhub/internal/domain/models"
)

// Store handles banner persistence.
type Store struct {
	c *mongo.Collection
}

// New creates a banner store bound to the banners collection.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("banners")}
}

// Insert stores a new banner.
func (s *Store) Insert(ctx context.Context, b models.Banner) (models.Banner, error) {
	now := time.Now().UTC()
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	b.CreatedAt = now
	b.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, b); err != nil {
		return models.Banner{}, err
	}
	return b, nil
}

// GetByID fetches a banner by id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Banner, error) {
	var b models.Banner
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&b)
	return b, err
}

// List returns banners in display order. activeOnly narrows to the ones
// shown on the public site.
func (s *Store) List(ctx context.Context, activeOnly bool) ([]models.Banner, error) {
	filter := bson.M{}
	if activeOnly {
		filter["is_active"] = true
	}

	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{
		{Key: "display_order", Value: 1},
		{Key: "created_at", Value: -1},
	}))
	if err != nil {
		return nil, err
	}
	var out []models.Banner
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update contains the fields that can change on an existing banner.
// Nil pointers leave the stored value untouched.
type Update struct {
	Title        *string
	LinkURL      *string
	DisplayOrder *int
	IsActive     *bool
	ImageKey     *string
	ImageURL     *string
	UpdatedBy    *primitive.ObjectID
}

// UpdateByID applies a partial update.
func (s *Store) UpdateByID(ctx context.Context, id primitive.ObjectID, upd Update) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.LinkURL != nil {
		set["link_url"] = *upd.LinkURL
	}
	if upd.DisplayOrder != nil {
		set["display_order"] = *upd.DisplayOrder
	}
	if upd.IsActive != nil {
		set["is_active"] = *upd.IsActive
	}
	if upd.ImageKey != nil {
		set["image_key"] = *upd.ImageKey
	}
	if upd.ImageURL != nil {
		set["image_url"] = *upd.ImageURL
	}
	if upd.UpdatedBy != nil {
		set["updated_by"] = *upd.UpdatedBy
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes a banner and reports whether one existed.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
