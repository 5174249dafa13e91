// internal/app/store/brochures/brochurestore.go
package brochurestore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dalemusser/reliefhub/internal/domain/models"
)

// Store handles brochure persistence.
type Store struct {
	c *mongo.Collection
}

// New creates a brochure store bound to the brochures collection.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("brochures")}
}

// Insert stores a new brochure.
func (s *Store) Insert(ctx context.Context, b models.Brochure) (models.Brochure, error) {
	now := time.Now().UTC()
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	b.CreatedAt = now
	b.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, b); err != nil {
		return models.Brochure{}, err
	}
	return b, nil
}

// GetByID fetches a brochure by id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Brochure, error) {
	var b models.Brochure
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&b)
	return b, err
}

// List returns a page of brochures, newest first.
func (s *Store) List(ctx context.Context, activeOnly bool, limit, skip int64) ([]models.Brochure, error) {
	filter := bson.M{}
	if activeOnly {
		filter["is_active"] = true
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit).
		SetSkip(skip)

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var out []models.Brochure
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count counts brochures, optionally active only.
func (s *Store) Count(ctx context.Context, activeOnly bool) (int64, error) {
	filter := bson.M{}
	if activeOnly {
		filter["is_active"] = true
	}
	return s.c.CountDocuments(ctx, filter)
}

// Update contains the fields that can change on an existing brochure.
// Nil pointers leave the stored value untouched.
type Update struct {
	Title       *string
	Description *string
	IsActive    *bool
	FileKey     *string
	FileURL     *string
	FileName    *string
	FileSize    *int64
	ContentType *string
	UpdatedBy   *primitive.ObjectID
}

// UpdateByID applies a partial update.
func (s *Store) UpdateByID(ctx context.Context, id primitive.ObjectID, upd Update) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.IsActive != nil {
		set["is_active"] = *upd.IsActive
	}
	if upd.FileKey != nil {
		set["file_key"] = *upd.FileKey
	}
	if upd.FileURL != nil {
		set["file_url"] = *upd.FileURL
	}
	if upd.FileName != nil {
		set["file_name"] = *upd.FileName
	}
	if upd.FileSize != nil {
		set["file_size"] = *upd.FileSize
	}
	if upd.ContentType != nil {
		set["content_type"] = *upd.ContentType
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

// Delete removes a brochure and reports whether one existed.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
