// internal/app/store/newsevents/newseventstore.go
package newseventstore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dalemusser/reliefhub/internal/domain/models"
)

// Store handles news/event persistence.
type Store struct {
	c *mongo.Collection
}

// New creates a store bound to the news_events collection.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("news_events")}
}

// Insert stores a new entry.
func (s *Store) Insert(ctx context.Context, n models.NewsEvent) (models.NewsEvent, error) {
	now := time.Now().UTC()
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	if n.Status == "" {
		n.Status = models.NewsEventDraft
	}
	if n.Status == models.NewsEventPublished && n.PublishedAt == nil {
		n.PublishedAt = &now
	}
	n.CreatedAt = now
	n.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, n); err != nil {
		return models.NewsEvent{}, err
	}
	return n, nil
}

// GetByID fetches an entry by id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.NewsEvent, error) {
	var n models.NewsEvent
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&n)
	return n, err
}

// ListFilter narrows List and Count. Empty fields match everything.
type ListFilter struct {
	Kind   string // news | event
	Status string // draft | published
}

func (f ListFilter) query() bson.M {
	q := bson.M{}
	if f.Kind != "" {
		q["kind"] = f.Kind
	}
	if f.Status != "" {
		q["status"] = f.Status
	}
	return q
}

// List returns a page of entries, newest first.
func (s *Store) List(ctx context.Context, f ListFilter, limit, skip int64) ([]models.NewsEvent, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit).
		SetSkip(skip)

	cur, err := s.c.Find(ctx, f.query(), opts)
	if err != nil {
		return nil, err
	}
	var out []models.NewsEvent
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count counts entries matching the filter.
func (s *Store) Count(ctx context.Context, f ListFilter) (int64, error) {
	return s.c.CountDocuments(ctx, f.query())
}

// Update contains the fields that can change on an existing entry. Nil
// pointers leave the stored value untouched; kind is immutable.
type Update struct {
	Title *string
	Body  *string

	EventDate      *time.Time
	ClearEventDate bool

	Status *string
	// PublishedAt is set by the caller on the first transition to
	// published and never cleared afterwards.
	PublishedAt *time.Time

	ImageKey  *string
	ImageURL  *string
	UpdatedBy *primitive.ObjectID
}

// UpdateByID applies a partial update.
func (s *Store) UpdateByID(ctx context.Context, id primitive.ObjectID, upd Update) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	unset := bson.M{}

	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Body != nil {
		set["body"] = *upd.Body
	}
	if upd.ClearEventDate {
		unset["event_date"] = ""
	} else if upd.EventDate != nil {
		set["event_date"] = *upd.EventDate
	}
	if upd.Status != nil {
		set["status"] = *upd.Status
	}
	if upd.PublishedAt != nil {
		set["published_at"] = *upd.PublishedAt
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

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes an entry and reports whether one existed.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
