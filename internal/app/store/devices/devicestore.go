// internal/app/store/devices/devicestore.go
package devicestore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dalemusser/reliefhub/internal/domain/models"
)

// Store handles device registrations.
type Store struct {
	c *mongo.Collection
}

// New creates a device store bound to the devices collection.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("devices")}
}

// Upsert registers a device or refreshes an existing registration.
// Keyed by (user_id, device_id): re-registering the same device updates
// the push token and last-seen time in place.
func (s *Store) Upsert(ctx context.Context, d models.Device) error {
	now := time.Now().UTC()
	set := bson.M{"last_seen_at": now}
	if d.Platform != "" {
		set["platform"] = d.Platform
	}
	if d.PushToken != "" {
		set["push_token"] = d.PushToken
	}

	_, err := s.c.UpdateOne(ctx,
		bson.M{"user_id": d.UserID, "device_id": d.DeviceID},
		bson.M{
			"$set": set,
			"$setOnInsert": bson.M{
				"_id":        primitive.NewObjectID(),
				"created_at": now,
			},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

// ListByUser returns a user's registered devices, most recently seen first.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Device, error) {
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "last_seen_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	var out []models.Device
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteByUserDevice removes one registration.
func (s *Store) DeleteByUserDevice(ctx context.Context, userID primitive.ObjectID, deviceID string) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"user_id": userID, "device_id": deviceID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
