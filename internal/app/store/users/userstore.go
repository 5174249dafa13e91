// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dalemusser/reliefhub/internal/app/store/storeutil"
	"github.com/dalemusser/reliefhub/internal/app/system/normalize"
	"github.com/dalemusser/reliefhub/internal/domain/models"
)

// ErrDuplicatePhone is returned when creating or updating a user with a
// phone number that already belongs to another account.
var ErrDuplicatePhone = errors.New("phone number already registered")

// Store handles user persistence.
type Store struct {
	c *mongo.Collection
}

// New creates a user store bound to the users collection.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// Create inserts a new user. Phone is normalized to E.164 form and the
// case-insensitive name shadow field is derived here so callers never
// have to remember it.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	now := time.Now().UTC()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	u.Phone = normalize.Phone(u.Phone)
	u.FullName = normalize.Name(u.FullName)
	u.FullNameCI = normalize.Fold(u.FullName)
	u.Email = normalize.Email(u.Email)
	if u.Status == "" {
		u.Status = models.UserStatusActive
	}
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if storeutil.IsDup(err) {
			return models.User{}, ErrDuplicatePhone
		}
		return models.User{}, err
	}
	return u, nil
}

// GetByID fetches a user by id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	return u, err
}

// GetByPhone fetches a user by phone number. The input is normalized
// before lookup so formatting differences don't matter.
func (s *Store) GetByPhone(ctx context.Context, phone string) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{"phone": normalize.Phone(phone)}).Decode(&u)
	return u, err
}

// PhoneExists reports whether any account holds the phone number.
func (s *Store) PhoneExists(ctx context.Context, phone string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"phone": normalize.Phone(phone)}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ProfileUpdate carries the self-service editable fields. Nil pointers
// leave the stored value untouched; empty strings clear it.
type ProfileUpdate struct {
	FullName *string
	Email    *string
	Area     *string
	District *string
}

// UpdateProfile applies a partial profile update.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, upd ProfileUpdate) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	unset := bson.M{}

	if upd.FullName != nil {
		name := normalize.Name(*upd.FullName)
		set["full_name"] = name
		set["full_name_ci"] = normalize.Fold(name)
	}
	if upd.Email != nil {
		if e := normalize.Email(*upd.Email); e != "" {
			set["email"] = e
		} else {
			unset["email"] = ""
		}
	}
	if upd.Area != nil {
		if *upd.Area != "" {
			set["area"] = *upd.Area
		} else {
			unset["area"] = ""
		}
	}
	if upd.District != nil {
		if *upd.District != "" {
			set["district"] = *upd.District
		} else {
			unset["district"] = ""
		}
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

// UpdatePhone moves the account to a new phone number.
func (s *Store) UpdatePhone(ctx context.Context, id primitive.ObjectID, phone string) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"phone":      normalize.Phone(phone),
			"updated_at": time.Now().UTC(),
		},
	})
	if err != nil {
		if storeutil.IsDup(err) {
			return ErrDuplicatePhone
		}
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// TouchLastLogin records a successful sign-in time.
func (s *Store) TouchLastLogin(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now().UTC()
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"last_login_at": now, "updated_at": now},
	})
	return err
}

// CountActive returns the number of active accounts.
func (s *Store) CountActive(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"status": models.UserStatusActive})
}

// EnsureSuperAdmin upserts the bootstrap super admin account by phone.
// Returns the stored user and whether it was newly created. An existing
// account gains the flag but keeps its profile.
func (s *Store) EnsureSuperAdmin(ctx context.Context, phone, fullName string) (models.User, bool, error) {
	phone = normalize.Phone(phone)
	name := normalize.Name(fullName)
	now := time.Now().UTC()

	res, err := s.c.UpdateOne(ctx,
		bson.M{"phone": phone},
		bson.M{
			"$set": bson.M{
				"is_super_admin": true,
				"updated_at":     now,
			},
			"$setOnInsert": bson.M{
				"_id":          primitive.NewObjectID(),
				"phone":        phone,
				"full_name":    name,
				"full_name_ci": normalize.Fold(name),
				"status":       models.UserStatusActive,
				"created_at":   now,
			},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return models.User{}, false, err
	}

	u, err := s.GetByPhone(ctx, phone)
	if err != nil {
		return models.User{}, false, err
	}
	return u, res.UpsertedCount > 0, nil
}
