// internal/app/store/tokens/store.go
package tokens

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	// TokenBytes is the entropy of a refresh token (32 bytes = 64 hex chars).
	TokenBytes = 32
	// DefaultTTL is how long a refresh token stays valid without rotation.
	DefaultTTL = 30 * 24 * time.Hour
)

// ErrNotFound is returned when a refresh token is unknown, expired, or
// already rotated.
var ErrNotFound = errors.New("refresh token not found or expired")

// RefreshToken is a stored long-lived credential. Only the SHA-256 of
// the token is stored; the plain value exists once, in the response that
// issued it.
type RefreshToken struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    primitive.ObjectID `bson:"user_id"`
	TokenHash string             `bson:"token_hash"`
	ExpiresAt time.Time          `bson:"expires_at"` // TTL index field
	CreatedAt time.Time          `bson:"created_at"`
}

// Store manages refresh tokens.
type Store struct {
	c   *mongo.Collection
	ttl time.Duration
}

// New creates a new Store. A ttl of zero uses DefaultTTL.
func New(db *mongo.Database, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		c:   db.Collection("refresh_tokens"),
		ttl: ttl,
	}
}

// TTL returns the refresh token lifetime.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Issue mints a refresh token for the user and returns the plain value.
func (s *Store) Issue(ctx context.Context, userID primitive.ObjectID) (string, error) {
	plain := generateToken()

	doc := RefreshToken{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		TokenHash: hashToken(plain),
		ExpiresAt: time.Now().UTC().Add(s.ttl),
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, doc); err != nil {
		return "", err
	}
	return plain, nil
}

// Consume validates and deletes a refresh token in one step, returning
// its record. Deletion makes rotation atomic: a token can be exchanged
// exactly once, even under concurrent refresh calls.
func (s *Store) Consume(ctx context.Context, plain string) (*RefreshToken, error) {
	var token RefreshToken
	err := s.c.FindOneAndDelete(ctx, bson.M{
		"token_hash": hashToken(plain),
		"expires_at": bson.M{"$gt": time.Now().UTC()},
	}).Decode(&token)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &token, nil
}

// RevokeAllForUser deletes every refresh token held by a user. Called on
// logout and when an account is disabled.
func (s *Store) RevokeAllForUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func generateToken() string {
	b := make([]byte, TokenBytes)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand.Read failed: " + err.Error())
	}
	return hex.EncodeToString(b)
}

// hashToken derives the storage/lookup key for a token. SHA-256 (not
// bcrypt) because the input is already high-entropy and the hash must be
// an exact-match index key.
func hashToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
