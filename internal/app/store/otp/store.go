// internal/app/store/otp/store.go
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

// Purposes a code can be issued for. A code issued for one purpose never
// verifies for another.
const (
	PurposeLogin       = "login"
	PurposeChangePhone = "change_phone"
)

const (
	// CodeLength is the length of the verification code (6 digits).
	CodeLength = 6
	// DefaultExpiry is how long a verification code is valid.
	DefaultExpiry = 10 * time.Minute
	// BcryptCost for hashing codes.
	BcryptCost = 10
	// MaxVerifyAttempts is the maximum number of code verification attempts per code.
	MaxVerifyAttempts = 5
	// MaxResends is the maximum number of code resends within the rate limit window.
	MaxResends = 3
	// ResendWindow is the time window for tracking resend rate limiting.
	ResendWindow = 10 * time.Minute
)

var (
	// ErrNotFound is returned when no pending code exists or it has expired.
	ErrNotFound = errors.New("verification code not found or expired")
	// ErrInvalidCode is returned when the code doesn't match.
	ErrInvalidCode = errors.New("invalid verification code")
	// ErrTooManyAttempts is returned when too many verification attempts have been made.
	ErrTooManyAttempts = errors.New("too many verification attempts")
	// ErrTooManyResends is returned when too many codes have been requested.
	ErrTooManyResends = errors.New("too many codes requested")
)

// Verification is a pending OTP, keyed by phone and purpose. Only the
// bcrypt hash of the code is stored.
type Verification struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Phone       string             `bson:"phone"`
	Purpose     string             `bson:"purpose"`
	CodeHash    string             `bson:"code_hash"`
	ExpiresAt   time.Time          `bson:"expires_at"` // TTL index field
	CreatedAt   time.Time          `bson:"created_at"`
	Attempts    int                `bson:"attempts"`
	ResendCount int                `bson:"resend_count"`
	WindowStart time.Time          `bson:"window_start"`
}

// Store manages pending verification codes.
type Store struct {
	c      *mongo.Collection
	expiry time.Duration
}

// New creates a new Store with the specified expiry duration.
// If expiry is 0 or negative, DefaultExpiry (10 minutes) is used.
func New(db *mongo.Database, expiry time.Duration) *Store {
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	return &Store{
		c:      db.Collection("otp_verifications"),
		expiry: expiry,
	}
}

// Expiry returns the expiry duration for verification codes.
func (s *Store) Expiry() time.Duration {
	return s.expiry
}

// CreateResult contains the generated plain-text code for delivery.
type CreateResult struct {
	Code        string
	ResendCount int
}

// Create issues a new code for the phone and purpose, replacing any
// pending one. Repeat requests inside the resend window count against
// MaxResends; requests after the window starts a fresh count.
func (s *Store) Create(ctx context.Context, phone, purpose string) (*CreateResult, error) {
	now := time.Now().UTC()

	var existing Verification
	err := s.c.FindOne(ctx, bson.M{"phone": phone, "purpose": purpose}).Decode(&existing)
	existingFound := err == nil

	resendCount := 0
	windowStart := now
	if existingFound && now.Before(existing.WindowStart.Add(ResendWindow)) {
		if existing.ResendCount >= MaxResends {
			return nil, ErrTooManyResends
		}
		windowStart = existing.WindowStart
		resendCount = existing.ResendCount + 1
	}

	code := generateCode()
	hash, err := bcrypt.GenerateFromPassword([]byte(code), BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash code: %w", err)
	}

	// ReplaceOne with upsert writes atomically against the unique
	// (phone, purpose) index, so concurrent sends cannot leave two
	// pending codes.
	v := Verification{
		Phone:       phone,
		Purpose:     purpose,
		CodeHash:    string(hash),
		ExpiresAt:   now.Add(s.expiry),
		CreatedAt:   now,
		Attempts:    0,
		ResendCount: resendCount,
		WindowStart: windowStart,
	}
	_, err = s.c.ReplaceOne(ctx,
		bson.M{"phone": phone, "purpose": purpose},
		v,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return nil, fmt.Errorf("store verification: %w", err)
	}

	return &CreateResult{
		Code:        code,
		ResendCount: resendCount,
	}, nil
}

// Verify checks a code for the phone and purpose. The record is deleted
// after successful verification (codes are single use). Every call,
// valid or not, counts against MaxVerifyAttempts.
func (s *Store) Verify(ctx context.Context, phone, purpose, code string) error {
	var v Verification
	err := s.c.FindOne(ctx, bson.M{
		"phone":      phone,
		"purpose":    purpose,
		"expires_at": bson.M{"$gt": time.Now().UTC()},
	}).Decode(&v)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrNotFound
		}
		return err
	}

	if v.Attempts >= MaxVerifyAttempts {
		return ErrTooManyAttempts
	}

	// Count the attempt before comparing so a failed compare still burns one.
	_, _ = s.c.UpdateOne(ctx, bson.M{"_id": v.ID}, bson.M{"$inc": bson.M{"attempts": 1}})

	if err := bcrypt.CompareHashAndPassword([]byte(v.CodeHash), []byte(code)); err != nil {
		return ErrInvalidCode
	}

	_, _ = s.c.DeleteOne(ctx, bson.M{"_id": v.ID})
	return nil
}

// DeleteByPhone removes all pending codes for a phone across purposes.
func (s *Store) DeleteByPhone(ctx context.Context, phone string) error {
	_, err := s.c.DeleteMany(ctx, bson.M{"phone": phone})
	return err
}

// generateCode generates a random 6-digit numeric code.
// Panics if the system's cryptographic random number generator fails.
func generateCode() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand.Read failed: " + err.Error())
	}
	n := int(b[0])<<24 | int(b[1])<<16 | int(b[2])<<8 | int(b[3])
	if n < 0 {
		n = -n
	}
	// Ensure 6 digits (100000 to 999999)
	code := (n % 900000) + 100000
	return fmt.Sprintf("%06d", code)
}
