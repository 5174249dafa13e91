// internal/app/system/auth/auth.go

// Package auth issues and verifies the API's bearer tokens and carries the
// authenticated user through the request context.
//
// Access tokens are short-lived HS256 JWTs whose subject is the user's
// ObjectID. The middleware re-fetches the user document on every request so
// a disabled account loses access immediately instead of when its token
// expires.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dalemusser/reliefhub/internal/app/system/httpx"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
	"github.com/dalemusser/reliefhub/internal/domain/models"
)

// DefaultAccessTTL is the access token lifetime when none is configured.
const DefaultAccessTTL = 15 * time.Minute

// TokenManager signs and verifies access tokens.
type TokenManager struct {
	secret    []byte
	issuer    string
	accessTTL time.Duration
}

// NewTokenManager builds a TokenManager. The secret must be non-empty;
// 32+ random characters are recommended and shorter values log a warning.
func NewTokenManager(secret, issuer string, accessTTL time.Duration, logger *zap.Logger) (*TokenManager, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is empty; provide 32+ random chars")
	}
	if len(secret) < 32 && logger != nil {
		logger.Warn("jwt secret is short; 32+ chars recommended",
			zap.Int("length", len(secret)))
	}
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	return &TokenManager{
		secret:    []byte(secret),
		issuer:    issuer,
		accessTTL: accessTTL,
	}, nil
}

// AccessTTL reports the configured access token lifetime.
func (m *TokenManager) AccessTTL() time.Duration {
	return m.accessTTL
}

// Issue creates a signed access token for the user and returns it with
// its expiry time.
func (m *TokenManager) Issue(userID primitive.ObjectID) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(m.accessTTL)

	claims := jwt.RegisteredClaims{
		Subject:   userID.Hex(),
		Issuer:    m.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		ID:        uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse verifies a token string and returns the user ID it was issued for.
func (m *TokenManager) Parse(tokenString string) (primitive.ObjectID, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("parse access token: %w", err)
	}

	userID, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("token subject is not a user id: %w", err)
	}
	return userID, nil
}

// UserFetcher loads a user by ID. Wired to the user store at startup so
// this package does not import the store.
type UserFetcher func(ctx context.Context, id primitive.ObjectID) (*models.User, error)

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the authenticated user from the request context.
func CurrentUser(r *http.Request) (*models.User, bool) {
	u, ok := r.Context().Value(currentUserKey).(*models.User)
	return u, ok
}

// MustCurrentUser returns the authenticated user, or nil when the request
// did not pass through RequireUser. Handlers behind the middleware can
// assume non-nil.
func MustCurrentUser(r *http.Request) *models.User {
	u, _ := CurrentUser(r)
	return u
}

func withUser(r *http.Request, u *models.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// WithTestUser injects a user into the request context, bypassing token
// verification. For handler tests only.
func WithTestUser(r *http.Request, u *models.User) *http.Request {
	return withUser(r, u)
}

// Middleware authenticates bearer tokens and loads the current user.
type Middleware struct {
	tokens *TokenManager
	fetch  UserFetcher
	logger *zap.Logger
}

// NewMiddleware builds the authentication middleware.
func NewMiddleware(tokens *TokenManager, fetch UserFetcher, logger *zap.Logger) *Middleware {
	return &Middleware{tokens: tokens, fetch: fetch, logger: logger}
}

// RequireUser rejects requests without a valid bearer token, fetches a
// fresh copy of the user, and injects it into the request context.
func (mw *Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := bearerToken(r)
		if tokenString == "" {
			httpx.Fail(w, http.StatusUnauthorized, "Authentication required.", "unauthorized")
			return
		}

		userID, err := mw.tokens.Parse(tokenString)
		if err != nil {
			httpx.Fail(w, http.StatusUnauthorized, "Invalid or expired token.", "unauthorized")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		user, err := mw.fetch(ctx, userID)
		cancel()
		if err != nil || user == nil {
			httpx.Fail(w, http.StatusUnauthorized, "Invalid or expired token.", "unauthorized")
			return
		}
		if !user.IsActive() {
			httpx.Fail(w, http.StatusForbidden, "Account is disabled.", "forbidden")
			return
		}

		next.ServeHTTP(w, withUser(r, user))
	})
}

// bearerToken extracts the token from an "Authorization: Bearer ..." header.
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
