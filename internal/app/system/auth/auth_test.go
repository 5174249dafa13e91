// internal/app/system/auth/auth_test.go
package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/domain/models"
)

const testSecret = "test-signing-key-must-be-32-chars!!"

func newTestTokenManager(t *testing.T) *auth.TokenManager {
	t.Helper()
	tm, err := auth.NewTokenManager(testSecret, "reliefhub-test", 15*time.Minute, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create token manager: %v", err)
	}
	return tm
}

// fetcherFor returns a UserFetcher that knows exactly one user.
func fetcherFor(u *models.User) auth.UserFetcher {
	return func(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
		if u != nil && u.ID == id {
			return u, nil
		}
		return nil, nil
	}
}

func TestNewTokenManager_EmptySecret(t *testing.T) {
	if _, err := auth.NewTokenManager("", "reliefhub-test", time.Minute, zap.NewNop()); err == nil {
		t.Error("expected error for empty secret")
	}
}

func TestTokenManager_IssueAndParse(t *testing.T) {
	tm := newTestTokenManager(t)
	userID := primitive.NewObjectID()

	token, expiresAt, err := tm.Issue(userID)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}
	if !expiresAt.After(time.Now()) {
		t.Error("expected expiry in the future")
	}

	got, err := tm.Parse(token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got != userID {
		t.Errorf("expected subject %s, got %s", userID.Hex(), got.Hex())
	}
}

func TestTokenManager_Parse_WrongSecret(t *testing.T) {
	tm := newTestTokenManager(t)
	other, err := auth.NewTokenManager("another-signing-key-also-32-chars!!", "reliefhub-test", time.Minute, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create token manager: %v", err)
	}

	token, _, err := other.Issue(primitive.NewObjectID())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := tm.Parse(token); err == nil {
		t.Error("expected rejection of token signed with a different secret")
	}
}

func TestTokenManager_Parse_WrongIssuer(t *testing.T) {
	tm := newTestTokenManager(t)
	other, err := auth.NewTokenManager(testSecret, "someone-else", time.Minute, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create token manager: %v", err)
	}

	token, _, err := other.Issue(primitive.NewObjectID())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := tm.Parse(token); err == nil {
		t.Error("expected rejection of token from a different issuer")
	}
}

func TestTokenManager_Parse_Expired(t *testing.T) {
	tm, err := auth.NewTokenManager(testSecret, "reliefhub-test", time.Millisecond, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create token manager: %v", err)
	}

	token, _, err := tm.Issue(primitive.NewObjectID())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, err := tm.Parse(token); err == nil {
		t.Error("expected rejection of expired token")
	}
}

func TestTokenManager_Parse_Garbage(t *testing.T) {
	tm := newTestTokenManager(t)
	if _, err := tm.Parse("not-a-jwt"); err == nil {
		t.Error("expected rejection of malformed token")
	}
}

func TestRequireUser_NoToken(t *testing.T) {
	tm := newTestTokenManager(t)
	mw := auth.NewMiddleware(tm, fetcherFor(nil), zap.NewNop())

	handler := mw.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/v1/dashboard/overview", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestRequireUser_BadToken(t *testing.T) {
	tm := newTestTokenManager(t)
	mw := auth.NewMiddleware(tm, fetcherFor(nil), zap.NewNop())

	handler := mw.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/v1/dashboard/overview", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestRequireUser_ValidToken(t *testing.T) {
	tm := newTestTokenManager(t)
	user := &models.User{
		ID:       primitive.NewObjectID(),
		FullName: "Hana Admin",
		Status:   models.UserStatusActive,
	}
	mw := auth.NewMiddleware(tm, fetcherFor(user), zap.NewNop())

	var seen *models.User
	handler := mw.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = auth.MustCurrentUser(r)
		w.WriteHeader(http.StatusOK)
	}))

	token, _, err := tm.Issue(user.ID)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/v1/dashboard/overview", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if seen == nil || seen.ID != user.ID {
		t.Error("expected the fetched user in the request context")
	}
}

func TestRequireUser_LowercaseBearerScheme(t *testing.T) {
	tm := newTestTokenManager(t)
	user := &models.User{ID: primitive.NewObjectID(), Status: models.UserStatusActive}
	mw := auth.NewMiddleware(tm, fetcherFor(user), zap.NewNop())

	handler := mw.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	token, _, err := tm.Issue(user.ID)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/v1/dashboard/overview", nil)
	req.Header.Set("Authorization", "bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected scheme match to be case-insensitive, got %d", rec.Code)
	}
}

func TestRequireUser_DeletedUser(t *testing.T) {
	tm := newTestTokenManager(t)
	// The fetcher knows nobody: the token's subject no longer exists.
	mw := auth.NewMiddleware(tm, fetcherFor(nil), zap.NewNop())

	handler := mw.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	token, _, err := tm.Issue(primitive.NewObjectID())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/v1/dashboard/overview", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d for deleted user, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestRequireUser_DisabledUser(t *testing.T) {
	tm := newTestTokenManager(t)
	user := &models.User{
		ID:     primitive.NewObjectID(),
		Status: models.UserStatusDisabled,
	}
	mw := auth.NewMiddleware(tm, fetcherFor(user), zap.NewNop())

	handler := mw.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// The token is still valid; the account state decides.
	token, _, err := tm.Issue(user.ID)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/v1/dashboard/overview", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status %d for disabled user, got %d", http.StatusForbidden, rec.Code)
	}
}

func TestRequireUser_FetchError(t *testing.T) {
	tm := newTestTokenManager(t)
	failing := func(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
		return nil, errors.New("connection reset")
	}
	mw := auth.NewMiddleware(tm, failing, zap.NewNop())

	handler := mw.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	token, _, err := tm.Issue(primitive.NewObjectID())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/v1/dashboard/overview", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d on fetch failure, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestCurrentUser_NoUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)

	user, ok := auth.CurrentUser(req)
	if ok {
		t.Error("expected ok to be false when no user in context")
	}
	if user != nil {
		t.Error("expected user to be nil when no user in context")
	}
	if auth.MustCurrentUser(req) != nil {
		t.Error("expected MustCurrentUser to return nil outside the middleware")
	}
}

func TestCurrentUser_WithUser(t *testing.T) {
	u := &models.User{ID: primitive.NewObjectID(), FullName: "Hana Admin"}
	req := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), u)

	got, ok := auth.CurrentUser(req)
	if !ok {
		t.Fatal("expected ok to be true when user in context")
	}
	if got.ID != u.ID {
		t.Errorf("expected user %s, got %s", u.ID.Hex(), got.ID.Hex())
	}
}
