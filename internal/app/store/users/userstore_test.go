// internal/app/store/users/userstore_test.go
package userstore_test

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	userstore "github.com/dalemusser/reliefhub/internal/app/store/users"
	"github.com/dalemusser/reliefhub/internal/app/system/indexes"
	"github.com/dalemusser/reliefhub/internal/domain/models"
	"github.com/dalemusser/reliefhub/internal/testutil"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		Phone:    "00 1 (555) 060-0001",
		FullName: "  Amara Osei  ",
		Email:    "Amara@Example.ORG",
		Area:     "north",
		District: "hillside",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}

	// Phone lands in E.164 form regardless of input formatting.
	if created.Phone != "+15550600001" {
		t.Errorf("expected normalized phone, got %q", created.Phone)
	}

	if created.FullName != "Amara Osei" {
		t.Errorf("expected trimmed name, got %q", created.FullName)
	}
	if created.FullNameCI != "amara osei" {
		t.Errorf("expected folded name shadow, got %q", created.FullNameCI)
	}
	if created.Email != "amara@example.org" {
		t.Errorf("expected lowercased email, got %q", created.Email)
	}

	if created.Status != models.UserStatusActive {
		t.Errorf("expected status %q, got %q", models.UserStatusActive, created.Status)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestStore_Create_DuplicatePhone(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// The unique phone index backs the duplicate check.
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	if _, err := store.Create(ctx, models.User{Phone: "+15550600002", FullName: "First User"}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	// Different formatting, same number after normalization.
	_, err := store.Create(ctx, models.User{Phone: "001 555 060 0002", FullName: "Second User"})
	if !errors.Is(err, userstore.ErrDuplicatePhone) {
		t.Errorf("expected ErrDuplicatePhone, got %v", err)
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByID(ctx, primitive.NewObjectID())
	if !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected ErrNoDocuments, got %v", err)
	}
}

func TestStore_GetByPhone_NormalizesLookup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{Phone: "+15550600003", FullName: "Lookup User"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.GetByPhone(ctx, "00 1 555 060 0003")
	if err != nil {
		t.Fatalf("GetByPhone failed: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("expected user %s, got %s", created.ID.Hex(), got.ID.Hex())
	}

	_, err = store.GetByPhone(ctx, "+15559999999")
	if !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected ErrNoDocuments for unknown phone, got %v", err)
	}
}

func TestStore_PhoneExists(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.User{Phone: "+15550600004", FullName: "Exists User"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	exists, err := store.PhoneExists(ctx, "+1 555 060 0004")
	if err != nil {
		t.Fatalf("PhoneExists failed: %v", err)
	}
	if !exists {
		t.Error("expected phone to exist")
	}

	exists, err = store.PhoneExists(ctx, "+15559999999")
	if err != nil {
		t.Fatalf("PhoneExists failed: %v", err)
	}
	if exists {
		t.Error("expected phone to not exist")
	}
}

func TestStore_UpdateProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		Phone:    "+15550600005",
		FullName: "Before Update",
		Email:    "before@example.org",
		Area:     "north",
		District: "hillside",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	newName := "After Update"
	clearEmail := ""
	err = store.UpdateProfile(ctx, created.ID, userstore.ProfileUpdate{
		FullName: &newName,
		Email:    &clearEmail,
	})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.FullName != "After Update" {
		t.Errorf("expected updated name, got %q", got.FullName)
	}
	if got.FullNameCI != "after update" {
		t.Errorf("expected folded shadow to follow the name, got %q", got.FullNameCI)
	}
	if got.Email != "" {
		t.Errorf("expected email cleared, got %q", got.Email)
	}

	// Fields not named in the update survive it.
	if got.Area != "north" || got.District != "hillside" {
		t.Errorf("expected region unchanged, got %q/%q", got.Area, got.District)
	}
}

func TestStore_UpdateProfile_ClearsRegion(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		Phone:    "+15550600011",
		FullName: "Scoped Admin",
		Area:     "north",
		District: "hillside",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Clearing the region widens the account back to unrestricted.
	empty := ""
	err = store.UpdateProfile(ctx, created.ID, userstore.ProfileUpdate{
		Area:     &empty,
		District: &empty,
	})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Area != "" || got.District != "" {
		t.Errorf("expected region cleared, got %q/%q", got.Area, got.District)
	}
}

func TestStore_UpdateProfile_MissingUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	name := "Nobody"
	err := store.UpdateProfile(ctx, primitive.NewObjectID(), userstore.ProfileUpdate{FullName: &name})
	if !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected ErrNoDocuments, got %v", err)
	}
}

func TestStore_UpdatePhone(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	created, err := store.Create(ctx, models.User{Phone: "+15550600006", FullName: "Mover"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	other, err := store.Create(ctx, models.User{Phone: "+15550600007", FullName: "Occupant"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.UpdatePhone(ctx, created.ID, "00 1 555 060 0008"); err != nil {
		t.Fatalf("UpdatePhone failed: %v", err)
	}
	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Phone != "+15550600008" {
		t.Errorf("expected new phone, got %q", got.Phone)
	}

	// Moving onto a number someone else holds is rejected.
	err = store.UpdatePhone(ctx, created.ID, other.Phone)
	if !errors.Is(err, userstore.ErrDuplicatePhone) {
		t.Errorf("expected ErrDuplicatePhone, got %v", err)
	}
}

func TestStore_TouchLastLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{Phone: "+15550600009", FullName: "Login User"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.LastLoginAt != nil {
		t.Fatal("expected no last login on a fresh account")
	}

	if err := store.TouchLastLogin(ctx, created.ID); err != nil {
		t.Fatalf("TouchLastLogin failed: %v", err)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.LastLoginAt == nil || got.LastLoginAt.IsZero() {
		t.Error("expected last login to be recorded")
	}
}

func TestStore_CountActive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.User{Phone: "+15550600012", FullName: "Active One"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, models.User{Phone: "+15550600013", FullName: "Active Two"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	fx.CreateDisabledUser(ctx, "Dropped", "+15550600014")

	count, err := store.CountActive(ctx)
	if err != nil {
		t.Fatalf("CountActive failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 active users, got %d", count)
	}
}

func TestStore_EnsureSuperAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Fresh database: the account is created with the flag set.
	u, created, err := store.EnsureSuperAdmin(ctx, "+15550600010", "Root Admin")
	if err != nil {
		t.Fatalf("EnsureSuperAdmin failed: %v", err)
	}
	if !created {
		t.Error("expected account to be created")
	}
	if !u.IsSuperAdmin {
		t.Error("expected super admin flag")
	}
	if u.FullName != "Root Admin" {
		t.Errorf("expected bootstrap name, got %q", u.FullName)
	}

	// Second run: same account, not recreated, profile untouched.
	u2, created, err := store.EnsureSuperAdmin(ctx, "+15550600010", "Different Name")
	if err != nil {
		t.Fatalf("second EnsureSuperAdmin failed: %v", err)
	}
	if created {
		t.Error("expected existing account to be reused")
	}
	if u2.ID != u.ID {
		t.Error("expected the same account across runs")
	}
	if u2.FullName != "Root Admin" {
		t.Errorf("expected original name kept, got %q", u2.FullName)
	}
}

func TestStore_EnsureSuperAdmin_PromotesExisting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	existing, err := store.Create(ctx, models.User{Phone: "+15550600015", FullName: "Ordinary Admin"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if existing.IsSuperAdmin {
		t.Fatal("expected a plain account before promotion")
	}

	u, created, err := store.EnsureSuperAdmin(ctx, "+15550600015", "Bootstrap Name")
	if err != nil {
		t.Fatalf("EnsureSuperAdmin failed: %v", err)
	}
	if created {
		t.Error("expected the existing account to be reused")
	}
	if u.ID != existing.ID {
		t.Error("expected promotion, not a new account")
	}
	if !u.IsSuperAdmin {
		t.Error("expected super admin flag after promotion")
	}

	// Promotion sets the flag only; the profile stays as it was.
	if u.FullName != "Ordinary Admin" {
		t.Errorf("expected original name kept, got %q", u.FullName)
	}
}
