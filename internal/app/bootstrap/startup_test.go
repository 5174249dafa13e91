package bootstrap

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/dalemusser/reliefhub/internal/app/system/rbac"
	"github.com/dalemusser/reliefhub/internal/domain/models"
	"github.com/dalemusser/reliefhub/internal/testutil"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func TestStartup_SeedsCatalogAndRoles(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoDB: db}

	if err := Startup(ctx, AppConfig{}, deps, testLogger()); err != nil {
		t.Fatalf("Startup failed: %v", err)
	}

	permCount, err := db.Collection("permissions").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("count permissions: %v", err)
	}
	if want := int64(len(rbac.DefaultPermissions())); permCount != want {
		t.Errorf("permission count: got %d, want %d", permCount, want)
	}

	roleCount, err := db.Collection("roles").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("count roles: %v", err)
	}
	if want := int64(len(rbac.DefaultRoles())); roleCount != want {
		t.Errorf("role count: got %d, want %d", roleCount, want)
	}

	// The seeded hierarchy links each role to the one below it.
	var superRole models.Role
	if err := db.Collection("roles").FindOne(ctx, bson.M{"name": models.RoleSuperAdmin}).Decode(&superRole); err != nil {
		t.Fatalf("find super admin role: %v", err)
	}
	if superRole.InheritsFrom == nil {
		t.Fatal("expected super admin role to inherit from area admin")
	}
	var areaRole models.Role
	if err := db.Collection("roles").FindOne(ctx, bson.M{"name": models.RoleAreaAdmin}).Decode(&areaRole); err != nil {
		t.Fatalf("find area admin role: %v", err)
	}
	if *superRole.InheritsFrom != areaRole.ID {
		t.Errorf("super admin inherits_from: got %s, want %s",
			superRole.InheritsFrom.Hex(), areaRole.ID.Hex())
	}
	if superRole.Type != models.RoleTypeSystem {
		t.Errorf("seeded role type: got %q, want %q", superRole.Type, models.RoleTypeSystem)
	}
}

func TestStartup_IsIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoDB: db}

	if err := Startup(ctx, AppConfig{}, deps, testLogger()); err != nil {
		t.Fatalf("first Startup failed: %v", err)
	}
	if err := Startup(ctx, AppConfig{}, deps, testLogger()); err != nil {
		t.Fatalf("second Startup failed: %v", err)
	}

	permCount, _ := db.Collection("permissions").CountDocuments(ctx, bson.M{})
	if want := int64(len(rbac.DefaultPermissions())); permCount != want {
		t.Errorf("permission count after reseed: got %d, want %d", permCount, want)
	}
	roleCount, _ := db.Collection("roles").CountDocuments(ctx, bson.M{})
	if want := int64(len(rbac.DefaultRoles())); roleCount != want {
		t.Errorf("role count after reseed: got %d, want %d", roleCount, want)
	}
}

func TestStartup_CreatesSuperAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoDB: db}
	cfg := AppConfig{
		SuperAdminPhone: "+15550100200",
		SuperAdminName:  "Root Admin",
	}

	if err := Startup(ctx, cfg, deps, testLogger()); err != nil {
		t.Fatalf("Startup failed: %v", err)
	}

	var user models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"phone": "+15550100200"}).Decode(&user); err != nil {
		t.Fatalf("find super admin user: %v", err)
	}
	if !user.IsSuperAdmin {
		t.Error("expected is_super_admin to be set")
	}
	if user.Status != models.UserStatusActive {
		t.Errorf("status: got %q, want %q", user.Status, models.UserStatusActive)
	}
	if user.FullName != "Root Admin" {
		t.Errorf("full name: got %q, want %q", user.FullName, "Root Admin")
	}
}

func TestStartup_PromotesExistingUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	existing := fx.CreateUser(ctx, "Dana Officer", "+15550100300")

	deps := DBDeps{MongoDB: db}
	cfg := AppConfig{
		SuperAdminPhone: "+15550100300",
		SuperAdminName:  "Should Not Replace",
	}

	if err := Startup(ctx, cfg, deps, testLogger()); err != nil {
		t.Fatalf("Startup failed: %v", err)
	}

	var user models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"_id": existing.ID}).Decode(&user); err != nil {
		t.Fatalf("find promoted user: %v", err)
	}
	if !user.IsSuperAdmin {
		t.Error("expected existing user to gain is_super_admin")
	}
	// Promotion keeps the existing profile.
	if user.FullName != "Dana Officer" {
		t.Errorf("full name changed on promotion: got %q", user.FullName)
	}

	count, _ := db.Collection("users").CountDocuments(ctx, bson.M{"phone": "+15550100300"})
	if count != 1 {
		t.Errorf("user count for phone: got %d, want 1", count)
	}
}
