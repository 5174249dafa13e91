// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dalemusser/reliefhub/internal/app/system/normalize"
	"github.com/dalemusser/reliefhub/internal/domain/models"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates an active test user with the given name and phone.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, phone string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		Phone:      normalize.Phone(phone),
		FullName:   fullName,
		FullNameCI: normalize.Fold(fullName),
		Status:     models.UserStatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateSuperAdmin creates a test user with the super admin flag.
func (f *Fixtures) CreateSuperAdmin(ctx context.Context, fullName, phone string) models.User {
	f.t.Helper()

	u := f.CreateUser(ctx, fullName, phone)
	u.IsSuperAdmin = true
	if _, err := f.db.Collection("users").ReplaceOne(ctx, bson.M{"_id": u.ID}, u); err != nil {
		f.t.Fatalf("failed to flag super admin: %v", err)
	}
	return u
}

// CreateScopedAdmin creates a test user restricted to an area and
// district. Either may be empty for a broader scope.
func (f *Fixtures) CreateScopedAdmin(ctx context.Context, fullName, phone, area, district string) models.User {
	f.t.Helper()

	u := f.CreateUser(ctx, fullName, phone)
	u.Area = area
	u.District = district
	if _, err := f.db.Collection("users").ReplaceOne(ctx, bson.M{"_id": u.ID}, u); err != nil {
		f.t.Fatalf("failed to scope test user: %v", err)
	}
	return u
}

// CreateDisabledUser creates a test user with disabled status.
func (f *Fixtures) CreateDisabledUser(ctx context.Context, fullName, phone string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		Phone:      normalize.Phone(phone),
		FullName:   fullName,
		FullNameCI: normalize.Fold(fullName),
		Status:     models.UserStatusDisabled,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create disabled test user: %v", err)
	}
	return user
}

// CreatePermission creates one active permission in the catalog.
func (f *Fixtures) CreatePermission(ctx context.Context, name, module string) models.Permission {
	f.t.Helper()
	return f.CreatePermissionWithDeps(ctx, name, module, models.PermissionDependencies{})
}

// CreatePermissionWithDeps creates a permission with dependency relations.
func (f *Fixtures) CreatePermissionWithDeps(ctx context.Context, name, module string, deps models.PermissionDependencies) models.Permission {
	f.t.Helper()

	p := models.Permission{
		ID:            primitive.NewObjectID(),
		Name:          name,
		DisplayName:   name,
		Module:        module,
		Category:      "read",
		Scope:         "global",
		SecurityLevel: 1,
		Dependencies:  deps,
		IsActive:      true,
	}
	if _, err := f.db.Collection("permissions").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test permission: %v", err)
	}
	return p
}

// CreateRole creates an active custom role with the given permissions.
func (f *Fixtures) CreateRole(ctx context.Context, name string, level int, perms []string) models.Role {
	f.t.Helper()
	return f.CreateRoleInheriting(ctx, name, level, perms, nil)
}

// CreateRoleInheriting creates a role that inherits from a parent role.
func (f *Fixtures) CreateRoleInheriting(ctx context.Context, name string, level int, perms []string, inheritsFrom *primitive.ObjectID) models.Role {
	f.t.Helper()

	now := time.Now().UTC()
	if perms == nil {
		perms = []string{}
	}
	role := models.Role{
		ID:           primitive.NewObjectID(),
		Name:         name,
		DisplayName:  name,
		Level:        level,
		Category:     "general",
		Type:         models.RoleTypeCustom,
		Permissions:  perms,
		InheritsFrom: inheritsFrom,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("roles").InsertOne(ctx, role); err != nil {
		f.t.Fatalf("failed to create test role: %v", err)
	}
	return role
}

// CreateAssignment creates an active approved assignment of a role to a user.
func (f *Fixtures) CreateAssignment(ctx context.Context, userID, roleID primitive.ObjectID) models.UserRoleAssignment {
	f.t.Helper()

	a := models.UserRoleAssignment{
		ID:             primitive.NewObjectID(),
		UserID:         userID,
		RoleID:         roleID,
		IsActive:       true,
		ApprovalStatus: models.ApprovalApproved,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
	if _, err := f.db.Collection("role_assignments").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to create test assignment: %v", err)
	}
	return a
}

// CreateExpiredAssignment creates an assignment whose validity window
// already ended.
func (f *Fixtures) CreateExpiredAssignment(ctx context.Context, userID, roleID primitive.ObjectID) models.UserRoleAssignment {
	f.t.Helper()

	past := time.Now().UTC().Add(-24 * time.Hour)
	a := models.UserRoleAssignment{
		ID:             primitive.NewObjectID(),
		UserID:         userID,
		RoleID:         roleID,
		IsActive:       true,
		ApprovalStatus: models.ApprovalApproved,
		ValidUntil:     &past,
		IsTemporary:    true,
		CreatedAt:      past.Add(-time.Hour),
		UpdatedAt:      past.Add(-time.Hour),
	}
	if _, err := f.db.Collection("role_assignments").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to create expired test assignment: %v", err)
	}
	return a
}

// CreateAssignmentWithOverrides creates an assignment carrying extra
// grants and restrictions.
func (f *Fixtures) CreateAssignmentWithOverrides(ctx context.Context, userID, roleID primitive.ObjectID, grants, restrictions []string) models.UserRoleAssignment {
	f.t.Helper()

	a := models.UserRoleAssignment{
		ID:             primitive.NewObjectID(),
		UserID:         userID,
		RoleID:         roleID,
		IsActive:       true,
		ApprovalStatus: models.ApprovalApproved,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
	for _, g := range grants {
		a.AdditionalPermissions = append(a.AdditionalPermissions, models.PermissionGrant{Permission: g})
	}
	for _, r := range restrictions {
		a.RestrictedPermissions = append(a.RestrictedPermissions, models.PermissionRestriction{Permission: r})
	}
	if _, err := f.db.Collection("role_assignments").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to create test assignment with overrides: %v", err)
	}
	return a
}

// CreateLogEntry creates one activity log entry at the given timestamp.
func (f *Fixtures) CreateLogEntry(ctx context.Context, action, resource, severity, status string, ts time.Time) models.ActivityLogEntry {
	f.t.Helper()

	e := models.ActivityLogEntry{
		ID:          primitive.NewObjectID(),
		Timestamp:   ts,
		Action:      action,
		Resource:    resource,
		Description: action,
		Status:      status,
		Severity:    severity,
	}
	if _, err := f.db.Collection("activity_logs").InsertOne(ctx, e); err != nil {
		f.t.Fatalf("failed to create test log entry: %v", err)
	}
	return e
}

// CreateApplication creates an aid application in the given area and
// district. Beneficiary is synthesized.
func (f *Fixtures) CreateApplication(ctx context.Context, area, district, status string, amount float64) models.AidApplication {
	f.t.Helper()

	now := time.Now().UTC()
	app := models.AidApplication{
		ID:            primitive.NewObjectID(),
		BeneficiaryID: primitive.NewObjectID(),
		Status:        status,
		Amount:        amount,
		Area:          area,
		District:      district,
		SubmittedAt:   now,
		UpdatedAt:     now,
	}
	if _, err := f.db.Collection("aid_applications").InsertOne(ctx, app); err != nil {
		f.t.Fatalf("failed to create test application: %v", err)
	}
	return app
}

// CreatePayment creates a payment in the given area and district.
func (f *Fixtures) CreatePayment(ctx context.Context, area, district, status string, amount float64) models.Payment {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Payment{
		ID:            primitive.NewObjectID(),
		BeneficiaryID: primitive.NewObjectID(),
		Amount:        amount,
		Status:        status,
		Area:          area,
		District:      district,
		CreatedAt:     now,
	}
	if p.Status == models.PaymentCompleted {
		p.PaidAt = &now
	}
	if _, err := f.db.Collection("payments").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test payment: %v", err)
	}
	return p
}

// CreateNotification creates an unread notification for the recipient.
func (f *Fixtures) CreateNotification(ctx context.Context, recipientID primitive.ObjectID, typ, title string) models.Notification {
	f.t.Helper()

	n := models.Notification{
		ID:          primitive.NewObjectID(),
		RecipientID: recipientID,
		Type:        typ,
		Title:       title,
		Body:        title,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := f.db.Collection("notifications").InsertOne(ctx, n); err != nil {
		f.t.Fatalf("failed to create test notification: %v", err)
	}
	return n
}
