// internal/app/features/rbac/handler_test.go
package rbacapi_test

import (
	"errors"
	"net/http"
	"slices"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	rbacapi "github.com/dalemusser/reliefhub/internal/app/features/rbac"
	"github.com/dalemusser/reliefhub/internal/app/store/activitylog"
	notifstore "github.com/dalemusser/reliefhub/internal/app/store/notifications"
	"github.com/dalemusser/reliefhub/internal/app/store/permissions"
	"github.com/dalemusser/reliefhub/internal/app/store/roleassign"
	"github.com/dalemusser/reliefhub/internal/app/store/roles"
	userstore "github.com/dalemusser/reliefhub/internal/app/store/users"
	"github.com/dalemusser/reliefhub/internal/app/system/activity"
	"github.com/dalemusser/reliefhub/internal/app/system/indexes"
	"github.com/dalemusser/reliefhub/internal/app/system/rbac"
	"github.com/dalemusser/reliefhub/internal/domain/models"
	"github.com/dalemusser/reliefhub/internal/testutil"
)

type handlerEnv struct {
	h           *rbacapi.Handler
	assignments *roleassign.Store
	notifs      *notifstore.Store
}

// newEnv wires the handler against a test database, with no permission
// cache so every resolution hits Mongo.
func newEnv(db *mongo.Database) handlerEnv {
	roleStore := roles.New(db)
	permStore := permissions.New(db)
	assignStore := roleassign.New(db)
	notifs := notifstore.New(db)
	logger := zap.NewNop()
	return handlerEnv{
		h: rbacapi.NewHandler(rbacapi.Deps{
			Roles:       roleStore,
			Perms:       permStore,
			Assignments: assignStore,
			Users:       userstore.New(db),
			Notifs:      notifs,
			Resolver:    rbac.NewService(assignStore, roleStore, permStore, nil, logger),
			Recorder:    activity.New(activitylog.New(db), logger, activity.Config{Mode: "db"}),
			Log:         logger,
		}),
		assignments: assignStore,
		notifs:      notifs,
	}
}

// createSystemRole inserts a seeded-style system role directly; the
// create endpoint only ever produces custom roles.
func createSystemRole(t *testing.T, db *mongo.Database, name string, level int) models.Role {
	t.Helper()

	now := time.Now().UTC()
	role := models.Role{
		ID:          primitive.NewObjectID(),
		Name:        name,
		DisplayName: name,
		Level:       level,
		Category:    "general",
		Type:        models.RoleTypeSystem,
		Permissions: []string{},
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if _, err := db.Collection("roles").InsertOne(ctx, role); err != nil {
		t.Fatalf("failed to insert system role: %v", err)
	}
	return role
}

func TestServeCreateRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	env := newEnv(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateSuperAdmin(ctx, "Acting Admin", "+15550800001")

	fx.CreatePermission(ctx, "content.manage", "content")

	req := testutil.NewAuthenticatedJSONRequest(t, http.MethodPost, "/roles", map[string]any{
		"name":         "content_editor",
		"display_name": "Content Editor",
		"level":        30,
		"permissions":  []string{"content.manage"},
	}, &admin)
	rec := testutil.NewRecorder()
	env.h.ServeCreateRole(rec, req)

	rec.AssertStatus(t, http.StatusCreated)
	var created models.Role
	testutil.DecodeData(t, testutil.DecodeEnvelope(t, rec.Body), &created)
	if created.Name != "content_editor" {
		t.Errorf("expected role name kept, got %q", created.Name)
	}
	if created.Type != models.RoleTypeCustom {
		t.Errorf("expected custom role, got %q", created.Type)
	}
	if !created.IsActive {
		t.Error("expected the new role to be active")
	}
	if created.CreatedBy == nil || *created.CreatedBy != admin.ID {
		t.Error("expected creator recorded")
	}
}

func TestServeCreateRole_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	env := newEnv(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateSuperAdmin(ctx, "Acting Admin", "+15550800002")

	cases := []struct {
		name string
		body map[string]any
	}{
		{"uppercase name", map[string]any{"name": "Editor", "display_name": "Editor", "level": 10}},
		{"missing display name", map[string]any{"name": "editor", "level": 10}},
		{"zero level", map[string]any{"name": "editor", "display_name": "Editor", "level": 0}},
		{"unknown permission", map[string]any{"name": "editor", "display_name": "Editor", "level": 10, "permissions": []string{"nope.never"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.NewAuthenticatedJSONRequest(t, http.MethodPost, "/roles", tc.body, &admin)
			rec := testutil.NewRecorder()
			env.h.ServeCreateRole(rec, req)
			rec.AssertStatus(t, http.StatusBadRequest)
		})
	}
}

func TestServeCreateRole_DuplicateName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	env := newEnv(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// The unique name index backs the duplicate check.
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	admin := fx.CreateSuperAdmin(ctx, "Acting Admin", "+15550800003")
	fx.CreateRole(ctx, "auditor", 20, nil)

	req := testutil.NewAuthenticatedJSONRequest(t, http.MethodPost, "/roles", map[string]any{
		"name":         "auditor",
		"display_name": "Auditor",
		"level":        20,
	}, &admin)
	rec := testutil.NewRecorder()
	env.h.ServeCreateRole(rec, req)

	rec.AssertStatus(t, http.StatusConflict)
	env2 := testutil.DecodeEnvelope(t, rec.Body)
	if env2.Error != "conflict" {
		t.Errorf("expected conflict code, got %q", env2.Error)
	}
}

func TestServeUpdateRole_SystemRoleForbidden(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	env := newEnv(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateSuperAdmin(ctx, "Acting Admin", "+15550800004")
	system := createSystemRole(t, db, "super_admin", 100)

	name := "Renamed"
	req := testutil.NewAuthenticatedJSONRequest(t, http.MethodPut, "/roles/"+system.ID.Hex(),
		map[string]any{"display_name": name}, &admin)
	req = testutil.WithChiURLParam(req, "id", system.ID.Hex())
	rec := testutil.NewRecorder()
	env.h.ServeUpdateRole(rec, req)

	rec.AssertStatus(t, http.StatusForbidden)
}

func TestServeUpdateRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	env := newEnv(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateSuperAdmin(ctx, "Acting Admin", "+15550800005")
	role := fx.CreateRole(ctx, "auditor", 20, nil)

	req := testutil.NewAuthenticatedJSONRequest(t, http.MethodPut, "/roles/"+role.ID.Hex(), map[string]any{
		"display_name": "Senior Auditor",
		"level":        25,
	}, &admin)
	req = testutil.WithChiURLParam(req, "id", role.ID.Hex())
	rec := testutil.NewRecorder()
	env.h.ServeUpdateRole(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	var updated models.Role
	testutil.DecodeData(t, testutil.DecodeEnvelope(t, rec.Body), &updated)
	if updated.DisplayName != "Senior Auditor" {
		t.Errorf("expected updated display name, got %q", updated.DisplayName)
	}
	if updated.Level != 25 {
		t.Errorf("expected updated level, got %d", updated.Level)
	}
	// Untouched fields keep their values.
	if updated.Name != "auditor" {
		t.Errorf("expected name unchanged, got %q", updated.Name)
	}
}

func TestServeUpdateRole_RejectsInheritanceCycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	env := newEnv(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateSuperAdmin(ctx, "Acting Admin", "+15550800006")
	base := fx.CreateRole(ctx, "viewer", 10, nil)
	top := fx.CreateRoleInheriting(ctx, "editor", 20, nil, &base.ID)

	// Pointing the base at its own descendant would close a loop.
	req := testutil.NewAuthenticatedJSONRequest(t, http.MethodPut, "/roles/"+base.ID.Hex(),
		map[string]any{"inherits_from": top.ID.Hex()}, &admin)
	req = testutil.WithChiURLParam(req, "id", base.ID.Hex())
	rec := testutil.NewRecorder()
	env.h.ServeUpdateRole(rec, req)

	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestServeDeleteRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	env := newEnv(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateSuperAdmin(ctx, "Acting Admin", "+15550800007")
	role := fx.CreateRole(ctx, "auditor", 20, nil)
	user := fx.CreateUser(ctx, "Role Holder", "+15550800008")
	assignment := fx.CreateAssignment(ctx, user.ID, role.ID)

	del := func() *testutil.ResponseRecorder {
		req := testutil.NewAuthenticatedRequest(http.MethodDelete, "/roles/"+role.ID.Hex(), &admin)
		req = testutil.WithChiURLParam(req, "id", role.ID.Hex())
		rec := testutil.NewRecorder()
		env.h.ServeDeleteRole(rec, req)
		return rec
	}

	// Refused while an active assignment references the role.
	rec := del()
	rec.AssertStatus(t, http.StatusConflict)

	if _, err := env.assignments.Deactivate(ctx, assignment.ID, admin.ID, "cleanup"); err != nil {
		t.Fatalf("Deactivate failed: %v", err)
	}

	// History rows alone do not block deletion.
	rec = del()
	rec.AssertStatus(t, http.StatusOK)

	if _, err := roles.New(db).GetByID(ctx, role.ID); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected role gone, got %v", err)
	}
}

func TestServeDeleteRole_SystemRoleForbidden(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	env := newEnv(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateSuperAdmin(ctx, "Acting Admin", "+15550800009")
	system := createSystemRole(t, db, "super_admin", 100)

	req := testutil.NewAuthenticatedRequest(http.MethodDelete, "/roles/"+system.ID.Hex(), &admin)
	req = testutil.WithChiURLParam(req, "id", system.ID.Hex())
	rec := testutil.NewRecorder()
	env.h.ServeDeleteRole(rec, req)

	rec.AssertStatus(t, http.StatusForbidden)
}

func TestServeDeleteRole_InheritedRoleBlocked(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	env := newEnv(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateSuperAdmin(ctx, "Acting Admin", "+15550800010")
	base := fx.CreateRole(ctx, "viewer", 10, nil)
	fx.CreateRoleInheriting(ctx, "editor", 20, nil, &base.ID)

	req := testutil.NewAuthenticatedRequest(http.MethodDelete, "/roles/"+base.ID.Hex(), &admin)
	req = testutil.WithChiURLParam(req, "id", base.ID.Hex())
	rec := testutil.NewRecorder()
	env.h.ServeDeleteRole(rec, req)

	rec.AssertStatus(t, http.StatusConflict)
}

func TestServeAssignRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	env := newEnv(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// The partial unique index backs the duplicate-assignment check.
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	admin := fx.CreateSuperAdmin(ctx, "Acting Admin", "+15550800011")
	user := fx.CreateUser(ctx, "Assignee", "+15550800012")
	role := fx.CreateRole(ctx, "auditor", 20, []string{"activity_logs.view"})

	assign := func() *testutil.ResponseRecorder {
		req := testutil.NewAuthenticatedJSONRequest(t, http.MethodPost, "/users/"+user.ID.Hex()+"/roles",
			map[string]any{"role_id": role.ID.Hex(), "reason": "audit season"}, &admin)
		req = testutil.WithChiURLParam(req, "userID", user.ID.Hex())
		rec := testutil.NewRecorder()
		env.h.ServeAssignRole(rec, req)
		return rec
	}

	rec := assign()
	rec.AssertStatus(t, http.StatusCreated)
	var created models.UserRoleAssignment
	testutil.DecodeData(t, testutil.DecodeEnvelope(t, rec.Body), &created)
	if created.UserID != user.ID || created.RoleID != role.ID {
		t.Error("expected assignment to link user and role")
	}
	if !created.IsActive {
		t.Error("expected active assignment")
	}
	if created.AssignedBy == nil || *created.AssignedBy != admin.ID {
		t.Error("expected assigning actor recorded")
	}

	// A second active assignment of the same role is a conflict.
	rec = assign()
	rec.AssertStatus(t, http.StatusConflict)

	// The user hears about the new role.
	n, err := env.notifs.CountByRecipient(ctx, user.ID, false)
	if err != nil {
		t.Fatalf("CountByRecipient failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 notification, got %d", n)
	}
}

func TestServeAssignRole_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	env := newEnv(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateSuperAdmin(ctx, "Acting Admin", "+15550800013")
	user := fx.CreateUser(ctx, "Assignee", "+15550800014")
	role := fx.CreateRole(ctx, "auditor", 20, nil)

	t.Run("unknown user", func(t *testing.T) {
		ghost := primitive.NewObjectID()
		req := testutil.NewAuthenticatedJSONRequest(t, http.MethodPost, "/users/"+ghost.Hex()+"/roles",
			map[string]any{"role_id": role.ID.Hex()}, &admin)
		req = testutil.WithChiURLParam(req, "userID", ghost.Hex())
		rec := testutil.NewRecorder()
		env.h.ServeAssignRole(rec, req)
		rec.AssertStatus(t, http.StatusNotFound)
	})

	t.Run("unknown role", func(t *testing.T) {
		req := testutil.NewAuthenticatedJSONRequest(t, http.MethodPost, "/users/"+user.ID.Hex()+"/roles",
			map[string]any{"role_id": primitive.NewObjectID().Hex()}, &admin)
		req = testutil.WithChiURLParam(req, "userID", user.ID.Hex())
		rec := testutil.NewRecorder()
		env.h.ServeAssignRole(rec, req)
		rec.AssertStatus(t, http.StatusNotFound)
	})

	t.Run("valid_until in the past", func(t *testing.T) {
		past := time.Now().Add(-time.Hour)
		req := testutil.NewAuthenticatedJSONRequest(t, http.MethodPost, "/users/"+user.ID.Hex()+"/roles",
			map[string]any{"role_id": role.ID.Hex(), "valid_until": past}, &admin)
		req = testutil.WithChiURLParam(req, "userID", user.ID.Hex())
		rec := testutil.NewRecorder()
		env.h.ServeAssignRole(rec, req)
		rec.AssertStatus(t, http.StatusBadRequest)
	})

	t.Run("inactive role", func(t *testing.T) {
		dormant := fx.CreateRole(ctx, "dormant", 5, nil)
		if _, err := db.Collection("roles").UpdateOne(ctx,
			bson.M{"_id": dormant.ID}, bson.M{"$set": bson.M{"is_active": false}}); err != nil {
			t.Fatalf("failed to deactivate role: %v", err)
		}
		req := testutil.NewAuthenticatedJSONRequest(t, http.MethodPost, "/users/"+user.ID.Hex()+"/roles",
			map[string]any{"role_id": dormant.ID.Hex()}, &admin)
		req = testutil.WithChiURLParam(req, "userID", user.ID.Hex())
		rec := testutil.NewRecorder()
		env.h.ServeAssignRole(rec, req)
		rec.AssertStatus(t, http.StatusBadRequest)
	})

	t.Run("unknown override permission", func(t *testing.T) {
		req := testutil.NewAuthenticatedJSONRequest(t, http.MethodPost, "/users/"+user.ID.Hex()+"/roles",
			map[string]any{
				"role_id":                role.ID.Hex(),
				"additional_permissions": []map[string]any{{"permission": "nope.never"}},
			}, &admin)
		req = testutil.WithChiURLParam(req, "userID", user.ID.Hex())
		rec := testutil.NewRecorder()
		env.h.ServeAssignRole(rec, req)
		rec.AssertStatus(t, http.StatusBadRequest)
	})
}

func TestServeRemoveRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	env := newEnv(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateSuperAdmin(ctx, "Acting Admin", "+15550800015")
	user := fx.CreateUser(ctx, "Role Holder", "+15550800016")
	role := fx.CreateRole(ctx, "auditor", 20, nil)
	assignment := fx.CreateAssignment(ctx, user.ID, role.ID)

	remove := func() *testutil.ResponseRecorder {
		req := testutil.NewAuthenticatedRequest(http.MethodDelete,
			"/users/"+user.ID.Hex()+"/roles/"+assignment.ID.Hex()+"?reason=rotation", &admin)
		req = testutil.WithChiURLParams(req, map[string]string{
			"userID":       user.ID.Hex(),
			"assignmentID": assignment.ID.Hex(),
		})
		rec := testutil.NewRecorder()
		env.h.ServeRemoveRole(rec, req)
		return rec
	}

	rec := remove()
	rec.AssertStatus(t, http.StatusOK)

	got, err := env.assignments.GetByID(ctx, assignment.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.IsActive {
		t.Error("expected assignment deactivated, not deleted")
	}
	if got.RemovalReason != "rotation" {
		t.Errorf("expected removal reason recorded, got %q", got.RemovalReason)
	}

	// Removing again conflicts instead of silently succeeding.
	rec = remove()
	rec.AssertStatus(t, http.StatusConflict)
}

func TestServeRemoveRole_WrongUserPath(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	env := newEnv(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateSuperAdmin(ctx, "Acting Admin", "+15550800017")
	owner := fx.CreateUser(ctx, "Owner", "+15550800018")
	other := fx.CreateUser(ctx, "Other", "+15550800019")
	role := fx.CreateRole(ctx, "auditor", 20, nil)
	assignment := fx.CreateAssignment(ctx, owner.ID, role.ID)

	// Reaching the assignment through another user's path reads as absent.
	req := testutil.NewAuthenticatedRequest(http.MethodDelete,
		"/users/"+other.ID.Hex()+"/roles/"+assignment.ID.Hex(), &admin)
	req = testutil.WithChiURLParams(req, map[string]string{
		"userID":       other.ID.Hex(),
		"assignmentID": assignment.ID.Hex(),
	})
	rec := testutil.NewRecorder()
	env.h.ServeRemoveRole(rec, req)

	rec.AssertStatus(t, http.StatusNotFound)
}

func TestServeCheckPermission(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	env := newEnv(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateSuperAdmin(ctx, "Acting Admin", "+15550800020")
	user := fx.CreateUser(ctx, "Checked User", "+15550800021")
	fx.CreatePermission(ctx, "activity_logs.view", "activity_logs")
	role := fx.CreateRole(ctx, "auditor", 20, []string{"activity_logs.view"})
	fx.CreateAssignment(ctx, user.ID, role.ID)

	check := func(perm string) (int, bool) {
		req := testutil.NewAuthenticatedJSONRequest(t, http.MethodPost,
			"/users/"+user.ID.Hex()+"/check-permission",
			map[string]string{"permission": perm}, &admin)
		req = testutil.WithChiURLParam(req, "userID", user.ID.Hex())
		rec := testutil.NewRecorder()
		env.h.ServeCheckPermission(rec, req)
		if rec.Code != http.StatusOK {
			return rec.Code, false
		}
		var payload struct {
			HasPermission bool `json:"has_permission"`
		}
		testutil.DecodeData(t, testutil.DecodeEnvelope(t, rec.Body), &payload)
		return rec.Code, payload.HasPermission
	}

	if code, has := check("activity_logs.view"); code != http.StatusOK || !has {
		t.Errorf("expected granted permission, got code %d has %v", code, has)
	}
	if code, has := check("roles.manage"); code != http.StatusOK || has {
		t.Errorf("expected missing permission, got code %d has %v", code, has)
	}

	// Empty permission is a validation error, not a false answer.
	req := testutil.NewAuthenticatedJSONRequest(t, http.MethodPost,
		"/users/"+user.ID.Hex()+"/check-permission",
		map[string]string{"permission": "  "}, &admin)
	req = testutil.WithChiURLParam(req, "userID", user.ID.Hex())
	rec := testutil.NewRecorder()
	env.h.ServeCheckPermission(rec, req)
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestServeListUserRoles(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	env := newEnv(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateSuperAdmin(ctx, "Acting Admin", "+15550800022")
	user := fx.CreateUser(ctx, "Listed User", "+15550800023")
	fx.CreatePermission(ctx, "activity_logs.view", "activity_logs")
	role := fx.CreateRole(ctx, "auditor", 20, []string{"activity_logs.view"})
	fx.CreateAssignment(ctx, user.ID, role.ID)

	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/users/"+user.ID.Hex()+"/roles", &admin)
	req = testutil.WithChiURLParam(req, "userID", user.ID.Hex())
	rec := testutil.NewRecorder()
	env.h.ServeListUserRoles(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	var payload struct {
		Assignments []struct {
			RoleID string `json:"role_id"`
			Role   *struct {
				Name string `json:"name"`
			} `json:"role"`
		} `json:"assignments"`
		Effective []string `json:"effective_permissions"`
	}
	testutil.DecodeData(t, testutil.DecodeEnvelope(t, rec.Body), &payload)

	if len(payload.Assignments) != 1 {
		t.Fatalf("expected 1 assignment, got %d", len(payload.Assignments))
	}
	// Role definition is joined in so clients skip a second lookup.
	if payload.Assignments[0].Role == nil || payload.Assignments[0].Role.Name != "auditor" {
		t.Error("expected role definition embedded in the assignment view")
	}
	if !slices.Contains(payload.Effective, "activity_logs.view") {
		t.Errorf("expected resolved permissions in response, got %v", payload.Effective)
	}
}

func TestServeListRoles_OrderedByLevel(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	env := newEnv(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateSuperAdmin(ctx, "Acting Admin", "+15550800028")
	fx.CreateRole(ctx, "viewer", 10, nil)
	fx.CreateRole(ctx, "manager", 50, nil)
	fx.CreateRole(ctx, "editor", 30, nil)

	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/roles", &admin)
	rec := testutil.NewRecorder()
	env.h.ServeListRoles(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	var payload struct {
		Roles []models.Role `json:"roles"`
	}
	testutil.DecodeData(t, testutil.DecodeEnvelope(t, rec.Body), &payload)
	if len(payload.Roles) != 3 {
		t.Fatalf("expected 3 roles, got %d", len(payload.Roles))
	}
	names := []string{payload.Roles[0].Name, payload.Roles[1].Name, payload.Roles[2].Name}
	if !slices.Equal(names, []string{"manager", "editor", "viewer"}) {
		t.Errorf("expected highest level first, got %v", names)
	}
}

func TestServeGetRole_Missing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	env := newEnv(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateSuperAdmin(ctx, "Acting Admin", "+15550800029")

	id := primitive.NewObjectID().Hex()
	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/roles/"+id, &admin)
	req = testutil.WithChiURLParam(req, "id", id)
	rec := testutil.NewRecorder()
	env.h.ServeGetRole(rec, req)

	rec.AssertStatus(t, http.StatusNotFound)
}

func TestServeListPermissions_IncludesInactive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	env := newEnv(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateSuperAdmin(ctx, "Acting Admin", "+15550800030")
	fx.CreatePermission(ctx, "activity_logs.view", "activity_logs")
	retired := fx.CreatePermission(ctx, "legacy.export", "legacy")
	if _, err := db.Collection("permissions").UpdateOne(ctx,
		bson.M{"_id": retired.ID}, bson.M{"$set": bson.M{"is_active": false}}); err != nil {
		t.Fatalf("failed to deactivate permission: %v", err)
	}

	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/permissions", &admin)
	rec := testutil.NewRecorder()
	env.h.ServeListPermissions(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	var payload struct {
		Permissions []models.Permission `json:"permissions"`
	}
	testutil.DecodeData(t, testutil.DecodeEnvelope(t, rec.Body), &payload)

	// Deactivated entries stay visible so tooling can grey them out.
	if len(payload.Permissions) != 2 {
		t.Errorf("expected full catalog, got %d entries", len(payload.Permissions))
	}
}

func TestServeAddGrantAndRestriction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	env := newEnv(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateSuperAdmin(ctx, "Acting Admin", "+15550800026")
	user := fx.CreateUser(ctx, "Override Target", "+15550800027")
	fx.CreatePermission(ctx, "activity_logs.view", "activity_logs")
	fx.CreatePermission(ctx, "content.manage", "content")
	role := fx.CreateRole(ctx, "auditor", 20, []string{"activity_logs.view"})
	assignment := fx.CreateAssignment(ctx, user.ID, role.ID)

	override := func(kind, perm string) *testutil.ResponseRecorder {
		req := testutil.NewAuthenticatedJSONRequest(t, http.MethodPost,
			"/assignments/"+assignment.ID.Hex()+"/"+kind,
			map[string]string{"permission": perm, "reason": "coverage"}, &admin)
		req = testutil.WithChiURLParam(req, "assignmentID", assignment.ID.Hex())
		rec := testutil.NewRecorder()
		if kind == "grants" {
			env.h.ServeAddGrant(rec, req)
		} else {
			env.h.ServeAddRestriction(rec, req)
		}
		return rec
	}

	rec := override("grants", "content.manage")
	rec.AssertStatus(t, http.StatusOK)
	var fresh models.UserRoleAssignment
	testutil.DecodeData(t, testutil.DecodeEnvelope(t, rec.Body), &fresh)
	if len(fresh.AdditionalPermissions) != 1 || fresh.AdditionalPermissions[0].Permission != "content.manage" {
		t.Errorf("expected grant recorded on assignment, got %+v", fresh.AdditionalPermissions)
	}

	resolver := rbac.NewService(env.assignments, roles.New(db), permissions.New(db), nil, zap.NewNop())
	effective, err := resolver.EffectivePermissions(ctx, user.ID)
	if err != nil {
		t.Fatalf("EffectivePermissions failed: %v", err)
	}
	if !slices.Contains(effective, "content.manage") {
		t.Errorf("expected granted permission effective, got %v", effective)
	}

	// The restriction removes the role-derived permission.
	rec = override("restrictions", "activity_logs.view")
	rec.AssertStatus(t, http.StatusOK)

	effective, err = resolver.EffectivePermissions(ctx, user.ID)
	if err != nil {
		t.Fatalf("EffectivePermissions failed: %v", err)
	}
	if slices.Contains(effective, "activity_logs.view") {
		t.Errorf("expected restricted permission removed, got %v", effective)
	}

	// Unknown permission names are rejected before touching the assignment.
	rec = override("grants", "nope.never")
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestServeCleanup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	env := newEnv(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateSuperAdmin(ctx, "Acting Admin", "+15550800024")
	user := fx.CreateUser(ctx, "Expiring User", "+15550800025")
	role := fx.CreateRole(ctx, "auditor", 20, nil)
	expired := fx.CreateExpiredAssignment(ctx, user.ID, role.ID)
	permanent := fx.CreateAssignment(ctx, user.ID, role.ID)

	run := func() int64 {
		req := testutil.NewAuthenticatedRequest(http.MethodPost, "/assignments/cleanup", &admin)
		rec := testutil.NewRecorder()
		env.h.ServeCleanup(rec, req)
		rec.AssertStatus(t, http.StatusOK)
		var payload struct {
			Deactivated int64 `json:"deactivated"`
		}
		testutil.DecodeData(t, testutil.DecodeEnvelope(t, rec.Body), &payload)
		return payload.Deactivated
	}

	if n := run(); n != 1 {
		t.Errorf("expected 1 assignment swept, got %d", n)
	}

	got, err := env.assignments.GetByID(ctx, expired.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.IsActive {
		t.Error("expected expired assignment deactivated")
	}
	still, err := env.assignments.GetByID(ctx, permanent.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !still.IsActive {
		t.Error("expected open-ended assignment untouched")
	}

	// Idempotent: a second sweep finds nothing.
	if n := run(); n != 0 {
		t.Errorf("expected nothing on second sweep, got %d", n)
	}
}
