// internal/app/features/activitylogs/handler_test.go
package activitylogs_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/dalemusser/reliefhub/internal/app/features/activitylogs"
	"github.com/dalemusser/reliefhub/internal/app/store/activitylog"
	"github.com/dalemusser/reliefhub/internal/app/system/activity"
	"github.com/dalemusser/reliefhub/internal/app/system/paging"
	"github.com/dalemusser/reliefhub/internal/domain/models"
	"github.com/dalemusser/reliefhub/internal/testutil"
)

func newHandler(db *mongo.Database, cleanHard bool) (*activitylogs.Handler, *activitylog.Store) {
	store := activitylog.New(db)
	recorder := activity.New(store, zap.NewNop(), activity.Config{Mode: "db"})
	return activitylogs.NewHandler(store, recorder, cleanHard, zap.NewNop()), store
}

type listPayload struct {
	Items      []models.ActivityLogEntry `json:"items"`
	Pagination paging.PageInfo           `json:"pagination"`
}

func TestServeList_ReturnsPage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	h, _ := newHandler(db, false)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	fx.CreateLogEntry(ctx, "auth.login", "auth", models.SeverityLow, models.ActivityStatusSuccess, now.Add(-2*time.Hour))
	fx.CreateLogEntry(ctx, "banner.create", "banner", models.SeverityLow, models.ActivityStatusSuccess, now.Add(-time.Hour))
	fx.CreateLogEntry(ctx, "role.assign", "role_assignment", models.SeverityMedium, models.ActivityStatusSuccess, now)

	req := testutil.NewRequest(http.MethodGet, "/activity-logs")
	rec := testutil.NewRecorder()
	h.ServeList(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	env := testutil.DecodeEnvelope(t, rec.Body)
	if !env.Success {
		t.Fatalf("expected success envelope, got error %q", env.Error)
	}

	var payload listPayload
	testutil.DecodeData(t, env, &payload)
	if len(payload.Items) != 3 {
		t.Errorf("expected 3 items, got %d", len(payload.Items))
	}
	if payload.Pagination.Total != 3 {
		t.Errorf("expected total 3, got %d", payload.Pagination.Total)
	}
	if payload.Pagination.Page != 1 || payload.Pagination.Limit != paging.DefaultLimit {
		t.Errorf("unexpected pagination defaults: %+v", payload.Pagination)
	}

	// Newest first.
	if payload.Items[0].Action != "role.assign" {
		t.Errorf("expected newest entry first, got %q", payload.Items[0].Action)
	}
}

func TestServeList_FiltersByAction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	h, _ := newHandler(db, false)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	fx.CreateLogEntry(ctx, "auth.login", "auth", models.SeverityLow, models.ActivityStatusSuccess, now)
	fx.CreateLogEntry(ctx, "banner.create", "banner", models.SeverityLow, models.ActivityStatusSuccess, now)

	req := testutil.NewRequest(http.MethodGet, "/activity-logs?action=auth.login")
	rec := testutil.NewRecorder()
	h.ServeList(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	var payload listPayload
	testutil.DecodeData(t, testutil.DecodeEnvelope(t, rec.Body), &payload)
	if len(payload.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(payload.Items))
	}
	if payload.Items[0].Action != "auth.login" {
		t.Errorf("expected filtered action, got %q", payload.Items[0].Action)
	}
	if payload.Pagination.Total != 1 {
		t.Errorf("expected filtered total 1, got %d", payload.Pagination.Total)
	}
}

func TestServeList_RejectsBadStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, _ := newHandler(db, false)

	req := testutil.NewRequest(http.MethodGet, "/activity-logs?status=banana")
	rec := testutil.NewRecorder()
	h.ServeList(rec, req)

	rec.AssertStatus(t, http.StatusBadRequest)
	env := testutil.DecodeEnvelope(t, rec.Body)
	if env.Success {
		t.Error("expected error envelope")
	}
	if env.Error != "validation_error" {
		t.Errorf("expected validation_error code, got %q", env.Error)
	}
}

func TestServeList_RejectsBadActorID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, _ := newHandler(db, false)

	req := testutil.NewRequest(http.MethodGet, "/activity-logs?actor_id=not-a-hex")
	rec := testutil.NewRecorder()
	h.ServeList(rec, req)

	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestServeList_BeyondLastPage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	h, _ := newHandler(db, false)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateLogEntry(ctx, "auth.login", "auth", models.SeverityLow, models.ActivityStatusSuccess, time.Now().UTC())

	req := testutil.NewRequest(http.MethodGet, "/activity-logs?page=5")
	rec := testutil.NewRecorder()
	h.ServeList(rec, req)

	// Past the last page is an empty page, not an error.
	rec.AssertStatus(t, http.StatusOK)
	var payload listPayload
	testutil.DecodeData(t, testutil.DecodeEnvelope(t, rec.Body), &payload)
	if len(payload.Items) != 0 {
		t.Errorf("expected empty page, got %d items", len(payload.Items))
	}
	if payload.Pagination.Total != 1 {
		t.Errorf("expected total still reported, got %d", payload.Pagination.Total)
	}
}

func TestServeGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	h, _ := newHandler(db, false)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	entry := fx.CreateLogEntry(ctx, "banner.update", "banner", models.SeverityLow, models.ActivityStatusSuccess, time.Now().UTC())

	req := testutil.NewRequest(http.MethodGet, "/activity-logs/"+entry.ID.Hex())
	req = testutil.WithChiURLParam(req, "id", entry.ID.Hex())
	rec := testutil.NewRecorder()
	h.ServeGet(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	var got models.ActivityLogEntry
	testutil.DecodeData(t, testutil.DecodeEnvelope(t, rec.Body), &got)
	if got.ID != entry.ID {
		t.Errorf("expected entry %s, got %s", entry.ID.Hex(), got.ID.Hex())
	}
	if got.Action != "banner.update" {
		t.Errorf("expected action preserved, got %q", got.Action)
	}
}

func TestServeGet_BadID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, _ := newHandler(db, false)

	req := testutil.NewRequest(http.MethodGet, "/activity-logs/not-a-hex")
	req = testutil.WithChiURLParam(req, "id", "not-a-hex")
	rec := testutil.NewRecorder()
	h.ServeGet(rec, req)

	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestServeGet_Missing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, _ := newHandler(db, false)

	id := primitive.NewObjectID().Hex()
	req := testutil.NewRequest(http.MethodGet, "/activity-logs/"+id)
	req = testutil.WithChiURLParam(req, "id", id)
	rec := testutil.NewRecorder()
	h.ServeGet(rec, req)

	rec.AssertStatus(t, http.StatusNotFound)
	env := testutil.DecodeEnvelope(t, rec.Body)
	if env.Error != "not_found" {
		t.Errorf("expected not_found code, got %q", env.Error)
	}
}

func TestServeStats_Defaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	h, _ := newHandler(db, false)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	fx.CreateLogEntry(ctx, "auth.login", "auth", models.SeverityLow, models.ActivityStatusSuccess, now.Add(-time.Hour))
	fx.CreateLogEntry(ctx, "banner.create", "banner", models.SeverityLow, models.ActivityStatusSuccess, now.Add(-2*time.Hour))
	fx.CreateLogEntry(ctx, "auth.otp_failed", "auth", models.SeverityMedium, models.ActivityStatusFailed, now.Add(-3*time.Hour))
	// Outside the default 7d window.
	fx.CreateLogEntry(ctx, "auth.login", "auth", models.SeverityLow, models.ActivityStatusSuccess, now.Add(-30*24*time.Hour))

	req := testutil.NewRequest(http.MethodGet, "/activity-logs/stats")
	rec := testutil.NewRecorder()
	h.ServeStats(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	var payload struct {
		Period  string              `json:"period"`
		GroupBy string              `json:"group_by"`
		Summary activitylog.Summary `json:"summary"`
	}
	testutil.DecodeData(t, testutil.DecodeEnvelope(t, rec.Body), &payload)

	if payload.Period != "7d" {
		t.Errorf("expected default period 7d, got %q", payload.Period)
	}
	if payload.GroupBy != "day" {
		t.Errorf("expected default group_by day, got %q", payload.GroupBy)
	}
	if payload.Summary.Total != 3 {
		t.Errorf("expected 3 entries in window, got %d", payload.Summary.Total)
	}
	if payload.Summary.Success != 2 || payload.Summary.Failed != 1 {
		t.Errorf("unexpected summary split: %+v", payload.Summary)
	}
}

func TestServeStats_RejectsBadPeriod(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, _ := newHandler(db, false)

	req := testutil.NewRequest(http.MethodGet, "/activity-logs/stats?period=2w")
	rec := testutil.NewRecorder()
	h.ServeStats(rec, req)

	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestServeStats_RejectsBadGroupBy(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, _ := newHandler(db, false)

	req := testutil.NewRequest(http.MethodGet, "/activity-logs/stats?group_by=fortnight")
	rec := testutil.NewRecorder()
	h.ServeStats(rec, req)

	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestServeClean(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	h, store := newHandler(db, false)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateSuperAdmin(ctx, "Retention Admin", "+15550700001")
	now := time.Now().UTC()
	fx.CreateLogEntry(ctx, "auth.login", "auth", models.SeverityLow, models.ActivityStatusSuccess, now.Add(-90*24*time.Hour))
	fx.CreateLogEntry(ctx, "auth.login", "auth", models.SeverityLow, models.ActivityStatusSuccess, now)

	req := testutil.NewAuthenticatedJSONRequest(t, http.MethodPost, "/activity-logs/clean",
		map[string]int{"days_to_keep": 30}, &admin)
	rec := testutil.NewRecorder()
	h.ServeClean(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	var payload struct {
		Removed  int64  `json:"removed"`
		DaysKept int    `json:"days_kept"`
		Mode     string `json:"mode"`
	}
	testutil.DecodeData(t, testutil.DecodeEnvelope(t, rec.Body), &payload)
	if payload.Removed != 1 {
		t.Errorf("expected 1 entry removed, got %d", payload.Removed)
	}
	if payload.Mode != "soft" {
		t.Errorf("expected soft mode, got %q", payload.Mode)
	}
	if payload.DaysKept != 30 {
		t.Errorf("expected days_kept echoed, got %d", payload.DaysKept)
	}

	// The sweep itself lands in the log.
	n, err := store.CountByFilter(ctx, activitylog.QueryFilter{Action: "activity_log.clean"})
	if err != nil {
		t.Fatalf("CountByFilter failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected the cleanup to be recorded, got %d entries", n)
	}
}

func TestServeClean_RejectsShortRetention(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	h, _ := newHandler(db, false)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateSuperAdmin(ctx, "Retention Admin", "+15550700002")

	req := testutil.NewAuthenticatedJSONRequest(t, http.MethodPost, "/activity-logs/clean",
		map[string]int{"days_to_keep": 0}, &admin)
	rec := testutil.NewRecorder()
	h.ServeClean(rec, req)

	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestServeExport_WritesCSV(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	h, _ := newHandler(db, false)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	fx.CreateLogEntry(ctx, "auth.login", "auth", models.SeverityLow, models.ActivityStatusSuccess, now.Add(-time.Hour))
	fx.CreateLogEntry(ctx, "banner.create", "banner", models.SeverityLow, models.ActivityStatusSuccess, now)

	req := testutil.NewRequest(http.MethodGet, "/activity-logs/export")
	rec := testutil.NewRecorder()
	h.ServeExport(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("expected CSV content type, got %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Errorf("expected attachment disposition, got %q", cd)
	}

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "timestamp,") {
		t.Errorf("expected header row, got %q", lines[0])
	}

	// Oldest first.
	if !strings.Contains(lines[1], "auth.login") {
		t.Errorf("expected oldest entry first, got %q", lines[1])
	}
	if !strings.Contains(lines[2], "banner.create") {
		t.Errorf("expected newest entry last, got %q", lines[2])
	}
}
