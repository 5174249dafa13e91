// internal/app/store/activitylog/store_test.go
package activitylog_test

import (
	"errors"
	"slices"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dalemusser/reliefhub/internal/app/store/activitylog"
	"github.com/dalemusser/reliefhub/internal/domain/models"
	"github.com/dalemusser/reliefhub/internal/testutil"
)

func TestStore_Insert_FillsDefaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := activitylog.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	entry := &models.ActivityLogEntry{
		Action:   "auth.login",
		Resource: "auth",
		Status:   models.ActivityStatusSuccess,
		Severity: models.SeverityLow,
	}
	if err := store.Insert(ctx, entry); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if entry.ID.IsZero() {
		t.Error("expected ID to be assigned")
	}
	if entry.Timestamp.IsZero() {
		t.Error("expected timestamp to be filled")
	}

	got, err := store.GetByID(ctx, entry.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Action != "auth.login" {
		t.Errorf("expected action 'auth.login', got %q", got.Action)
	}
}

func TestStore_Query_Filters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := activitylog.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	fx.CreateLogEntry(ctx, "auth.login", "auth", models.SeverityLow, models.ActivityStatusSuccess, now)
	fx.CreateLogEntry(ctx, "auth.login", "auth", models.SeverityLow, models.ActivityStatusFailed, now.Add(-time.Hour))
	fx.CreateLogEntry(ctx, "role.assign", "rbac", models.SeverityHigh, models.ActivityStatusSuccess, now.Add(-2*time.Hour))

	entries, err := store.Query(ctx, activitylog.QueryFilter{Action: "auth.login"}, activitylog.QueryOptions{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 auth.login entries, got %d", len(entries))
	}

	entries, err = store.Query(ctx, activitylog.QueryFilter{Severity: models.SeverityHigh}, activitylog.QueryOptions{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Action != "role.assign" {
		t.Errorf("expected only the high-severity entry, got %v", entries)
	}

	entries, err = store.Query(ctx, activitylog.QueryFilter{
		Status:   models.ActivityStatusFailed,
		Resource: "auth",
	}, activitylog.QueryOptions{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 failed auth entry, got %d", len(entries))
	}
}

func TestStore_Query_TimeRange(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := activitylog.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	fx.CreateLogEntry(ctx, "recent", "auth", models.SeverityLow, models.ActivityStatusSuccess, now)
	fx.CreateLogEntry(ctx, "old", "auth", models.SeverityLow, models.ActivityStatusSuccess, now.Add(-72*time.Hour))

	start := now.Add(-24 * time.Hour)
	entries, err := store.Query(ctx, activitylog.QueryFilter{StartTime: &start}, activitylog.QueryOptions{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Action != "recent" {
		t.Errorf("expected only the recent entry, got %v", entries)
	}
}

func TestStore_Query_SearchIsLiteral(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := activitylog.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	fx.CreateLogEntry(ctx, "banner.update", "content", models.SeverityLow, models.ActivityStatusSuccess, now)
	fx.CreateLogEntry(ctx, "xbannerxupdate", "content", models.SeverityLow, models.ActivityStatusSuccess, now)

	// The dot must match literally, not as a regex wildcard.
	entries, err := store.Query(ctx, activitylog.QueryFilter{Search: "banner.update"}, activitylog.QueryOptions{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Action != "banner.update" {
		t.Errorf("expected literal match only, got %v", entries)
	}

	// Case-insensitive.
	entries, err = store.Query(ctx, activitylog.QueryFilter{Search: "BANNER.UPDATE"}, activitylog.QueryOptions{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected case-insensitive match, got %v", entries)
	}
}

func TestStore_Query_Paging(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := activitylog.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		fx.CreateLogEntry(ctx, "auth.login", "auth", models.SeverityLow, models.ActivityStatusSuccess,
			base.Add(-time.Duration(i)*time.Minute))
	}

	page1, err := store.Query(ctx, activitylog.QueryFilter{}, activitylog.QueryOptions{Limit: 2})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(page1) != 2 {
		t.Fatalf("expected page of 2, got %d", len(page1))
	}

	page2, err := store.Query(ctx, activitylog.QueryFilter{}, activitylog.QueryOptions{Limit: 2, Skip: 2})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(page2) != 2 {
		t.Fatalf("expected second page of 2, got %d", len(page2))
	}
	if page1[0].ID == page2[0].ID {
		t.Error("expected pages to not overlap")
	}

	// A page past the end is empty, not an error.
	beyond, err := store.Query(ctx, activitylog.QueryFilter{}, activitylog.QueryOptions{Limit: 2, Skip: 100})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(beyond) != 0 {
		t.Errorf("expected empty page beyond the end, got %d entries", len(beyond))
	}
}

func TestStore_Query_SortWhitelist(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := activitylog.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	fx.CreateLogEntry(ctx, "b.action", "auth", models.SeverityLow, models.ActivityStatusSuccess, now.Add(-time.Minute))
	fx.CreateLogEntry(ctx, "a.action", "auth", models.SeverityLow, models.ActivityStatusSuccess, now)

	entries, err := store.Query(ctx, activitylog.QueryFilter{},
		activitylog.QueryOptions{SortBy: "action", SortOrder: "asc"})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if entries[0].Action != "a.action" {
		t.Errorf("expected action-ascending order, got %q first", entries[0].Action)
	}

	// An unknown sort field falls back to timestamp descending.
	entries, err = store.Query(ctx, activitylog.QueryFilter{},
		activitylog.QueryOptions{SortBy: "$where"})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if entries[0].Action != "a.action" {
		t.Errorf("expected newest-first fallback, got %q first", entries[0].Action)
	}
}

func TestStore_Summarize(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := activitylog.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	fx.CreateLogEntry(ctx, "auth.login", "auth", models.SeverityLow, models.ActivityStatusSuccess, now)
	fx.CreateLogEntry(ctx, "auth.login", "auth", models.SeverityHigh, models.ActivityStatusFailed, now.Add(-time.Hour))
	fx.CreateLogEntry(ctx, "role.assign", "rbac", models.SeverityHigh, models.ActivityStatusSuccess, now.Add(-2*time.Hour))

	// Outside the range.
	fx.CreateLogEntry(ctx, "ancient", "auth", models.SeverityLow, models.ActivityStatusSuccess, now.Add(-30*24*time.Hour))

	sum, err := store.Summarize(ctx, now.Add(-7*24*time.Hour), now.Add(time.Minute))
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if sum.Total != 3 {
		t.Errorf("expected total 3, got %d", sum.Total)
	}
	if sum.Success != 2 {
		t.Errorf("expected 2 successes, got %d", sum.Success)
	}
	if sum.Failed != 1 {
		t.Errorf("expected 1 failure, got %d", sum.Failed)
	}
}

func TestStore_Summarize_EmptyRange(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := activitylog.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	sum, err := store.Summarize(ctx, now.Add(-time.Hour), now)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if sum.Total != 0 || sum.Success != 0 || sum.Failed != 0 {
		t.Errorf("expected zero summary, got %+v", sum)
	}
}

func TestStore_Trends_DayBuckets(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := activitylog.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Two days of activity: one quiet success day, one busy day with a
	// failure mixed in.
	day1 := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 12, 14, 0, 0, 0, time.UTC)

	fx.CreateLogEntry(ctx, "auth.login", "auth", models.SeverityLow, models.ActivityStatusSuccess, day1)
	fx.CreateLogEntry(ctx, "role.assign", "rbac", models.SeverityHigh, models.ActivityStatusSuccess, day2)
	fx.CreateLogEntry(ctx, "role.assign", "rbac", models.SeverityHigh, models.ActivityStatusFailed, day2.Add(time.Hour))
	fx.CreateLogEntry(ctx, "banner.update", "content", models.SeverityMedium, models.ActivityStatusSuccess, day2.Add(2*time.Hour))

	buckets, err := store.Trends(ctx, day1.Add(-24*time.Hour), day2.Add(24*time.Hour), "day")
	if err != nil {
		t.Fatalf("Trends failed: %v", err)
	}
	if len(buckets) != 2 {
		t.Fatalf("expected 2 day buckets, got %d", len(buckets))
	}

	// Buckets come back in chronological order.
	if buckets[0].Bucket != "2026-03-10" || buckets[1].Bucket != "2026-03-12" {
		t.Fatalf("unexpected bucket keys: %s, %s", buckets[0].Bucket, buckets[1].Bucket)
	}

	first := buckets[0]
	if first.Total != 1 || first.Success != 1 || first.Failed != 0 {
		t.Errorf("unexpected first bucket counts: %+v", first)
	}
	if !slices.Equal(first.Actions, []string{"auth.login"}) {
		t.Errorf("unexpected first bucket actions: %v", first.Actions)
	}

	second := buckets[1]
	if second.Total != 3 || second.Success != 2 || second.Failed != 1 {
		t.Errorf("unexpected second bucket counts: %+v", second)
	}
	// $addToSet gives no order guarantee; sort before comparing.
	actions := slices.Clone(second.Actions)
	slices.Sort(actions)
	if !slices.Equal(actions, []string{"banner.update", "role.assign"}) {
		t.Errorf("unexpected second bucket actions: %v", second.Actions)
	}
}

func TestStore_Trends_RejectsUnknownBucket(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := activitylog.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	if _, err := store.Trends(ctx, now.Add(-time.Hour), now, "fortnight"); err == nil {
		t.Error("expected error for unsupported bucket")
	}
}

func TestValidBucket(t *testing.T) {
	for _, b := range []string{"hour", "day", "week", "month"} {
		if !activitylog.ValidBucket(b) {
			t.Errorf("expected %q to be valid", b)
		}
	}
	if activitylog.ValidBucket("fortnight") {
		t.Error("expected 'fortnight' to be invalid")
	}
}

func TestStore_Clean_SoftDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := activitylog.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	old := fx.CreateLogEntry(ctx, "old.action", "auth", models.SeverityLow, models.ActivityStatusSuccess, now.Add(-100*24*time.Hour))
	fx.CreateLogEntry(ctx, "fresh.action", "auth", models.SeverityLow, models.ActivityStatusSuccess, now)

	affected, err := store.Clean(ctx, 90, false)
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 affected, got %d", affected)
	}

	// Soft-deleted entries disappear from every read path.
	if _, err := store.GetByID(ctx, old.ID); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected soft-deleted entry hidden from GetByID, got %v", err)
	}
	count, err := store.CountByFilter(ctx, activitylog.QueryFilter{})
	if err != nil {
		t.Fatalf("CountByFilter failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 visible entry, got %d", count)
	}

	// The sweep is idempotent.
	affected, err = store.Clean(ctx, 90, false)
	if err != nil {
		t.Fatalf("second Clean failed: %v", err)
	}
	if affected != 0 {
		t.Errorf("expected 0 affected on repeat, got %d", affected)
	}
}

func TestStore_Clean_HardDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := activitylog.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	fx.CreateLogEntry(ctx, "old.action", "auth", models.SeverityLow, models.ActivityStatusSuccess, now.Add(-100*24*time.Hour))
	fx.CreateLogEntry(ctx, "fresh.action", "auth", models.SeverityLow, models.ActivityStatusSuccess, now)

	affected, err := store.Clean(ctx, 90, true)
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 deleted, got %d", affected)
	}

	raw, err := db.Collection("activity_logs").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("raw count failed: %v", err)
	}
	if raw != 1 {
		t.Errorf("expected 1 document remaining, got %d", raw)
	}
}

func TestStore_Clean_RejectsShortRetention(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := activitylog.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Clean(ctx, 0, false); err == nil {
		t.Error("expected error for daysToKeep 0")
	}
	if _, err := store.Clean(ctx, -5, true); err == nil {
		t.Error("expected error for negative daysToKeep")
	}
}

func TestStore_Export_ChronologicalOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	store := activitylog.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	fx.CreateLogEntry(ctx, "second", "auth", models.SeverityLow, models.ActivityStatusSuccess, now)
	fx.CreateLogEntry(ctx, "first", "auth", models.SeverityLow, models.ActivityStatusSuccess, now.Add(-time.Hour))

	entries, err := store.Export(ctx, activitylog.QueryFilter{})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Action != "first" || entries[1].Action != "second" {
		t.Errorf("expected oldest-first export order, got %q then %q", entries[0].Action, entries[1].Action)
	}
}
