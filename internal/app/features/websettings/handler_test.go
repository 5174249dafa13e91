// internal/app/features/websettings/handler_test.go
package websettings_test

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/dalemusser/reliefhub/internal/app/features/websettings"
	"github.com/dalemusser/reliefhub/internal/app/store/activitylog"
	settingsstore "github.com/dalemusser/reliefhub/internal/app/store/sitesettings"
	"github.com/dalemusser/reliefhub/internal/app/system/activity"
	"github.com/dalemusser/reliefhub/internal/app/system/storage"
	"github.com/dalemusser/reliefhub/internal/domain/models"
	"github.com/dalemusser/reliefhub/internal/testutil"
)

type settingsEnv struct {
	h        *websettings.Handler
	settings *settingsstore.Store
	logs     *activitylog.Store
	root     string
}

func newSettingsEnv(t *testing.T, db *mongo.Database) settingsEnv {
	t.Helper()

	logger := zap.NewNop()
	root := t.TempDir()
	files, err := storage.NewLocal(root, "http://files.test")
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	settings := settingsstore.New(db)
	logs := activitylog.New(db)
	h := websettings.NewHandler(settings, files,
		activity.New(logs, logger, activity.Config{Mode: "db"}), logger)
	return settingsEnv{h: h, settings: settings, logs: logs, root: root}
}

func TestServeGet_ReturnsDefaultsBeforeFirstSave(t *testing.T) {
	db := testutil.SetupTestDB(t)
	env := newSettingsEnv(t, db)

	req := testutil.NewRequest(http.MethodGet, "/settings/website")
	rec := testutil.NewRecorder()
	env.h.ServeGet(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	var data models.WebsiteSettings
	testutil.DecodeData(t, testutil.DecodeEnvelope(t, rec.Body), &data)
	if data.SiteName != models.DefaultSiteName {
		t.Errorf("site name %q, want the default %q", data.SiteName, models.DefaultSiteName)
	}
}

func TestServeUpdate_PartialJSON(t *testing.T) {
	db := testutil.SetupTestDB(t)
	env := newSettingsEnv(t, db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateSuperAdmin(ctx, "Site Admin", "+15551100001")

	req := testutil.NewAuthenticatedJSONRequest(t, http.MethodPut, "/settings/website",
		map[string]any{
			"site_name": "  Relief Portal  ",
			"tagline":   "Help where it matters",
			"social_links": map[string]string{
				"facebook": "https://facebook.com/reliefportal",
			},
		}, &admin)
	rec := testutil.NewRecorder()
	env.h.ServeUpdate(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	var data models.WebsiteSettings
	testutil.DecodeData(t, testutil.DecodeEnvelope(t, rec.Body), &data)
	if data.SiteName != "Relief Portal" {
		t.Errorf("site name %q, want trimmed", data.SiteName)
	}
	if data.Tagline != "Help where it matters" {
		t.Errorf("tagline %q", data.Tagline)
	}
	if data.SocialLinks["facebook"] != "https://facebook.com/reliefportal" {
		t.Errorf("social links %v", data.SocialLinks)
	}

	// A later update leaves unmentioned fields alone.
	req2 := testutil.NewAuthenticatedJSONRequest(t, http.MethodPut, "/settings/website",
		map[string]any{"contact_email": "help@reliefportal.org"}, &admin)
	rec2 := testutil.NewRecorder()
	env.h.ServeUpdate(rec2, req2)
	rec2.AssertStatus(t, http.StatusOK)

	stored, err := env.settings.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.Tagline != "Help where it matters" {
		t.Errorf("tagline lost on partial update: %q", stored.Tagline)
	}
	if stored.ContactEmail != "help@reliefportal.org" {
		t.Errorf("contact email %q", stored.ContactEmail)
	}
	if stored.UpdatedBy == nil || *stored.UpdatedBy != admin.ID {
		t.Error("expected the updating admin to be recorded")
	}
}

func TestServeUpdate_SanitizesAboutHTML(t *testing.T) {
	db := testutil.SetupTestDB(t)
	env := newSettingsEnv(t, db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateSuperAdmin(ctx, "Site Admin", "+15551100002")

	req := testutil.NewAuthenticatedJSONRequest(t, http.MethodPut, "/settings/website",
		map[string]any{"about_html": `<p>Our mission</p><script>alert(1)</script>`}, &admin)
	rec := testutil.NewRecorder()
	env.h.ServeUpdate(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	var data models.WebsiteSettings
	testutil.DecodeData(t, testutil.DecodeEnvelope(t, rec.Body), &data)
	if data.AboutHTML != "<p>Our mission</p>" {
		t.Errorf("about html %q, want the script stripped", data.AboutHTML)
	}
}

func TestServeUpdate_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	env := newSettingsEnv(t, db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateSuperAdmin(ctx, "Site Admin", "+15551100003")

	cases := []struct {
		name string
		body map[string]any
	}{
		{"no fields", map[string]any{}},
		{"blank site name", map[string]any{"site_name": "   "}},
		{"bad contact email", map[string]any{"contact_email": "not-an-email"}},
		{"bad contact phone", map[string]any{"contact_phone": "digits?"}},
		{"unsafe social link", map[string]any{
			"social_links": map[string]string{"facebook": "javascript:alert(1)"},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.NewAuthenticatedJSONRequest(t, http.MethodPut, "/settings/website", tc.body, &admin)
			rec := testutil.NewRecorder()
			env.h.ServeUpdate(rec, req)
			rec.AssertStatus(t, http.StatusBadRequest)
		})
	}
}

func TestServeUpdate_RecordsActivity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	env := newSettingsEnv(t, db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateSuperAdmin(ctx, "Site Admin", "+15551100004")

	req := testutil.NewAuthenticatedJSONRequest(t, http.MethodPut, "/settings/website",
		map[string]any{"tagline": "New tagline"}, &admin)
	rec := testutil.NewRecorder()
	env.h.ServeUpdate(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	n, err := env.logs.CountByFilter(ctx, activitylog.QueryFilter{Action: "settings.update"})
	if err != nil {
		t.Fatalf("CountByFilter: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 settings.update entry, got %d", n)
	}
}

func TestServeUpdate_LogoUploadReplacesOld(t *testing.T) {
	db := testutil.SetupTestDB(t)
	env := newSettingsEnv(t, db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateSuperAdmin(ctx, "Site Admin", "+15551100005")

	upload := func(name string) models.WebsiteSettings {
		t.Helper()
		req := testutil.NewMultipartRequest(t, http.MethodPut, "/settings/website", nil,
			testutil.MultipartFile{
				Field:       "logo",
				Filename:    name,
				ContentType: "image/png",
				Content:     []byte("png bytes"),
			})
		req = testutil.WithUser(req, &admin)
		rec := testutil.NewRecorder()
		env.h.ServeUpdate(rec, req)
		rec.AssertStatus(t, http.StatusOK)
		var data models.WebsiteSettings
		testutil.DecodeData(t, testutil.DecodeEnvelope(t, rec.Body), &data)
		return data
	}

	first := upload("logo-v1.png")
	if first.LogoKey == "" || first.LogoURL == "" {
		t.Fatalf("expected logo key and URL, got %q / %q", first.LogoKey, first.LogoURL)
	}
	firstPath := filepath.Join(env.root, filepath.FromSlash(first.LogoKey))
	if _, err := os.Stat(firstPath); err != nil {
		t.Fatalf("uploaded logo missing on disk: %v", err)
	}

	second := upload("logo-v2.png")
	if second.LogoKey == first.LogoKey {
		t.Error("expected a new key for the replacement logo")
	}
	// The replaced file is cleaned up.
	if _, err := os.Stat(firstPath); !os.IsNotExist(err) {
		t.Errorf("old logo still on disk: %v", err)
	}
	secondPath := filepath.Join(env.root, filepath.FromSlash(second.LogoKey))
	if _, err := os.Stat(secondPath); err != nil {
		t.Errorf("replacement logo missing on disk: %v", err)
	}
}

func TestServeUpdate_RejectsNonImageLogo(t *testing.T) {
	db := testutil.SetupTestDB(t)
	env := newSettingsEnv(t, db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateSuperAdmin(ctx, "Site Admin", "+15551100006")

	req := testutil.NewMultipartRequest(t, http.MethodPut, "/settings/website", nil,
		testutil.MultipartFile{
			Field:       "logo",
			Filename:    "logo.pdf",
			ContentType: "application/pdf",
			Content:     []byte("%PDF-1.4"),
		})
	req = testutil.WithUser(req, &admin)
	rec := testutil.NewRecorder()
	env.h.ServeUpdate(rec, req)
	rec.AssertStatus(t, http.StatusBadRequest)
}
