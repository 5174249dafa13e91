// internal/app/features/websettings/update.go
package websettings

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	settingsstore "github.com/dalemusser/reliefhub/internal/app/store/sitesettings"
	"github.com/dalemusser/reliefhub/internal/app/system/apperr"
	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/formutil"
	"github.com/dalemusser/reliefhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/reliefhub/internal/app/system/httpx"
	"github.com/dalemusser/reliefhub/internal/app/system/inputval"
	"github.com/dalemusser/reliefhub/internal/app/system/limits"
	"github.com/dalemusser/reliefhub/internal/app/system/storage"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
)

// socialPrefix marks multipart form fields carrying social links, e.g.
// social_facebook, social_twitter.
const socialPrefix = "social_"

// ServeUpdate handles PUT /. A JSON body updates text fields; a
// multipart body additionally accepts a logo image. Either way omitted
// fields keep their current values and the about text is sanitized.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "update website settings")
	defer cancel()

	contentType := r.Header.Get("Content-Type")
	multipart := strings.HasPrefix(contentType, "multipart/form-data")

	var req updateRequest
	oldLogoKey := ""
	var upd settingsstore.Update

	if multipart {
		if err := r.ParseMultipartForm(limits.MaxImageForm); err != nil {
			httpx.FailErr(w, h.Log, apperr.Invalid("request must be multipart/form-data"))
			return
		}
		req = requestFromForm(r)
	} else {
		if err := httpx.Decode(r, &req); err != nil {
			httpx.FailErr(w, h.Log, err)
			return
		}
	}

	changed := make([]string, 0, 8)
	if req.SiteName != nil {
		name := strings.TrimSpace(*req.SiteName)
		if name == "" {
			httpx.FailErr(w, h.Log, apperr.Invalid("site_name cannot be empty"))
			return
		}
		upd.SiteName = &name
		changed = append(changed, "site_name")
	}
	if req.Tagline != nil {
		tagline := strings.TrimSpace(*req.Tagline)
		upd.Tagline = &tagline
		changed = append(changed, "tagline")
	}
	if req.ContactEmail != nil {
		email := strings.TrimSpace(*req.ContactEmail)
		if email != "" && !inputval.IsValidEmail(email) {
			httpx.FailErr(w, h.Log, apperr.Invalid("contact_email is not a valid address"))
			return
		}
		upd.ContactEmail = &email
		changed = append(changed, "contact_email")
	}
	if req.ContactPhone != nil {
		phone := strings.TrimSpace(*req.ContactPhone)
		if phone != "" && !inputval.IsValidPhone(phone) {
			httpx.FailErr(w, h.Log, apperr.Invalid("contact_phone is not a valid phone number"))
			return
		}
		upd.ContactPhone = &phone
		changed = append(changed, "contact_phone")
	}
	if req.Address != nil {
		address := strings.TrimSpace(*req.Address)
		upd.Address = &address
		changed = append(changed, "address")
	}
	if req.SocialLinks != nil {
		for platform, link := range req.SocialLinks {
			if !inputval.IsValidURL(link) {
				httpx.FailErr(w, h.Log, apperr.Invalid("social link for %s must be an http(s) URL", platform))
				return
			}
		}
		upd.SocialLinks = req.SocialLinks
		changed = append(changed, "social_links")
	}
	if req.AboutHTML != nil {
		clean := htmlsanitize.Sanitize(strings.TrimSpace(*req.AboutHTML))
		upd.AboutHTML = &clean
		changed = append(changed, "about_html")
	}

	if multipart && formutil.HasFile(r, "logo") {
		file, header, err := r.FormFile("logo")
		if err != nil {
			httpx.FailErr(w, h.Log, apperr.Invalid("logo upload is malformed"))
			return
		}
		defer file.Close()

		ct := header.Header.Get("Content-Type")
		if !storage.IsImageType(ct) {
			httpx.FailErr(w, h.Log, apperr.Invalid("logo must be JPEG, PNG, GIF, or WebP"))
			return
		}

		current, err := h.Settings.Get(ctx)
		if err != nil {
			httpx.FailErr(w, h.Log, err)
			return
		}
		info, err := storage.Upload(ctx, h.Files, "logo", header.Filename, file, header.Size, ct)
		if err != nil {
			httpx.FailErr(w, h.Log, apperr.Upstream("storage", err))
			return
		}
		upd.LogoKey = &info.Key
		upd.LogoURL = &info.URL
		oldLogoKey = current.LogoKey
		changed = append(changed, "logo")
	}

	if len(changed) == 0 {
		httpx.FailErr(w, h.Log, apperr.Invalid("no fields to update"))
		return
	}

	user := auth.MustCurrentUser(r)
	upd.UpdatedBy = &user.ID

	if err := h.Settings.Apply(ctx, upd); err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}

	if oldLogoKey != "" {
		if err := h.Files.Delete(ctx, oldLogoKey); err != nil {
			h.Log.Warn("delete replaced logo", zap.String("key", oldLogoKey), zap.Error(err))
		}
	}

	h.Recorder.SettingsUpdated(ctx, r, user.ID, strings.Join(changed, ", "))

	fresh, err := h.Settings.Get(ctx)
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}
	httpx.OK(w, "Settings updated.", fresh)
}

// requestFromForm maps a parsed multipart form onto the JSON request
// shape so both bodies flow through one validation path.
func requestFromForm(r *http.Request) updateRequest {
	var req updateRequest
	if v, ok := formutil.String(r, "site_name"); ok {
		req.SiteName = &v
	}
	if v, ok := formutil.String(r, "tagline"); ok {
		req.Tagline = &v
	}
	if v, ok := formutil.String(r, "contact_email"); ok {
		req.ContactEmail = &v
	}
	if v, ok := formutil.String(r, "contact_phone"); ok {
		req.ContactPhone = &v
	}
	if v, ok := formutil.String(r, "address"); ok {
		req.Address = &v
	}
	if v, ok := formutil.String(r, "about_html"); ok {
		req.AboutHTML = &v
	}

	// Any social_<platform> field marks the link map as provided; the
	// map is then replaced whole, so an update lists every link it
	// wants to keep.
	for name := range r.MultipartForm.Value {
		if !strings.HasPrefix(name, socialPrefix) {
			continue
		}
		if req.SocialLinks == nil {
			req.SocialLinks = map[string]string{}
		}
		platform := strings.TrimPrefix(name, socialPrefix)
		if v, ok := formutil.String(r, name); ok && v != "" {
			req.SocialLinks[platform] = v
		}
	}
	return req
}
