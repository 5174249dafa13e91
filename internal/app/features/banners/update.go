// internal/app/features/banners/update.go
package banners

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	bannerstore "github.com/dalemusser/reliefhub/internal/app/store/banners"
	"github.com/dalemusser/reliefhub/internal/app/system/apperr"
	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/formutil"
	"github.com/dalemusser/reliefhub/internal/app/system/httpx"
	"github.com/dalemusser/reliefhub/internal/app/system/inputval"
	"github.com/dalemusser/reliefhub/internal/app/system/limits"
	"github.com/dalemusser/reliefhub/internal/app/system/storage"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
)

// ServeUpdate handles PUT /{id}. The request is multipart/form-data;
// omitted fields keep their current values, and a new image file
// replaces the stored one.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "update banner")
	defer cancel()

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpx.FailErr(w, h.Log, apperr.Invalid("id must be a valid object ID"))
		return
	}
	if err := r.ParseMultipartForm(limits.MaxImageForm); err != nil {
		httpx.FailErr(w, h.Log, apperr.Invalid("request must be multipart/form-data"))
		return
	}

	banner, err := h.Banners.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpx.FailErr(w, h.Log, apperr.NotFound("banner"))
			return
		}
		httpx.FailErr(w, h.Log, err)
		return
	}

	user := auth.MustCurrentUser(r)
	upd := bannerstore.Update{UpdatedBy: &user.ID}
	changed := false

	if title, ok := formutil.String(r, "title"); ok {
		if title == "" {
			httpx.FailErr(w, h.Log, apperr.Invalid("title cannot be empty"))
			return
		}
		upd.Title = &title
		changed = true
	}
	if linkURL, ok := formutil.String(r, "link_url"); ok {
		if linkURL != "" && !inputval.IsValidURL(linkURL) {
			httpx.FailErr(w, h.Log, apperr.Invalid("link_url must be an http(s) URL"))
			return
		}
		upd.LinkURL = &linkURL
		changed = true
	}
	if order, ok, err := formutil.Int(r, "display_order"); err != nil {
		httpx.FailErr(w, h.Log, apperr.Invalid("display_order must be an integer"))
		return
	} else if ok {
		upd.DisplayOrder = &order
		changed = true
	}
	if active, ok, err := formutil.Bool(r, "is_active"); err != nil {
		httpx.FailErr(w, h.Log, apperr.Invalid("is_active must be true or false"))
		return
	} else if ok {
		upd.IsActive = &active
		changed = true
	}

	oldKey := ""
	if formutil.HasFile(r, "image") {
		file, header, err := r.FormFile("image")
		if err != nil {
			httpx.FailErr(w, h.Log, apperr.Invalid("image upload is malformed"))
			return
		}
		defer file.Close()

		contentType := header.Header.Get("Content-Type")
		if !storage.IsImageType(contentType) {
			httpx.FailErr(w, h.Log, apperr.Invalid("image must be JPEG, PNG, GIF, or WebP"))
			return
		}
		info, err := storage.Upload(ctx, h.Files, "banners", header.Filename, file, header.Size, contentType)
		if err != nil {
			httpx.FailErr(w, h.Log, apperr.Upstream("storage", err))
			return
		}
		upd.ImageKey = &info.Key
		upd.ImageURL = &info.URL
		oldKey = banner.ImageKey
		changed = true
	}

	if !changed {
		httpx.FailErr(w, h.Log, apperr.Invalid("no fields to update"))
		return
	}

	if err := h.Banners.UpdateByID(ctx, id, upd); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpx.FailErr(w, h.Log, apperr.NotFound("banner"))
			return
		}
		httpx.FailErr(w, h.Log, err)
		return
	}

	// The record now points at the new image; the old object is dead.
	if oldKey != "" {
		if err := h.Files.Delete(ctx, oldKey); err != nil {
			h.Log.Warn("delete replaced banner image", zap.String("key", oldKey), zap.Error(err))
		}
	}

	h.Recorder.ContentUpdated(ctx, r, user.ID, "banner", id.Hex(), banner.Title)

	fresh, err := h.Banners.GetByID(ctx, id)
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}
	httpx.OK(w, "Banner updated.", fresh)
}
