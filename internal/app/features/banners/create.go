// internal/app/features/banners/create.go
package banners

import (
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/dalemusser/reliefhub/internal/app/system/apperr"
	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/httpx"
	"github.com/dalemusser/reliefhub/internal/app/system/inputval"
	"github.com/dalemusser/reliefhub/internal/app/system/limits"
	"github.com/dalemusser/reliefhub/internal/app/system/storage"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
	"github.com/dalemusser/reliefhub/internal/domain/models"
)

// ServeCreate handles POST /. The request is multipart/form-data with
// title, link_url, display_order, is_active fields and a required
// image file.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "create banner")
	defer cancel()

	if err := r.ParseMultipartForm(limits.MaxImageForm); err != nil {
		httpx.FailErr(w, h.Log, apperr.Invalid("request must be multipart/form-data"))
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		httpx.FailErr(w, h.Log, apperr.Invalid("title is required"))
		return
	}
	linkURL := strings.TrimSpace(r.FormValue("link_url"))
	if linkURL != "" && !inputval.IsValidURL(linkURL) {
		httpx.FailErr(w, h.Log, apperr.Invalid("link_url must be an http(s) URL"))
		return
	}
	displayOrder := 0
	if s := strings.TrimSpace(r.FormValue("display_order")); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			httpx.FailErr(w, h.Log, apperr.Invalid("display_order must be an integer"))
			return
		}
		displayOrder = n
	}
	isActive := r.FormValue("is_active") != "false"

	file, header, err := r.FormFile("image")
	if err != nil || header == nil || header.Size == 0 {
		httpx.FailErr(w, h.Log, apperr.Invalid("an image file is required"))
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

	user := auth.MustCurrentUser(r)
	banner := models.Banner{
		Title:        title,
		ImageKey:     info.Key,
		ImageURL:     info.URL,
		LinkURL:      linkURL,
		DisplayOrder: displayOrder,
		IsActive:     isActive,
		CreatedBy:    &user.ID,
	}

	created, err := h.Banners.Insert(ctx, banner)
	if err != nil {
		// The image is already stored; drop it so a failed insert does
		// not strand the object.
		if derr := h.Files.Delete(ctx, info.Key); derr != nil {
			h.Log.Warn("delete orphaned banner image", zap.String("key", info.Key), zap.Error(derr))
		}
		httpx.FailErr(w, h.Log, err)
		return
	}

	h.Recorder.ContentCreated(ctx, r, user.ID, "banner", created.ID.Hex(), created.Title)
	httpx.Created(w, "Banner created.", created)
}
