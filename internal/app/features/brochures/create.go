// internal/app/features/brochures/create.go
package brochures

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/dalemusser/reliefhub/internal/app/system/apperr"
	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/httpx"
	"github.com/dalemusser/reliefhub/internal/app/system/limits"
	"github.com/dalemusser/reliefhub/internal/app/system/storage"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
	"github.com/dalemusser/reliefhub/internal/domain/models"
)

// ServeCreate handles POST /. The request is multipart/form-data with
// title, description, is_active fields and a required document file.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Batch(), h.Log, "create brochure")
	defer cancel()

	if err := r.ParseMultipartForm(limits.MaxDocumentForm); err != nil {
		httpx.FailErr(w, h.Log, apperr.Invalid("request must be multipart/form-data"))
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		httpx.FailErr(w, h.Log, apperr.Invalid("title is required"))
		return
	}
	description := strings.TrimSpace(r.FormValue("description"))
	isActive := r.FormValue("is_active") != "false"

	file, header, err := r.FormFile("file")
	if err != nil || header == nil || header.Size == 0 {
		httpx.FailErr(w, h.Log, apperr.Invalid("a document file is required"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !storage.IsDocumentType(contentType) {
		httpx.FailErr(w, h.Log, apperr.Invalid("file must be a PDF or Word document"))
		return
	}

	info, err := storage.Upload(ctx, h.Files, "brochures", header.Filename, file, header.Size, contentType)
	if err != nil {
		httpx.FailErr(w, h.Log, apperr.Upstream("storage", err))
		return
	}

	user := auth.MustCurrentUser(r)
	brochure := models.Brochure{
		Title:       title,
		Description: description,
		FileKey:     info.Key,
		FileURL:     info.URL,
		FileName:    info.FileName,
		FileSize:    info.Size,
		ContentType: info.ContentType,
		IsActive:    isActive,
		CreatedBy:   &user.ID,
	}

	created, err := h.Brochures.Insert(ctx, brochure)
	if err != nil {
		if derr := h.Files.Delete(ctx, info.Key); derr != nil {
			h.Log.Warn("delete orphaned brochure file", zap.String("key", info.Key), zap.Error(derr))
		}
		httpx.FailErr(w, h.Log, err)
		return
	}

	h.Recorder.ContentCreated(ctx, r, user.ID, "brochure", created.ID.Hex(), created.Title)
	httpx.Created(w, "Brochure created.", created)
}
