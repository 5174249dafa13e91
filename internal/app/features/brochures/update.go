// internal/app/features/brochures/update.go
package brochures

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	brochurestore "github.com/dalemusser/reliefhub/internal/app/store/brochures"
	"github.com/dalemusser/reliefhub/internal/app/system/apperr"
	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/formutil"
	"github.com/dalemusser/reliefhub/internal/app/system/httpx"
	"github.com/dalemusser/reliefhub/internal/app/system/limits"
	"github.com/dalemusser/reliefhub/internal/app/system/storage"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
)

// ServeUpdate handles PUT /{id}. Multipart form; omitted fields keep
// their current values, and a new file replaces the stored one.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Batch(), h.Log, "update brochure")
	defer cancel()

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpx.FailErr(w, h.Log, apperr.Invalid("id must be a valid object ID"))
		return
	}
	if err := r.ParseMultipartForm(limits.MaxDocumentForm); err != nil {
		httpx.FailErr(w, h.Log, apperr.Invalid("request must be multipart/form-data"))
		return
	}

	brochure, err := h.Brochures.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpx.FailErr(w, h.Log, apperr.NotFound("brochure"))
			return
		}
		httpx.FailErr(w, h.Log, err)
		return
	}

	user := auth.MustCurrentUser(r)
	upd := brochurestore.Update{UpdatedBy: &user.ID}
	changed := false

	if title, ok := formutil.String(r, "title"); ok {
		if title == "" {
			httpx.FailErr(w, h.Log, apperr.Invalid("title cannot be empty"))
			return
		}
		upd.Title = &title
		changed = true
	}
	if description, ok := formutil.String(r, "description"); ok {
		upd.Description = &description
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
	if formutil.HasFile(r, "file") {
		file, header, err := r.FormFile("file")
		if err != nil {
			httpx.FailErr(w, h.Log, apperr.Invalid("file upload is malformed"))
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
		upd.FileKey = &info.Key
		upd.FileURL = &info.URL
		upd.FileName = &info.FileName
		upd.FileSize = &info.Size
		upd.ContentType = &info.ContentType
		oldKey = brochure.FileKey
		changed = true
	}

	if !changed {
		httpx.FailErr(w, h.Log, apperr.Invalid("no fields to update"))
		return
	}

	if err := h.Brochures.UpdateByID(ctx, id, upd); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpx.FailErr(w, h.Log, apperr.NotFound("brochure"))
			return
		}
		httpx.FailErr(w, h.Log, err)
		return
	}

	if oldKey != "" {
		if err := h.Files.Delete(ctx, oldKey); err != nil {
			h.Log.Warn("delete replaced brochure file", zap.String("key", oldKey), zap.Error(err))
		}
	}

	h.Recorder.ContentUpdated(ctx, r, user.ID, "brochure", id.Hex(), brochure.Title)

	fresh, err := h.Brochures.GetByID(ctx, id)
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}
	httpx.OK(w, "Brochure updated.", fresh)
}
