// internal/app/features/banners/delete.go
package banners

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/dalemusser/reliefhub/internal/app/system/apperr"
	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/httpx"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
)

// ServeDelete handles DELETE /{id}. The record goes first; the stored
// image is removed best effort afterwards.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "delete banner")
	defer cancel()

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpx.FailErr(w, h.Log, apperr.Invalid("id must be a valid object ID"))
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

	deleted, err := h.Banners.Delete(ctx, id)
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}
	if deleted == 0 {
		httpx.FailErr(w, h.Log, apperr.NotFound("banner"))
		return
	}

	if banner.ImageKey != "" {
		if err := h.Files.Delete(ctx, banner.ImageKey); err != nil {
			h.Log.Warn("delete banner image", zap.String("key", banner.ImageKey), zap.Error(err))
		}
	}

	user := auth.MustCurrentUser(r)
	h.Recorder.ContentDeleted(ctx, r, user.ID, "banner", id.Hex(), banner.Title)
	httpx.OK(w, "Banner deleted.", nil)
}
