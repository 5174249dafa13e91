// internal/app/features/brochures/delete.go
package brochures

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

// ServeDelete handles DELETE /{id}.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "delete brochure")
	defer cancel()

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpx.FailErr(w, h.Log, apperr.Invalid("id must be a valid object ID"))
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

	deleted, err := h.Brochures.Delete(ctx, id)
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}
	if deleted == 0 {
		httpx.FailErr(w, h.Log, apperr.NotFound("brochure"))
		return
	}

	if brochure.FileKey != "" {
		if err := h.Files.Delete(ctx, brochure.FileKey); err != nil {
			h.Log.Warn("delete brochure file", zap.String("key", brochure.FileKey), zap.Error(err))
		}
	}

	user := auth.MustCurrentUser(r)
	h.Recorder.ContentDeleted(ctx, r, user.ID, "brochure", id.Hex(), brochure.Title)
	httpx.OK(w, "Brochure deleted.", nil)
}
