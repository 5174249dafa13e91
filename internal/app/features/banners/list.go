// internal/app/features/banners/list.go
package banners

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dalemusser/reliefhub/internal/app/system/apperr"
	"github.com/dalemusser/reliefhub/internal/app/system/httpx"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
	"github.com/dalemusser/reliefhub/internal/domain/models"
)

// ServeList handles GET / and returns banners in display order. Pass
// active=true to limit the result to live banners.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list banners")
	defer cancel()

	activeOnly := httpx.Query(r, "active") == "true"
	list, err := h.Banners.List(ctx, activeOnly)
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}
	if list == nil {
		list = []models.Banner{}
	}
	httpx.OK(w, "Banners retrieved.", listResponse{Banners: list})
}

// ServeGet handles GET /{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "get banner")
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
	httpx.OK(w, "Banner retrieved.", banner)
}
