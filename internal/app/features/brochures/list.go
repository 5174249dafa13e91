// internal/app/features/brochures/list.go
package brochures

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dalemusser/reliefhub/internal/app/system/apperr"
	"github.com/dalemusser/reliefhub/internal/app/system/httpx"
	"github.com/dalemusser/reliefhub/internal/app/system/paging"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
	"github.com/dalemusser/reliefhub/internal/domain/models"
)

// ServeList handles GET / with page/limit parameters, newest first.
// Pass active=true to limit the result to live brochures.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list brochures")
	defer cancel()

	activeOnly := httpx.Query(r, "active") == "true"
	p := paging.Parse(r)

	list, err := h.Brochures.List(ctx, activeOnly, int64(p.Limit), p.Skip())
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}
	if list == nil {
		list = []models.Brochure{}
	}
	total, err := h.Brochures.Count(ctx, activeOnly)
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}

	httpx.OK(w, "Brochures retrieved.", listResponse{
		Brochures:  list,
		Pagination: p.Info(total),
	})
}

// ServeGet handles GET /{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "get brochure")
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
	httpx.OK(w, "Brochure retrieved.", brochure)
}
