// internal/app/features/activitylogs/get.go
package activitylogs

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dalemusser/reliefhub/internal/app/system/apperr"
	"github.com/dalemusser/reliefhub/internal/app/system/httpx"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
)

// ServeGet handles GET /activity-logs/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "activity log get")
	defer cancel()

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpx.FailErr(w, h.Log, apperr.Invalid("id is not a valid id"))
		return
	}

	entry, err := h.Logs.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpx.FailErr(w, h.Log, apperr.NotFound("activity log entry"))
			return
		}
		httpx.FailErr(w, h.Log, err)
		return
	}

	httpx.OK(w, "Activity log entry retrieved.", entry)
}
