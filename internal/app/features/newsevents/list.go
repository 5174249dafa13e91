// internal/app/features/newsevents/list.go
package newsevents

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	newseventstore "github.com/dalemusser/reliefhub/internal/app/store/newsevents"
	"github.com/dalemusser/reliefhub/internal/app/system/apperr"
	"github.com/dalemusser/reliefhub/internal/app/system/httpx"
	"github.com/dalemusser/reliefhub/internal/app/system/paging"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
	"github.com/dalemusser/reliefhub/internal/domain/models"
)

// ServeList handles GET / with page/limit parameters, newest first.
// Optional kind and status query parameters narrow the result.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list news events")
	defer cancel()

	var filter newseventstore.ListFilter
	if kind := httpx.Query(r, "kind"); kind != "" {
		if kind != models.NewsEventKindNews && kind != models.NewsEventKindEvent {
			httpx.FailErr(w, h.Log, apperr.Invalid("kind must be news or event"))
			return
		}
		filter.Kind = kind
	}
	if status := httpx.Query(r, "status"); status != "" {
		if status != models.NewsEventDraft && status != models.NewsEventPublished {
			httpx.FailErr(w, h.Log, apperr.Invalid("status must be draft or published"))
			return
		}
		filter.Status = status
	}

	p := paging.Parse(r)
	list, err := h.News.List(ctx, filter, int64(p.Limit), p.Skip())
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}
	if list == nil {
		list = []models.NewsEvent{}
	}
	total, err := h.News.Count(ctx, filter)
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}

	httpx.OK(w, "News and events retrieved.", listResponse{
		Items:      list,
		Pagination: p.Info(total),
	})
}

// ServeGet handles GET /{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "get news event")
	defer cancel()

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpx.FailErr(w, h.Log, apperr.Invalid("id must be a valid object ID"))
		return
	}

	item, err := h.News.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpx.FailErr(w, h.Log, apperr.NotFound("news/event entry"))
			return
		}
		httpx.FailErr(w, h.Log, err)
		return
	}
	httpx.OK(w, "Entry retrieved.", item)
}
