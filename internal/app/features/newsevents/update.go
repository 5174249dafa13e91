// internal/app/features/newsevents/update.go
package newsevents

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	newseventstore "github.com/dalemusser/reliefhub/internal/app/store/newsevents"
	"github.com/dalemusser/reliefhub/internal/app/system/apperr"
	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/formutil"
	"github.com/dalemusser/reliefhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/reliefhub/internal/app/system/httpx"
	"github.com/dalemusser/reliefhub/internal/app/system/limits"
	"github.com/dalemusser/reliefhub/internal/app/system/storage"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
	"github.com/dalemusser/reliefhub/internal/domain/models"
)

// ServeUpdate handles PUT /{id}. Multipart form; omitted fields keep
// their current values. Kind is fixed at creation. An empty event_date
// clears the date; the first transition to published stamps
// published_at, and later transitions back and forth never change it.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "update news event")
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

	entry, err := h.News.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpx.FailErr(w, h.Log, apperr.NotFound("news/event entry"))
			return
		}
		httpx.FailErr(w, h.Log, err)
		return
	}

	user := auth.MustCurrentUser(r)
	upd := newseventstore.Update{UpdatedBy: &user.ID}
	changed := false

	if title, ok := formutil.String(r, "title"); ok {
		if title == "" {
			httpx.FailErr(w, h.Log, apperr.Invalid("title cannot be empty"))
			return
		}
		upd.Title = &title
		changed = true
	}
	if body, ok := formutil.String(r, "body"); ok {
		clean := htmlsanitize.Sanitize(body)
		if clean == "" {
			httpx.FailErr(w, h.Log, apperr.Invalid("body cannot be empty"))
			return
		}
		upd.Body = &clean
		changed = true
	}
	if s, ok := formutil.String(r, "event_date"); ok {
		if s == "" {
			upd.ClearEventDate = true
		} else {
			t, err := time.Parse(eventDateLayout, s)
			if err != nil {
				httpx.FailErr(w, h.Log, apperr.Invalid("event_date must be YYYY-MM-DD"))
				return
			}
			upd.EventDate = &t
		}
		changed = true
	}
	if status, ok := formutil.String(r, "status"); ok {
		if status != models.NewsEventDraft && status != models.NewsEventPublished {
			httpx.FailErr(w, h.Log, apperr.Invalid("status must be draft or published"))
			return
		}
		upd.Status = &status
		if status == models.NewsEventPublished && entry.PublishedAt == nil {
			now := time.Now().UTC()
			upd.PublishedAt = &now
		}
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
		info, err := storage.Upload(ctx, h.Files, "news", header.Filename, file, header.Size, contentType)
		if err != nil {
			httpx.FailErr(w, h.Log, apperr.Upstream("storage", err))
			return
		}
		upd.ImageKey = &info.Key
		upd.ImageURL = &info.URL
		oldKey = entry.ImageKey
		changed = true
	}

	if !changed {
		httpx.FailErr(w, h.Log, apperr.Invalid("no fields to update"))
		return
	}

	if err := h.News.UpdateByID(ctx, id, upd); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpx.FailErr(w, h.Log, apperr.NotFound("news/event entry"))
			return
		}
		httpx.FailErr(w, h.Log, err)
		return
	}

	if oldKey != "" {
		if err := h.Files.Delete(ctx, oldKey); err != nil {
			h.Log.Warn("delete replaced news image", zap.String("key", oldKey), zap.Error(err))
		}
	}

	h.Recorder.ContentUpdated(ctx, r, user.ID, "news_event", id.Hex(), entry.Title)

	fresh, err := h.News.GetByID(ctx, id)
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}
	httpx.OK(w, "Entry updated.", fresh)
}
