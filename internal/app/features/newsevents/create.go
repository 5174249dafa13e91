// internal/app/features/newsevents/create.go
package newsevents

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dalemusser/reliefhub/internal/app/system/apperr"
	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/reliefhub/internal/app/system/httpx"
	"github.com/dalemusser/reliefhub/internal/app/system/limits"
	"github.com/dalemusser/reliefhub/internal/app/system/storage"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
	"github.com/dalemusser/reliefhub/internal/domain/models"
)

const eventDateLayout = "2006-01-02"

// ServeCreate handles POST /. Multipart form with kind, title, body,
// event_date (events only), status fields and an optional image file.
// The body is rich text from the editor and is sanitized before it is
// stored.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "create news event")
	defer cancel()

	if err := r.ParseMultipartForm(limits.MaxImageForm); err != nil {
		httpx.FailErr(w, h.Log, apperr.Invalid("request must be multipart/form-data"))
		return
	}

	kind := strings.TrimSpace(r.FormValue("kind"))
	if kind != models.NewsEventKindNews && kind != models.NewsEventKindEvent {
		httpx.FailErr(w, h.Log, apperr.Invalid("kind must be news or event"))
		return
	}
	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		httpx.FailErr(w, h.Log, apperr.Invalid("title is required"))
		return
	}
	body := htmlsanitize.Sanitize(strings.TrimSpace(r.FormValue("body")))
	if body == "" {
		httpx.FailErr(w, h.Log, apperr.Invalid("body is required"))
		return
	}

	var eventDate *time.Time
	if s := strings.TrimSpace(r.FormValue("event_date")); s != "" {
		t, err := time.Parse(eventDateLayout, s)
		if err != nil {
			httpx.FailErr(w, h.Log, apperr.Invalid("event_date must be YYYY-MM-DD"))
			return
		}
		eventDate = &t
	}
	if kind == models.NewsEventKindEvent && eventDate == nil {
		httpx.FailErr(w, h.Log, apperr.Invalid("event_date is required for events"))
		return
	}

	status := strings.TrimSpace(r.FormValue("status"))
	if status == "" {
		status = models.NewsEventDraft
	}
	if status != models.NewsEventDraft && status != models.NewsEventPublished {
		httpx.FailErr(w, h.Log, apperr.Invalid("status must be draft or published"))
		return
	}

	var imageKey, imageURL string
	if fhs := r.MultipartForm.File["image"]; len(fhs) > 0 && fhs[0].Size > 0 {
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
		imageKey = info.Key
		imageURL = info.URL
	}

	user := auth.MustCurrentUser(r)
	entry := models.NewsEvent{
		Kind:      kind,
		Title:     title,
		Body:      body,
		ImageKey:  imageKey,
		ImageURL:  imageURL,
		EventDate: eventDate,
		Status:    status,
		CreatedBy: &user.ID,
	}

	created, err := h.News.Insert(ctx, entry)
	if err != nil {
		if imageKey != "" {
			if derr := h.Files.Delete(ctx, imageKey); derr != nil {
				h.Log.Warn("delete orphaned news image", zap.String("key", imageKey), zap.Error(derr))
			}
		}
		httpx.FailErr(w, h.Log, err)
		return
	}

	h.Recorder.ContentCreated(ctx, r, user.ID, "news_event", created.ID.Hex(), created.Title)
	httpx.Created(w, "Entry created.", created)
}
