// internal/app/features/notifications/notifications.go
package notifications

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dalemusser/reliefhub/internal/app/system/apperr"
	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/httpx"
	"github.com/dalemusser/reliefhub/internal/app/system/paging"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
	"github.com/dalemusser/reliefhub/internal/domain/models"
)

// ServeList handles GET / with page/limit parameters, newest first.
// Pass unread=true to hide notifications already read.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list notifications")
	defer cancel()

	user := auth.MustCurrentUser(r)
	unreadOnly := httpx.Query(r, "unread") == "true"
	p := paging.Parse(r)

	list, err := h.Notifs.ListByRecipient(ctx, user.ID, unreadOnly, int64(p.Limit), p.Skip())
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}
	if list == nil {
		list = []models.Notification{}
	}
	total, err := h.Notifs.CountByRecipient(ctx, user.ID, unreadOnly)
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}
	unread, err := h.Notifs.CountByRecipient(ctx, user.ID, true)
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}

	httpx.OK(w, "Notifications retrieved.", listResponse{
		Notifications: list,
		UnreadCount:   unread,
		Pagination:    p.Info(total),
	})
}

// ServeUnreadCount handles GET /unread-count.
func (h *Handler) ServeUnreadCount(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "count unread notifications")
	defer cancel()

	user := auth.MustCurrentUser(r)
	unread, err := h.Notifs.CountByRecipient(ctx, user.ID, true)
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}
	httpx.OK(w, "Unread count retrieved.", unreadCountResponse{UnreadCount: unread})
}

// ServeMarkRead handles POST /{id}/read. Only the recipient can mark a
// notification read; anyone else sees a 404.
func (h *Handler) ServeMarkRead(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "mark notification read")
	defer cancel()

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpx.FailErr(w, h.Log, apperr.Invalid("id must be a valid object ID"))
		return
	}

	user := auth.MustCurrentUser(r)
	if err := h.Notifs.MarkRead(ctx, id, user.ID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpx.FailErr(w, h.Log, apperr.NotFound("notification"))
			return
		}
		httpx.FailErr(w, h.Log, err)
		return
	}
	httpx.OK(w, "Notification marked read.", nil)
}

// ServeReadAll handles POST /read-all.
func (h *Handler) ServeReadAll(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "mark all notifications read")
	defer cancel()

	user := auth.MustCurrentUser(r)
	marked, err := h.Notifs.MarkAllRead(ctx, user.ID)
	if err != nil {
		httpx.FailErr(w, h.Log, err)
		return
	}
	httpx.OK(w, "All notifications marked read.", readAllResponse{MarkedRead: marked})
}
