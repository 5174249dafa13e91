// internal/app/features/notifications/types.go
package notifications

import (
	"github.com/dalemusser/reliefhub/internal/app/system/paging"
	"github.com/dalemusser/reliefhub/internal/domain/models"
)

type listResponse struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int64                 `json:"unread_count"`
	Pagination    paging.PageInfo       `json:"pagination"`
}

type unreadCountResponse struct {
	UnreadCount int64 `json:"unread_count"`
}

type readAllResponse struct {
	MarkedRead int64 `json:"marked_read"`
}
