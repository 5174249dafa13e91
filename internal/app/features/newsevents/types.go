// internal/app/features/newsevents/types.go
package newsevents

import (
	"github.com/dalemusser/reliefhub/internal/app/system/paging"
	"github.com/dalemusser/reliefhub/internal/domain/models"
)

type listResponse struct {
	Items      []models.NewsEvent `json:"items"`
	Pagination paging.PageInfo    `json:"pagination"`
}
