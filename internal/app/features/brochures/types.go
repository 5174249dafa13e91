// internal/app/features/brochures/types.go
package brochures

import (
	"github.com/dalemusser/reliefhub/internal/app/system/paging"
	"github.com/dalemusser/reliefhub/internal/domain/models"
)

type listResponse struct {
	Brochures  []models.Brochure `json:"brochures"`
	Pagination paging.PageInfo   `json:"pagination"`
}
