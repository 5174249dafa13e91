// internal/app/features/banners/types.go
package banners

import "github.com/dalemusser/reliefhub/internal/domain/models"

type listResponse struct {
	Banners []models.Banner `json:"banners"`
}
