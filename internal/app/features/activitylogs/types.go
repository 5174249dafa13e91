// internal/app/features/activitylogs/types.go
package activitylogs

import (
	"github.com/dalemusser/reliefhub/internal/app/store/activitylog"
	"github.com/dalemusser/reliefhub/internal/app/system/paging"
	"github.com/dalemusser/reliefhub/internal/domain/models"
)

type listResponse struct {
	Items      []models.ActivityLogEntry `json:"items"`
	Pagination paging.PageInfo           `json:"pagination"`
}

type statsResponse struct {
	Period  string                    `json:"period"`
	GroupBy string                    `json:"group_by"`
	Summary activitylog.Summary       `json:"summary"`
	Trends  []activitylog.TrendBucket `json:"trends"`
}

type cleanRequest struct {
	DaysToKeep int `json:"days_to_keep"`
}

type cleanResponse struct {
	Removed  int64  `json:"removed"`
	DaysKept int    `json:"days_kept"`
	Mode     string `json:"mode"` // soft | hard
}
