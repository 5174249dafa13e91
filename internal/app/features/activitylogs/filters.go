// internal/app/features/activitylogs/filters.go
package activitylogs

import (
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dalemusser/reliefhub/internal/app/store/activitylog"
	"github.com/dalemusser/reliefhub/internal/app/system/apperr"
	"github.com/dalemusser/reliefhub/internal/app/system/httpx"
	"github.com/dalemusser/reliefhub/internal/domain/models"
)

// periods maps a period token to its window length.
var periods = map[string]time.Duration{
	"7d":  7 * 24 * time.Hour,
	"30d": 30 * 24 * time.Hour,
	"90d": 90 * 24 * time.Hour,
	"1y":  365 * 24 * time.Hour,
}

// parseFilter builds the store filter from query parameters. Invalid
// enum values and malformed ids/dates are rejected rather than
// silently ignored, so callers notice typos instead of getting
// unfiltered results.
func parseFilter(r *http.Request) (activitylog.QueryFilter, error) {
	f := activitylog.QueryFilter{
		Action:    httpx.Query(r, "action"),
		Resource:  httpx.Query(r, "resource"),
		IPAddress: httpx.Query(r, "ip_address"),
		Search:    httpx.Query(r, "search"),
	}

	if s := httpx.Query(r, "actor_id"); s != "" {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return f, apperr.Invalid("actor_id is not a valid id")
		}
		f.ActorID = &id
	}

	if s := httpx.Query(r, "status"); s != "" {
		if s != models.ActivityStatusSuccess && s != models.ActivityStatusFailed {
			return f, apperr.Invalid("status must be success or failed")
		}
		f.Status = s
	}

	if s := httpx.Query(r, "severity"); s != "" {
		if s != models.SeverityLow && s != models.SeverityMedium && s != models.SeverityHigh {
			return f, apperr.Invalid("severity must be low, medium, or high")
		}
		f.Severity = s
	}

	if s := httpx.Query(r, "start_date"); s != "" {
		t, err := parseDate(s, false)
		if err != nil {
			return f, err
		}
		f.StartTime = t
	}
	if s := httpx.Query(r, "end_date"); s != "" {
		t, err := parseDate(s, true)
		if err != nil {
			return f, err
		}
		f.EndTime = t
	}

	return f, nil
}

// parseDate accepts a bare date or an RFC 3339 timestamp. A bare end
// date is pushed to the end of its day so the range is inclusive.
func parseDate(s string, endOfDay bool) (*time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		if endOfDay {
			t = t.Add(24*time.Hour - time.Second)
		}
		return &t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	return nil, apperr.Invalid("dates must be YYYY-MM-DD or RFC 3339")
}

// parseWindow resolves the period token to a [start, end] range ending
// now. Empty defaults to 7d.
func parseWindow(r *http.Request) (start, end time.Time, token string, err error) {
	token = httpx.Query(r, "period")
	if token == "" {
		token = "7d"
	}
	window, ok := periods[token]
	if !ok {
		return start, end, token, apperr.Invalid("period must be one of 7d, 30d, 90d, 1y")
	}
	end = time.Now().UTC()
	start = end.Add(-window)
	return start, end, token, nil
}
