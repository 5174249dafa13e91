// internal/app/system/csvutil/csvutil.go

// Package csvutil produces CSV downloads.
package csvutil

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"
)

// Begin sets the download headers on w and returns a CSV writer over
// it. Callers must Flush the writer when done.
func Begin(w http.ResponseWriter, filename string) *csv.Writer {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	return csv.NewWriter(w)
}

// Filename builds a dated export file name like "prefix-2025-06-01.csv".
func Filename(prefix string, at time.Time) string {
	return fmt.Sprintf("%s-%s.csv", prefix, at.UTC().Format("2006-01-02"))
}
