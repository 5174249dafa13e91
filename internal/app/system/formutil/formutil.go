// internal/app/system/formutil/formutil.go

// Package formutil reads optional fields out of parsed multipart
// forms. The content endpoints accept partial updates, so "field sent
// empty" and "field not sent" must stay distinguishable; plain
// FormValue collapses the two.
package formutil

import (
	"net/http"
	"strconv"
	"strings"
)

// String returns the trimmed value of a form field and whether the
// field was present in the submission at all.
func String(r *http.Request, name string) (string, bool) {
	if r.MultipartForm == nil {
		return "", false
	}
	vals, ok := r.MultipartForm.Value[name]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return strings.TrimSpace(vals[0]), true
}

// Int parses an integer form field. The error is non-nil only when the
// field is present but not a number.
func Int(r *http.Request, name string) (int, bool, error) {
	s, ok := String(r, name)
	if !ok || s == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

// Bool parses a boolean form field. Accepts what strconv.ParseBool
// accepts ("true", "false", "1", "0", ...).
func Bool(r *http.Request, name string) (bool, bool, error) {
	s, ok := String(r, name)
	if !ok || s == "" {
		return false, false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, false, err
	}
	return v, true, nil
}

// HasFile reports whether the form carries a non-empty file under name.
func HasFile(r *http.Request, name string) bool {
	if r.MultipartForm == nil {
		return false
	}
	fhs := r.MultipartForm.File[name]
	return len(fhs) > 0 && fhs[0].Size > 0
}
