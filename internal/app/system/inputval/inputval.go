// internal/app/system/inputval/inputval.go

// Package inputval validates caller-supplied field formats. These
// checks run after normalization, so inputs arrive trimmed and
// canonicalized.
package inputval

import (
	"net/url"
	"regexp"
	"strings"
)

// IsValidEmail reports whether s is a plausible email address: a
// dot-atom local part and domain with no spaces, leading/trailing
// dots, or consecutive dots. Single-label domains are accepted (RFC
// 5322 allows them, and they show up in dev environments).
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	if at <= 0 || at == len(s)-1 {
		return false
	}
	return validDotAtom(s[:at]) && validDotAtom(s[at+1:])
}

func validDotAtom(s string) bool {
	if s == "" || strings.HasPrefix(s, ".") || strings.HasSuffix(s, ".") ||
		strings.Contains(s, "..") {
		return false
	}
	for _, r := range s {
		switch r {
		case ' ', '\t', '@', '<', '>', '(', ')', ',', ';', ':', '"':
			return false
		}
	}
	return true
}

var phoneRe = regexp.MustCompile(`^\+?[0-9]{8,15}$`)

// IsValidPhone reports whether s looks like an E.164 phone number
// after normalization: an optional leading "+" and 8 to 15 digits.
func IsValidPhone(s string) bool {
	return phoneRe.MatchString(s)
}

// IsValidURL reports whether s is an absolute http(s) URL.
func IsValidURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsValidPlatform reports whether s names a supported device platform.
// Case-insensitive; surrounding whitespace is tolerated.
func IsValidPlatform(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ios", "android", "web":
		return true
	}
	return false
}
