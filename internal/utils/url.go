package utils

import (
	"net/url"
	"strings"
)

// ValidateURL validates that a URL has an http(s) scheme and a host
func ValidateURL(rawURL string) bool {
	if rawURL == "" {
		return false
	}

	parsed, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return false
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}

	return parsed.Host != ""
}

// TrimBaseURL removes a trailing slash so equal endpoints compare equal
func TrimBaseURL(rawURL string) string {
	return strings.TrimRight(rawURL, "/")
}
