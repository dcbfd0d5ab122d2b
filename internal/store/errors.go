package store

import (
	"errors"
	"strings"

	"course-studio/internal/httpx"
)

// errorMessage picks the text shown to the user: the service's own message
// for HTTP errors when it sent one, the error text otherwise.
func errorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	var herr *httpx.HTTPError
	if errors.As(err, &herr) {
		if d := herr.Detail(); d != "" {
			return d
		}
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return fallback
}
