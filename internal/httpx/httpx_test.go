package httpx

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
	"unicode/utf8"
)

func TestSnippet(t *testing.T) {
	testCases := []struct {
		input    string
		max      int
		expected string
	}{
		{"short text", 100, "short text"},
		{"", 100, ""},
		{"  trimmed  ", 100, "trimmed"},
		{"long text that should be truncated", 10, "long text …"},
		{"héllo wörld", 2, "h…"},
		{"Kurs für Führung", 11, "Kurs für F…"},
		{"Kurs für Führung", 12, "Kurs für F…"},
		{"日本語のコース", 4, "日…"},
	}

	for _, tc := range testCases {
		result := snippet([]byte(tc.input), tc.max)
		if result != tc.expected {
			t.Errorf("snippet(%q, %d) = %q, want %q", tc.input, tc.max, result, tc.expected)
		}
		if !utf8.ValidString(result) {
			t.Errorf("snippet(%q, %d) = %q is not valid UTF-8", tc.input, tc.max, result)
		}
	}
}

func TestHTTPError(t *testing.T) {
	err := &HTTPError{
		Method:     "GET",
		URL:        "http://localhost:8000/api/courses/42",
		StatusCode: 404,
		Body:       []byte(`{"detail":"Course not found"}`),
	}

	expected := `http error: GET http://localhost:8000/api/courses/42 status=404 body={"detail":"Course not found"}`
	if err.Error() != expected {
		t.Errorf("HTTPError.Error() = %q, want %q", err.Error(), expected)
	}
}

func TestHTTPErrorDetail(t *testing.T) {
	testCases := []struct {
		body     string
		expected string
	}{
		{`{"detail":"Course not found"}`, "Course not found"},
		{`{"message":" Unsupported export format: odt "}`, "Unsupported export format: odt"},
		{`{"error":"boom"}`, "boom"},
		{`{"detail":{"loc":["body"]}}`, ""},
		{`<html>Bad Gateway</html>`, ""},
		{``, ""},
	}

	for _, tc := range testCases {
		err := &HTTPError{StatusCode: 500, Body: []byte(tc.body)}
		if got := err.Detail(); got != tc.expected {
			t.Errorf("Detail() for %q = %q, want %q", tc.body, got, tc.expected)
		}
	}
}

func TestDefaultRetryConfig(t *testing.T) {
	cfg := DefaultRetryConfig()

	if cfg.MaxAttempts != 8 {
		t.Errorf("Expected MaxAttempts to be 8, got %d", cfg.MaxAttempts)
	}
	if cfg.BaseDelay != 700*time.Millisecond {
		t.Errorf("Expected BaseDelay to be 700ms, got %v", cfg.BaseDelay)
	}
	if cfg.MaxDelay != 30*time.Second {
		t.Errorf("Expected MaxDelay to be 30s, got %v", cfg.MaxDelay)
	}
	if !cfg.Retry5xx {
		t.Error("Expected Retry5xx to be true")
	}

	for _, status := range []int{429, 408, 425, 503, 502, 504} {
		if !cfg.RetryStatuses[status] {
			t.Errorf("Expected status %d to be retryable", status)
		}
	}
}

func TestNoRetry(t *testing.T) {
	cfg := NoRetry()
	if cfg.MaxAttempts != 1 {
		t.Errorf("Expected a single attempt, got %d", cfg.MaxAttempts)
	}
	if isRetryableStatus(503, cfg) {
		t.Error("Expected 503 not to be retryable without retries")
	}
}

func TestIsRetryableStatus(t *testing.T) {
	cfg := DefaultRetryConfig()

	for i := 500; i <= 599; i++ {
		if !isRetryableStatus(i, cfg) {
			t.Errorf("Expected status %d to be retryable", i)
		}
	}

	for _, status := range []int{400, 401, 403, 404, 422} {
		if isRetryableStatus(status, cfg) {
			t.Errorf("Expected status %d to not be retryable", status)
		}
	}

	cfg.Retry5xx = false
	if isRetryableStatus(500, cfg) {
		t.Error("Expected status 500 to not be retryable when Retry5xx is false")
	}
	if !isRetryableStatus(429, cfg) {
		t.Error("Expected status 429 to be retryable regardless of Retry5xx")
	}
}

func TestIsRetryableNetErr(t *testing.T) {
	if isRetryableNetErr(context.Canceled) {
		t.Error("Expected context.Canceled to not be retryable")
	}
	if !isRetryableNetErr(context.DeadlineExceeded) {
		t.Error("Expected context.DeadlineExceeded to be retryable")
	}
	if !isRetryableNetErr(&timeoutError{}) {
		t.Error("Expected timeout error to be retryable")
	}

	for _, msg := range []string{"connection reset by peer", "write: broken pipe", "unexpected EOF"} {
		if !isRetryableNetErr(errors.New(msg)) {
			t.Errorf("Expected %q to be retryable", msg)
		}
	}
	if isRetryableNetErr(errors.New("some other error")) {
		t.Error("Expected 'some other error' to not be retryable")
	}
}

const retryAfterHeader = "Retry-After"

func TestParseRetryAfter(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set(retryAfterHeader, "30")

	if d := ParseRetryAfter(resp); d != 30*time.Second {
		t.Errorf("Expected 30s, got %v", d)
	}

	past := time.Now().Add(-60 * time.Second)
	resp.Header.Set(retryAfterHeader, past.UTC().Format(http.TimeFormat))
	if d := ParseRetryAfter(resp); d != 0 {
		t.Errorf("Expected 0 for past date, got %v", d)
	}

	resp.Header.Set(retryAfterHeader, "invalid")
	if d := ParseRetryAfter(resp); d != 0 {
		t.Errorf("Expected 0 for invalid format, got %v", d)
	}

	resp.Header.Del(retryAfterHeader)
	if d := ParseRetryAfter(resp); d != 0 {
		t.Errorf("Expected 0 for empty header, got %v", d)
	}
}

// Mock implementation of net.Error for testing
type timeoutError struct{}

func (e *timeoutError) Error() string   { return "timeout error" }
func (e *timeoutError) Timeout() bool   { return true }
func (e *timeoutError) Temporary() bool { return true }
