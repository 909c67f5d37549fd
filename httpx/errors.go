package httpx

import (
	"fmt"
	"net/http"
)

// HTTPError indicates a non-2xx HTTP response.
type HTTPError struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Body is the response body, kept for error reporting.
	Body []byte
}

// Error returns a string representation of the HTTP error.
func (e *HTTPError) Error() string {
	if len(e.Body) > 0 {
		body := string(e.Body)
		if len(body) > 200 {
			body = body[:200] + "..."
		}
		return fmt.Sprintf("http error: status %d: %s", e.StatusCode, body)
	}
	return fmt.Sprintf("http error: status %d", e.StatusCode)
}

// IsAuth reports whether the response indicates a credential problem.
func (e *HTTPError) IsAuth() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsRateLimit reports whether the server throttled the request.
func (e *HTTPError) IsRateLimit() bool {
	return e.StatusCode == http.StatusTooManyRequests
}
