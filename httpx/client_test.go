package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDo_Success(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := New(nil)
	defer client.Close()

	resp, err := client.Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
	if string(resp.Body) != "ok" {
		t.Errorf("Body = %q, want %q", resp.Body, "ok")
	}
	if gotUA != DefaultUserAgent {
		t.Errorf("User-Agent = %q, want default", gotUA)
	}
}

func TestDo_CustomHeaders(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(nil)
	defer client.Close()

	_, err := client.Do(context.Background(), http.MethodPost, server.URL,
		strings.NewReader("payload"), map[string]string{"Authorization": "OAuth token"})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if gotAuth != "OAuth token" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "OAuth token")
	}
}

func TestDo_HTTPError(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		wantAuth    bool
		wantLimited bool
	}{
		{"unauthorized", http.StatusUnauthorized, true, false},
		{"forbidden", http.StatusForbidden, true, false},
		{"too many requests", http.StatusTooManyRequests, false, true},
		{"server error", http.StatusInternalServerError, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte("nope"))
			}))
			defer server.Close()

			client := New(nil)
			defer client.Close()

			_, err := client.Get(context.Background(), server.URL)
			var httpErr *HTTPError
			if !errors.As(err, &httpErr) {
				t.Fatalf("Get() error = %v, want *HTTPError", err)
			}
			if httpErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", httpErr.StatusCode, tt.status)
			}
			if httpErr.IsAuth() != tt.wantAuth {
				t.Errorf("IsAuth() = %v, want %v", httpErr.IsAuth(), tt.wantAuth)
			}
			if httpErr.IsRateLimit() != tt.wantLimited {
				t.Errorf("IsRateLimit() = %v, want %v", httpErr.IsRateLimit(), tt.wantLimited)
			}
		})
	}
}

func TestDo_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := New(nil)
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.Get(ctx, server.URL); err == nil {
		t.Error("Get() with canceled context returned nil error")
	}
}
