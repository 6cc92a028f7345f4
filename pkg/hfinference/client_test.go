package hfinference

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestInfer(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
	}{
		{
			name:       "success",
			status:     http.StatusOK,
			body:       `[{"summary_text": "ok"}]`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "loading_is_not_an_error",
			status:     http.StatusServiceUnavailable,
			body:       `{"error": "Model is currently loading"}`,
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "gone_is_not_an_error",
			status:     http.StatusGone,
			body:       `deprecated`,
			wantStatus: http.StatusGone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/models/org/some-model", r.URL.Path)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

				var req map[string]string
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "hello world", req["inputs"])

				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient("test-key", WithBaseURL(srv.URL))

			resp, err := client.Infer(context.Background(), "org/some-model", "hello world")
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.body, string(resp.Body))
		})
	}
}

func TestInferTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))

	resp, err := client.Infer(context.Background(), "org/some-model", "hello")
	require.Error(t, err)
	assert.Nil(t, resp)
}

func TestInferRateLimiterCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	// Zero-rate limiter never admits; a cancelled context must surface.
	client := NewClient("test-key",
		WithBaseURL(srv.URL),
		WithRateLimiter(rate.NewLimiter(0, 0)),
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Infer(ctx, "org/some-model", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limiter")
}
