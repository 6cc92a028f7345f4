// Package hfinference provides a client for HuggingFace-style hosted
// inference endpoints (POST /models/{id} with an "inputs" payload).
package hfinference

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://router.huggingface.co"

// Client performs raw inference calls against hosted models.
type Client interface {
	// Infer posts inputs to the named model and returns the raw response.
	// Non-2xx statuses are not errors at this level; callers own the
	// per-status policy. An error means the request never completed.
	Infer(ctx context.Context, model string, inputs string) (*Response, error)
}

// Response is the raw outcome of one inference call. Body may be non-JSON
// on deprecated endpoints, so it is left unparsed here.
type Response struct {
	StatusCode int
	Body       []byte
}

type inferRequest struct {
	Inputs string `json:"inputs"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimiter throttles outgoing calls. Free-tier inference backends
// reject bursts well before they reject sustained load.
func WithRateLimiter(l *rate.Limiter) Option {
	return func(c *httpClient) {
		c.limiter = l
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates an inference client. The timeout is deliberately long:
// hosted models may cold-start and hold the request open while loading.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) Infer(ctx context.Context, model string, inputs string) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "hfinference: rate limiter")
		}
	}

	body, err := json.Marshal(inferRequest{Inputs: inputs})
	if err != nil {
		return nil, eris.Wrap(err, "hfinference: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/models/"+model, bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "hfinference: create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "hfinference: call %s", model)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrapf(err, "hfinference: read response from %s", model)
	}

	return &Response{StatusCode: resp.StatusCode, Body: respBody}, nil
}
