// Package rest is the request/response collaborator of the gateway
// client: given authentication and typed parameters, perform one HTTP
// call and return a typed result or a classified error. Per-endpoint
// wrappers live with the embedding application; rate-limit scheduling
// is out of scope beyond surfacing the retry delay.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the platform's HTTP API root, pinned to the same
// protocol version as the gateway.
const DefaultBaseURL = "https://discord.com/api/v10"

const defaultTimeout = 15 * time.Second

type Client struct {
	base  string
	token string
	http  *http.Client
	log   zerolog.Logger
}

// NewClient builds a client authenticating as a bot. baseURL may be
// empty for the platform default.
func NewClient(baseURL, token string, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		base:  baseURL,
		token: token,
		http:  &http.Client{Timeout: defaultTimeout},
		log:   log,
	}
}

// Do performs one API call. body (when non-nil) is JSON-encoded; a
// 2xx response is decoded into out (when non-nil). Non-2xx responses
// come back as *APIError or *RateLimitError.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("rest: encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return fmt.Errorf("rest: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bot "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("rest: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("api_request")

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("rest: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return classify(resp, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("rest: decode response: %w", err)
	}
	return nil
}

// apiErrorBody is the platform's JSON error envelope.
type apiErrorBody struct {
	Code       int     `json:"code"`
	Message    string  `json:"message"`
	RetryAfter float64 `json:"retry_after"`
	Global     bool    `json:"global"`
}

func classify(resp *http.Response, data []byte) error {
	var body apiErrorBody
	_ = json.Unmarshal(data, &body)

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := time.Duration(body.RetryAfter * float64(time.Second))
		if retryAfter <= 0 {
			if v, err := strconv.ParseFloat(resp.Header.Get("X-RateLimit-Reset-After"), 64); err == nil {
				retryAfter = time.Duration(v * float64(time.Second))
			}
		}
		return &RateLimitError{RetryAfter: retryAfter, Global: body.Global}
	}

	switch resp.StatusCode {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden,
		http.StatusNotFound, http.StatusMethodNotAllowed, http.StatusBadGateway:
		return &APIError{Status: resp.StatusCode, Code: body.Code, Message: body.Message}
	default:
		if body.Code != 0 || body.Message != "" {
			return &APIError{Status: resp.StatusCode, Code: body.Code, Message: body.Message}
		}
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
}
