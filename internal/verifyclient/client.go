package verifyclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/nfrund/miniapp/internal/domain"
)

// Client posts init data to a remote verification endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New creates a client for the given endpoint URL. The default HTTP client has
// no timeout: a verification attempt runs until it completes or its context
// is cancelled.
func New(endpoint string, opts ...Option) (*Client, error) {
	if err := ValidateEndpoint(endpoint); err != nil {
		return nil, err
	}
	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ValidateEndpoint checks that s is an absolute http(s) URL.
func ValidateEndpoint(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("invalid verification endpoint %q: %w", s, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid verification endpoint %q: must be an absolute http(s) URL", s)
	}
	return nil
}

// Endpoint returns the URL the client posts to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

type verifyRequest struct {
	InitData string `json:"initData"`
}

// Verify sends exactly one request. The result is returned whenever the
// server answered, even if the answer is a failure, so callers can show the
// raw body.
func (c *Client) Verify(ctx context.Context, initData domain.InitData) (*domain.VerificationResult, error) {
	body, err := json.Marshal(verifyRequest{InitData: string(initData)})
	if err != nil {
		return nil, &domain.NetworkError{Err: fmt.Errorf("failed to encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &domain.NetworkError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.NetworkError{Err: fmt.Errorf("failed to read response: %w", err)}
	}

	result := &domain.VerificationResult{
		StatusCode: resp.StatusCode,
		Body:       string(raw),
	}

	if !result.OK() {
		return result, &domain.ServerRejection{
			StatusCode: resp.StatusCode,
			Detail:     extractDetail(raw),
		}
	}

	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return result, &domain.ResponseParseError{Err: err}
	}
	result.Payload = payload
	return result, nil
}

// extractDetail pulls the human-readable reason out of an error body. Both a
// plain string and a list of {"msg": ...} objects are accepted.
func extractDetail(raw []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || len(body.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(body.Detail, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(body.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if m := strings.TrimSpace(it.Msg); m != "" {
				msgs = append(msgs, m)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}
