package ensek

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"enercheck/internal"
	"enercheck/internal/config"
)

// CallResult is what a single endpoint call produced at the HTTP level.
// Network failures come back as error; HTTP-level failures come back as
// Success=false with the status, because the negative-path checks need
// to assert on exact status codes.
type CallResult struct {
	Success    bool
	StatusCode int
	Message    string
	RawBody    string
}

type Client struct {
	cfg        config.Config
	httpClient *http.Client
	limiter    *RateLimiter

	mu    sync.Mutex
	token string
}

type loginBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type messageEnvelope struct {
	Message     string `json:"message"`
	AccessToken string `json:"access_token"`
	Token       string `json:"token"`
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.EnsekTimeoutMs) * time.Millisecond},
		limiter:    NewRateLimiter(cfg.EnsekRateLimitRPS),
	}
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// Login obtains a bearer token and stores it for subsequent calls.
func (c *Client) Login(ctx context.Context, username, password string) (CallResult, error) {
	blob, err := json.Marshal(loginBody{Username: username, Password: password})
	if err != nil {
		return CallResult{}, err
	}

	res, err := c.call(ctx, http.MethodPost, "/ENSEK/login", blob, false, true)
	if err != nil {
		return res, err
	}
	if !res.Success {
		return res, nil
	}

	var env messageEnvelope
	if err := json.Unmarshal([]byte(res.RawBody), &env); err != nil {
		return res, fmt.Errorf("login response is not json: %w", err)
	}
	token := env.AccessToken
	if token == "" {
		token = env.Token
	}
	if strings.TrimSpace(token) == "" {
		return res, errors.New("login succeeded but no access token in response")
	}
	c.SetToken(token)
	return res, nil
}

// Reset restocks the remote inventory. It is a write, so it is never
// retried.
func (c *Client) Reset(ctx context.Context) (CallResult, error) {
	return c.call(ctx, http.MethodPost, "/ENSEK/reset", nil, true, false)
}

// Buy purchases quantity units of the given energy id. Never retried:
// a replay on a flaky 5xx could create a duplicate order that the
// reconciler would then flag.
func (c *Client) Buy(ctx context.Context, energyID, quantity int) (CallResult, error) {
	path := "/ENSEK/buy/" + strconv.Itoa(energyID) + "/" + strconv.Itoa(quantity)
	return c.call(ctx, http.MethodPut, path, nil, true, false)
}

// Orders fetches the full order list. The slice is nil unless the call
// came back 2xx with a parseable body.
func (c *Client) Orders(ctx context.Context) ([]internal.Order, CallResult, error) {
	res, err := c.call(ctx, http.MethodGet, "/ENSEK/orders", nil, true, true)
	if err != nil || !res.Success {
		return nil, res, err
	}

	var orders []internal.Order
	if err := json.Unmarshal([]byte(res.RawBody), &orders); err != nil {
		return nil, res, fmt.Errorf("orders response is not a json array: %w", err)
	}
	return orders, res, nil
}

func (c *Client) call(ctx context.Context, method, path string, body []byte, authed, retryable bool) (CallResult, error) {
	u := strings.TrimRight(c.cfg.EnsekAPIBaseURL, "/") + path

	attempts := 1
	if retryable {
		attempts = 5
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		c.limiter.WaitTurn()

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, u, reader)
		if err != nil {
			return CallResult{}, err
		}
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if authed {
			token := c.Token()
			if token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		raw, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			if retryable && isRetryableStatus(resp.StatusCode) && attempt < attempts {
				backoff := time.Duration(250*(1<<(attempt-1))+rand.Intn(100)) * time.Millisecond
				time.Sleep(backoff)
				lastErr = fmt.Errorf("ensek status %d", resp.StatusCode)
				continue
			}
			return CallResult{
				Success:    false,
				StatusCode: resp.StatusCode,
				Message:    summarizeBody(resp.Header.Get("Content-Type"), raw),
				RawBody:    string(raw),
			}, nil
		}

		return CallResult{
			Success:    true,
			StatusCode: resp.StatusCode,
			Message:    summarizeBody(resp.Header.Get("Content-Type"), raw),
			RawBody:    string(raw),
		}, nil
	}

	if lastErr == nil {
		lastErr = errors.New("ensek request failed")
	}
	return CallResult{}, lastErr
}

func isRetryableStatus(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

// summarizeBody pulls a human-readable message out of whatever the
// remote sent back: the "message" field of a json object, or the gist
// of an html error page, or a trimmed snippet as a last resort.
func summarizeBody(contentType string, raw []byte) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return ""
	}

	if strings.HasPrefix(trimmed, "{") {
		var env messageEnvelope
		if err := json.Unmarshal(raw, &env); err == nil && env.Message != "" {
			return env.Message
		}
	}

	if strings.Contains(contentType, "text/html") || strings.HasPrefix(trimmed, "<") {
		if summary := SummarizeHTMLError(trimmed); summary != "" {
			return summary
		}
	}

	if len(trimmed) > 200 {
		trimmed = trimmed[:200]
	}
	return trimmed
}
