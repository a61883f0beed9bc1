package chessclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/park285/hotseat-chess/pkg/chessdto"
)

// APIError is a non-2xx response from the chess server.
type APIError struct {
	Status int
	chessdto.DomainError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("chess api error: status=%d code=%s: %s", e.Status, e.Code, e.Message)
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == fasthttp.StatusNotFound
}

type Client struct {
	baseURL string
	http    *fasthttp.Client

	defaultTimeout time.Duration
	retryMax       int
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.defaultTimeout = d }
}

func WithRetry(max int) Option {
	return func(c *Client) { c.retryMax = max }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		http:           &fasthttp.Client{ReadTimeout: 10 * time.Second, WriteTimeout: 10 * time.Second, MaxConnsPerHost: 16},
		defaultTimeout: 10 * time.Second,
		retryMax:       3,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func gamePath(id string, rest ...string) string {
	p := "/api/games/" + url.PathEscape(strings.TrimSpace(id))
	for _, r := range rest {
		p += "/" + r
	}
	return p
}

// Create starts a new game.
func (c *Client) Create(ctx context.Context) (*chessdto.GameState, error) {
	var st chessdto.GameState
	if err := c.doJSON(ctx, fasthttp.MethodPost, "/api/games", nil, &st, noRetry); err != nil {
		return nil, err
	}
	return &st, nil
}

func (c *Client) Get(ctx context.Context, id string) (*chessdto.GameState, error) {
	var st chessdto.GameState
	if err := c.doJSON(ctx, fasthttp.MethodGet, gamePath(id), nil, &st, retryIdempotent); err != nil {
		return nil, err
	}
	return &st, nil
}

// Move plays from -> to. An illegal move comes back with Accepted false and
// no error.
func (c *Client) Move(ctx context.Context, id, from, to string) (*chessdto.MoveResponse, error) {
	var resp chessdto.MoveResponse
	req := chessdto.MoveRequest{From: from, To: to}
	if err := c.doJSON(ctx, fasthttp.MethodPost, gamePath(id, "moves"), req, &resp, retryConflict); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GoTo selects a stored position by index.
func (c *Client) GoTo(ctx context.Context, id string, index int) (*chessdto.GameState, error) {
	var st chessdto.GameState
	req := chessdto.GotoRequest{Index: index}
	if err := c.doJSON(ctx, fasthttp.MethodPost, gamePath(id, "goto"), req, &st, retryConflict); err != nil {
		return nil, err
	}
	return &st, nil
}

// Legal lists the destinations of the piece on square.
func (c *Client) Legal(ctx context.Context, id, square string) (*chessdto.LegalResponse, error) {
	var resp chessdto.LegalResponse
	path := gamePath(id, "legal") + "?square=" + url.QueryEscape(square)
	if err := c.doJSON(ctx, fasthttp.MethodGet, path, nil, &resp, retryIdempotent); err != nil {
		return nil, err
	}
	return &resp, nil
}

// BoardPNG fetches the board image; selected may be empty.
func (c *Client) BoardPNG(ctx context.Context, id, selected string) ([]byte, error) {
	path := gamePath(id, "board.png")
	if selected != "" {
		path += "?select=" + url.QueryEscape(selected)
	}
	return c.do(ctx, fasthttp.MethodGet, path, nil, retryIdempotent)
}

type retryPolicy int

const (
	noRetry retryPolicy = iota
	// retryConflict retries only when the server reports a lost race; the
	// mutation was not applied.
	retryConflict
	retryIdempotent
)

func (p retryPolicy) onStatus(code int) bool {
	switch p {
	case retryIdempotent:
		return code == fasthttp.StatusConflict || shouldRetryStatus(code)
	case retryConflict:
		return code == fasthttp.StatusConflict
	default:
		return false
	}
}

func (p retryPolicy) onTransport() bool { return p == retryIdempotent }

func (c *Client) doJSON(ctx context.Context, method, path string, in any, out any, policy retryPolicy) error {
	body, err := c.do(ctx, method, path, in, policy)
	if err != nil {
		return err
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in any, policy retryPolicy) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)
	req.Header.SetContentType("application/json")

	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		req.SetBody(payload)
	}

	attempts := 1
	if policy != noRetry {
		attempts = max(c.retryMax, 1)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		err := c.http.DoDeadline(req, resp, c.computeDeadline(ctx))
		if err != nil {
			if attempt == attempts || !policy.onTransport() {
				return nil, fmt.Errorf("request failed: %w", err)
			}
			lastErr = err
			if sleepErr := sleepWithContext(ctx, backoffDuration(attempt)); sleepErr != nil {
				return nil, lastErr
			}
			continue
		}

		status := resp.StatusCode()
		if status < 200 || status >= 300 {
			err := decodeAPIError(status, resp.Body())
			if attempt == attempts || !policy.onStatus(status) {
				return nil, err
			}
			lastErr = err
			if sleepErr := sleepWithContext(ctx, backoffDuration(attempt)); sleepErr != nil {
				return nil, lastErr
			}
			continue
		}
		return append([]byte(nil), resp.Body()...), nil
	}

	if lastErr == nil {
		lastErr = errors.New("unknown error")
	}
	return nil, lastErr
}

func decodeAPIError(status int, body []byte) error {
	apiErr := &APIError{Status: status}
	if err := json.Unmarshal(body, &apiErr.DomainError); err != nil || apiErr.Code == "" {
		apiErr.Code = "http_" + strconv.Itoa(status)
		apiErr.Message = truncate(strings.TrimSpace(string(body)), 512)
	}
	return apiErr
}

func (c *Client) computeDeadline(ctx context.Context) time.Time {
	clientDL := time.Now().Add(c.defaultTimeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(clientDL) {
		return dl
	}
	return clientDL
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func backoffDuration(attempt int) time.Duration {
	attempt = min(max(attempt, 1), 6)
	base := 100 * time.Millisecond
	return time.Duration(1<<uint(attempt-1)) * base // 100ms, 200ms ...
}

func shouldRetryStatus(code int) bool {
	switch code {
	case 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
