package resource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "github.com/timecapsule/capsule/internal/errors"
	"github.com/timecapsule/capsule/internal/httputil"
)

const maxResponseBytes = 4 << 20

var allowedMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}

// Session is the credential source of authenticated calls.
type Session interface {
	Get() (string, bool)
	Clear(ctx context.Context) error
}

// Client performs calls against the messages API. Every call is a single
// attempt; failures are returned as classified AppErrors.
type Client struct {
	baseURL string
	http    *http.Client
	session Session
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func NewClient(baseURL string, session Session, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    NewHTTPClient(defaultTimeout),
		session: session,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type request struct {
	method      string
	path        string
	body        []byte
	contentType string
	token       string
}

// Request performs an authenticated call and returns the raw response body.
// A missing credential fails before any network traffic. A 401 or 403
// answer clears the session. An empty 2xx body is returned as nil.
func (c *Client) Request(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	if !isAllowedMethod(method) {
		return nil, apperrors.ValidationFailed(fmt.Sprintf("unsupported method %q", method))
	}

	token, ok := c.session.Get()
	if !ok {
		return nil, apperrors.NotLoggedIn()
	}

	req := request{method: method, path: path, token: token}
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to encode request body", err)
		}
		req.body = encoded
		req.contentType = "application/json"
	}

	raw, err := c.send(ctx, req)
	if apperrors.Is(err, apperrors.ErrCodeUnauthenticated) {
		if clearErr := c.session.Clear(context.WithoutCancel(ctx)); clearErr != nil {
			log.Error().Err(clearErr).Msg("failed to clear rejected session")
		}
	}
	return raw, err
}

// Do performs an authenticated call and decodes the response into out.
// out may be nil when the response body is not needed.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	raw, err := c.Request(ctx, method, path, body)
	if err != nil {
		return err
	}
	return decode(raw, out)
}

// Public performs a JSON call that needs no credential, such as
// registration. The session is neither required nor touched.
func (c *Client) Public(ctx context.Context, method, path string, body, out any) error {
	if !isAllowedMethod(method) {
		return apperrors.ValidationFailed(fmt.Sprintf("unsupported method %q", method))
	}

	req := request{method: method, path: path}
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to encode request body", err)
		}
		req.body = encoded
		req.contentType = "application/json"
	}

	raw, err := c.send(ctx, req)
	if err != nil {
		return err
	}
	return decode(raw, out)
}

// PostForm sends a form-encoded POST without a credential.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values, out any) error {
	raw, err := c.send(ctx, request{
		method:      http.MethodPost,
		path:        path,
		body:        []byte(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
	})
	if err != nil {
		return err
	}
	return decode(raw, out)
}

func (c *Client) send(ctx context.Context, r request) (json.RawMessage, error) {
	if !strings.HasPrefix(r.path, "/") {
		r.path = "/" + r.path
	}

	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to build request", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		httpReq.Header.Set("Content-Type", r.contentType)
	}
	if r.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+r.token)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	elapsed := time.Since(start)

	if err != nil {
		log.Warn().
			Err(err).
			Str("method", r.method).
			Str("path", r.path).
			Dur("elapsed", elapsed).
			Msg("api request failed")
		return nil, apperrors.Unavailable("Could not reach the server", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, apperrors.Unavailable("Failed to read response", err)
	}
	if len(respBody) > maxResponseBytes {
		log.Warn().
			Str("method", r.method).
			Str("path", r.path).
			Int("limit", maxResponseBytes).
			Msg("api response too large")
		return nil, apperrors.Unavailable("Response too large", nil)
	}

	log.Debug().
		Str("method", r.method).
		Str("path", r.path).
		Int("status", resp.StatusCode).
		Dur("elapsed", elapsed).
		Msg("api request")

	if err := classify(resp.StatusCode, respBody); err != nil {
		return nil, err
	}

	if len(bytes.TrimSpace(respBody)) == 0 {
		return nil, nil
	}
	return json.RawMessage(respBody), nil
}

func classify(status int, body []byte) error {
	code := httputil.CodeFromStatus(status)
	if code == "" {
		return nil
	}

	detail := httputil.ParseDetail(body)
	if detail == "" {
		detail = defaultDetail(code, status)
	}

	if code == apperrors.ErrCodeUnavailable {
		log.Warn().Int("status", status).Str("detail", detail).Msg("server error")
	}
	return apperrors.New(code, detail).WithDetails(map[string]int{"status": status})
}

func defaultDetail(code apperrors.ErrorCode, status int) string {
	switch code {
	case apperrors.ErrCodeUnauthenticated:
		return "Session expired, please log in again"
	case apperrors.ErrCodeNotFound:
		return "Resource not found"
	case apperrors.ErrCodeUnavailable:
		return fmt.Sprintf("Server error (%d %s)", status, http.StatusText(status))
	default:
		return fmt.Sprintf("Request rejected (%d %s)", status, http.StatusText(status))
	}
}

func decode(raw json.RawMessage, out any) error {
	if out == nil {
		return nil
	}
	if raw == nil {
		return apperrors.Unavailable("Empty response from server", nil)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apperrors.Unavailable("Malformed response from server", err)
	}
	return nil
}

func isAllowedMethod(method string) bool {
	for _, m := range allowedMethods {
		if m == method {
			return true
		}
	}
	return false
}
