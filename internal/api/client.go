package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Client is the gateway to the SICOIL REST backend. It holds the cookie jar
// that carries the session credential, so one Client instance is shared by
// every page of the application. All calls are plain request/response; the
// client imposes no timeout or retry of its own — that is left to the
// backend and the caller's context.
type Client struct {
	baseURL        string
	authURL        string
	http           *http.Client
	log            *logrus.Logger
	onUnauthorized func()
}

// NewClient builds a Client rooted at the given API and auth base URLs.
func NewClient(baseURL, authURL string, log *logrus.Logger) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		authURL: strings.TrimRight(authURL, "/"),
		http:    &http.Client{Jar: jar},
		log:     log,
	}, nil
}

// OnUnauthorized registers the hook invoked whenever a non-login call comes
// back 401. Wired to session clearing at startup; the caller still receives
// the *Error so it can route back to the login page.
func (c *Client) OnUnauthorized(fn func()) {
	c.onUnauthorized = fn
}

// Error is a non-2xx backend reply.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend responded %d", e.Status)
	}
	return fmt.Sprintf("backend responded %d: %s", e.Status, e.Message)
}

// IsUnauthorized reports whether err is a 401 backend reply.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	return c.do(ctx, http.MethodGet, c.baseURL+path, params, nil, out, true)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, c.baseURL+path, nil, body, out, true)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, c.baseURL+path, nil, body, out, true)
}

func (c *Client) patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, c.baseURL+path, nil, body, out, true)
}

// getBytes fetches an opaque binary body (the sale receipt download).
func (c *Client) getBytes(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()
	c.logCall(http.MethodGet, path, resp.StatusCode, time.Time{})
	if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
		c.onUnauthorized()
	}
	if resp.StatusCode >= 400 {
		return nil, &Error{Status: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return data, nil
}

// do executes one backend call. authHook=false is used by the login path,
// where a 401 simply means bad credentials and must not clear the session.
func (c *Client) do(ctx context.Context, method, rawURL string, params url.Values, body, out any, authHook bool) error {
	if len(params) > 0 {
		rawURL += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, rawURL, err)
	}
	defer resp.Body.Close()
	c.logCall(method, req.URL.Path, resp.StatusCode, start)

	if resp.StatusCode == http.StatusUnauthorized && authHook && c.onUnauthorized != nil {
		c.onUnauthorized()
	}
	if resp.StatusCode >= 400 {
		return &Error{Status: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		// Void write replies (204, empty 200) are fine to ignore.
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode %s %s response: %w", method, rawURL, err)
	}
	return nil
}

func (c *Client) logCall(method, path string, status int, start time.Time) {
	if c.log == nil {
		return
	}
	fields := logrus.Fields{"method": method, "path": path, "status": status}
	if !start.IsZero() {
		fields["elapsed"] = time.Since(start).String()
	}
	c.log.WithFields(fields).Debug("backend call")
}

// readErrorMessage pulls a human message out of an error body. The backend
// usually sends {"message": ...} but plain text shows up on proxy errors.
func readErrorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &envelope) == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}
	return strings.TrimSpace(string(raw))
}
