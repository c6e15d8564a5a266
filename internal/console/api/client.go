// internal/console/api/client.go
// Package api is the console's HTTP client for the bizadmin server. It keeps
// the session cookie in a jar and tags every request with an X-Request-ID.
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
	"go.uber.org/zap"
)

// ValidationError is a 422 response: a summary plus one message per field.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (%d field errors)", e.Message, len(e.Fields))
}

// Field returns the message for one field, or "".
func (e *ValidationError) Field(name string) string { return e.Fields[name] }

// UsernameTaken reports whether the username was rejected as a duplicate,
// as opposed to missing or malformed.
func (e *ValidationError) UsernameTaken() bool {
	return strings.Contains(e.Fields["username"], "already been taken")
}

// StatusError is any other non-2xx response.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

// IsStatus reports whether err is a StatusError with code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

type Client struct {
	base *url.URL
	http *http.Client
	log  *zap.Logger
}

// New builds a client for baseURL. timeout bounds each request.
func New(baseURL string, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		base: u,
		http: &http.Client{Jar: jar, Timeout: timeout},
		log:  logger,
	}, nil
}

type messageBody struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// do sends body (if any) as JSON and decodes a 2xx response into out (if
// any). Non-2xx responses become *ValidationError or *StatusError.
func (c *Client) do(ctx context.Context, method, path string, q url.Values, body, out any) error {
	u := *c.base
	u.Path = c.base.Path + path
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}

	var rdr io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed", zap.String("method", method), zap.String("path", path),
			zap.String("request_id", reqID), zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	c.log.Debug("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
		zap.String("request_id", reqID))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s %s: %w", method, path, err)
		}
		return nil
	}

	var mb messageBody
	_ = json.NewDecoder(resp.Body).Decode(&mb)
	if resp.StatusCode == http.StatusUnprocessableEntity {
		return &ValidationError{Message: mb.Message, Fields: mb.Errors}
	}
	if mb.Message == "" {
		mb.Message = http.StatusText(resp.StatusCode)
	}
	return &StatusError{Code: resp.StatusCode, Message: mb.Message}
}

// send posts or puts body and returns the server's message.
func (c *Client) send(ctx context.Context, method, path string, body any) (string, error) {
	var mb messageBody
	if err := c.do(ctx, method, path, nil, body, &mb); err != nil {
		return "", err
	}
	return mb.Message, nil
}
