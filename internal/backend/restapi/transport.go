package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/api/googleapi"

	"taskpad/internal/service"
)

// RequestIDHeader tags each request so client and server logs can be correlated.
const RequestIDHeader = "X-Request-Id"

// do sends one JSON request and decodes the reply into out (if non-nil).
// It returns the HTTP status of a successful (2xx) response.
func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, in, out any) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, err
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("api request", "method", method, "path", path, "request_id", requestID)
	resp, err := hc.Do(req)
	if err != nil {
		c.logger.Debug("api transport error", "request_id", requestID, "error", err)
		return 0, wrapError(err)
	}
	defer resp.Body.Close()
	c.logger.Debug("api response", "request_id", requestID, "status", resp.StatusCode)

	if err := googleapi.CheckResponse(resp); err != nil {
		return resp.StatusCode, wrapError(err)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decoding %s %s response: %w", method, path, err)
		}
	}
	return resp.StatusCode, nil
}

// wrapError maps transport and HTTP errors onto the service sentinels
// with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, service.ErrNotLoggedIn) {
		return service.ErrNotLoggedIn
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out")
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		msg := serverMessage(apiErr)
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %s", service.ErrUnauthorized, msg)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", service.ErrNotFound, msg)
		}
		return fmt.Errorf("server returned %d: %s", apiErr.Code, msg)
	}

	return err
}

// serverMessage extracts a readable message from an error response.
// The task service answers {"message": ...} or {"error": "..."}; anything
// else falls back to the raw body or the status text.
func serverMessage(apiErr *googleapi.Error) string {
	if apiErr.Message != "" {
		return apiErr.Message
	}
	var reply struct {
		Message string `json:"message"`
		Error   any    `json:"error"`
	}
	if json.Unmarshal([]byte(apiErr.Body), &reply) == nil {
		if reply.Message != "" {
			return reply.Message
		}
		if s, ok := reply.Error.(string); ok && s != "" {
			return s
		}
	}
	if body := strings.TrimSpace(apiErr.Body); body != "" && len(body) <= 200 {
		return body
	}
	return strings.ToLower(http.StatusText(apiErr.Code))
}
