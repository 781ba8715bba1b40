package jamsim

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// client is a thin JSON client for the journal API.
type client struct {
	base string
	http *http.Client
}

func newClient(base string, timeout time.Duration) *client {
	return &client{base: base, http: &http.Client{Timeout: timeout}}
}

// envelope carries the ok/error fields every response has.
type envelope struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// post sends body as JSON and decodes the reply into out.
func (c *client) post(ctx context.Context, path string, body, out any) error {
	return c.send(ctx, http.MethodPost, path, "application/json", body, out)
}

// beacon posts like navigator.sendBeacon does, as text/plain.
func (c *client) beacon(ctx context.Context, path string, body any) error {
	return c.send(ctx, http.MethodPost, path, "text/plain;charset=UTF-8", body, nil)
}

func (c *client) get(ctx context.Context, path string, out any) error {
	return c.send(ctx, http.MethodGet, path, "", nil, out)
}

func (c *client) send(ctx context.Context, method, path, contentType string, body, out any) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", method, path, err)
	}

	var env envelope
	_ = json.Unmarshal(raw, &env)
	if resp.StatusCode != http.StatusOK || !env.OK {
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, env.Error)
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("%s %s: decode: %w", method, path, err)
		}
	}
	return nil
}
