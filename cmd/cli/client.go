package main

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

	"github.com/spf13/cobra"

	"github.com/iho/kasa/internal/adapter/http/dto"
	"github.com/iho/kasa/internal/adapter/http/handler"
)

const apiPrefix = "/api/v1"

// client talks to the kasa HTTP API.
type client struct {
	baseURL string
	timeout time.Duration
	jsonOut bool
	http    *http.Client
}

// apiError is a non-2xx API response.
type apiError struct {
	Status int
	dto.ErrorResponse
}

func (e *apiError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (%d): %s", e.ErrorResponse.Error, e.Status, e.Message)
	}
	return fmt.Sprintf("%s (%d)", e.ErrorResponse.Error, e.Status)
}

func (c *client) httpClient() *http.Client {
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	return c.http
}

// call sends body as JSON and decodes the response into out. The raw body is
// printed instead when --json is set. A persistence warning is reported on
// stderr.
func (c *client) call(cmd *cobra.Command, method, path string, query url.Values, body, out any) error {
	raw, err := c.do(cmd.Context(), cmd, method, path, query, body)
	if err != nil {
		return err
	}

	if c.jsonOut {
		var buf bytes.Buffer
		if err := json.Indent(&buf, bytes.TrimSpace(raw), "", "  "); err != nil {
			_, err = cmd.OutOrStdout().Write(raw)
			return err
		}
		buf.WriteByte('\n')
		_, err := buf.WriteTo(cmd.OutOrStdout())
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// get decodes a response even with --json set. Used to read state before an
// edit.
func (c *client) get(cmd *cobra.Command, path string, out any) error {
	raw, err := c.do(cmd.Context(), cmd, http.MethodGet, path, nil, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func (c *client) do(ctx context.Context, cmd *cobra.Command, method, path string, query url.Values, body any) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	endpoint := strings.TrimRight(c.baseURL, "/") + apiPrefix + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &apiError{Status: resp.StatusCode}
		if err := json.Unmarshal(raw, &apiErr.ErrorResponse); err != nil || apiErr.ErrorResponse.Error == "" {
			apiErr.ErrorResponse.Error = strings.TrimSpace(string(raw))
		}
		return nil, apiErr
	}

	if warning := resp.Header.Get(handler.PersistenceWarningHeader); warning != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", warning)
	}

	return raw, nil
}
