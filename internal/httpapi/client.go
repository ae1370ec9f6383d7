package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/genpare/genpare/internal/engine"
	"github.com/genpare/genpare/internal/transform"
)

// Client calls a running genpare server.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient returns a Client for the server at baseURL, e.g.
// "http://localhost:8080".
func NewClient(baseURL string) *Client {
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), HTTP: http.DefaultClient}
}

// Query posts a request body to /salary and decodes the typed results.
// Rejections come back as *engine.QueryError.
func (c *Client) Query(ctx context.Context, body []byte) (transform.Response, error) {
	data, err := c.do(ctx, http.MethodPost, "/salary", body)
	if err != nil {
		return transform.Response{}, err
	}
	resp, err := transform.DecodeResponse(data)
	if err != nil {
		return transform.Response{}, fmt.Errorf("decode response: %w", err)
	}
	return resp, nil
}

// JobTitles fetches /salary/info.
func (c *Client) JobTitles(ctx context.Context) ([]string, error) {
	data, err := c.do(ctx, http.MethodGet, "/salary/info", nil)
	if err != nil {
		return nil, err
	}
	var titles []string
	if err := json.Unmarshal(data, &titles); err != nil {
		return nil, fmt.Errorf("decode job titles: %w", err)
	}
	return titles, nil
}

// DistinctJobTitles implements JobTitleLister.
func (c *Client) DistinctJobTitles(ctx context.Context) ([]string, error) {
	return c.JobTitles(ctx)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode == http.StatusOK {
		return data, nil
	}

	var eb ErrorBody
	if err := json.Unmarshal(data, &eb); err != nil || eb.Code == "" {
		return nil, fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}
	qe := &engine.QueryError{Code: eb.Code, Component: eb.Component, Index: -1, Message: eb.Message}
	if eb.Index != nil {
		qe.Index = *eb.Index
	}
	return nil, qe
}
