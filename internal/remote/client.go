// Package remote is the HTTP and websocket client of the table service.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/devaloi/msgboard/internal/domain"
)

// APIError is a non-2xx answer of the table service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("table service: %d %s", e.Status, e.Message)
}

// Client talks to a table service at a base URL.
type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

// New creates a client. timeout bounds each HTTP round trip.
func New(baseURL string, timeout time.Duration, log *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Create posts a new object to table.
func (c *Client) Create(ctx context.Context, table string, fields domain.Fields) (domain.Record, error) {
	body, err := json.Marshal(fields)
	if err != nil {
		return domain.Record{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.classURL(table), bytes.NewReader(body))
	if err != nil {
		return domain.Record{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	var created domain.Created
	if err := c.do(req, http.StatusCreated, &created); err != nil {
		return domain.Record{}, err
	}
	return domain.Record{ID: created.ID, Text: fields.Text, CreatedAt: created.CreatedAt}, nil
}

// QueryAll fetches every object of table.
func (c *Client) QueryAll(ctx context.Context, table string) ([]domain.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.classURL(table), nil)
	if err != nil {
		return nil, err
	}
	var result domain.QueryResult
	if err := c.do(req, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

func (c *Client) classURL(table string) string {
	return c.baseURL + "/classes/" + url.PathEscape(table)
}

func (c *Client) do(req *http.Request, want int, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		var body struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(raw, &body) != nil || body.Error == "" {
			body.Error = strings.TrimSpace(string(raw))
		}
		return &APIError{Status: resp.StatusCode, Message: body.Error}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}
