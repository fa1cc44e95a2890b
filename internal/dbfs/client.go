// Package dbfs uploads files to the Databricks File System over the REST API.
package dbfs

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Client implements assets.FileSystem against a Databricks workspace.
// It never retries; the first failure is returned to the caller.
type Client struct {
	httpClient *http.Client
	host       string
	token      string
	logger     *zap.Logger
}

type mkdirsRequest struct {
	Path string `json:"path"`
}

type putRequest struct {
	Path      string `json:"path"`
	Contents  string `json:"contents"`
	Overwrite bool   `json:"overwrite"`
}

// NewClient returns a client for the workspace at host (e.g. https://adb-1.azuredatabricks.net).
func NewClient(host, token string, httpTimeout time.Duration, logger *zap.Logger) (*Client, error) {
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if host == "" {
		return nil, errors.New("databricks host is missing (set DATABRICKS_HOST or dbfs_host)")
	}
	if token == "" {
		return nil, errors.New("databricks token is missing (set DATABRICKS_TOKEN or dbfs_token)")
	}
	if httpTimeout <= 0 {
		httpTimeout = 60 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{Timeout: httpTimeout},
		host:       host,
		token:      token,
		logger:     logger,
	}, nil
}

// Mkdirs creates dir and its parents. Existing directories are not an error.
func (c *Client) Mkdirs(dir string) error {
	return c.MkdirsContext(context.Background(), dir)
}

// Put uploads data to name.
func (c *Client) Put(name string, data []byte, overwrite bool) error {
	return c.PutContext(context.Background(), name, data, overwrite)
}

func (c *Client) MkdirsContext(ctx context.Context, dir string) error {
	return c.post(ctx, "/api/2.0/dbfs/mkdirs", mkdirsRequest{Path: dir})
}

func (c *Client) PutContext(ctx context.Context, name string, data []byte, overwrite bool) error {
	return c.post(ctx, "/api/2.0/dbfs/put", putRequest{
		Path:      name,
		Contents:  base64.StdEncoding.EncodeToString(data),
		Overwrite: overwrite,
	})
}

func (c *Client) post(ctx context.Context, endpoint string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &UnreachableError{Host: c.host, Err: err}
	}
	defer resp.Body.Close()
	c.logger.Debug("dbfs request",
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
	apiErr := &APIError{StatusCode: resp.StatusCode}
	_ = json.Unmarshal(raw, apiErr)
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	return classifyAPIError(apiErr)
}

// classifyAPIError maps a generic APIError to a typed error.
func classifyAPIError(apiErr *APIError) error {
	sc := apiErr.StatusCode
	switch {
	case sc == http.StatusUnauthorized || sc == http.StatusForbidden:
		return &AuthError{APIError: apiErr}
	case sc == http.StatusNotFound || apiErr.Code == "RESOURCE_DOES_NOT_EXIST":
		return &NotFoundError{APIError: apiErr}
	case apiErr.Code == "RESOURCE_ALREADY_EXISTS":
		return &ExistsError{APIError: apiErr}
	case sc >= 500 && sc <= 599:
		return &ServerError{APIError: apiErr}
	}
	return apiErr
}
