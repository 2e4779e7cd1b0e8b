package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"loginflow/pkg/logging"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries a per-request correlation ID.
	RequestIDHeader = "X-Request-Id"

	userAgent = "loginflow"
)

// Client talks to one auth service.
type Client struct {
	client  *resty.Client
	baseURL string
}

// Config configures a Client.
type Config struct {
	// BaseURL is the service root, e.g. https://auth.example.com.
	BaseURL string

	// HTTPClient is an optional custom HTTP client. It should not set a
	// Timeout: per-call deadlines come from the caller's context.
	HTTPClient *http.Client

	// UserAgent overrides the default User-Agent header.
	UserAgent string
}

// NewClient creates a client for cfg.BaseURL.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = userAgent
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	client := resty.NewWithClient(httpClient).
		SetBaseURL(baseURL).
		SetLogger(restyLogger{}).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", ua)

	client.OnBeforeRequest(func(c *resty.Client, req *resty.Request) error {
		if req.Header.Get(RequestIDHeader) == "" {
			req.Header.Set(RequestIDHeader, uuid.NewString())
		}
		if req.Body != nil {
			data, err := json.Marshal(req.Body)
			if err != nil {
				return fmt.Errorf("failed to encode request body: %w", err)
			}
			req.Body = data
			req.Header.Set("Content-Type", "application/json")
		}
		return nil
	})

	return &Client{client: client, baseURL: baseURL}
}

// BaseURL returns the service root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CollectionPath builds /api/collections/{collection}/{action}.
func CollectionPath(collection, action string) string {
	return "/api/collections/" + url.PathEscape(collection) + "/" + action
}

// Get performs a GET and decodes the JSON response into res.
func (c *Client) Get(ctx context.Context, path string, res any) error {
	return c.send(ctx, resty.MethodGet, path, nil, res)
}

// Post sends body as JSON and decodes the JSON response into res.
func (c *Client) Post(ctx context.Context, path string, body, res any) error {
	return c.send(ctx, resty.MethodPost, path, body, res)
}

func (c *Client) send(ctx context.Context, method, path string, body, res any) error {
	req := c.client.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		terr := ClassifyTransportError(err, method, c.baseURL+path)
		logging.Debug("Backend", "%s %s failed: %s", method, path, terr.Kind)
		return terr
	}

	logging.Debug("Backend", "%s %s -> %d (request %s)",
		method, path, resp.StatusCode(), resp.Request.Header.Get(RequestIDHeader))

	if !resp.IsSuccess() {
		return newResponseError(method, path, resp.StatusCode(), resp.Body())
	}

	if res == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), res); err != nil {
		return &ResponseError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode(),
			Message:    "malformed response body",
			Malformed:  true,
			Err:        err,
		}
	}
	return nil
}

// restyLogger routes resty's own diagnostics through the Backend subsystem.
type restyLogger struct{}

func (restyLogger) Errorf(format string, v ...interface{}) {
	logging.Error("Backend", nil, format, v...)
}

func (restyLogger) Warnf(format string, v ...interface{}) {
	logging.Warn("Backend", format, v...)
}

func (restyLogger) Debugf(format string, v ...interface{}) {
	logging.Debug("Backend", format, v...)
}
