// Package restapi implements the service.Service interface against the task
// management REST API.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"taskmgr/internal/config"
	"taskmgr/internal/service"
	"taskmgr/internal/session"
)

// RequestIDHeader carries a per-request identifier for correlating logs.
const RequestIDHeader = "X-Request-Id"

// maxBody caps how much of a response is read.
const maxBody = 8 << 20

// Client implements service.Service over HTTP.
type Client struct {
	baseURL *url.URL
	routes  Routes
	timeout time.Duration
	anon    *http.Client
	authed  *http.Client // nil without a session
	logger  *slog.Logger
}

var _ service.Service = (*Client)(nil)

// New creates a client for cfg. Task operations need sess; pass nil for
// authenticate and register only.
func New(cfg *config.Config, sess *session.Session, logger *slog.Logger) (*Client, error) {
	return NewWithHTTPClient(cfg, sess, logger, &http.Client{})
}

// NewWithHTTPClient creates a client whose requests go through httpClient.
// The bearer token is layered over httpClient's transport.
func NewWithHTTPClient(cfg *config.Config, sess *session.Session, logger *slog.Logger, httpClient *http.Client) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid api base url: %q", cfg.BaseURL)
	}
	routes, err := RoutesFor(cfg.Routes)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		baseURL: base,
		routes:  routes,
		timeout: cfg.RequestTimeout,
		anon:    httpClient,
		logger:  logger,
	}
	if sess.Valid() {
		c.authed = &http.Client{
			Transport: &oauth2.Transport{
				Source: sess.TokenSource(),
				Base:   httpClient.Transport,
			},
			CheckRedirect: httpClient.CheckRedirect,
			Jar:           httpClient.Jar,
			Timeout:       httpClient.Timeout,
		}
	}
	return c, nil
}

// Authenticate exchanges credentials for a session. The token is read from
// the Authorization response header and the display name from the body.
func (c *Client) Authenticate(ctx context.Context, creds service.Credentials) (session.Session, error) {
	resp, body, err := c.do(ctx, c.routes.Authenticate(creds))
	if err != nil {
		return session.Session{}, err
	}

	token, ok := strings.CutPrefix(resp.Header.Get("Authorization"), "Bearer ")
	token = strings.TrimSpace(token)
	if !ok || token == "" {
		return session.Session{}, service.NewError(service.KindRejected, "authentication response carried no token", nil)
	}
	return session.Session{Token: token, DisplayName: textBody(body)}, nil
}

// Register creates an account. It succeeds only when the server answers with
// the confirmation literal; any other payload is returned as a rejection.
func (c *Client) Register(ctx context.Context, reg service.Registration) (string, error) {
	_, body, err := c.do(ctx, c.routes.Register(reg))
	if err != nil {
		var gerr *googleapi.Error
		if !errors.As(err, &gerr) {
			return "", err
		}
		msg := textBody([]byte(gerr.Body))
		if msg == "" {
			msg = "Registration failed. Please try again."
		}
		return "", service.NewError(service.KindRejected, msg, err)
	}

	msg := textBody(body)
	if msg != service.RegistrationConfirmed {
		return "", service.NewError(service.KindRejected, msg, nil)
	}
	return msg, nil
}

// ListTasks fetches every task of the signed-in user. A body that is not a
// JSON array is treated as an empty list.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	_, body, err := c.do(ctx, c.routes.ListTasks())
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return []service.Task{}, nil
	}
	var tasks []service.Task
	if err := json.Unmarshal(trimmed, &tasks); err != nil {
		return nil, service.NewError(service.KindRejected, "malformed task list", err)
	}
	return tasks, nil
}

// CreateTask stores a new task. The server assigns its ID.
func (c *Client) CreateTask(ctx context.Context, d service.Draft) error {
	_, _, err := c.do(ctx, c.routes.CreateTask(d))
	return err
}

// UpdateTask replaces the task identified by t.ID.
func (c *Client) UpdateTask(ctx context.Context, t service.Task) error {
	_, _, err := c.do(ctx, c.routes.UpdateTask(t))
	return err
}

// DeleteTask removes the task with the given ID.
func (c *Client) DeleteTask(ctx context.Context, id service.TaskID) error {
	_, _, err := c.do(ctx, c.routes.DeleteTask(id))
	return err
}

// do executes d and returns the response with its fully read body. Non-2xx
// statuses and transport failures come back as *service.Error; a cancelled
// context is returned as is.
func (c *Client) do(ctx context.Context, d Descriptor) (*http.Response, []byte, error) {
	client := c.anon
	if d.Auth {
		if c.authed == nil {
			return nil, nil, service.ErrNoSession
		}
		client = c.authed
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reqBody io.Reader
	if d.Body != nil {
		data, err := json.Marshal(d.Body)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encode %s request: %w", d.Op, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, d.Method, c.baseURL.String()+d.Path, reqBody)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build %s request: %w", d.Op, err)
	}
	reqID := ulid.Make().String()
	req.Header.Set(RequestIDHeader, reqID)
	req.Header.Set("Accept", "application/json, text/plain")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, nil, err
		}
		c.logger.DebugContext(ctx, "api request failed",
			"op", d.Op, "method", d.Method, "path", d.Path, "request_id", reqID, "error", err)
		return nil, nil, service.NewError(service.KindTransient, "could not reach the server", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, nil, err
		}
		return nil, nil, service.NewError(service.KindTransient, "failed to read response", err)
	}
	c.logger.DebugContext(ctx, "api request",
		"op", d.Op, "method", d.Method, "path", d.Path, "status", resp.StatusCode,
		"request_id", reqID, "elapsed", time.Since(start))

	// CheckResponse consumes the body, so hand it a replayable copy.
	resp.Body = io.NopCloser(bytes.NewReader(body))
	if err := googleapi.CheckResponse(resp); err != nil {
		return nil, nil, classify(d.Op, err)
	}
	return resp, body, nil
}

// classify maps an HTTP failure to a service error kind.
func classify(op Op, err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return service.NewError(service.KindTransient, "request failed", err)
	}
	switch gerr.Code {
	case http.StatusUnauthorized, http.StatusForbidden:
		if op == OpAuthenticate {
			return service.NewError(service.KindInvalidCredentials, "Invalid Credentials", gerr)
		}
		return service.NewError(service.KindUnauthorized, "session expired, please log in again", gerr)
	}
	return service.NewError(service.KindTransient, fmt.Sprintf("server error (%d)", gerr.Code), gerr)
}

// textBody decodes a JSON string payload, falling back to the raw text.
func textBody(body []byte) string {
	var s string
	if err := json.Unmarshal(body, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(body))
}
