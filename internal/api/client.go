// Package api provides the client for the remote question-answering endpoint.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/tidwall/gjson"
	"golang.org/x/net/http/httpproxy"

	apierrors "github.com/diogo/askchat/internal/errors"
	"github.com/diogo/askchat/internal/logging"
	"github.com/diogo/askchat/internal/models"
)

const (
	// PathResponse is the gjson path of the answer text in the response body
	PathResponse = "response"

	maxResponseBytes = 8 << 20
	maxErrorBody     = 4096
)

// HTTPDoer is the subset of tls_client.HttpClient the client needs
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ChatClientInterface is what the chat UI and commands need from the client
type ChatClientInterface interface {
	Ask(ctx context.Context, query string) (string, error)
	Session() Session
	Endpoint() string
}

var _ ChatClientInterface = (*Client)(nil)

// Client posts questions to {baseURL}/ask
type Client struct {
	httpClient HTTPDoer
	baseURL    string
	endpoint   string
	session    Session
	timeout    time.Duration
	proxy      string
	logger     *slog.Logger
}

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithHTTPClient replaces the default TLS client
func WithHTTPClient(doer HTTPDoer) ClientOption {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithTimeout bounds each request. Zero means no timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithProxy routes requests through proxy instead of the environment's proxy
func WithProxy(proxy string) ClientOption {
	return func(c *Client) {
		c.proxy = proxy
	}
}

// WithSession sets the session sent with every request
func WithSession(session Session) ClientOption {
	return func(c *Client) {
		c.session = session
	}
}

// WithLogger sets the diagnostic logger
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a Client for the service at baseURL
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	endpoint, err := askEndpoint(baseURL)
	if err != nil {
		return nil, err
	}

	client := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		endpoint: endpoint,
		logger:   logging.Discard(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.session.ID == "" {
		client.session = NewSession()
	}

	if client.httpClient == nil {
		httpClient, err := newTLSClient(client.timeout, client.resolveProxy())
		if err != nil {
			return nil, err
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// askEndpoint validates baseURL and joins the ask path onto it
func askEndpoint(baseURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return "", apierrors.NewConfigError("base_url", err.Error())
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", apierrors.NewConfigError("base_url", fmt.Sprintf("unsupported scheme %q", u.Scheme))
	}
	if u.Host == "" {
		return "", apierrors.NewConfigError("base_url", "missing host")
	}

	return u.JoinPath(models.PathAsk).String(), nil
}

// resolveProxy returns the explicit proxy or the one the environment selects for the endpoint
func (c *Client) resolveProxy() string {
	if c.proxy != "" {
		return c.proxy
	}

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return ""
	}
	proxyURL, err := httpproxy.FromEnvironment().ProxyFunc()(u)
	if err != nil || proxyURL == nil {
		return ""
	}
	return proxyURL.String()
}

// newTLSClient builds the default transport
func newTLSClient(timeout time.Duration, proxy string) (tls_client.HttpClient, error) {
	options := []tls_client.HttpClientOption{
		tls_client.WithTimeoutSeconds(int(timeout / time.Second)),
		tls_client.WithClientProfile(profiles.Chrome_120),
	}
	if proxy != "" {
		options = append(options, tls_client.WithProxyUrl(proxy))
	}

	httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}
	return httpClient, nil
}

// Session returns the session sent with every request
func (c *Client) Session() Session {
	return c.session
}

// Endpoint returns the full ask URL
func (c *Client) Endpoint() string {
	return c.endpoint
}

// BaseURL returns the configured base URL without trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Ask sends one question and returns the service's answer verbatim.
// There is exactly one attempt; every failure is returned to the caller.
func (c *Client) Ask(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", apierrors.ErrEmptyQuery
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	payload, err := json.Marshal(models.AskRequest{
		Query:     query,
		SessionID: c.session.ID,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}

	log := logging.FromContext(ctx, c.logger).With("session_id", c.session.ID, "endpoint", c.endpoint)
	start := time.Now()
	log.Debug("ask request", "query_bytes", len(query))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = classifyTransportError(ctx, c.endpoint, err)
		log.Error("ask request failed", "error", err, "duration", time.Since(start))
		return "", err
	}
	defer func() {
		if resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		err = classifyTransportError(ctx, c.endpoint, err)
		log.Error("ask response read failed", "error", err, "status", resp.StatusCode)
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errorBody := body
		if len(errorBody) > maxErrorBody {
			errorBody = errorBody[:maxErrorBody]
		}
		err := apierrors.NewAPIErrorWithBody(resp.StatusCode, c.endpoint, "ask failed", string(errorBody))
		log.Error("ask rejected", "status", resp.StatusCode, "duration", time.Since(start))
		return "", err
	}

	answer, err := parseAskResponse(body)
	if err != nil {
		log.Error("ask response malformed", "error", err, "status", resp.StatusCode)
		return "", err
	}

	log.Info("ask completed", "status", resp.StatusCode, "answer_bytes", len(answer), "duration", time.Since(start))
	return answer, nil
}

// classifyTransportError maps a Do/read failure onto the typed errors
func classifyTransportError(ctx context.Context, endpoint string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apierrors.NewTimeoutErrorWithEndpoint(endpoint, err)
	}
	return apierrors.NewNetworkErrorWithEndpoint("ask", endpoint, err)
}

// parseAskResponse extracts the answer text from a {"response": "..."} body
func parseAskResponse(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", apierrors.NewParseError("response body is not valid JSON", "")
	}

	result := gjson.GetBytes(body, PathResponse)
	if !result.Exists() {
		return "", apierrors.NewParseError("field missing", PathResponse)
	}
	if result.Type != gjson.String {
		return "", apierrors.NewParseError(fmt.Sprintf("expected string, got %s", result.Type), PathResponse)
	}

	return result.String(), nil
}
