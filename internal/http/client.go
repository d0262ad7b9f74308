package http

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

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/fivetwenty-io/automation-client/internal/constants"
	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

// Logger is the logging contract of the transport.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Client performs management API requests.
type Client struct {
	baseURL     *url.URL
	httpClient  *retryablehttp.Client
	tokenSource oauth2.TokenSource
	limiter     *rate.Limiter
	logger      Logger
	debug       bool
	userAgent   string
	apiVersion  string
}

// Request describes one API call. Path is either relative to the base URL
// or an absolute next link returned by a previous list call.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    any
	RawBody []byte
	// ContentType of RawBody. JSON bodies always use application/json.
	ContentType string
	Headers     map[string]string
}

// Response is the buffered outcome of a Request.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	RequestID  string
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
		c.httpClient.Logger = &leveledLogger{logger: logger}
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithAPIVersion sets the default api-version query parameter.
func WithAPIVersion(apiVersion string) Option {
	return func(c *Client) {
		c.apiVersion = apiVersion
	}
}

// WithRetryConfig enables transport retries of 5xx and 429 responses.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// WithTimeout sets the per-request timeout of the underlying client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient.Timeout = timeout
	}
}

// WithRateLimit limits outgoing requests to rps per second.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil

			return
		}

		burst := int(rps)
		if burst < 1 {
			burst = 1
		}

		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewClient creates a new transport client. tokenSource may be nil, in which
// case requests are sent without an Authorization header.
func NewClient(baseURL string, tokenSource oauth2.TokenSource, opts ...Option) *Client {
	parsed, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		parsed = &url.URL{Scheme: "https", Host: baseURL}
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	retryClient.Logger = nil
	retryClient.CheckRetry = retryablehttp.DefaultRetryPolicy
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := &Client{
		baseURL:     parsed,
		httpClient:  retryClient,
		tokenSource: tokenSource,
		userAgent:   constants.DefaultUserAgent,
		apiVersion:  constants.DefaultAPIVersion,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// BaseURL returns the endpoint requests are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Do executes req. Responses with status >= 400 are returned together with
// an *automation.ResponseError.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	target, err := c.resolve(req)
	if err != nil {
		return nil, err
	}

	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	requestID := c.prepareHeaders(ctx, httpReq, req, contentType)

	err = c.authorize(httpReq)
	if err != nil {
		return nil, err
	}

	if c.limiter != nil {
		err = c.limiter.Wait(ctx)
		if err != nil {
			return nil, fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method":     req.Method,
			"url":        target,
			"request_id": requestID,
		})
	}

	start := time.Now()

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	defer func() {
		_ = httpResp.Body.Close()
	}()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
		RequestID:  requestID,
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"status":             httpResp.StatusCode,
			"duration":           time.Since(start).String(),
			"request_id":         requestID,
			"service_request_id": httpResp.Header.Get(constants.HeaderServiceRequestID),
		})
	}

	if httpResp.StatusCode >= http.StatusBadRequest {
		return resp, automation.ParseResponseError(httpResp.StatusCode, respBody)
	}

	return resp, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// Patch performs a PATCH request.
func (c *Client) Patch(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}

// resolve builds the absolute request URL. Next links are used verbatim but
// must point at the configured host so the bearer token is never sent
// elsewhere.
func (c *Client) resolve(req *Request) (string, error) {
	if strings.HasPrefix(req.Path, "http://") || strings.HasPrefix(req.Path, "https://") {
		link, err := url.Parse(req.Path)
		if err != nil {
			return "", fmt.Errorf("parsing next link: %w", err)
		}

		if !strings.EqualFold(link.Host, c.baseURL.Host) {
			return "", fmt.Errorf("%w: %s", constants.ErrForeignNextLink, link.Host)
		}

		return link.String(), nil
	}

	// Paths arrive with their segments already escaped.
	rawPath := c.baseURL.EscapedPath() + req.Path

	unescaped, err := url.PathUnescape(rawPath)
	if err != nil {
		return "", fmt.Errorf("parsing request path: %w", err)
	}

	target := *c.baseURL
	target.Path = unescaped
	target.RawPath = rawPath

	query := url.Values{}
	for key, values := range req.Query {
		query[key] = append([]string(nil), values...)
	}

	if query.Get("api-version") == "" && c.apiVersion != "" {
		query.Set("api-version", c.apiVersion)
	}

	target.RawQuery = query.Encode()

	return target.String(), nil
}

func (c *Client) prepareHeaders(ctx context.Context, httpReq *retryablehttp.Request, req *Request, contentType string) string {
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	requestID := RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = newRequestID()
	}

	httpReq.Header.Set(constants.HeaderClientRequestID, requestID)
	httpReq.Header.Set(constants.HeaderReturnClientRequestID, "true")

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	return requestID
}

func (c *Client) authorize(httpReq *retryablehttp.Request) error {
	if c.tokenSource == nil {
		return nil
	}

	token, err := c.tokenSource.Token()
	if err != nil {
		return fmt.Errorf("getting access token: %w", err)
	}

	token.SetAuthHeader(httpReq.Request)

	return nil
}

func encodeBody(req *Request) (io.Reader, string, error) {
	if req.RawBody != nil {
		contentType := req.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		return bytes.NewReader(req.RawBody), contentType, nil
	}

	if req.Body == nil {
		return nil, "", nil
	}

	data, err := json.Marshal(req.Body)
	if err != nil {
		return nil, "", fmt.Errorf("encoding request body: %w", err)
	}

	return bytes.NewReader(data), "application/json", nil
}

// leveledLogger routes retryablehttp's retry logging to Logger.
type leveledLogger struct {
	logger Logger
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, toFields(keysAndValues))
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, toFields(keysAndValues))
}

// Debug is dropped: retryablehttp logs every attempt at debug level and the
// transport already logs its own request line.
func (l *leveledLogger) Debug(string, ...interface{}) {}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, toFields(keysAndValues))
}

func toFields(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2)

	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}

	return fields
}
