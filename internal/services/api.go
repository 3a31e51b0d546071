// API service for making HTTP requests to the SkillStream REST API
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/skillstream/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL  = "http://localhost:5000/api/v1"
	RequestIDHeader = "X-Request-ID"
)

// APIService performs raw HTTP requests against the API base URL.
//
// The bearer credential is read from the configured [oauth2.TokenSource] when each request is
// sent, so a login or logout is visible to the next request without rebuilding the client.
type APIService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// Option configures an [APIService].
type Option func(*APIService)

// WithTokenSource attaches "Authorization: Bearer" from ts to every request that has a token.
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(a *APIService) {
		client := *a.httpClient
		client.Transport = &bearerTransport{base: client.Transport, source: ts}
		a.httpClient = &client
	}
}

// WithRateLimit throttles outgoing requests. A non-positive rps disables throttling.
func WithRateLimit(rps float64, burst int) Option {
	return func(a *APIService) {
		if rps <= 0 {
			a.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		a.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithTimeout bounds each request, including reading the body.
func WithTimeout(d time.Duration) Option {
	return func(a *APIService) {
		if d <= 0 {
			return
		}
		client := *a.httpClient
		client.Timeout = d
		a.httpClient = &client
	}
}

func WithLogger(l *log.Logger) Option {
	return func(a *APIService) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewAPIService creates a new API service bound to baseURL.
func NewAPIService(baseURL string, client *http.Client, opts ...Option) *APIService {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	a := &APIService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// BaseURL returns the API root requests are resolved against.
func (a *APIService) BaseURL() string {
	return a.baseURL
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
	RequestID  string
}

// OK reports a 2xx status.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Message extracts the server supplied error text, preferring a JSON "msg" field.
func (r *APIResponse) Message() string {
	if obj, ok := r.JSONData.(map[string]any); ok {
		for _, key := range []string{"msg", "message", "error"} {
			if s, ok := obj[key].(string); ok && s != "" {
				return s
			}
		}
	}
	if !r.IsJSON {
		if text := strings.TrimSpace(string(r.Body)); text != "" {
			if len(text) > 200 {
				text = text[:200]
			}
			return text
		}
	}
	return http.StatusText(r.StatusCode)
}

// Get performs a GET request to path and returns the raw response.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	return a.Do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with the given JSON body.
func (a *APIService) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.Do(ctx, http.MethodPost, path, data)
}

// Put performs a PUT request with the given JSON body.
func (a *APIService) Put(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.Do(ctx, http.MethodPut, path, data)
}

func (a *APIService) Delete(ctx context.Context, path string) (*APIResponse, error) {
	return a.Do(ctx, http.MethodDelete, path, nil)
}

// Do sends a request and returns the response whatever its status. Only transport failures are
// returned as errors; see [APIResponse.Err] for status classification.
func (a *APIService) Do(ctx context.Context, method, path string, data []byte) (*APIResponse, error) {
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limiter: %w", shared.ErrNetwork, err)
		}
	}

	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := shared.GenerateID()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := a.httpClient.Do(req)
	if err != nil {
		a.logger.Debug("request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return nil, fmt.Errorf("%w: %w", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", shared.ErrNetwork, err)
	}

	a.logger.Debug("request", "method", method, "path", path, "status", resp.StatusCode,
		"request_id", requestID, "elapsed", time.Since(start))

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       raw,
		RequestID:  requestID,
	}

	var jsonData any
	if err := json.Unmarshal(raw, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}

// Err returns nil for a 2xx response and an [*APIError] otherwise.
func (r *APIResponse) Err(method, path string) error {
	if r.OK() {
		return nil
	}
	return &APIError{Status: r.StatusCode, Msg: r.Message(), Method: method, Path: path}
}

// APIError is a non-2xx response. It unwraps to the matching sentinel in [shared].
type APIError struct {
	Status int
	Msg    string
	Method string
	Path   string
}

func (e *APIError) Error() string {
	if e.Method == "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Msg)
	}
	return fmt.Sprintf("api error %d on %s %s: %s", e.Status, e.Method, e.Path, e.Msg)
}

func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusUnauthorized:
		return shared.ErrNotAuthenticated
	case e.Status == http.StatusForbidden:
		return shared.ErrForbidden
	case e.Status == http.StatusNotFound:
		return shared.ErrNotFound
	case e.Status == http.StatusConflict:
		return shared.ErrConflict
	case e.Status == http.StatusBadRequest && isDuplicateMessage(e.Msg):
		return shared.ErrConflict
	case e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity:
		return shared.ErrValidation
	case e.Status >= 500:
		return shared.ErrServiceUnavailable
	default:
		return shared.ErrAPIRequest
	}
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// MessageOf returns the server message carried by err, or err's text.
func MessageOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Msg
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// The API reports duplicates as 400 with "Already favourited" or "... already exists".
func isDuplicateMessage(msg string) bool {
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "already")
}

// bearerTransport sets the Authorization header from source at send time.
type bearerTransport struct {
	base   http.RoundTripper
	source oauth2.TokenSource
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}

	tok, err := t.source.Token()
	if err != nil || tok == nil || tok.AccessToken == "" {
		return base.RoundTrip(req)
	}

	r := req.Clone(req.Context())
	tok.SetAuthHeader(r)
	return base.RoundTrip(r)
}
