// Package sync implements the best-effort client for a remote sync service
// whose exact URL layout is unknown, and the push/pull reconciliation that
// runs on top of it.
package sync

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

	"github.com/golang-jwt/jwt/v5"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/studydesk/internal/common"
	"github.com/ternarybob/studydesk/internal/httpclient"
	"github.com/ternarybob/studydesk/internal/interfaces"
	"github.com/ternarybob/studydesk/internal/models"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL matches the development server
	DefaultBaseURL = "http://localhost:3000"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 15 * time.Second

	// DefaultRateLimit is the default rate limit (requests per second).
	DefaultRateLimit = 5

	maxErrorBody = 512
)

// Client talks to the remote sync service. The bearer token lives in the
// key/value store under common.KeySyncToken, never in an entity collection.
type Client struct {
	baseURL    string
	paths      Paths
	httpClient *http.Client
	tokens     interfaces.KeyValueStorage
	limiter    *rate.Limiter
	logger     arbor.ILogger
	now        func() time.Time
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets a custom rate limit. Zero or less disables limiting.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithPaths replaces the candidate path lists.
func WithPaths(paths Paths) ClientOption {
	return func(c *Client) {
		c.paths = paths
	}
}

// NewClient creates a sync client for baseURL. An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL string, tokens interfaces.KeyValueStorage, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		paths:      DefaultPaths(),
		httpClient: httpclient.NewDefaultHTTPClient(DefaultTimeout),
		tokens:     tokens,
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:     arbor.NewLogger(),
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// NewClientFromConfig builds a client from the [sync] config section
func NewClientFromConfig(config *common.Config, tokens interfaces.KeyValueStorage, logger arbor.ILogger) *Client {
	return NewClient(config.Sync.BaseURL, tokens,
		WithHTTPClient(httpclient.NewDefaultHTTPClient(config.SyncTimeout())),
		WithRateLimit(config.Sync.RateLimit),
		WithPaths(PathsFromConfig(config.Sync.Paths)),
		WithLogger(logger),
	)
}

// BaseURL returns the server the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

type requestOptions struct {
	body           interface{}
	allow401AsNull bool
	basicAuth      *models.Credentials
}

// tryPaths walks the candidate paths for one operation. A 404 moves on to
// the next candidate. A 401 returns nil when allow401AsNull is set, retries
// once with HTTP Basic when credentials are given, and otherwise moves on.
// Any other failure is recorded and the next candidate tried.
//
// A nil result with a nil error means the operation is not available on
// this server: every candidate answered 404, or 401 with allow401AsNull.
func (c *Client) tryPaths(ctx context.Context, op, method string, paths []string, opts requestOptions) ([]byte, error) {
	var payload []byte
	if opts.body != nil {
		data, err := json.Marshal(opts.body)
		if err != nil {
			return nil, &SyncError{Op: op, Err: fmt.Errorf("failed to encode request: %w", err)}
		}
		payload = data
	}

	var lastErr *SyncError
	for _, path := range paths {
		status, body, err := c.do(ctx, method, path, payload, nil)
		if err != nil {
			if ctx.Err() != nil {
				return nil, &SyncError{Op: op, Err: ctx.Err()}
			}
			lastErr = &SyncError{Op: op, Err: err}
			continue
		}

		if status == http.StatusUnauthorized {
			if opts.allow401AsNull {
				return nil, nil
			}
			if opts.basicAuth == nil {
				lastErr = &SyncError{Op: op, Status: status, Err: ErrNotAuthenticated}
				continue
			}
			c.logger.Debug().Str("op", op).Str("path", path).Msg("Retrying with basic auth")
			status, body, err = c.do(ctx, method, path, payload, opts.basicAuth)
			if err != nil {
				lastErr = &SyncError{Op: op, Err: err}
				continue
			}
		}

		switch {
		case status == http.StatusNotFound:
			c.logger.Debug().Str("op", op).Str("path", path).Msg("Candidate path not found")
			continue
		case status == http.StatusUnauthorized:
			lastErr = &SyncError{Op: op, Status: status, Err: ErrNotAuthenticated}
			continue
		case status < 200 || status > 299:
			lastErr = &SyncError{Op: op, Status: status, Err: errors.New(httpErrorText(status, body))}
			continue
		}

		if len(bytes.TrimSpace(body)) == 0 {
			body = []byte("{}")
		}
		return body, nil
	}

	if lastErr == nil {
		return nil, nil
	}
	if opts.allow401AsNull && errors.Is(lastErr, ErrNotAuthenticated) {
		return nil, nil
	}
	c.logger.Warn().Str("op", op).Err(lastErr).Msg("All candidate paths failed")
	return nil, lastErr
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte, basic *models.Credentials) (int, []byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, nil, fmt.Errorf("rate limit exceeded: %w", err)
		}
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if basic != nil {
		req.SetBasicAuth(basic.Email, basic.Password)
	} else if token := c.token(ctx); token != "" {
		(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Msg("Sync request")
	return resp.StatusCode, data, nil
}

func httpErrorText(status int, body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorBody {
		text = text[:maxErrorBody]
	}
	if text == "" {
		text = http.StatusText(status)
	}
	return fmt.Sprintf("HTTP %d: %s", status, text)
}

func (c *Client) token(ctx context.Context) string {
	if c.tokens == nil {
		return ""
	}
	token, err := c.tokens.Get(ctx, common.KeySyncToken)
	if err != nil {
		return ""
	}
	return token
}

func (c *Client) setToken(ctx context.Context, token string) error {
	if c.tokens == nil {
		return nil
	}
	if token == "" {
		return c.tokens.Delete(ctx, common.KeySyncToken)
	}
	return c.tokens.Set(ctx, common.KeySyncToken, token, "Bearer token for the sync service")
}

// Login authenticates with email and password, falling back to HTTP Basic
// on a 401. The returned token is stored. When the server sends no user
// object one is built from the email.
func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	creds := &models.Credentials{Email: email, Password: password}
	data, err := c.tryPaths(ctx, "login", http.MethodPost, c.paths.Login, requestOptions{
		body:      creds,
		basicAuth: creds,
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, &SyncError{Op: "login", Err: fmt.Errorf("login %w", ErrEndpointNotFound)}
	}

	var auth models.AuthResponse
	if err := json.Unmarshal(data, &auth); err != nil {
		return nil, &SyncError{Op: "login", Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if auth.Token != "" {
		if err := c.setToken(ctx, auth.Token); err != nil {
			return nil, err
		}
	}

	if auth.User != nil {
		return auth.User, nil
	}
	name := auth.Name
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	return &models.User{Email: email, Name: name}, nil
}

// Register creates an account and stores the returned token
func (c *Client) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	data, err := c.tryPaths(ctx, "register", http.MethodPost, c.paths.Register, requestOptions{
		body: &models.Credentials{Email: email, Password: password, Name: name},
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, &SyncError{Op: "register", Err: fmt.Errorf("register %w", ErrEndpointNotFound)}
	}

	var auth models.AuthResponse
	if err := json.Unmarshal(data, &auth); err != nil {
		return nil, &SyncError{Op: "register", Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if auth.Token != "" {
		if err := c.setToken(ctx, auth.Token); err != nil {
			return nil, err
		}
	}

	if auth.User != nil {
		return auth.User, nil
	}
	return &models.User{Email: email, Name: name}, nil
}

// Me returns the signed-in user, or nil when the server says 401 or has no
// such endpoint
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	data, err := c.tryPaths(ctx, "me", http.MethodGet, c.paths.Me, requestOptions{allow401AsNull: true})
	if err != nil || data == nil {
		return nil, err
	}

	var wrapped struct {
		User *models.User `json:"user"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.User != nil {
		return wrapped.User, nil
	}

	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, &SyncError{Op: "me", Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if user.Email == "" && user.Name == "" && user.ID == nil {
		return nil, nil
	}
	return &user, nil
}

// Logout forgets the stored token
func (c *Client) Logout(ctx context.Context) error {
	return c.setToken(ctx, "")
}

// IsAuthenticated reports whether a token is stored. Tokens that parse as
// a JWT with an exp claim in the past count as signed out; the signature
// is not checked since only the server can verify it.
func (c *Client) IsAuthenticated(ctx context.Context) bool {
	token := c.token(ctx)
	if token == "" {
		return false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		// Opaque tokens are fine
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return exp.After(c.now())
}

// ListDocuments pulls the remote document list. A missing endpoint yields
// an empty list.
func (c *Client) ListDocuments(ctx context.Context) ([]models.RemoteDocument, error) {
	data, err := c.tryPaths(ctx, "list documents", http.MethodGet, c.paths.DocsList, requestOptions{})
	if err != nil {
		return nil, err
	}
	docs, err := decodeList[models.RemoteDocument](data)
	if err != nil {
		return nil, &SyncError{Op: "list documents", Err: err}
	}
	return docs, nil
}

// ListAnnotations pulls the remote annotation list
func (c *Client) ListAnnotations(ctx context.Context) ([]models.RemoteAnnotation, error) {
	data, err := c.tryPaths(ctx, "list annotations", http.MethodGet, c.paths.AnnotationsList, requestOptions{})
	if err != nil {
		return nil, err
	}
	annotations, err := decodeList[models.RemoteAnnotation](data)
	if err != nil {
		return nil, &SyncError{Op: "list annotations", Err: err}
	}
	return annotations, nil
}

// UpsertDocument pushes one document. It reports false when the server
// has no upsert endpoint.
func (c *Client) UpsertDocument(ctx context.Context, doc models.RemoteDocument) (bool, error) {
	data, err := c.tryPaths(ctx, "upsert document", http.MethodPost, c.paths.DocsUpsert, requestOptions{body: doc})
	return data != nil, err
}

// UpsertAnnotation pushes one annotation
func (c *Client) UpsertAnnotation(ctx context.Context, annotation models.RemoteAnnotation) (bool, error) {
	data, err := c.tryPaths(ctx, "upsert annotation", http.MethodPost, c.paths.AnnotationsUp, requestOptions{body: annotation})
	return data != nil, err
}

// decodeList accepts a bare JSON array or an {"items": [...]} envelope
func decodeList[T any](data []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []T{}, nil
	}

	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("failed to decode list: %w", err)
		}
		return items, nil
	}

	var envelope struct {
		Items []T `json:"items"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode list: %w", err)
	}
	if envelope.Items == nil {
		return []T{}, nil
	}
	return envelope.Items, nil
}
