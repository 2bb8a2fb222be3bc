package tokenclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
)

// Apple's fixed Sign in with Apple endpoints.
const (
	TokenEndpoint     = "https://appleid.apple.com/auth/token"
	RevokeEndpoint    = "https://appleid.apple.com/auth/revoke"
	AuthorizeEndpoint = "https://appleid.apple.com/auth/authorize"
)

// maxResponseBytes caps how much of a provider response is read.
const maxResponseBytes = 1 << 20

// SecretSource provides the current client secret for outgoing token
// requests. *assertion.Generator satisfies it.
type SecretSource interface {
	Current() (string, error)
}

// Logger is an interface for optional logging in Client.
// Implementations can log exchange events if desired.
type Logger interface {
	Printf(format string, args ...any)
}

// TokenResponse is Apple's token endpoint response, passed through verbatim.
// Fields beyond successful JSON decoding are not interpreted or validated.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
	IDToken      string `json:"id_token,omitempty"`
}

// Client performs the two supported token-exchange grants against Apple's
// token endpoint, attaching a fresh client secret to each request. It is
// stateless aside from the secret cache shared through its SecretSource and
// is safe for concurrent use.
type Client struct {
	clientID    string
	secrets     SecretSource
	redirectURI string
	httpClient  *http.Client
	logger      Logger // optional logger

	tokenURL     string
	revokeURL    string
	authorizeURL string
}

// Option is a functional option for configuring Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for token requests. A client
// carried in the request context under oauth2.HTTPClient still takes
// precedence per call; with neither, http.DefaultClient is used.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRedirectURI sets the redirect URI registered with Apple. When set it is
// included in authorization-code exchanges and in generated authorize URLs.
func WithRedirectURI(uri string) Option {
	return func(c *Client) {
		c.redirectURI = uri
	}
}

// WithEndpoint overrides the provider base URL (scheme and host), keeping
// Apple's standard /auth/* paths. This exists for tests against a stub
// provider; production callers should leave the fixed endpoints alone.
func WithEndpoint(base string) Option {
	return func(c *Client) {
		base = strings.TrimRight(base, "/")
		c.tokenURL = base + "/auth/token"
		c.revokeURL = base + "/auth/revoke"
		c.authorizeURL = base + "/auth/authorize"
	}
}

// WithLogger sets a custom logger for exchange events.
// If not set, no logging will occur.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithLoggingEnabled enables logging using the default Go log package.
// This is a convenience option that sets the logger to log.Default().
func WithLoggingEnabled() Option {
	return func(c *Client) {
		c.logger = log.Default()
	}
}

// New creates a Client for the given app identifier.
//
// Parameters:
//   - clientID: the app identifier or Services ID registered with Apple
//   - secrets: source of signed client secrets, typically *assertion.Generator
//   - opts: optional configuration (WithHTTPClient, WithRedirectURI, ...)
func New(clientID string, secrets SecretSource, opts ...Option) (*Client, error) {
	if clientID == "" {
		return nil, fmt.Errorf("tokenclient: %w: empty client ID", ErrInvalidArgument)
	}
	if secrets == nil {
		return nil, fmt.Errorf("tokenclient: %w: nil secret source", ErrInvalidArgument)
	}

	c := &Client{
		clientID:     clientID,
		secrets:      secrets,
		tokenURL:     TokenEndpoint,
		revokeURL:    RevokeEndpoint,
		authorizeURL: AuthorizeEndpoint,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// ExchangeAuthorizationCode trades an authorization code for tokens.
//
// The code content is not validated locally; an empty code is a caller error
// surfaced as ErrInvalidArgument without any outbound request. A single
// attempt is made per call; nothing is retried.
func (c *Client) ExchangeAuthorizationCode(ctx context.Context, code string) (*TokenResponse, error) {
	if code == "" {
		return nil, fmt.Errorf("tokenclient: %w: empty authorization code", ErrInvalidArgument)
	}

	form := url.Values{
		"grant_type": {"authorization_code"},
		"code":       {code},
	}
	if c.redirectURI != "" {
		form.Set("redirect_uri", c.redirectURI)
	}

	return c.exchange(ctx, form)
}

// ExchangeRefreshToken trades a refresh token for a new access token.
// Same shape and error taxonomy as ExchangeAuthorizationCode.
func (c *Client) ExchangeRefreshToken(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("tokenclient: %w: empty refresh token", ErrInvalidArgument)
	}

	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	}

	return c.exchange(ctx, form)
}

// RevokeToken invalidates an access or refresh token with Apple.
//
// tokenTypeHint may be "access_token", "refresh_token", or empty to let the
// provider detect the type. Apple replies 200 with an empty body on success.
func (c *Client) RevokeToken(ctx context.Context, token, tokenTypeHint string) error {
	if token == "" {
		return fmt.Errorf("tokenclient: %w: empty token", ErrInvalidArgument)
	}

	secret, err := c.secrets.Current()
	if err != nil {
		return err
	}

	form := url.Values{
		"client_id":     {c.clientID},
		"client_secret": {secret},
		"token":         {token},
	}
	if tokenTypeHint != "" {
		form.Set("token_type_hint", tokenTypeHint)
	}

	resp, err := c.post(ctx, c.revokeURL, form)
	if err != nil {
		return &ProviderError{Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &ProviderError{StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ProviderError{StatusCode: resp.StatusCode, Body: body}
	}

	if c.logger != nil {
		c.logger.Printf("tokenclient: revoked token for %s", c.clientID)
	}

	return nil
}

// exchange attaches the client credentials to the grant-specific form fields
// and performs a single POST against the token endpoint.
func (c *Client) exchange(ctx context.Context, form url.Values) (*TokenResponse, error) {
	secret, err := c.secrets.Current()
	if err != nil {
		// Key failures are fatal to this call; propagate unchanged.
		return nil, err
	}

	form.Set("client_id", c.clientID)
	form.Set("client_secret", secret)

	resp, err := c.post(ctx, c.tokenURL, form)
	if err != nil {
		return nil, &ProviderError{Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &ProviderError{StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ProviderError{StatusCode: resp.StatusCode, Body: body}
	}

	var token TokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, &DecodeError{Err: err}
	}

	if c.logger != nil {
		c.logger.Printf("tokenclient: %s grant succeeded for %s", form.Get("grant_type"), c.clientID)
	}

	return &token, nil
}

// post issues a form-encoded POST honoring the context for cancellation.
func (c *Client) post(ctx context.Context, endpoint string, form url.Values) (*http.Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.pickHTTPClient(ctx).Do(req)
}

// pickHTTPClient resolves the HTTP client: the oauth2.HTTPClient context key
// first (matching x/oauth2's own precedence), then the explicit option
// client, then http.DefaultClient.
func (c *Client) pickHTTPClient(ctx context.Context) *http.Client {
	if hc, ok := ctx.Value(oauth2.HTTPClient).(*http.Client); ok && hc != nil {
		return hc
	}
	if c.httpClient != nil {
		return c.httpClient
	}
	return http.DefaultClient
}
