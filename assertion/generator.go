package assertion

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Audience is the fixed audience claim Apple expects in every client secret JWT.
const Audience = "https://appleid.apple.com"

// MaxLifetime is the longest client secret lifetime Apple accepts (six months).
const MaxLifetime = 15777000 * time.Second

// Validation errors returned by Config.Validate and New.
var (
	ErrMissingClientID = errors.New("missing client ID")
	ErrMissingTeamID   = errors.New("missing team ID")
	ErrMissingKeyID    = errors.New("missing key ID")
	ErrMissingKey      = errors.New("missing private key")
)

// Logger is an interface for optional logging in Generator.
// Implementations can log secret regeneration events if desired.
type Logger interface {
	Printf(format string, args ...any)
}

// Config identifies the registered Apple service and carries its signing key.
// All fields are required. The private key must be on the P-256 curve; Apple
// issues exactly that kind of key for Sign in with Apple.
type Config struct {
	// ClientID is the app identifier or Services ID (the "sub" claim).
	ClientID string

	// TeamID is the Apple Developer team identifier (the "iss" claim).
	TeamID string

	// KeyID identifies the registered signing key (the "kid" header).
	KeyID string

	// PrivateKey is the P-256 key downloaded from the developer portal.
	// It is owned by the generator and never serialized or logged.
	PrivateKey *ecdsa.PrivateKey
}

// Validate reports all missing or unusable fields at once.
func (c Config) Validate() error {
	var errs []error
	if c.ClientID == "" {
		errs = append(errs, ErrMissingClientID)
	}
	if c.TeamID == "" {
		errs = append(errs, ErrMissingTeamID)
	}
	if c.KeyID == "" {
		errs = append(errs, ErrMissingKeyID)
	}
	if c.PrivateKey == nil {
		errs = append(errs, ErrMissingKey)
	} else if c.PrivateKey.Curve != elliptic.P256() {
		errs = append(errs, &KeyError{Err: ErrWrongCurve})
	}
	return errors.Join(errs...)
}

// Generator produces signed client secrets for Sign in with Apple.
// It caches the most recent secret and re-signs only when the cached one is
// within the expiry leeway. It is safe for concurrent use.
type Generator struct {
	cfg      Config
	lifetime time.Duration
	leeway   time.Duration
	logger   Logger // optional logger

	mu     sync.RWMutex
	secret string
	expiry time.Time

	now func() time.Time // overwritten for testing
}

// Option is a functional option for configuring Generator.
type Option func(*Generator)

// WithLifetime sets how long each generated secret is valid.
// The default is 15 minutes; Apple rejects lifetimes beyond MaxLifetime.
func WithLifetime(d time.Duration) Option {
	return func(g *Generator) {
		g.lifetime = d
	}
}

// WithExpiryLeeway sets the safety margin before expiry at which the cached
// secret is treated as stale and regenerated. The default is one minute.
func WithExpiryLeeway(d time.Duration) Option {
	return func(g *Generator) {
		g.leeway = d
	}
}

// WithLogger sets a custom logger for secret regeneration events.
// If not set, no logging will occur.
func WithLogger(logger Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// WithLoggingEnabled enables logging using the default Go log package.
// This is a convenience option that sets the logger to log.Default().
func WithLoggingEnabled() Option {
	return func(g *Generator) {
		g.logger = log.Default()
	}
}

// New creates a Generator for the given service identity.
//
// Returns an error if the config is incomplete, the key is not a P-256 key,
// or the configured lifetime falls outside (leeway, MaxLifetime].
func New(cfg Config, opts ...Option) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g := &Generator{
		cfg:      cfg,
		lifetime: 15 * time.Minute,
		leeway:   time.Minute, // regenerate a bit before expiry to avoid near-expiry races
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(g)
	}

	if g.lifetime > MaxLifetime {
		return nil, errors.New("assertion: lifetime exceeds Apple's six month maximum")
	}
	// A negative leeway would let Current hand out a cached secret past its
	// exp, so the whole policy must satisfy 0 <= leeway < lifetime.
	if g.leeway < 0 {
		return nil, errors.New("assertion: expiry leeway must not be negative")
	}
	if g.lifetime <= g.leeway {
		return nil, errors.New("assertion: lifetime must be longer than the expiry leeway")
	}

	return g, nil
}

// Current returns a valid signed client secret, re-signing only if the cached
// one is missing or within the expiry leeway. The returned secret's expiry is
// always strictly in the future.
//
// This method is thread-safe and uses double-checked locking to minimize lock
// contention; the ECDSA signing step runs under the write lock so concurrent
// callers racing an expired cache do not hand out redundant signatures.
func (g *Generator) Current() (string, error) {
	// Fast path: reuse the cached secret without the write lock.
	g.mu.RLock()
	if g.secretValid() {
		secret := g.secret
		g.mu.RUnlock()
		return secret, nil
	}
	g.mu.RUnlock()

	g.mu.Lock()
	defer g.mu.Unlock()

	// Double-check after acquiring the write lock (another goroutine might
	// have re-signed already).
	if g.secretValid() {
		return g.secret, nil
	}

	now := g.now()
	expiry := now.Add(g.lifetime)

	// Apple expects aud as a plain string, so MapClaims instead of
	// RegisteredClaims (which marshals a single audience as an array).
	token := jwt.NewWithClaims(jwt.SigningMethodES256, jwt.MapClaims{
		"iss": g.cfg.TeamID,
		"sub": g.cfg.ClientID,
		"aud": Audience,
		"iat": now.Unix(),
		"exp": expiry.Unix(),
	})
	token.Header["kid"] = g.cfg.KeyID

	secret, err := token.SignedString(g.cfg.PrivateKey)
	if err != nil {
		return "", &KeyError{Err: err}
	}

	g.secret = secret
	g.expiry = expiry

	// Log only if a logger is configured; never log the secret itself.
	if g.logger != nil {
		g.logger.Printf("assertion: signed new client secret for %s (expires: %s)",
			g.cfg.ClientID, expiry.Format(time.RFC3339))
	}

	return secret, nil
}

// secretValid reports whether the cached secret is still usable with the
// configured safety window. Callers must hold g.mu.
func (g *Generator) secretValid() bool {
	if g.secret == "" {
		return false
	}
	return g.expiry.Sub(g.now()) > g.leeway
}
