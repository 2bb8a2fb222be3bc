// Package assertion generates the signed client secret JWTs that Sign in with
// Apple uses in place of a static OAuth2 client secret.
//
// A Generator holds the registered service identity (client ID, team ID, key
// ID) and its P-256 private key, signs ES256 client secrets on demand, and
// caches the most recent one until it is close to expiry. Token exchanges can
// therefore ask for the current secret on every request without paying for a
// signature each time.
//
// # Features
//
//   - ES256 client secrets with Apple's exact claim set (iss/sub/aud/iat/exp)
//   - Caching with early regeneration before expiry (WithExpiryLeeway)
//   - Configurable secret lifetime capped at Apple's six month maximum
//   - Optional logging of regeneration events (WithLogger, WithLoggingEnabled)
//   - PEM key parsing helper for the .p8 files Apple issues
//
// # Quick Start
//
//	key, err := assertion.ParsePrivateKey(pemBytes)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	gen, err := assertion.New(assertion.Config{
//	    ClientID:   "com.example.app",
//	    TeamID:     "TEAM123456",
//	    KeyID:      "KEY1234567",
//	    PrivateKey: key,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	secret, err := gen.Current()
//
// # Notes
//
//   - Generator is safe for concurrent use and uses double-checked locking.
//   - The private key and the generated secrets are never logged.
package assertion
