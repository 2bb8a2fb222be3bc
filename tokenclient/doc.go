// Package tokenclient performs the Sign in with Apple token exchanges,
// attaching a freshly signed client secret to each request.
//
// A Client supports the authorization-code and refresh-token grants against
// Apple's fixed token endpoint, token revocation, and building the authorize
// URL for the browser step. Responses are passed through verbatim; this
// package never validates or interprets the tokens Apple returns.
//
// # Features
//
//   - Authorization-code and refresh-token grants with a single attempt each
//   - Client secrets pulled from a SecretSource (assertion.Generator) per call
//   - Token revocation against Apple's revoke endpoint
//   - Authorize URL construction with Apple's form_post requirement
//   - Typed errors: ErrInvalidArgument, ProviderError, DecodeError
//
// # Quick Start
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
//	client, err := tokenclient.New("com.example.app", gen,
//	    tokenclient.WithRedirectURI("https://example.com/callback"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	tokens, err := client.ExchangeAuthorizationCode(ctx, code)
//
// # Notes
//
//   - No exchange is retried; retry policy belongs to the caller.
//   - The client secret travels as the client_secret form field and is never logged.
package tokenclient
