// Package httpclient offers HTTP client construction helpers for the Apple
// token exchanges, with TLS/mTLS and timeout options.
//
// It provides a fluent Builder that creates an http.Client suitable for
// tokenclient.WithHTTPClient: configurable TLS (custom CA, mTLS, insecure for
// tests), timeouts, base transports, and redirect handling.
//
// # Features
//
//   - Fluent builder for http.Client
//   - TLS 1.2+ by default, with custom CA/mTLS and optional InsecureSkipVerify
//   - Custom timeouts, base transport override, and redirect disabling
//
// # Quick Start
//
//	hc, err := httpclient.NewBuilder().
//	    WithTimeout(60 * time.Second).
//	    WithoutRedirects().
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	client, err := tokenclient.New("com.example.app", gen,
//	    tokenclient.WithHTTPClient(hc),
//	)
//
// All produced clients are safe for concurrent use.
package httpclient
