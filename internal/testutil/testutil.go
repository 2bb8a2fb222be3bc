package testutil

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"golang.org/x/oauth2"
)

// RoundTripFunc allows inlining http.RoundTripper implementations.
type RoundTripFunc func(*http.Request) (*http.Response, error)

// RoundTrip calls the underlying function.
func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// MockProvider simulates Apple's token endpoint without real sockets.
// It records requests and their decoded form bodies and serves responses
// through a custom RoundTripper.
type MockProvider struct {
	URL      string
	Ctx      context.Context
	Requests []*http.Request
	Forms    []url.Values
}

// NewMockProvider builds a mock token endpoint backed by an in-memory
// RoundTripper. If handler is nil, it returns a default successful token
// response.
func NewMockProvider(tb testing.TB, handler RoundTripFunc) *MockProvider {
	tb.Helper()

	provider := &MockProvider{
		URL: "https://mock-appleid.example.com",
	}

	if handler == nil {
		handler = JSONResponse(http.StatusOK, `{
			"access_token": "mock-access-token",
			"token_type": "bearer",
			"expires_in": 3600
		}`)
	}

	rt := RoundTripFunc(func(req *http.Request) (*http.Response, error) {
		provider.Requests = append(provider.Requests, req)
		provider.Forms = append(provider.Forms, decodeForm(tb, req))
		return handler(req)
	})

	prevTransport := http.DefaultTransport
	prevClient := http.DefaultClient
	http.DefaultTransport = rt
	http.DefaultClient = &http.Client{Transport: rt}
	tb.Cleanup(func() {
		http.DefaultTransport = prevTransport
		http.DefaultClient = prevClient
	})

	provider.Ctx = context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{
		Transport: rt,
	})

	return provider
}

// decodeForm reads and decodes a form-encoded request body, restoring the
// body so the handler can still consume it.
func decodeForm(tb testing.TB, req *http.Request) url.Values {
	tb.Helper()

	if req.Body == nil {
		return nil
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		tb.Fatalf("failed to read request body: %v", err)
	}
	req.Body = io.NopCloser(strings.NewReader(string(body)))

	form, err := url.ParseQuery(string(body))
	if err != nil {
		tb.Fatalf("failed to parse form body: %v", err)
	}

	return form
}

// JSONResponse returns a RoundTripper that always responds with the provided
// status code and JSON body.
func JSONResponse(statusCode int, body string) RoundTripFunc {
	return func(req *http.Request) (*http.Response, error) {
		header := make(http.Header)
		header.Set("Content-Type", "application/json")
		return &http.Response{
			StatusCode: statusCode,
			Header:     header,
			Body:       io.NopCloser(strings.NewReader(body)),
			Request:    req,
		}, nil
	}
}

// GenerateECKey generates a P-256 private key for signing tests.
func GenerateECKey(tb testing.TB) *ecdsa.PrivateKey {
	tb.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		tb.Fatalf("failed to generate P-256 key: %v", err)
	}

	return key
}

// GenerateECKeyOnCurve generates a private key on an arbitrary curve, for
// wrong-curve failure tests.
func GenerateECKeyOnCurve(tb testing.TB, curve elliptic.Curve) *ecdsa.PrivateKey {
	tb.Helper()

	key, err := ecdsa.GenerateKey(curve, rand.Reader)
	if err != nil {
		tb.Fatalf("failed to generate EC key: %v", err)
	}

	return key
}

// EncodePKCS8PEM encodes a private key the way Apple ships .p8 files.
func EncodePKCS8PEM(tb testing.TB, key *ecdsa.PrivateKey) []byte {
	tb.Helper()

	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		tb.Fatalf("failed to marshal PKCS#8 key: %v", err)
	}

	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
}

// EncodeSEC1PEM encodes a private key in the older "EC PRIVATE KEY" form.
func EncodeSEC1PEM(tb testing.TB, key *ecdsa.PrivateKey) []byte {
	tb.Helper()

	der, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		tb.Fatalf("failed to marshal SEC1 key: %v", err)
	}

	return pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der})
}
