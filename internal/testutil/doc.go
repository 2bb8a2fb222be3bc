// Package testutil provides test helpers for apple-auth packages.
//
// It includes utilities to stub Apple's token endpoint without real sockets,
// capture the form bodies of outgoing token requests, and generate P-256 keys
// in the PEM encodings Apple uses for its .p8 files.
//
// # Utilities
//
//   - MockProvider and JSONResponse: stub token endpoints and capture requests
//   - RoundTripFunc: inline http.RoundTripper implementations
//   - GenerateECKey / GenerateECKeyOnCurve: test signing keys
//   - EncodePKCS8PEM / EncodeSEC1PEM: PEM encodings for key parsing tests
//
// These helpers are designed for tests and may mutate http.DefaultClient/Transport; they restore previous values via tb.Cleanup.
package testutil
