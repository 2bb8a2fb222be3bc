package assertion

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrWrongCurve indicates a private key that is not on the P-256 curve.
var ErrWrongCurve = errors.New("private key is not a P-256 key")

// KeyError reports an unusable signing key or a failed signing operation.
// It is fatal to the call that encountered it and is never retried.
type KeyError struct {
	Err error
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("assertion: signing key error: %v", e.Err)
}

func (e *KeyError) Unwrap() error { return e.Err }

// ParsePrivateKey parses a PEM-encoded P-256 private key as downloaded from
// the Apple developer portal (PKCS#8, "PRIVATE KEY") or in SEC1 form
// ("EC PRIVATE KEY"). Reading the bytes from disk or elsewhere is the
// caller's job.
func ParsePrivateKey(pemBytes []byte) (*ecdsa.PrivateKey, error) {
	key, err := jwt.ParseECPrivateKeyFromPEM(pemBytes)
	if err != nil {
		return nil, &KeyError{Err: err}
	}
	if key.Curve != elliptic.P256() {
		return nil, &KeyError{Err: ErrWrongCurve}
	}
	return key, nil
}
