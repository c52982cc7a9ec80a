// Package secrets generates cryptographically secure random secrets.
package secrets

import (
	"crypto/rand"
	"encoding/base64"

	dErrors "folio/pkg/domain-errors"
)

// Generate returns a base64-encoded 256-bit random value, suitable for use
// as a JWT signing key.
func Generate() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not generate secret")
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
