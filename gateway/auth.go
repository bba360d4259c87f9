package gateway

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"log/slog"
	"strings"
)

// The scheme token is matched case-sensitively.
const basicScheme = "Basic "

// Authenticator validates HTTP Basic credentials against the expected
// user:secret pair. It is safe for concurrent use; the credentials are
// written once before the first request and only read afterwards.
type Authenticator struct {
	creds Credentials
	log   *slog.Logger
}

// NewAuthenticator returns an Authenticator bound to creds.
func NewAuthenticator(creds Credentials, log *slog.Logger) *Authenticator {
	return &Authenticator{creds: creds, log: log}
}

// Authorized reports whether the raw Authorization header value matches
// the expected credential. Malformed headers and base64 decoding failures
// are non-matching input, never an error. Empty credentials fail closed.
func (a *Authenticator) Authorized(header string) bool {
	if a.creds.Empty() {
		return false
	}
	if !strings.HasPrefix(header, basicScheme) {
		return false
	}
	encoded := strings.TrimSpace(header[len(basicScheme):])
	userPass, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return false
	}
	return timingSafeEqual(userPass, []byte(a.creds.userColonPass))
}

// timingSafeEqual compares two secrets in constant time with respect to
// content. Both inputs are hashed first so the comparison does not branch
// on length or on the position of the first differing byte.
func timingSafeEqual(a, b []byte) bool {
	aSum := sha256.Sum256(a)
	bSum := sha256.Sum256(b)
	return subtle.ConstantTimeCompare(aSum[:], bSum[:]) == 1
}
