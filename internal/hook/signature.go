package hook

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
)

// VerifySignature checks an HMAC-SHA256 signature over the raw request
// body. The header value may carry a GitHub-style "sha256=" prefix and
// surrounding whitespace; both are stripped before decoding.
//
// It runs before any JSON interpretation of the body: a request that
// cannot produce a valid signature never reaches payload-dependent code.
// The digest comparison is constant-time (crypto/subtle).
func VerifySignature(secret string, body []byte, header string) error {
	if header == "" {
		return authErr("required signature header not provided")
	}

	if secret == "" {
		return configErr("unable to verify token", fmt.Errorf("webhook secret is not set"))
	}

	received, err := parseSignature(header)
	if err != nil {
		return authErr("unable to decode signature header")
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	computed := mac.Sum(nil)

	if subtle.ConstantTimeCompare(computed, received) != 1 {
		return authErr("invalid signature")
	}

	return nil
}

// parseSignature decodes the hex digest from a signature header value,
// stripping the optional "sha256=" prefix and surrounding whitespace.
func parseSignature(header string) ([]byte, error) {
	s := strings.TrimSpace(header)
	s = strings.TrimPrefix(s, "sha256=")
	return hex.DecodeString(s)
}

// computeSignature returns the hex HMAC-SHA256 of body under secret.
// Used by tests to build valid deliveries.
func computeSignature(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
