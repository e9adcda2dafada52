// Package signature authenticates inbound Slack webhook requests using the
// v0 signing scheme: HMAC-SHA256 over "v0:<timestamp>:<body>" with a shared
// secret, a bounded replay window, and a timing-safe comparison.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strconv"
	"time"
)

// MaxSkew bounds how far a request timestamp may drift from the local clock
// in either direction. Requests outside the window are rejected regardless
// of signature validity.
const MaxSkew = 5 * time.Minute

const version = "v0"

// Verifier checks request signatures against a shared signing secret. Its
// only side-effecting dependency is a clock read.
type Verifier struct {
	secret string
	now    func() time.Time
}

// New builds a Verifier for the given signing secret.
func New(secret string) *Verifier {
	return &Verifier{secret: secret, now: time.Now}
}

// Verify reports whether signatureHeader authenticates rawBody at the time
// claimed by timestampHeader. Any empty input fails. The comparison checks
// length first, then every byte in constant time, so a mismatch position
// cannot be inferred from timing.
func (v *Verifier) Verify(rawBody []byte, timestampHeader, signatureHeader string) bool {
	if v.secret == "" || len(rawBody) == 0 || timestampHeader == "" || signatureHeader == "" {
		return false
	}

	ts, err := strconv.ParseInt(timestampHeader, 10, 64)
	if err != nil {
		return false
	}
	skew := v.now().Unix() - ts
	if skew < 0 {
		skew = -skew
	}
	if skew > int64(MaxSkew/time.Second) {
		return false
	}

	expected := Compute(v.secret, timestampHeader, rawBody)
	if len(signatureHeader) != len(expected) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(signatureHeader), []byte(expected)) == 1
}

// Compute returns the expected signature header value for the given secret,
// timestamp and body. Exposed so tests and callers can produce signatures.
func Compute(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(version + ":" + timestamp + ":"))
	mac.Write(body)
	return version + "=" + hex.EncodeToString(mac.Sum(nil))
}
