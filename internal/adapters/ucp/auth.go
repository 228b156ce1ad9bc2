package ucp

import (
	"crypto/sha512"
	"encoding/hex"
	"time"

	pkgerrors "github.com/kevin07696/ucp-client/pkg/errors"
)

// nonceLayout matches the timestamp nonces the gateway's sample integrations send
const nonceLayout = "01/02/2006 15:04:05.000"

// Credentials identify the integrating application to the gateway
type Credentials struct {
	AppID  string
	AppKey string // Never sent over the wire; only its digest with the nonce is
	Nonce  string
}

// Validate checks the credential pair before any network activity
func (c Credentials) Validate() error {
	if c.AppID == "" {
		return pkgerrors.NewConfigurationError("app_id", "app id is required")
	}
	if c.AppKey == "" {
		return pkgerrors.NewConfigurationError("app_key", "app key is required")
	}
	return nil
}

// WithDefaultNonce returns a copy of the credentials whose nonce is set,
// falling back to a timestamp taken at now.
func (c Credentials) WithDefaultNonce(now time.Time) Credentials {
	if c.Nonce == "" {
		c.Nonce = DefaultNonce(now)
	}
	return c
}

// DefaultNonce formats now the way the gateway expects a timestamp nonce
func DefaultNonce(now time.Time) string {
	return now.UTC().Format(nonceLayout)
}

// GenerateSecret derives the sign-in secret for the gateway
// Secret = lowercase hex(SHA-512(nonce + appKey)), always 128 characters
func GenerateSecret(nonce, appKey string) string {
	sum := sha512.Sum512([]byte(nonce + appKey))
	return hex.EncodeToString(sum[:])
}
