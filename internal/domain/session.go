package domain

import (
	"time"
)

// SessionToken is the bearer credential returned by a successful sign-in
type SessionToken struct {
	Value           string
	TokenType       string
	AppID           string
	AppName         string
	Email           string
	CreatedAt       time.Time
	SecondsToExpire int
	ReceivedAt      time.Time // Local clock when the token arrived
}

// ExpiresAt returns the local time after which the gateway no longer accepts
// the token. Zero when the gateway did not report a lifetime.
func (t *SessionToken) ExpiresAt() time.Time {
	if t.SecondsToExpire <= 0 {
		return time.Time{}
	}
	return t.ReceivedAt.Add(time.Duration(t.SecondsToExpire) * time.Second)
}

// Expired reports whether the token lifetime has elapsed at now
func (t *SessionToken) Expired(now time.Time) bool {
	exp := t.ExpiresAt()
	if exp.IsZero() {
		return false
	}
	return !now.Before(exp)
}
