package auth

import "time"

// Session binds an opaque token to a principal until it expires.
// Multiple concurrent sessions per principal are allowed.
type Session struct {
	Token     string    `json:"token"`
	Principal Principal `json:"principal"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the session is past its expiry at the given time.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
