package model

import "time"

// Session binds an opaque token to a user for a bounded time window. The
// token is the primary key; it carries no decodable structure and can only
// be resolved through the store.
type Session struct {
	Token       string    `json:"token" bson:"_id"`
	UserID      string    `json:"user_id" bson:"user_id"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	ExpiresAt   time.Time `json:"expires_at" bson:"expires_at"`
	LastSeenAt  time.Time `json:"last_seen_at" bson:"last_seen_at"`
	ClientIP    string    `json:"client_ip,omitempty" bson:"client_ip,omitempty"`
	ClientAgent string    `json:"client_agent,omitempty" bson:"client_agent,omitempty"`
}

// Expired reports whether the session is past its fixed expiry window.
// The window is set once at creation and never slides on use.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// ClientInfo is the provenance metadata captured when a session is created.
type ClientInfo struct {
	IP        string
	UserAgent string
}
