package model

import "time"

// AuthContext holds the identity extracted from a verified bearer token.
// This is injected into the request context by the auth middleware.
type AuthContext struct {
	Subject   string
	Name      string
	TokenID   string
	ExpiresAt time.Time
}
