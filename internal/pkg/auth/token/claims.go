package token

import (
	"time"

	"github.com/golang-jwt/jwt"
)

const (
	// RoleCustomer marks a token held by the customer sharing their screen.
	RoleCustomer = 1

	// RoleAgent marks a token held by the support agent joining a session.
	RoleAgent = 2
)

// Header is the fixed JOSE header carried by every token. It is not configurable.
type Header struct {
	Alg string `json:"alg"`
	Typ string `json:"typ"`
}

// Claims is the payload understood by the cobrowsing SDK.
// Field names are part of the wire contract and must not change.
type Claims struct {
	// AppKey is the tenant/application key issued by the SDK vendor.
	AppKey string `json:"app_key"`

	// RoleType distinguishes customer (1) from agent (2). Any integer is embedded verbatim.
	RoleType int `json:"role_type"`

	// IssuedAt and ExpiresAt are unix seconds; ExpiresAt is always IssuedAt plus the lifetime.
	IssuedAt  int64 `json:"iat"`
	ExpiresAt int64 `json:"exp"`

	// UserID is generated fresh for every token. UserName mirrors it.
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`

	// EnableBYOP lets the issuer supply its own pairing PIN. Always 1 for tokens built here.
	EnableBYOP int `json:"enable_byop"`
}

// Valid implements jwt.Claims. Only expiry is checked.
func (c Claims) Valid() error {
	if c.ExpiresAt != 0 && time.Now().Unix() > c.ExpiresAt {
		return jwt.NewValidationError("token is expired", jwt.ValidationErrorExpired)
	}
	return nil
}

// Lifetime returns the validity window the token was issued with.
func (c Claims) Lifetime() time.Duration {
	return time.Duration(c.ExpiresAt-c.IssuedAt) * time.Second
}
