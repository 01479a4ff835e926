/*
Package token builds, decodes and verifies the compact HS256 tokens consumed by the cobrowsing SDK.

A token is three unpadded URL-safe base64 segments joined by dots: the fixed header, the claims,
and an HMAC-SHA256 signature over the first two segments keyed by the application secret.
*/
package token

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"

	"cobrowse/internal/pkg/randx"
)

const (
	// DefaultLifetimeSeconds is used when Encode is called with a non-positive lifetime.
	DefaultLifetimeSeconds = 3600

	// algorithm and tokenType make up the fixed header.
	algorithm = "HS256"
	tokenType = "JWT"
)

var (
	// ErrInvalidArgument is returned by Encode when the key or the secret is empty.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrMalformedToken is returned when a token does not have three decodable segments.
	ErrMalformedToken = errors.New("malformed token")
)

// Codec encodes and checks tokens. It holds no mutable state and is safe for concurrent use.
type Codec struct {
	now   func() time.Time
	newID func() string
}

// Option customises a Codec.
type Option func(*Codec)

// WithClock replaces the wall clock used to stamp iat/exp.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		c.now = now
	}
}

// WithIDGenerator replaces the generator used for user_id/user_name.
func WithIDGenerator(newID func() string) Option {
	return func(c *Codec) {
		c.newID = newID
	}
}

// NewCodec returns a Codec using the wall clock and randx.UserID unless overridden.
func NewCodec(opts ...Option) *Codec {
	c := &Codec{
		now:   time.Now,
		newID: randx.UserID,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Encode issues a signed token for the given application key and role.
// The secret is only used as the HMAC key; it never appears in the output or in errors.
func (c *Codec) Encode(key, secret string, role int, lifetimeSeconds int) (string, error) {
	if key == "" {
		return "", fmt.Errorf("%w: app key is empty", ErrInvalidArgument)
	}
	if secret == "" {
		return "", fmt.Errorf("%w: secret is empty", ErrInvalidArgument)
	}
	if lifetimeSeconds <= 0 {
		lifetimeSeconds = DefaultLifetimeSeconds
	}

	iat := c.now().Unix()
	id := c.newID()

	claims := Claims{
		AppKey:     key,
		RoleType:   role,
		IssuedAt:   iat,
		ExpiresAt:  iat + int64(lifetimeSeconds),
		UserID:     id,
		UserName:   id,
		EnableBYOP: 1,
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	t.Header = map[string]interface{}{
		"alg": algorithm,
		"typ": tokenType,
	}

	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Decode splits and parses the token without checking its signature.
// The header is returned as found; an absent or unknown alg is not an error here.
func (c *Codec) Decode(tokenString string) (Header, Claims, error) {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return Header{}, Claims{}, fmt.Errorf("%w: expected 3 segments, got %d", ErrMalformedToken, len(parts))
	}

	var header Header
	if err := decodeSegment(parts[0], &header); err != nil {
		return Header{}, Claims{}, fmt.Errorf("%w: header: %v", ErrMalformedToken, err)
	}

	var claims Claims
	if err := decodeSegment(parts[1], &claims); err != nil {
		return Header{}, Claims{}, fmt.Errorf("%w: claims: %v", ErrMalformedToken, err)
	}

	return header, claims, nil
}

func decodeSegment(seg string, dst interface{}) error {
	raw, err := jwt.DecodeSegment(seg)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

// Verify recomputes the signature over the first two segments and compares it in constant time.
// A well-formed token signed with another secret yields false and a nil error.
func (c *Codec) Verify(tokenString, secret string) (bool, error) {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return false, fmt.Errorf("%w: expected 3 segments, got %d", ErrMalformedToken, len(parts))
	}

	err := jwt.SigningMethodHS256.Verify(parts[0]+"."+parts[1], parts[2], []byte(secret))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, jwt.ErrSignatureInvalid):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
}

// ParseAndVerify verifies the signature, decodes the claims and rejects expired tokens.
func (c *Codec) ParseAndVerify(tokenString, secret string) (*Claims, error) {
	ok, err := c.Verify(tokenString, secret)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New("signature is invalid")
	}

	_, claims, err := c.Decode(tokenString)
	if err != nil {
		return nil, err
	}

	if c.now().Unix() > claims.ExpiresAt {
		return nil, errors.New("token is expired")
	}

	return &claims, nil
}

var defaultCodec = NewCodec()

// Encode issues a token with the package default Codec.
func Encode(key, secret string, role int, lifetimeSeconds int) (string, error) {
	return defaultCodec.Encode(key, secret, role, lifetimeSeconds)
}

// Decode parses a token with the package default Codec.
func Decode(tokenString string) (Header, Claims, error) {
	return defaultCodec.Decode(tokenString)
}

// Verify checks a token signature with the package default Codec.
func Verify(tokenString, secret string) (bool, error) {
	return defaultCodec.Verify(tokenString, secret)
}
