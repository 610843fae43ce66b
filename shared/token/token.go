// Package token issues and verifies the self-contained session tokens that
// authenticate API requests. Nothing is stored server side; a token carries
// its owner, email and expiry.
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// DefaultTTL is the session lifetime.
const DefaultTTL = 7 * 24 * time.Hour

const (
	SchemeJWT    = "jwt"
	SchemeLegacy = "legacy"
)

type Claims struct {
	OwnerID   string
	Email     string
	ExpiresAt time.Time
}

type Issued struct {
	Token     string
	ExpiresAt time.Time
}

// Codec turns claims into an opaque token string and back.
type Codec interface {
	Issue(ownerID, email string) (Issued, error)
	Verify(token string) (*Claims, error)
}

type options struct {
	ttl time.Duration
	now func() time.Time
}

type Option func(*options)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{ttl: DefaultTTL, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New returns the codec for scheme.
func New(scheme string, secret []byte, opts ...Option) (Codec, error) {
	switch strings.ToLower(scheme) {
	case SchemeJWT, "":
		return NewJWTCodec(secret, opts...)
	case SchemeLegacy:
		return NewLegacyCodec(opts...), nil
	default:
		return nil, fmt.Errorf("unknown token scheme %q", scheme)
	}
}

// FromHeader extracts the token from an Authorization header value of the
// form "Bearer <token>". A missing or malformed header is not an error.
func FromHeader(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	tok := strings.TrimSpace(header[len(prefix):])
	if tok == "" {
		return "", false
	}
	return tok, true
}
