package token

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

type jwtClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// JWTCodec signs claims with HMAC-SHA256.
type JWTCodec struct {
	secret []byte
	opts   options
}

func NewJWTCodec(secret []byte, opts ...Option) (*JWTCodec, error) {
	if len(secret) == 0 {
		return nil, errors.New("token secret is required")
	}
	return &JWTCodec{secret: secret, opts: buildOptions(opts)}, nil
}

func (c *JWTCodec) Issue(ownerID, email string) (Issued, error) {
	now := c.opts.now()
	exp := now.Add(c.opts.ttl)

	claims := jwtClaims{
		UserID: ownerID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ownerID,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return Issued{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return Issued{Token: signed, ExpiresAt: claims.ExpiresAt.Time}, nil
}

func (c *JWTCodec) Verify(tokenString string) (*Claims, error) {
	claims := &jwtClaims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.opts.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !tok.Valid || claims.UserID == "" {
		return nil, ErrTokenInvalid
	}
	return &Claims{
		OwnerID:   claims.UserID,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
