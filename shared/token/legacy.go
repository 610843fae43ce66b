package token

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"
)

type legacyPayload struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Exp    int64  `json:"exp"` // unix milliseconds
}

// LegacyCodec reads and writes the unsigned base64 JSON tokens issued by
// earlier clients. Anyone can forge one, so it is only selected explicitly.
type LegacyCodec struct {
	opts options
}

func NewLegacyCodec(opts ...Option) *LegacyCodec {
	return &LegacyCodec{opts: buildOptions(opts)}
}

func (c *LegacyCodec) Issue(ownerID, email string) (Issued, error) {
	exp := c.opts.now().Add(c.opts.ttl)
	raw, err := json.Marshal(legacyPayload{UserID: ownerID, Email: email, Exp: exp.UnixMilli()})
	if err != nil {
		return Issued{}, fmt.Errorf("failed to encode token: %w", err)
	}
	return Issued{
		Token:     base64.StdEncoding.EncodeToString(raw),
		ExpiresAt: time.UnixMilli(exp.UnixMilli()),
	}, nil
}

func (c *LegacyCodec) Verify(tokenString string) (*Claims, error) {
	raw, err := base64.StdEncoding.DecodeString(tokenString)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	var p legacyPayload
	if err := json.Unmarshal(raw, &p); err != nil || p.UserID == "" || p.Exp == 0 {
		return nil, ErrTokenInvalid
	}
	if p.Exp < c.opts.now().UnixMilli() {
		return nil, ErrTokenExpired
	}
	return &Claims{OwnerID: p.UserID, Email: p.Email, ExpiresAt: time.UnixMilli(p.Exp)}, nil
}
