// Package linksign seals opaque file handles into URL-safe download tokens
// and verifies them back.
package linksign

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"docexchange/internal/errs"
)

// Audience scopes download tokens so that access or verification tokens signed
// with the same secret are never accepted here.
const Audience = "file-download"

// Codec seals and unseals file handles with a server-side secret.
// Sealing is deterministic: the same handle always yields the same token.
type Codec struct {
	secret []byte
	parser *jwt.Parser
}

// NewCodec returns a Codec keyed with secret.
func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("linksign: secret is required")
	}
	return &Codec{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithAudience(Audience),
			jwt.WithStrictDecoding(),
		),
	}, nil
}

// Seal signs handle into a compact URL-safe token.
func (c *Codec) Seal(handle string) (string, error) {
	if handle == "" {
		return "", fmt.Errorf("seal: %w", errs.ErrValidation)
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:  handle,
		Audience: jwt.ClaimStrings{Audience},
	})
	s, err := tok.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("seal: %w", err)
	}
	return s, nil
}

// Unseal verifies token and returns the handle it carries. Any failure,
// whatever its cause, is reported as errs.ErrInvalidToken.
func (c *Codec) Unseal(token string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := c.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil || claims.Subject == "" {
		return "", errs.ErrInvalidToken
	}
	return claims.Subject, nil
}
