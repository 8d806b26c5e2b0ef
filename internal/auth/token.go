// Package auth issues and verifies credentials: bcrypt password hashes,
// bearer access tokens and e-mail verification tokens.
package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"docexchange/internal/errs"
	"docexchange/internal/model"
)

// Token audiences. Each token type is accepted only by its own parser.
const (
	AudienceAccess       = "access"
	AudienceVerification = "email-verification"
)

// UserInfo is embedded in access tokens for clients to display.
type UserInfo struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// AccessClaims are the claims carried by a bearer access token.
type AccessClaims struct {
	UserInfo UserInfo `json:"user_info"`
	jwt.RegisteredClaims
}

// TokenIssuer signs access and verification tokens with HS256.
type TokenIssuer struct {
	secret    []byte
	accessTTL time.Duration
	verifyTTL time.Duration
	now       func() time.Time
}

// NewTokenIssuer returns an issuer keyed with secret.
func NewTokenIssuer(secret string, accessTTL, verifyTTL time.Duration) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("auth: secret is required")
	}
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	if verifyTTL <= 0 {
		verifyTTL = 72 * time.Hour
	}
	return &TokenIssuer{secret: []byte(secret), accessTTL: accessTTL, verifyTTL: verifyTTL, now: time.Now}, nil
}

// IssueAccess returns a bearer token for u.
func (i *TokenIssuer) IssueAccess(u *model.User) (string, error) {
	now := i.now()
	claims := AccessClaims{
		UserInfo: UserInfo{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			Audience:  jwt.ClaimStrings{AudienceAccess},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.accessTTL)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return s, nil
}

// ParseAccess verifies a bearer token and returns the user id it names.
// Failures are reported as errs.ErrUnauthenticated.
func (i *TokenIssuer) ParseAccess(token string) (int64, error) {
	var claims AccessClaims
	id, err := i.parse(token, AudienceAccess, &claims)
	if err != nil {
		return 0, errs.ErrUnauthenticated
	}
	return id, nil
}

// IssueVerification returns an e-mail verification token for u.
func (i *TokenIssuer) IssueVerification(u *model.User) (string, error) {
	now := i.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(u.ID, 10),
		Audience:  jwt.ClaimStrings{AudienceVerification},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.verifyTTL)),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign verification token: %w", err)
	}
	return s, nil
}

// ParseVerification verifies token and returns the user id it was issued for.
// Failures are reported as errs.ErrInvalidToken.
func (i *TokenIssuer) ParseVerification(token string) (int64, error) {
	var claims jwt.RegisteredClaims
	id, err := i.parse(token, AudienceVerification, &claims)
	if err != nil {
		return 0, errs.ErrInvalidToken
	}
	return id, nil
}

func (i *TokenIssuer) parse(token, audience string, claims jwt.Claims) (int64, error) {
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return 0, err
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(sub, 10, 64)
}

// EncodeUID encodes a user id for use in a verification URL path.
func EncodeUID(id int64) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatInt(id, 10)))
}

// DecodeUID reverses EncodeUID.
func DecodeUID(s string) (int64, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: uid", errs.ErrInvalidToken)
	}
	id, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: uid", errs.ErrInvalidToken)
	}
	return id, nil
}
