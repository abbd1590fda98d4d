// Package token issues and validates the signed access tokens that carry
// authentication state between requests. Tokens are self-contained: validity
// is determined by the signature and the embedded expiry alone, with no
// server-side session lookup and no revocation before natural expiry.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"inkwell/internal/domain"
)

// accessClaims is the claim set of an issued token. The signature covers all
// fields; the role claim is authoritative for the token's lifetime even if
// the account's stored role changes later.
type accessClaims struct {
	Login string `json:"login"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Codec signs and verifies HS256 access tokens with a shared secret.
// It is safe for unbounded concurrent use.
type Codec struct {
	secret []byte
	now    func() time.Time
}

// NewCodec creates a codec for the given shared secret.
func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, fmt.Errorf("token secret is required")
	}
	return &Codec{secret: []byte(secret), now: time.Now}, nil
}

// WithNow returns a derived codec with its clock overridden, leaving the
// receiver untouched. Test use only.
func (c *Codec) WithNow(now func() time.Time) *Codec {
	c2 := *c
	c2.now = now
	return &c2
}

// Issue creates a signed token for the given subject. The only
// non-deterministic inputs are the issued-at and expiry timestamps.
func (c *Codec) Issue(subjectID int64, loginName string, role domain.Role, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", fmt.Errorf("token ttl must be positive, got %v", ttl)
	}
	now := c.now()
	claims := accessClaims{
		Login: loginName,
		Role:  string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(subjectID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate verifies the signature and expiry of a serialized token and
// returns the principal it encodes. Claims are only read after the signature
// checks out. Expiry is strict: a token is invalid from its expiry instant
// on, with no grace window.
//
// Failures are *domain.AuthFailure values: EXPIRED_TOKEN, INVALID_SIGNATURE,
// or MALFORMED_TOKEN.
func (c *Codec) Validate(serialized string) (*domain.Principal, error) {
	var claims accessClaims
	_, err := jwt.ParseWithClaims(serialized, &claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, domain.FailExpiredToken
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, domain.FailInvalidSignature
		default:
			return nil, domain.FailMalformedToken
		}
	}

	subjectID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, domain.FailMalformedToken
	}
	role := domain.Role(claims.Role)
	if !role.Valid() {
		return nil, domain.FailMalformedToken
	}

	return &domain.Principal{
		ID:        subjectID,
		LoginName: claims.Login,
		Role:      role,
	}, nil
}
