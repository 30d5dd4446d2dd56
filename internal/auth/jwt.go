package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ScopeRead is the only scope share links carry: the holder may read the
// dashboard overview, nothing else.
const ScopeRead = "read"

const issuer = "eventboard"

// ShareClaims is the payload of a dashboard share link.
//
// Why a signed token and not a random link id stored server-side?
//   - Nothing needs to be written to share: the link carries its own expiry
//     and scope, and any server holding the secret can check it.
//   - Revoking every link at once is a secret rotation. Per-link revocation
//     is not offered, which is acceptable for a read-only overview.
//
// Recipients is informational. The token is a bearer credential and anyone
// holding it can read the overview until it expires.
type ShareClaims struct {
	Recipients []string `json:"recipients"`
	Scope      string   `json:"scope"`
	jwt.RegisteredClaims
}

// GenerateShareToken signs an HS256 share token for recipients valid for ttl.
func GenerateShareToken(recipients []string, secret string, ttl time.Duration, now time.Time) (string, *ShareClaims, error) {
	if secret == "" {
		return "", nil, errors.New("share secret not configured")
	}
	claims := &ShareClaims{
		Recipients: recipients,
		Scope:      ScopeRead,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

// ParseShareToken verifies signature, expiry, issuer and scope.
func ParseShareToken(tokenString, secret string) (*ShareClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ShareClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secret), nil
		},
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*ShareClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.Scope != ScopeRead {
		return nil, fmt.Errorf("unexpected scope %q", claims.Scope)
	}
	return claims, nil
}
