package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

var (
	// ErrInvalidToken covers signature and shape failures. Callers
	// that don't care about the distinction should treat
	// ErrTokenExpired the same way.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type Claims struct {
	UserID    uint   `json:"user_id"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies every token the app hands out. The secret
// is injected here instead of being read from global config so the
// signing boundary is explicit.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	resetTTL   time.Duration
}

func NewIssuer(secret string, accessTTL, refreshTTL, resetTTL time.Duration) *Issuer {
	return &Issuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		resetTTL:   resetTTL,
	}
}

// AccessTTL returns the declared access token lifetime, which is also
// the TTL of the revocation-support cache entry.
func (i *Issuer) AccessTTL() time.Duration {
	return i.accessTTL
}

func (i *Issuer) sign(userID uint, tokenType string, ttl time.Duration) (string, error) {
	jti, err := gonanoid.New()
	if err != nil {
		return "", err
	}

	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})

	return t.SignedString(i.secret)
}

func (i *Issuer) IssueAccess(userID uint) (string, error) {
	return i.sign(userID, TokenTypeAccess, i.accessTTL)
}

func (i *Issuer) IssueRefresh(userID uint) (string, error) {
	return i.sign(userID, TokenTypeRefresh, i.refreshTTL)
}

// IssueReset mints the recovery token returned by a successful Verify
// step. It is structurally an access token signed with the same secret,
// only its lifetime differs. Nothing marks it single-use: it stays
// valid until expiry no matter how often it is presented.
func (i *Issuer) IssueReset(userID uint) (string, error) {
	return i.sign(userID, TokenTypeAccess, i.resetTTL)
}

// Verify decodes and validates a token. Any failure comes back as
// ErrInvalidToken.
func (i *Issuer) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}
		return i.secret, nil
	}, jwt.WithExpirationRequired(), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
