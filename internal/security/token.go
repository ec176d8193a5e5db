package security

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultIssuer is the iss claim written into session tokens.
const DefaultIssuer = "togather-api"

// ErrInvalidToken is returned for tokens that fail signature, expiry or shape checks.
var ErrInvalidToken = errors.New("invalid or expired token")

// SessionClaims is the payload of a session token.
type SessionClaims struct {
	UserID   uint   `json:"userId"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and parses HS256 session tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewTokenIssuer returns an issuer signing with secret. Tokens live for ttl.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: DefaultIssuer,
		now:    time.Now,
	}
}

// Issue signs a token for the given user.
func (t *TokenIssuer) Issue(userID uint, email, nickname string) (string, error) {
	if len(t.secret) == 0 {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := t.now()
	claims := SessionClaims{
		UserID:   userID,
		Email:    email,
		Nickname: nickname,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Parse validates a signed token and returns its claims.
func (t *TokenIssuer) Parse(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	},
		jwt.WithIssuer(t.issuer),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	// sub is authoritative; userId is a convenience copy for clients.
	sub, err := strconv.ParseUint(claims.Subject, 10, strconv.IntSize)
	if err != nil || uint(sub) != claims.UserID {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
