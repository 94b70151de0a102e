package players

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "sketch-rush"

var ErrInvalidToken = errors.New("invalid player token")

// TokenIssuer signs and verifies HS256 player tokens whose subject is the
// player id.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Secret is the signing key, shared with the HTTP auth middleware.
func (ti *TokenIssuer) Secret() []byte {
	return ti.secret
}

func (ti *TokenIssuer) Issue(playerID string) (string, error) {
	now := ti.now()
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   playerID,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ti.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
	if err != nil {
		return "", fmt.Errorf("sign player token: %w", err)
	}
	return signed, nil
}

// Parse validates raw and returns the player id it was issued for.
func (ti *TokenIssuer) Parse(raw string) (string, error) {
	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		return ti.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(ti.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return Subject(token)
}

// Subject extracts the player id from an already verified token, such as
// the one the fiber jwt middleware stores in the request locals.
func Subject(token *jwt.Token) (string, error) {
	if token == nil || !token.Valid {
		return "", ErrInvalidToken
	}
	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}
