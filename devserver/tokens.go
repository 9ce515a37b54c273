package devserver

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var errTokenInvalid = errors.New("session token invalid")

// tokenIssuer mints and verifies the HS256 session tokens carried by the
// session cookie. The token's ID doubles as the revocable session ID in
// redis, so logout works despite the stateless token.
type tokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func newTokenIssuer(secret string, ttl time.Duration) *tokenIssuer {
	return &tokenIssuer{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

func (t *tokenIssuer) issue(userID string) (token, sessionID string, err error) {
	sessionID = uuid.NewString()
	now := time.Now()

	claims := jwt.RegisteredClaims{
		ID:        sessionID,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	return token, sessionID, err
}

func (t *tokenIssuer) verify(token string) (userID, sessionID string, err error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return "", "", errTokenInvalid
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" || claims.ID == "" {
		return "", "", errTokenInvalid
	}

	return claims.Subject, claims.ID, nil
}
