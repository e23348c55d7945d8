package server

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/zalint/text-corrector/internal/config"
	"github.com/zalint/text-corrector/internal/server/middleware"
)

// sessionClaims is the JWT payload of a login session. Only the user ID
// is carried; everything else comes from the database on demand.
type sessionClaims struct {
	UserID uuid.UUID `json:"user_id"`
	jwt.RegisteredClaims
}

// GetUserID satisfies middleware.UserIDGetter.
func (c *sessionClaims) GetUserID() uuid.UUID {
	return c.UserID
}

// SessionTokens issues and parses the HS256 bearer tokens that carry a
// login session.
type SessionTokens struct {
	secret   []byte
	lifetime time.Duration
}

// NewSessionTokens builds a token service from the JWT configuration.
func NewSessionTokens(cfg *config.JWTConfig) *SessionTokens {
	return &SessionTokens{
		secret:   []byte(cfg.Secret),
		lifetime: time.Duration(cfg.ExpirationHours) * time.Hour,
	}
}

// Issue signs a fresh token for the given user.
func (st *SessionTokens) Issue(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := &sessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(st.lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(st.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies a token string and returns its claims.
func (st *SessionTokens) Parse(tokenString string) (*sessionClaims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("token string is empty")
	}

	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return st.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is not valid")
	}
	return claims, nil
}

// Validator adapts the token service to the middleware's interface
// without an import cycle.
func (st *SessionTokens) Validator() middleware.TokenValidator {
	return tokenValidator{tokens: st}
}

type tokenValidator struct {
	tokens *SessionTokens
}

func (v tokenValidator) ValidateToken(tokenString string) (middleware.UserIDGetter, error) {
	claims, err := v.tokens.Parse(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
