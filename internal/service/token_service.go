package service

import (
	"errors"
	"pedtriage/internal/model"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// TokenService issues and validates session-scoped clinician tokens.
// A token binds one clinician to one session with one role; there are no
// user accounts behind it.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a new token service
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue creates a session-scoped token for a clinician. An empty
// clinicianID gets a generated one.
func (s *TokenService) Issue(sessionID, clinicianID string, role model.Role) (*model.TokenResponse, error) {
	if clinicianID == "" {
		clinicianID = "clin_" + uuid.New().String()[:8]
	}

	claims := &model.SessionClaims{
		SessionID:   sessionID,
		ClinicianID: clinicianID,
		Role:        role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	return &model.TokenResponse{
		Token:       tokenString,
		SessionID:   sessionID,
		ClinicianID: clinicianID,
		Role:        role,
	}, nil
}

// Validate parses a session token and returns its claims.
func (s *TokenService) Validate(tokenString string) (*model.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
