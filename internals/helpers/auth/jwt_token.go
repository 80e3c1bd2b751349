// file: internals/helpers/auth/jwt_token.go
package helper

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"eventhub_backend/internals/configs"
)

// Claims carried by both access and refresh tokens.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

var ErrInvalidToken = errors.New("invalid or expired token")

// TokenService issues and verifies HS256 tokens; access and refresh tokens
// use separate secrets and lifetimes.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	now           func() time.Time
}

func NewTokenService(cfg configs.JWTConfig) *TokenService {
	return &TokenService{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		AccessTTL:     cfg.AccessExpires,
		RefreshTTL:    cfg.RefreshExpires,
		now:           time.Now,
	}
}

func (s *TokenService) IssuePair(userID uuid.UUID, email, role string) (TokenPair, error) {
	access, err := s.IssueAccess(userID, email, role)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.sign(userID, email, role, s.refreshSecret, s.RefreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *TokenService) IssueAccess(userID uuid.UUID, email, role string) (string, error) {
	return s.sign(userID, email, role, s.accessSecret, s.AccessTTL)
}

func (s *TokenService) VerifyAccess(raw string) (*Claims, error) {
	return s.verify(raw, s.accessSecret)
}

func (s *TokenService) VerifyRefresh(raw string) (*Claims, error) {
	return s.verify(raw, s.refreshSecret)
}

func (s *TokenService) sign(userID uuid.UUID, email, role string, secret []byte, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: userID.String(),
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tok, nil
}

func (s *TokenService) verify(raw string, secret []byte) (*Claims, error) {
	if raw == "" {
		return nil, ErrInvalidToken
	}
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if _, err := uuid.Parse(claims.UserID); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// UserUUID returns the user id carried by the claims.
func (c *Claims) UserUUID() uuid.UUID {
	id, _ := uuid.Parse(c.UserID)
	return id
}
