package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dkrasnov/markethub/backend/internal/apperrors"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Pair holds a freshly issued access/refresh token pair.
type Pair struct {
	AccessToken  string
	RefreshToken string
}

// Claims are the custom claims carried by both token kinds.
type Claims struct {
	UserID    uint   `json:"user_id"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// Service issues and verifies HS256 access and refresh tokens.
type Service struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewService creates a token Service.
func NewService(secret string, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// AccessTTL returns the configured access token lifetime.
func (s *Service) AccessTTL() time.Duration { return s.accessTTL }

// RefreshTTL returns the configured refresh token lifetime.
func (s *Service) RefreshTTL() time.Duration { return s.refreshTTL }

// IssuePair signs a new access/refresh pair for the given user.
func (s *Service) IssuePair(userID uint) (*Pair, error) {
	access, err := s.sign(userID, TypeAccess, s.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := s.sign(userID, TypeRefresh, s.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}
	return &Pair{AccessToken: access, RefreshToken: refresh}, nil
}

// VerifyAccess validates an access token and returns the user ID.
func (s *Service) VerifyAccess(tokenString string) (uint, error) {
	return s.verify(tokenString, TypeAccess)
}

// VerifyRefresh validates a refresh token and returns the user ID.
func (s *Service) VerifyRefresh(tokenString string) (uint, error) {
	return s.verify(tokenString, TypeRefresh)
}

func (s *Service) sign(userID uint, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Service) verify(tokenString, wantType string) (uint, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return 0, apperrors.ErrUnauthorized
	}
	if claims.TokenType != wantType || claims.UserID == 0 {
		return 0, apperrors.ErrUnauthorized
	}
	return claims.UserID, nil
}
