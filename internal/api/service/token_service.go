package service

import (
	"ctchen222/tictactoe/internal/apperror"
	"ctchen222/tictactoe/internal/config"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "tictactoe"

// TokenService issues and checks the bearer tokens that bind a client to
// one session.
type TokenService interface {
	Issue(sessionID string) (string, error)
	// Verify returns the session the token was issued for. Every failure
	// matches apperror.ErrInvalidToken.
	Verify(token string) (string, error)
}

type tokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a TokenService signing HS256 tokens with the
// configured secret.
func NewTokenService(cfg config.Auth) TokenService {
	return newTokenService(cfg, time.Now)
}

func newTokenService(cfg config.Auth, now func() time.Time) *tokenService {
	return &tokenService{
		secret: []byte(cfg.TokenSecret),
		ttl:    cfg.TokenTTL,
		now:    now,
	}
}

func (s *tokenService) Issue(sessionID string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Issuer:   tokenIssuer,
		Subject:  sessionID,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

func (s *tokenService) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", apperror.ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: %w", apperror.ErrInvalidToken, errors.New("token has no subject"))
	}
	return claims.Subject, nil
}
