package service

import (
	"time"

	"matrimony-backend/internal/security"
)

// TokenService issues the bearer credential returned by every auth strategy.
// One lifetime applies across all paths.
type TokenService struct {
	jwtMgr *security.JWTManager
	ttl    time.Duration
}

func NewTokenService(jwtMgr *security.JWTManager, ttl time.Duration) *TokenService {
	return &TokenService{jwtMgr: jwtMgr, ttl: ttl}
}

func (s *TokenService) Issue(userID uint) (string, time.Time, error) {
	token, err := s.jwtMgr.Sign(userID, s.ttl)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, time.Now().UTC().Add(s.ttl), nil
}
