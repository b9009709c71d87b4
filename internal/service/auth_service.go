package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/repair-tracker/internal/auth"
	"github.com/spec-kit/repair-tracker/internal/config"
	"github.com/spec-kit/repair-tracker/internal/domain"
	"github.com/spec-kit/repair-tracker/internal/repository"
	apperrors "github.com/spec-kit/repair-tracker/pkg/util"
)

// AuthService verifies credentials and issues session tokens.
type AuthService struct {
	identities repository.IdentityRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, identities repository.IdentityRepository) *AuthService {
	return &AuthService{
		identities: identities,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL()),
		bcryptCost: cfg.BcryptCost,
	}
}

// Authenticate verifies a username/secret pair and issues a session token.
// An unknown username and a wrong secret produce the same error so failed
// logins never leak which usernames exist.
func (s *AuthService) Authenticate(ctx context.Context, username, secret string) (*domain.Identity, string, time.Time, error) {
	identity, err := s.identities.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.CompareSecret(identity.SecretHash, secret); err != nil {
		return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
	}

	token, exp, err := s.tokenMgr.GenerateToken(identity)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return identity, token, exp, nil
}

// Provision creates or rotates an identity with a freshly hashed secret.
func (s *AuthService) Provision(ctx context.Context, username, secret, displayName string) (*domain.Identity, error) {
	hash, err := auth.HashSecret(secret, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	identity := &domain.Identity{
		Username:    username,
		SecretHash:  hash,
		DisplayName: displayName,
	}
	if err := s.identities.Upsert(ctx, identity); err != nil {
		return nil, err
	}
	return identity, nil
}

// Logout is a no-op server-side: sessions are stateless and the handler
// clears the cookie with an already-expired replacement.
func (s *AuthService) Logout(_ context.Context, _ string) error {
	return nil
}

// TokenManager exposes the underlying token manager for the session gate.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
