package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/repair-tracker/internal/config"
	"github.com/spec-kit/repair-tracker/internal/domain"
	apperrors "github.com/spec-kit/repair-tracker/pkg/util"
)

type fakeIdentityRepo struct {
	mu         sync.Mutex
	byUsername map[string]domain.Identity
}

func newFakeIdentityRepo() *fakeIdentityRepo {
	return &fakeIdentityRepo{byUsername: make(map[string]domain.Identity)}
}

func (f *fakeIdentityRepo) FindByUsername(_ context.Context, username string) (*domain.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	identity, ok := f.byUsername[username]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &identity, nil
}

func (f *fakeIdentityRepo) Upsert(_ context.Context, identity *domain.Identity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	if existing, ok := f.byUsername[identity.Username]; ok {
		identity.ID = existing.ID
		identity.CreatedAt = existing.CreatedAt
	} else {
		identity.ID = uuid.NewString()
		identity.CreatedAt = now
	}
	identity.UpdatedAt = now
	f.byUsername[identity.Username] = *identity
	return nil
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:       "test-secret",
		SessionTTLHours: 1,
		BcryptCost:      bcrypt.MinCost,
		CookieName:      "auth_token",
	}
}

func TestAuthenticateSuccess(t *testing.T) {
	repo := newFakeIdentityRepo()
	svc := NewAuthService(testAuthConfig(), repo)

	provisioned, err := svc.Provision(context.Background(), "Mr.Jagrit", "Jagrit@1234", "Jagrit Madan")
	require.NoError(t, err)
	assert.NotEqual(t, "Jagrit@1234", provisioned.SecretHash)

	identity, token, exp, err := svc.Authenticate(context.Background(), "Mr.Jagrit", "Jagrit@1234")
	require.NoError(t, err)
	assert.Equal(t, provisioned.ID, identity.ID)
	assert.NotEmpty(t, token)
	assert.True(t, exp.After(time.Now()))

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "Mr.Jagrit", claims.Username)
	assert.Equal(t, "Jagrit Madan", claims.DisplayName)
}

func TestAuthenticateFailureIsUniform(t *testing.T) {
	repo := newFakeIdentityRepo()
	svc := NewAuthService(testAuthConfig(), repo)

	_, err := svc.Provision(context.Background(), "Mr.Jagrit", "Jagrit@1234", "Jagrit Madan")
	require.NoError(t, err)

	// unknown user and wrong secret must be indistinguishable
	_, _, _, unknownErr := svc.Authenticate(context.Background(), "nobody", "whatever")
	_, _, _, wrongErr := svc.Authenticate(context.Background(), "Mr.Jagrit", "wrong-secret")

	var unknownDomain, wrongDomain *apperrors.DomainError
	require.True(t, errors.As(unknownErr, &unknownDomain))
	require.True(t, errors.As(wrongErr, &wrongDomain))
	assert.Equal(t, "INVALID_CREDENTIALS", unknownDomain.Code)
	assert.Equal(t, unknownDomain.Code, wrongDomain.Code)
	assert.Equal(t, unknownDomain.Message, wrongDomain.Message)
}

func TestProvisionRotatesSecret(t *testing.T) {
	repo := newFakeIdentityRepo()
	svc := NewAuthService(testAuthConfig(), repo)

	first, err := svc.Provision(context.Background(), "Mr.Aashish", "Aashish@1234", "Aashish Srivastava")
	require.NoError(t, err)

	second, err := svc.Provision(context.Background(), "Mr.Aashish", "NewSecret@1", "Aashish Srivastava")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	_, _, _, err = svc.Authenticate(context.Background(), "Mr.Aashish", "Aashish@1234")
	assert.Error(t, err)
	_, _, _, err = svc.Authenticate(context.Background(), "Mr.Aashish", "NewSecret@1")
	assert.NoError(t, err)
}
