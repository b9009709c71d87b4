package repository

import (
	"context"

	"github.com/spec-kit/repair-tracker/internal/domain"
	"github.com/spec-kit/repair-tracker/internal/persistence"
	apperrors "github.com/spec-kit/repair-tracker/pkg/util"
)

// IdentityRepository defines persistence access for staff identities.
type IdentityRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.Identity, error)
	Upsert(ctx context.Context, identity *domain.Identity) error
}

type identityRepository struct {
	pg *persistence.Postgres
}

// NewIdentityRepository returns a Postgres-backed implementation.
func NewIdentityRepository(pg *persistence.Postgres) IdentityRepository {
	return &identityRepository{pg: pg}
}

func (r *identityRepository) FindByUsername(ctx context.Context, username string) (*domain.Identity, error) {
	pool, err := r.pg.Pool(ctx)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}

	const query = `
        SELECT id, username, secret_hash, display_name, created_at, updated_at
        FROM identities WHERE username=$1`

	var identity domain.Identity
	if err := pool.QueryRow(ctx, query, username).Scan(
		&identity.ID,
		&identity.Username,
		&identity.SecretHash,
		&identity.DisplayName,
		&identity.CreatedAt,
		&identity.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &identity, nil
}

// Upsert inserts the identity or, for an existing username, rotates the
// secret and display name. Provisioning is the only writer.
func (r *identityRepository) Upsert(ctx context.Context, identity *domain.Identity) error {
	pool, err := r.pg.Pool(ctx)
	if err != nil {
		return apperrors.NewStoreUnavailable(err)
	}

	const query = `
        INSERT INTO identities (username, secret_hash, display_name)
        VALUES ($1, $2, $3)
        ON CONFLICT (username) DO UPDATE
            SET secret_hash=EXCLUDED.secret_hash, display_name=EXCLUDED.display_name, updated_at=NOW()
        RETURNING id, created_at, updated_at`

	return pool.QueryRow(ctx, query,
		identity.Username,
		identity.SecretHash,
		identity.DisplayName,
	).Scan(&identity.ID, &identity.CreatedAt, &identity.UpdatedAt)
}
