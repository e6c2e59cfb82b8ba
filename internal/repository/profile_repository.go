package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/placement-hub/portal/internal/domain"
)

// ProfileRepository handles the profiles table.
type ProfileRepository interface {
	Upsert(ctx context.Context, profile *domain.Profile) error
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	// RoleOf selects only user_type for the given user id.
	RoleOf(ctx context.Context, id string) (domain.Role, error)
}

type profileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository instantiates the repository.
func NewProfileRepository(pool *pgxpool.Pool) ProfileRepository {
	return &profileRepository{pool: pool}
}

func (r *profileRepository) Upsert(ctx context.Context, profile *domain.Profile) error {
	const query = `
        INSERT INTO profiles (id, email, user_type)
        VALUES ($1, $2, $3)
        ON CONFLICT (id) DO UPDATE SET email=EXCLUDED.email, user_type=EXCLUDED.user_type, updated_at=NOW()
        RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		profile.ID,
		profile.Email,
		profile.UserType,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	const query = `
        SELECT id, email, user_type, created_at, updated_at
        FROM profiles WHERE id=$1`

	var profile domain.Profile
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&profile.ID,
		&profile.Email,
		&profile.UserType,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) RoleOf(ctx context.Context, id string) (domain.Role, error) {
	const query = `SELECT user_type FROM profiles WHERE id=$1`

	var role domain.Role
	if err := r.pool.QueryRow(ctx, query, id).Scan(&role); err != nil {
		return "", err
	}
	return role, nil
}
