package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/placement-hub/portal/internal/domain"
)

// ErrDuplicate is returned when a unique constraint rejects a write.
var ErrDuplicate = errors.New("duplicate record")

// AccountRepository defines persistence access for provider accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
}

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository returns a Postgres-backed implementation.
func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepository{pool: pool}
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	const query = `
        INSERT INTO accounts (email, password_hash, metadata)
        VALUES (lower($1), $2, $3)
        RETURNING id, email, created_at, updated_at`

	metadata := account.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	err := r.pool.QueryRow(ctx, query,
		account.Email,
		account.PasswordHash,
		metadata,
	).Scan(&account.ID, &account.Email, &account.CreatedAt, &account.UpdatedAt)
	return translateWriteErr(err)
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	const query = `
        SELECT id, email, password_hash, metadata, created_at, updated_at
        FROM accounts WHERE id=$1`

	return scanAccount(r.pool.QueryRow(ctx, query, id))
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	const query = `
        SELECT id, email, password_hash, metadata, created_at, updated_at
        FROM accounts WHERE email=lower($1)`

	return scanAccount(r.pool.QueryRow(ctx, query, email))
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var account domain.Account
	if err := row.Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.Metadata,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &account, nil
}

func translateWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}
