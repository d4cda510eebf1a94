package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrAccountNotFound is returned by lookups when no account matches.
var ErrAccountNotFound = errors.New("account not found")

// CredentialRepository abstracts the credential store: lookups by identifier
// plus password-hash replacement for the reset protocol.
type CredentialRepository interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByFicha(ctx context.Context, ficha string) (*Account, error)
	FindByID(ctx context.Context, id int64) (*Account, error)
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
}

type PostgresCredentialRepository struct {
	db *sql.DB
}

func NewCredentialRepository(db *sql.DB) CredentialRepository {
	return &PostgresCredentialRepository{db: db}
}

const accountColumns = `SELECT id, ficha, email, password_hash, role_id, active FROM accounts`

func (r *PostgresCredentialRepository) findOne(ctx context.Context, query string, arg interface{}) (*Account, error) {
	account := &Account{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&account.ID, &account.Ficha, &account.Email,
		&account.PasswordHash, &account.Role, &account.Active,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return account, nil
}

func (r *PostgresCredentialRepository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	return r.findOne(ctx, accountColumns+` WHERE email = $1`, email)
}

func (r *PostgresCredentialRepository) FindByFicha(ctx context.Context, ficha string) (*Account, error) {
	return r.findOne(ctx, accountColumns+` WHERE ficha = $1`, ficha)
}

func (r *PostgresCredentialRepository) FindByID(ctx context.Context, id int64) (*Account, error) {
	return r.findOne(ctx, accountColumns+` WHERE id = $1`, id)
}

func (r *PostgresCredentialRepository) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET password_hash = $1, updated_at = now() WHERE id = $2`, hash, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return ErrAccountNotFound
	}
	return nil
}
