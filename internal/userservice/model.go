package userservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

var (
	ErrDuplicateEmail = errors.New("duplicate email")
	ErrNotFound       = errors.New("user not found")
)

func newUserModel(db *sql.DB) *DBModel {
	return &DBModel{db: db}
}

// uniqueViolation is a helper to check for a unique constraint error by name.
func uniqueViolation(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23505" && pqErr.Constraint == name {
			return true
		}
	}

	return false
}

func (m *DBModel) insert(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (name, email, password, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, active, created_at, updated_at, version`

	args := []any{
		u.Name,
		u.Email,
		u.Password.hash,
		string(u.Role),
	}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&u.ID, &u.Active, &u.CreatedAt, &u.UpdatedAt, &u.Version)
	if err != nil {
		switch {
		case uniqueViolation(err, "users_email_key"):
			return ErrDuplicateEmail
		default:
			return err
		}
	}

	return nil
}

func (m *DBModel) getByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, name, email, password, role, active, created_at, updated_at, version
		FROM users
		WHERE email = $1 AND deleted = FALSE`

	var u User

	err := m.db.QueryRowContext(ctx, query, email).Scan(&u.ID, &u.Name, &u.Email, &u.Password.hash, &u.Role, &u.Active, &u.CreatedAt, &u.UpdatedAt, &u.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	return &u, nil
}

func (m *DBModel) getByID(ctx context.Context, id int) (*User, error) {
	query := `
		SELECT id, name, email, role, active, created_at, updated_at, version
		FROM users
		WHERE id = $1 AND deleted = FALSE`

	var u User

	err := m.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Active, &u.CreatedAt, &u.UpdatedAt, &u.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	return &u, nil
}

func (m *DBModel) toggleActive(ctx context.Context, id, version int) (*User, error) {
	query := `
		UPDATE users
		SET active = NOT active, updated_at = NOW(), version = version + 1
		WHERE id = $1 AND version = $2 AND deleted = FALSE
		RETURNING id, name, email, role, active, created_at, updated_at, version`

	var u User

	err := m.db.QueryRowContext(ctx, query, id, version).Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Active, &u.CreatedAt, &u.UpdatedAt, &u.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	return &u, nil
}

func (m *DBModel) updateRole(ctx context.Context, id, version int, role Role) (*User, error) {
	query := `
		UPDATE users
		SET role = $1, updated_at = NOW(), version = version + 1
		WHERE id = $2 AND version = $3 AND deleted = FALSE
		RETURNING id, name, email, role, active, created_at, updated_at, version`

	var u User

	err := m.db.QueryRowContext(ctx, query, string(role), id, version).Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Active, &u.CreatedAt, &u.UpdatedAt, &u.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	return &u, nil
}
