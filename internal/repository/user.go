package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/iamadmin/iamadmin/internal/model"
	"github.com/jackc/pgx/v5"
)

// Common errors for user repository operations.
var (
	ErrUserNotFound = errors.New("user not found")
)

const userColumns = `id, email, first_name, middle_name, last_name, is_root, is_active, created_at, updated_at`

var usersQuery = listQuery{
	table: "users",
	columns: []string{
		"id", "email", "first_name", "middle_name", "last_name",
		"is_root", "is_active", "created_at", "updated_at",
	},
	searchColumns: []string{"first_name", "last_name", "middle_name", "email"},
	orderBy:       []string{"created_at", "id"},
}

// CountUsers returns the number of users matching search.
func (r *Repository) CountUsers(ctx context.Context, search string) (int64, error) {
	conn, err := r.acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	query, args := usersQuery.countSQL(search)

	var count int64
	if err := conn.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	return count, nil
}

// ListUsers returns one window of users matching search, newest first.
func (r *Repository) ListUsers(ctx context.Context, search string, limit, offset int64) ([]*model.User, error) {
	conn, err := r.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	query, args := usersQuery.pageSQL(search, limit, offset)

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]*model.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// GetUserByEmail retrieves a user by their email address.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	conn, err := r.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1
	`

	user, err := scanUser(conn.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// UpdateUserByEmail overwrites every mutable field of the user with the
// given email and returns the stored result.
func (r *Repository) UpdateUserByEmail(ctx context.Context, email string, upd model.UserUpdate) (*model.User, error) {
	conn, err := r.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	query := `
		UPDATE users
		SET first_name = $2, middle_name = $3, last_name = $4, is_active = $5, is_root = $6, updated_at = NOW()
		WHERE email = $1
		RETURNING ` + userColumns

	user, err := scanUser(conn.QueryRow(ctx, query,
		email,
		upd.FirstName,
		upd.MiddleName,
		upd.LastName,
		upd.IsActive,
		upd.IsRoot,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// UserExists checks if a user with the email exists.
func (r *Repository) UserExists(ctx context.Context, email string) (bool, error) {
	conn, err := r.acquire(ctx)
	if err != nil {
		return false, err
	}
	defer conn.Release()

	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	if err := conn.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}

	return exists, nil
}

// scanUser scans a single row into a User model.
func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.FirstName,
		&user.MiddleName,
		&user.LastName,
		&user.IsRoot,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
