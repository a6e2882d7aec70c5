// Package testutil provides shared helpers for integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/iamadmin/iamadmin/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 730730

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ResetDirectorySchema drops and recreates the users, applications and
// groups tables for tests.
func ResetDirectorySchema(ctx context.Context, pool *pgxpool.Pool) error {
	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	downSQL, err := os.ReadFile(filepath.Join(root, "migrations", "000001_directory.down.sql"))
	if err != nil {
		return fmt.Errorf("read down migration: %w", err)
	}
	if _, err := pool.Exec(ctx, string(downSQL)); err != nil {
		return fmt.Errorf("apply down migration: %w", err)
	}

	upSQL, err := os.ReadFile(filepath.Join(root, "migrations", "000001_directory.up.sql"))
	if err != nil {
		return fmt.Errorf("read up migration: %w", err)
	}
	if _, err := pool.Exec(ctx, string(upSQL)); err != nil {
		return fmt.Errorf("apply up migration: %w", err)
	}

	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// ============================================================================
// Seeding
// ============================================================================

// InsertUser stores a user row and fills in its generated ID.
func InsertUser(ctx context.Context, pool *pgxpool.Pool, user *model.User) error {
	query := `
		INSERT INTO users (email, first_name, middle_name, last_name, is_root, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING id
	`
	err := pool.QueryRow(ctx, query,
		user.Email,
		user.FirstName,
		user.MiddleName,
		user.LastName,
		user.IsRoot,
		user.IsActive,
		user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	user.UpdatedAt = user.CreatedAt
	return nil
}

// InsertApplication stores an application row and fills in its generated ID.
func InsertApplication(ctx context.Context, pool *pgxpool.Pool, app *model.Application) error {
	query := `
		INSERT INTO applications (client_id, name, logo_url, disabled, group_id, tnc_link, allow_registration)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := pool.QueryRow(ctx, query,
		app.ClientID,
		app.Name,
		app.LogoURL,
		app.Disabled,
		app.GroupID,
		app.TNCLink,
		app.AllowRegistration,
	).Scan(&app.ID)
	if err != nil {
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

// InsertGroup stores a group row and returns its ID.
func InsertGroup(ctx context.Context, pool *pgxpool.Pool, name string) (int64, error) {
	var id int64
	if err := pool.QueryRow(ctx, `INSERT INTO groups (name) VALUES ($1) RETURNING id`, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert group: %w", err)
	}
	return id, nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// NewTestUser creates a test user with sensible defaults.
// createdAt controls its position in the default ordering.
func NewTestUser(t testing.TB, email string, createdAt time.Time) *model.User {
	t.Helper()
	return &model.User{
		Email:     email,
		FirstName: Ptr("Test"),
		LastName:  Ptr("User"),
		IsActive:  true,
		CreatedAt: createdAt.UTC().Truncate(time.Microsecond),
	}
}

// NewTestApplication creates a test application with sensible defaults.
func NewTestApplication(t testing.TB, clientID, name string) *model.Application {
	t.Helper()
	return &model.Application{
		ClientID:          clientID,
		Name:              name,
		LogoURL:           Ptr("https://cdn.example.com/" + clientID + ".png"),
		AllowRegistration: true,
	}
}

// UniqueEmail generates a unique email address for tests.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, time.Now().UnixNano())
}
