package repository

import (
	"context"
	"fmt"
)

// GroupExists checks if an access-control group with the id exists.
func (r *Repository) GroupExists(ctx context.Context, id int64) (bool, error) {
	conn, err := r.acquire(ctx)
	if err != nil {
		return false, err
	}
	defer conn.Release()

	query := `SELECT EXISTS(SELECT 1 FROM groups WHERE id = $1)`

	var exists bool
	if err := conn.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check group existence: %w", err)
	}

	return exists, nil
}
