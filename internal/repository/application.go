package repository

import (
	"context"
	"fmt"

	"github.com/iamadmin/iamadmin/internal/model"
)

var applicationsQuery = listQuery{
	table: "applications",
	columns: []string{
		"id", "client_id", "name", "logo_url", "disabled",
		"group_id", "tnc_link", "allow_registration",
	},
	searchColumns: []string{"name", "client_id"},
	orderBy:       []string{"name", "id"},
}

// CountApplications returns the number of applications matching search.
func (r *Repository) CountApplications(ctx context.Context, search string) (int64, error) {
	conn, err := r.acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	query, args := applicationsQuery.countSQL(search)

	var count int64
	if err := conn.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count applications: %w", err)
	}

	return count, nil
}

// ListApplications returns one window of applications matching search,
// ordered by name descending.
func (r *Repository) ListApplications(ctx context.Context, search string, limit, offset int64) ([]*model.Application, error) {
	conn, err := r.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	query, args := applicationsQuery.pageSQL(search, limit, offset)

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	apps := make([]*model.Application, 0)
	for rows.Next() {
		var app model.Application
		err := rows.Scan(
			&app.ID,
			&app.ClientID,
			&app.Name,
			&app.LogoURL,
			&app.Disabled,
			&app.GroupID,
			&app.TNCLink,
			&app.AllowRegistration,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, &app)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating applications: %w", err)
	}

	return apps, nil
}
