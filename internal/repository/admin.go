package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AdminRepository struct {
	db *pgxpool.Pool
}

type AdminUser struct {
	ID        uuid.UUID
	Email     string
	Name      *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type DailyCount struct {
	Day   time.Time
	Count int
}

type UsageStats struct {
	Users      int
	Debts      int
	Scenarios  int
	UsersByDay []DailyCount
}

// NewAdminRepository creates the repository backing admin queries.
func NewAdminRepository(db *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{db: db}
}

// ListUsers returns users with pagination, newest first.
func (r *AdminRepository) ListUsers(ctx context.Context, limit, offset int) ([]AdminUser, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, email, name, created_at, updated_at
		 FROM users
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]AdminUser, 0)
	for rows.Next() {
		var user AdminUser
		var name *string
		if err := rows.Scan(&user.ID, &user.Email, &name, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, err
		}
		user.Name = name
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

// CountUsers returns the total number of users.
func (r *AdminRepository) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// UsageStats returns overall service counts plus daily signups for the last
// `days` days.
func (r *AdminRepository) UsageStats(ctx context.Context, days int) (UsageStats, error) {
	var stats UsageStats
	if days <= 0 {
		return stats, ErrInvalid
	}

	err := r.db.QueryRow(ctx,
		`SELECT (SELECT COUNT(*) FROM users),
		        (SELECT COUNT(*) FROM debts),
		        (SELECT COUNT(*) FROM scenarios)`,
	).Scan(&stats.Users, &stats.Debts, &stats.Scenarios)
	if err != nil {
		return stats, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT date_trunc('day', created_at)::date AS day, COUNT(*)
		 FROM users
		 WHERE created_at >= CURRENT_DATE - $1::int
		 GROUP BY day
		 ORDER BY day DESC`,
		days,
	)
	if err != nil {
		return stats, err
	}
	defer rows.Close()

	for rows.Next() {
		var row DailyCount
		if err := rows.Scan(&row.Day, &row.Count); err != nil {
			return stats, err
		}
		stats.UsersByDay = append(stats.UsersByDay, row)
	}

	if err := rows.Err(); err != nil {
		return stats, err
	}

	return stats, nil
}
