package badges

import (
	"context"
	"fmt"

	"github.com/ottocollect/ottocollect/internal/dbx"
	"github.com/ottocollect/ottocollect/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) queryBadges(ctx context.Context, query string, args ...any) ([]models.Badge, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.Badge
	for rows.Next() {
		var b models.Badge
		if err := rows.Scan(&b.ID, &b.Name, &b.Description, &b.Category, &b.ThresholdPoints, &b.IconURL); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.Badge, error) {
	return r.queryBadges(ctx, `
		SELECT id, name, description, category, threshold_points, icon_url
		FROM badges
		ORDER BY threshold_points
	`)
}

func (r *PostgresRepository) Unearned(ctx context.Context, userID string, points int) ([]models.Badge, error) {
	return r.queryBadges(ctx, `
		SELECT b.id, b.name, b.description, b.category, b.threshold_points, b.icon_url
		FROM badges b
		WHERE b.threshold_points <= $2
		  AND NOT EXISTS (SELECT 1 FROM user_badges ub WHERE ub.user_id = $1 AND ub.badge_id = b.id)
		ORDER BY b.threshold_points
	`, userID, points)
}

func (r *PostgresRepository) ListForUser(ctx context.Context, userID string) ([]models.UserBadge, error) {
	query := `
		SELECT b.id, b.name, b.description, b.category, b.threshold_points, b.icon_url, ub.awarded_at
		FROM user_badges ub
		JOIN badges b ON b.id = ub.badge_id
		WHERE ub.user_id = $1
		ORDER BY ub.awarded_at
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.UserBadge
	for rows.Next() {
		var b models.UserBadge
		if err := rows.Scan(&b.ID, &b.Name, &b.Description, &b.Category, &b.ThresholdPoints, &b.IconURL, &b.AwardedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Award(ctx context.Context, userID, badgeID string) (bool, error) {
	query := `
		INSERT INTO user_badges (user_id, badge_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query, userID, badgeID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}
