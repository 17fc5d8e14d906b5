package definitions

import (
	"context"
	"fmt"

	"github.com/ottocollect/ottocollect/internal/common"
	"github.com/ottocollect/ottocollect/internal/dbx"
	"github.com/ottocollect/ottocollect/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, kind models.DefinitionKind, countryID string) ([]models.Definition, error) {
	query := `
		SELECT id, kind, country_id, name, display_order, image_url
		FROM banknote_definitions
		WHERE kind = $1 AND country_id = $2
		ORDER BY display_order, name
	`
	rows, err := r.db.QueryContext(ctx, query, string(kind), countryID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.Definition
	for rows.Next() {
		var d models.Definition
		var k string
		if err := rows.Scan(&d.ID, &k, &d.CountryID, &d.Name, &d.DisplayOrder, &d.ImageURL); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		d.Kind = models.DefinitionKind(k)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Create(ctx context.Context, d *models.Definition) (*models.Definition, error) {
	query := `
		INSERT INTO banknote_definitions (kind, country_id, name, display_order, image_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query, string(d.Kind), d.CountryID, d.Name, d.DisplayOrder, d.ImageURL).Scan(&d.ID)
	if err != nil {
		switch {
		case dbx.IsUniqueViolation(err):
			return nil, common.ErrorAlreadyExists
		case dbx.IsForeignKeyViolation(err):
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return d, nil
}

func (r *PostgresRepository) UpdateOrder(ctx context.Context, id string, order int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE banknote_definitions SET display_order = $2 WHERE id = $1`, id, order)
	return dbx.RequireAffected(res, err)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM banknote_definitions WHERE id = $1`, id)
	return dbx.RequireAffected(res, err)
}
