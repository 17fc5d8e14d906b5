package countries

import (
	"context"
	"fmt"

	"github.com/ottocollect/ottocollect/internal/common"
	"github.com/ottocollect/ottocollect/internal/dbx"
	"github.com/ottocollect/ottocollect/internal/server/models"
)

const countryColumns = `id, name, description, image_url, display_order, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanCountry(row interface{ Scan(...any) error }, c *models.Country) error {
	return row.Scan(&c.ID, &c.Name, &c.Description, &c.ImageURL, &c.DisplayOrder, &c.CreatedAt)
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.Country, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+countryColumns+` FROM countries ORDER BY display_order, name`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.Country
	for rows.Next() {
		var c models.Country
		if err := scanCountry(rows, &c); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) get(ctx context.Context, where string, arg any) (*models.Country, error) {
	c := &models.Country{}
	err := scanCountry(r.db.QueryRowContext(ctx, `SELECT `+countryColumns+` FROM countries WHERE `+where, arg), c)
	if err != nil {
		if dbx.IsNoRows(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Country, error) {
	return r.get(ctx, `id = $1`, id)
}

func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*models.Country, error) {
	return r.get(ctx, `lower(name) = lower($1)`, name)
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.Country) (*models.Country, error) {
	query := `
		INSERT INTO countries (name, description, image_url, display_order)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, c.Name, c.Description, c.ImageURL, c.DisplayOrder).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM countries WHERE id = $1`, id)
	return dbx.RequireAffected(res, err)
}
