package marketplace

import (
	"context"
	"fmt"

	"github.com/ottocollect/ottocollect/internal/common"
	"github.com/ottocollect/ottocollect/internal/dbx"
	"github.com/ottocollect/ottocollect/internal/server/models"
	"github.com/ottocollect/ottocollect/internal/server/repositories/banknotes"
	"github.com/ottocollect/ottocollect/internal/server/repositories/collection"
)

const selectListing = `
	SELECT mi.id, mi.collection_item_id, mi.seller_id, u.username, mi.price, mi.status, mi.created_at, mi.updated_at,
		` + collection.ItemColumns + `, ` + banknotes.Columns + `
	FROM marketplace_items mi
	JOIN users u ON u.id = mi.seller_id
	JOIN collection_items ci ON ci.id = mi.collection_item_id
	JOIN banknotes b ON b.id = ci.banknote_id
	JOIN countries c ON c.id = b.country_id
`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanListing(row interface{ Scan(...any) error }) (*models.MarketplaceItem, error) {
	m := &models.MarketplaceItem{Item: &models.CollectionItem{}}
	itemDest, finish := collection.ItemDest(m.Item)
	dest := append([]any{&m.ID, &m.CollectionItemID, &m.SellerID, &m.SellerName, &m.Price, &m.Status,
		&m.CreatedAt, &m.UpdatedAt}, itemDest...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	finish()
	return m, nil
}

func (r *PostgresRepository) List(ctx context.Context, countryID, status string) ([]models.MarketplaceItem, error) {
	query := selectListing + `
		WHERE mi.status = $1
		  AND ($2 = '' OR b.country_id::text = $2)
		ORDER BY mi.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, status, countryID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.MarketplaceItem
	for rows.Next() {
		m, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.MarketplaceItem, error) {
	m, err := scanListing(r.db.QueryRowContext(ctx, selectListing+`WHERE mi.id = $1`, id))
	if err != nil {
		if dbx.IsNoRows(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return m, nil
}

func (r *PostgresRepository) Create(ctx context.Context, m *models.MarketplaceItem) (*models.MarketplaceItem, error) {
	if m.Status == "" {
		m.Status = models.StatusAvailable
	}
	query := `
		INSERT INTO marketplace_items (collection_item_id, seller_id, price, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, m.CollectionItemID, m.SellerID, m.Price, m.Status).
		Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		switch {
		case dbx.IsUniqueViolation(err):
			return nil, common.ErrorAlreadyExists
		case dbx.IsForeignKeyViolation(err):
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return m, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE marketplace_items SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	return dbx.RequireAffected(res, err)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM marketplace_items WHERE id = $1`, id)
	return dbx.RequireAffected(res, err)
}

func (r *PostgresRepository) DeleteByCollectionItem(ctx context.Context, collectionItemID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM marketplace_items WHERE collection_item_id = $1`, collectionItemID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
