package collection

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ottocollect/ottocollect/internal/common"
	"github.com/ottocollect/ottocollect/internal/dbx"
	"github.com/ottocollect/ottocollect/internal/server/models"
	"github.com/ottocollect/ottocollect/internal/server/repositories/banknotes"
	"github.com/shopspring/decimal"
)

// ItemColumns lists collection_items columns aliased as ci.
const ItemColumns = `ci.id, ci.user_id, ci.banknote_id, ci.condition, ci.grade_by, ci.grade, ci.public_note,
		ci.private_note, ci.purchase_price, ci.purchase_date, ci.is_private, ci.is_for_sale, ci.sale_price,
		ci.obverse_image, ci.reverse_image, ci.created_at, ci.updated_at`

const selectItem = `
	SELECT ` + ItemColumns + `, ` + banknotes.Columns + `
	FROM collection_items ci
	JOIN banknotes b ON b.id = ci.banknote_id
	JOIN countries c ON c.id = b.country_id
`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// itemScan holds the nullable columns of a collection item until they are
// copied into the model.
type itemScan struct {
	purchasePrice decimal.NullDecimal
	purchaseDate  sql.NullTime
	salePrice     decimal.NullDecimal
}

// ItemDest returns scan destinations for ItemColumns followed by
// banknotes.Columns. Call the returned finish func after a successful Scan.
func ItemDest(ci *models.CollectionItem) ([]any, func()) {
	ci.Banknote = &models.Banknote{}
	n := &itemScan{}
	dest := []any{&ci.ID, &ci.UserID, &ci.BanknoteID, &ci.Condition, &ci.GradeBy, &ci.Grade, &ci.PublicNote,
		&ci.PrivateNote, &n.purchasePrice, &n.purchaseDate, &ci.IsPrivate, &ci.IsForSale, &n.salePrice,
		&ci.ObverseImage, &ci.ReverseImage, &ci.CreatedAt, &ci.UpdatedAt}
	dest = append(dest, banknotes.Dest(ci.Banknote)...)
	return dest, func() {
		if n.purchasePrice.Valid {
			ci.PurchasePrice = &n.purchasePrice.Decimal
		}
		if n.purchaseDate.Valid {
			ci.PurchaseDate = &n.purchaseDate.Time
		}
		if n.salePrice.Valid {
			ci.SalePrice = &n.salePrice.Decimal
		}
	}
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID, countryID string, includePrivate bool) ([]models.CollectionItem, error) {
	query := selectItem + `
		WHERE ci.user_id = $1
		  AND ($2 = '' OR b.country_id::text = $2)
		  AND ($3 OR NOT ci.is_private)
		ORDER BY b.extended_pick_number, ci.created_at
	`
	rows, err := r.db.QueryContext(ctx, query, userID, countryID, includePrivate)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.CollectionItem
	for rows.Next() {
		var ci models.CollectionItem
		dest, finish := ItemDest(&ci)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		finish()
		out = append(out, ci)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.CollectionItem, error) {
	ci := &models.CollectionItem{}
	dest, finish := ItemDest(ci)
	if err := r.db.QueryRowContext(ctx, selectItem+`WHERE ci.id = $1`, id).Scan(dest...); err != nil {
		if dbx.IsNoRows(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	finish()
	return ci, nil
}

func (r *PostgresRepository) Create(ctx context.Context, ci *models.CollectionItem) (*models.CollectionItem, error) {
	query := `
		INSERT INTO collection_items (user_id, banknote_id, condition, grade_by, grade, public_note, private_note,
			purchase_price, purchase_date, is_private, obverse_image, reverse_image)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, ci.UserID, ci.BanknoteID, ci.Condition, ci.GradeBy, ci.Grade,
		ci.PublicNote, ci.PrivateNote, ci.PurchasePrice, ci.PurchaseDate, ci.IsPrivate,
		ci.ObverseImage, ci.ReverseImage).Scan(&ci.ID, &ci.CreatedAt, &ci.UpdatedAt)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return ci, nil
}

func (r *PostgresRepository) Update(ctx context.Context, ci *models.CollectionItem) (*models.CollectionItem, error) {
	query := `
		UPDATE collection_items SET
			condition = $2, grade_by = $3, grade = $4, public_note = $5, private_note = $6,
			purchase_price = $7, purchase_date = $8, is_private = $9, obverse_image = $10, reverse_image = $11,
			updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query, ci.ID, ci.Condition, ci.GradeBy, ci.Grade, ci.PublicNote, ci.PrivateNote,
		ci.PurchasePrice, ci.PurchaseDate, ci.IsPrivate, ci.ObverseImage, ci.ReverseImage).Scan(&ci.UpdatedAt)
	if err != nil {
		if dbx.IsNoRows(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return ci, nil
}

func (r *PostgresRepository) SetForSale(ctx context.Context, id string, forSale bool, price *decimal.Decimal) error {
	query := `
		UPDATE collection_items SET is_for_sale = $2, sale_price = $3, updated_at = now()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id, forSale, price)
	return dbx.RequireAffected(res, err)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM collection_items WHERE id = $1`, id)
	return dbx.RequireAffected(res, err)
}
