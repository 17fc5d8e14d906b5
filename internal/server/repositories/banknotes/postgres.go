package banknotes

import (
	"context"
	"fmt"
	"strings"

	"github.com/ottocollect/ottocollect/internal/common"
	"github.com/ottocollect/ottocollect/internal/dbx"
	"github.com/ottocollect/ottocollect/internal/server/models"
)

// Columns lists every banknote column, with banknotes aliased as b and
// countries as c. The collection and marketplace repositories join it too.
const Columns = `b.id, b.country_id, c.name, b.extended_pick_number, b.pick_number, b.face_value,
		b.gregorian_year, b.islamic_year, b.category, b.type, b.sultan_name, b.description, b.rarity,
		b.front_picture, b.back_picture, b.front_picture_watermarked, b.back_picture_watermarked,
		b.front_picture_thumbnail, b.back_picture_thumbnail, b.is_approved, b.created_at, b.updated_at`

const selectBanknote = `
	SELECT ` + Columns + `
	FROM banknotes b
	JOIN countries c ON c.id = b.country_id
`

// sultanOrder is the sultan's position in the country's display-order table.
// Sultans missing from the table sort after every listed one, matching the
// grouping package.
const sultanOrder = `COALESCE((
		SELECT MIN(d.display_order) FROM banknote_definitions d
		WHERE d.kind = 'sultans' AND d.country_id = b.country_id AND lower(d.name) = lower(b.sultan_name)
	), 9007199254740991)`

var orderBy = map[string]string{
	models.SortExtendedPick: `b.extended_pick_number`,
	models.SortFaceValue:    `b.face_value, b.extended_pick_number`,
	models.SortNewest:       `b.created_at DESC`,
	models.SortSultan:       sultanOrder + `, lower(b.sultan_name), b.extended_pick_number`,
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Dest returns scan destinations matching Columns.
func Dest(b *models.Banknote) []any {
	return []any{&b.ID, &b.CountryID, &b.Country, &b.ExtendedPick, &b.PickNumber, &b.FaceValue,
		&b.GregorianYear, &b.IslamicYear, &b.Category, &b.Type, &b.SultanName, &b.Description, &b.Rarity,
		&b.Images.Front, &b.Images.Back, &b.Images.FrontWatermarked, &b.Images.BackWatermarked,
		&b.Images.FrontThumbnail, &b.Images.BackThumbnail, &b.IsApproved, &b.CreatedAt, &b.UpdatedAt}
}

func scanBanknote(row interface{ Scan(...any) error }, b *models.Banknote) error {
	return row.Scan(Dest(b)...)
}

// buildListQuery renders the filter into SQL with positional arguments.
func buildListQuery(f models.BanknoteFilter) (string, []any) {
	var sb strings.Builder
	sb.WriteString(selectBanknote)
	args := []any{f.CountryID}
	sb.WriteString(`WHERE b.country_id = $1`)

	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, s)
		n := len(args)
		fmt.Fprintf(&sb, ` AND (b.extended_pick_number ILIKE '%%' || $%[1]d || '%%'`+
			` OR b.pick_number ILIKE '%%' || $%[1]d || '%%'`+
			` OR b.face_value ILIKE '%%' || $%[1]d || '%%'`+
			` OR b.sultan_name ILIKE '%%' || $%[1]d || '%%'`+
			` OR b.description ILIKE '%%' || $%[1]d || '%%')`, n)
	}

	in := func(column string, values []string) {
		if len(values) == 0 {
			return
		}
		marks := make([]string, len(values))
		for i, v := range values {
			args = append(args, v)
			marks[i] = fmt.Sprintf("$%d", len(args))
		}
		fmt.Fprintf(&sb, ` AND %s IN (%s)`, column, strings.Join(marks, ", "))
	}
	in("b.category", f.Categories)
	in("b.type", f.Types)

	order, ok := orderBy[f.Sort]
	if !ok {
		order = orderBy[models.SortExtendedPick]
	}
	sb.WriteString(` ORDER BY ` + order)
	return sb.String(), args
}

func (r *PostgresRepository) List(ctx context.Context, filter models.BanknoteFilter) ([]models.Banknote, error) {
	query, args := buildListQuery(filter)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.Banknote
	for rows.Next() {
		var b models.Banknote
		if err := scanBanknote(rows, &b); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Banknote, error) {
	b := &models.Banknote{}
	if err := scanBanknote(r.db.QueryRowContext(ctx, selectBanknote+`WHERE b.id = $1`, id), b); err != nil {
		if dbx.IsNoRows(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return b, nil
}

func (r *PostgresRepository) ImageFields(ctx context.Context, id string) (models.Images, error) {
	query := `
		SELECT front_picture, back_picture, front_picture_watermarked, back_picture_watermarked,
			front_picture_thumbnail, back_picture_thumbnail
		FROM banknotes
		WHERE id = $1
	`
	var im models.Images
	err := r.db.QueryRowContext(ctx, query, id).Scan(&im.Front, &im.Back, &im.FrontWatermarked, &im.BackWatermarked,
		&im.FrontThumbnail, &im.BackThumbnail)
	if err != nil {
		if dbx.IsNoRows(err) {
			return models.Images{}, common.ErrorNotFound
		}
		return models.Images{}, fmt.Errorf("db error: %w", err)
	}
	return im, nil
}

func (r *PostgresRepository) Create(ctx context.Context, b *models.Banknote) (*models.Banknote, error) {
	query := `
		INSERT INTO banknotes (country_id, extended_pick_number, pick_number, face_value, gregorian_year,
			islamic_year, category, type, sultan_name, description, rarity,
			front_picture, back_picture, front_picture_watermarked, back_picture_watermarked,
			front_picture_thumbnail, back_picture_thumbnail, is_approved)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, b.CountryID, b.ExtendedPick, b.PickNumber, b.FaceValue, b.GregorianYear,
		b.IslamicYear, b.Category, b.Type, b.SultanName, b.Description, b.Rarity,
		b.Images.Front, b.Images.Back, b.Images.FrontWatermarked, b.Images.BackWatermarked,
		b.Images.FrontThumbnail, b.Images.BackThumbnail, b.IsApproved).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return b, nil
}

func (r *PostgresRepository) Update(ctx context.Context, b *models.Banknote) (*models.Banknote, error) {
	query := `
		UPDATE banknotes SET
			extended_pick_number = $2, pick_number = $3, face_value = $4, gregorian_year = $5,
			islamic_year = $6, category = $7, type = $8, sultan_name = $9, description = $10, rarity = $11,
			front_picture = $12, back_picture = $13, front_picture_watermarked = $14, back_picture_watermarked = $15,
			front_picture_thumbnail = $16, back_picture_thumbnail = $17, is_approved = $18, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query, b.ID, b.ExtendedPick, b.PickNumber, b.FaceValue, b.GregorianYear,
		b.IslamicYear, b.Category, b.Type, b.SultanName, b.Description, b.Rarity,
		b.Images.Front, b.Images.Back, b.Images.FrontWatermarked, b.Images.BackWatermarked,
		b.Images.FrontThumbnail, b.Images.BackThumbnail, b.IsApproved).Scan(&b.UpdatedAt)
	if err != nil {
		if dbx.IsNoRows(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return b, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM banknotes WHERE id = $1`, id)
	return dbx.RequireAffected(res, err)
}
