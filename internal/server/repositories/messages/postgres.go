package messages

import (
	"context"
	"database/sql"
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

func (r *PostgresRepository) Create(ctx context.Context, m *models.Message) (*models.Message, error) {
	query := `
		INSERT INTO messages (sender_id, receiver_id, content, reference_item_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_read, created_at
	`
	err := r.db.QueryRowContext(ctx, query, m.SenderID, m.ReceiverID, m.Content, m.ReferenceID).
		Scan(&m.ID, &m.IsRead, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return m, nil
}

func scanMessage(dest []any, m *models.Message, ref *sql.NullString) []any {
	return append(dest, &m.ID, &m.SenderID, &m.ReceiverID, &m.Content, ref, &m.IsRead, &m.CreatedAt)
}

func (r *PostgresRepository) Conversation(ctx context.Context, userID, otherID string, limit int) ([]models.Message, error) {
	query := `
		SELECT id, sender_id, receiver_id, content, reference_item_id, is_read, created_at
		FROM (
			SELECT * FROM messages
			WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
			ORDER BY created_at DESC
			LIMIT $3
		) recent
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, userID, otherID, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.Message
	for rows.Next() {
		var m models.Message
		var ref sql.NullString
		if err := rows.Scan(scanMessage(nil, &m, &ref)...); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if ref.Valid {
			m.ReferenceID = &ref.String
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Conversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	query := `
		WITH mine AS (
			SELECT m.*, CASE WHEN m.sender_id = $1 THEN m.receiver_id ELSE m.sender_id END AS other_id
			FROM messages m
			WHERE m.sender_id = $1 OR m.receiver_id = $1
		), latest AS (
			SELECT DISTINCT ON (other_id) *
			FROM mine
			ORDER BY other_id, created_at DESC
		)
		SELECT l.other_id, u.username,
			l.id, l.sender_id, l.receiver_id, l.content, l.reference_item_id, l.is_read, l.created_at,
			(SELECT count(*) FROM messages x WHERE x.sender_id = l.other_id AND x.receiver_id = $1 AND NOT x.is_read)
		FROM latest l
		JOIN users u ON u.id = l.other_id
		ORDER BY l.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.Conversation
	for rows.Next() {
		c := models.Conversation{LastMessage: &models.Message{}}
		var ref sql.NullString
		dest := scanMessage([]any{&c.OtherUserID, &c.OtherUsername}, c.LastMessage, &ref)
		dest = append(dest, &c.UnreadCount)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if ref.Valid {
			c.LastMessage.ReferenceID = &ref.String
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) MarkRead(ctx context.Context, userID, messageID string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE messages SET is_read = true WHERE id = $1 AND receiver_id = $2`, messageID, userID)
	return dbx.RequireAffected(res, err)
}

func (r *PostgresRepository) UnreadCount(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM messages WHERE receiver_id = $1 AND NOT is_read`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
