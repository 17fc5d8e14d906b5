package posts

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ottocollect/ottocollect/internal/common"
	"github.com/ottocollect/ottocollect/internal/dbx"
	"github.com/ottocollect/ottocollect/internal/server/models"
)

const selectPost = `
	SELECT p.id, p.board, p.author_id, u.username, p.title, p.content, p.excerpt, p.image_urls,
		(SELECT count(*) FROM comments cm WHERE cm.post_id = p.id), p.created_at, p.updated_at
	FROM posts p
	JOIN users u ON u.id = p.author_id
`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanPost(row interface{ Scan(...any) error }) (*models.Post, error) {
	p := &models.Post{}
	var board string
	var images []byte
	if err := row.Scan(&p.ID, &board, &p.AuthorID, &p.AuthorName, &p.Title, &p.Content, &p.Excerpt, &images,
		&p.CommentCount, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Board = models.Board(board)
	p.ImageURLs = []string{}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &p.ImageURLs); err != nil {
			return nil, fmt.Errorf("decode image_urls: %w", err)
		}
	}
	return p, nil
}

func encodeImages(urls []string) (string, error) {
	if urls == nil {
		urls = []string{}
	}
	b, err := json.Marshal(urls)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *PostgresRepository) List(ctx context.Context, board models.Board, limit, offset int) ([]models.Post, error) {
	query := selectPost + `
		WHERE p.board = $1
		ORDER BY p.created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, query, string(board), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, board models.Board, id string) (*models.Post, error) {
	p, err := scanPost(r.db.QueryRowContext(ctx, selectPost+`WHERE p.board = $1 AND p.id = $2`, string(board), id))
	if err != nil {
		if dbx.IsNoRows(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	images, err := encodeImages(p.ImageURLs)
	if err != nil {
		return nil, err
	}
	query := `
		INSERT INTO posts (board, author_id, title, content, excerpt, image_urls)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err = r.db.QueryRowContext(ctx, query, string(p.Board), p.AuthorID, p.Title, p.Content, p.Excerpt, images).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if p.ImageURLs == nil {
		p.ImageURLs = []string{}
	}
	return p, nil
}

func (r *PostgresRepository) Update(ctx context.Context, p *models.Post) (*models.Post, error) {
	images, err := encodeImages(p.ImageURLs)
	if err != nil {
		return nil, err
	}
	query := `
		UPDATE posts SET title = $3, content = $4, excerpt = $5, image_urls = $6, updated_at = now()
		WHERE board = $1 AND id = $2
		RETURNING updated_at
	`
	err = r.db.QueryRowContext(ctx, query, string(p.Board), p.ID, p.Title, p.Content, p.Excerpt, images).Scan(&p.UpdatedAt)
	if err != nil {
		if dbx.IsNoRows(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, board models.Board, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE board = $1 AND id = $2`, string(board), id)
	return dbx.RequireAffected(res, err)
}

const selectComment = `
	SELECT cm.id, cm.post_id, cm.author_id, u.username, cm.content, cm.created_at, cm.updated_at
	FROM comments cm
	JOIN users u ON u.id = cm.author_id
`

func scanComment(row interface{ Scan(...any) error }, c *models.Comment) error {
	return row.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.AuthorName, &c.Content, &c.CreatedAt, &c.UpdatedAt)
}

func (r *PostgresRepository) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	rows, err := r.db.QueryContext(ctx, selectComment+`WHERE cm.post_id = $1 ORDER BY cm.created_at`, postID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := scanComment(rows, &c); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	c := &models.Comment{}
	if err := scanComment(r.db.QueryRowContext(ctx, selectComment+`WHERE cm.id = $1`, id), c); err != nil {
		if dbx.IsNoRows(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) AddComment(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	query := `
		INSERT INTO comments (post_id, author_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, c.PostID, c.AuthorID, c.Content).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) DeleteComment(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	return dbx.RequireAffected(res, err)
}
