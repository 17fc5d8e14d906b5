// Package posts persists forum and blog posts and their comments. Both boards
// share the same tables and are told apart by the board column.
package posts

import (
	"context"

	"github.com/ottocollect/ottocollect/internal/server/models"
)

type Repository interface {
	// List returns a board's posts newest first with author names and comment counts.
	List(ctx context.Context, board models.Board, limit, offset int) ([]models.Post, error)
	GetByID(ctx context.Context, board models.Board, id string) (*models.Post, error)
	Create(ctx context.Context, p *models.Post) (*models.Post, error)
	Update(ctx context.Context, p *models.Post) (*models.Post, error)
	Delete(ctx context.Context, board models.Board, id string) error

	ListComments(ctx context.Context, postID string) ([]models.Comment, error)
	GetComment(ctx context.Context, id string) (*models.Comment, error)
	AddComment(ctx context.Context, c *models.Comment) (*models.Comment, error)
	DeleteComment(ctx context.Context, id string) error
}
