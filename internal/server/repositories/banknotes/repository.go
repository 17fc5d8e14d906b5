// Package banknotes persists catalog banknotes.
package banknotes

import (
	"context"

	"github.com/ottocollect/ottocollect/internal/server/models"
)

type Repository interface {
	List(ctx context.Context, filter models.BanknoteFilter) ([]models.Banknote, error)
	GetByID(ctx context.Context, id string) (*models.Banknote, error)
	// ImageFields returns only the six picture columns of a banknote.
	ImageFields(ctx context.Context, id string) (models.Images, error)
	Create(ctx context.Context, b *models.Banknote) (*models.Banknote, error)
	Update(ctx context.Context, b *models.Banknote) (*models.Banknote, error)
	Delete(ctx context.Context, id string) error
}
