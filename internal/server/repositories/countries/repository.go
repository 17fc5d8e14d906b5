// Package countries persists the top-level catalog sections.
package countries

import (
	"context"

	"github.com/ottocollect/ottocollect/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]models.Country, error)
	GetByID(ctx context.Context, id string) (*models.Country, error)
	GetByName(ctx context.Context, name string) (*models.Country, error)
	Create(ctx context.Context, c *models.Country) (*models.Country, error)
	Delete(ctx context.Context, id string) error
}
