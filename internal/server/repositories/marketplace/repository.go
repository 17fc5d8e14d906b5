// Package marketplace persists listings offering collection items for sale.
package marketplace

import (
	"context"

	"github.com/ottocollect/ottocollect/internal/server/models"
)

type Repository interface {
	// List returns listings with the given status, newest first. An empty
	// countryID lists every country.
	List(ctx context.Context, countryID, status string) ([]models.MarketplaceItem, error)
	GetByID(ctx context.Context, id string) (*models.MarketplaceItem, error)
	Create(ctx context.Context, item *models.MarketplaceItem) (*models.MarketplaceItem, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
	// DeleteByCollectionItem removes the listing of an item if there is one.
	DeleteByCollectionItem(ctx context.Context, collectionItemID string) error
}
