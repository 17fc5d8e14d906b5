// Package collection persists users' collection items.
package collection

import (
	"context"

	"github.com/ottocollect/ottocollect/internal/server/models"
	"github.com/shopspring/decimal"
)

type Repository interface {
	// ListByUser returns a user's items joined with their banknotes. An empty
	// countryID lists every country; private items are skipped unless
	// includePrivate is set.
	ListByUser(ctx context.Context, userID, countryID string, includePrivate bool) ([]models.CollectionItem, error)
	GetByID(ctx context.Context, id string) (*models.CollectionItem, error)
	Create(ctx context.Context, item *models.CollectionItem) (*models.CollectionItem, error)
	Update(ctx context.Context, item *models.CollectionItem) (*models.CollectionItem, error)
	SetForSale(ctx context.Context, id string, forSale bool, price *decimal.Decimal) error
	Delete(ctx context.Context, id string) error
}
