// Package definitions persists the country-scoped lookup tables (categories,
// types, sultans, currencies, stamps) that drive catalog filters and grouping.
package definitions

import (
	"context"

	"github.com/ottocollect/ottocollect/internal/server/models"
)

type Repository interface {
	// List returns one kind for a country ordered by display_order then name.
	List(ctx context.Context, kind models.DefinitionKind, countryID string) ([]models.Definition, error)
	Create(ctx context.Context, d *models.Definition) (*models.Definition, error)
	UpdateOrder(ctx context.Context, id string, order int) error
	Delete(ctx context.Context, id string) error
}
