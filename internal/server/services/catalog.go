package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/ottocollect/ottocollect/internal/logging"
	"github.com/ottocollect/ottocollect/internal/server/grouping"
	"github.com/ottocollect/ottocollect/internal/server/models"
	"github.com/ottocollect/ottocollect/internal/server/repositories/repomanager"
)

// CatalogService manages countries and their lookup definitions, and turns
// the sultan and category tables into order maps for grouping.
type CatalogService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewCatalogService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *CatalogService {
	return &CatalogService{db: db, repomanager: m, log: log.With("module", "catalog")}
}

func (s *CatalogService) Countries(ctx context.Context) ([]models.Country, error) {
	return s.repomanager.Countries(s.db).List(ctx)
}

func (s *CatalogService) Country(ctx context.Context, id string) (*models.Country, error) {
	return s.repomanager.Countries(s.db).GetByID(ctx, id)
}

func (s *CatalogService) CountryByName(ctx context.Context, name string) (*models.Country, error) {
	return s.repomanager.Countries(s.db).GetByName(ctx, strings.TrimSpace(name))
}

func (s *CatalogService) CreateCountry(ctx context.Context, c *models.Country) (*models.Country, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return nil, validationError("country name is required")
	}
	return s.repomanager.Countries(s.db).Create(ctx, c)
}

func (s *CatalogService) DeleteCountry(ctx context.Context, id string) error {
	return s.repomanager.Countries(s.db).Delete(ctx, id)
}

// Definitions lists one kind of lookup values for a country in display order.
func (s *CatalogService) Definitions(ctx context.Context, kind models.DefinitionKind, countryID string) ([]models.Definition, error) {
	if !kind.Valid() {
		return nil, validationError("unknown definition kind %q", kind)
	}
	return s.repomanager.Definitions(s.db).List(ctx, kind, countryID)
}

func (s *CatalogService) CreateDefinition(ctx context.Context, d *models.Definition) (*models.Definition, error) {
	if !d.Kind.Valid() {
		return nil, validationError("unknown definition kind %q", d.Kind)
	}
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" || blank(d.CountryID) {
		return nil, validationError("name and country are required")
	}
	if d.Kind != models.KindStamps {
		d.ImageURL = ""
	}
	return s.repomanager.Definitions(s.db).Create(ctx, d)
}

func (s *CatalogService) UpdateDefinitionOrder(ctx context.Context, id string, order int) error {
	if order < 0 {
		return validationError("display order must not be negative")
	}
	return s.repomanager.Definitions(s.db).UpdateOrder(ctx, id, order)
}

func (s *CatalogService) DeleteDefinition(ctx context.Context, id string) error {
	return s.repomanager.Definitions(s.db).Delete(ctx, id)
}

// SultanOrderMap maps sultan names of a country to their display order.
func (s *CatalogService) SultanOrderMap(ctx context.Context, countryID string) (map[string]int, error) {
	return s.orderMap(ctx, models.KindSultans, countryID)
}

// CategoryOrderMap maps category names of a country to their display order.
func (s *CatalogService) CategoryOrderMap(ctx context.Context, countryID string) (map[string]int, error) {
	return s.orderMap(ctx, models.KindCategories, countryID)
}

func (s *CatalogService) orderMap(ctx context.Context, kind models.DefinitionKind, countryID string) (map[string]int, error) {
	defs, err := s.repomanager.Definitions(s.db).List(ctx, kind, countryID)
	if err != nil {
		return nil, err
	}
	return grouping.OrderMap(defs,
		func(d models.Definition) string { return d.Name },
		func(d models.Definition) int { return d.DisplayOrder },
	), nil
}

// groupingOptions loads both order maps for a country. An empty country has
// no tables and groups purely by name.
func (s *CatalogService) groupingOptions(ctx context.Context, countryID string, bySultan bool) (grouping.Options, error) {
	opts := grouping.Options{BySultan: bySultan, Logger: s.log}
	if countryID == "" {
		return opts, nil
	}
	var err error
	if opts.CategoryOrder, err = s.CategoryOrderMap(ctx, countryID); err != nil {
		return opts, err
	}
	if bySultan {
		if opts.SultanOrder, err = s.SultanOrderMap(ctx, countryID); err != nil {
			return opts, err
		}
	}
	return opts, nil
}
