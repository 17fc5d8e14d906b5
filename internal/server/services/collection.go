package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ottocollect/ottocollect/internal/common"
	"github.com/ottocollect/ottocollect/internal/dbx"
	"github.com/ottocollect/ottocollect/internal/logging"
	"github.com/ottocollect/ottocollect/internal/server/grouping"
	"github.com/ottocollect/ottocollect/internal/server/models"
	"github.com/ottocollect/ottocollect/internal/server/repositories/repomanager"
	"github.com/shopspring/decimal"
)

type CollectionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	catalog     *CatalogService
	market      *MarketplaceService
	points      *PointsService
	log         logging.Logger
}

func NewCollectionService(db *sql.DB, m repomanager.RepositoryManager, catalog *CatalogService,
	market *MarketplaceService, points *PointsService, log logging.Logger) *CollectionService {
	return &CollectionService{
		db:          db,
		repomanager: m,
		catalog:     catalog,
		market:      market,
		points:      points,
		log:         log.With("module", "collection"),
	}
}

// List returns ownerID's items with their banknotes. Private items are only
// included when the viewer is the owner.
func (s *CollectionService) List(ctx context.Context, viewerID, ownerID, countryID string) ([]models.CollectionItem, error) {
	return s.repomanager.Collection(s.db).ListByUser(ctx, ownerID, countryID, viewerID == ownerID)
}

// Groups is List grouped by the category and sultan of each item's banknote.
func (s *CollectionService) Groups(ctx context.Context, viewerID, ownerID, countryID string, bySultan bool) ([]grouping.CategoryGroup[*models.CollectionItem], error) {
	items, err := s.List(ctx, viewerID, ownerID, countryID)
	if err != nil {
		return nil, err
	}
	opts, err := s.catalog.groupingOptions(ctx, countryID, bySultan)
	if err != nil {
		return nil, err
	}

	ptrs := make([]*models.CollectionItem, len(items))
	for i := range items {
		ptrs[i] = &items[i]
	}
	return grouping.Group(ptrs, opts), nil
}

// Get returns an item. Someone else's private item reads as not found.
func (s *CollectionService) Get(ctx context.Context, viewerID, id string) (*models.CollectionItem, error) {
	item, err := s.repomanager.Collection(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.IsPrivate && item.UserID != viewerID {
		return nil, common.ErrorNotFound
	}
	if item.UserID != viewerID {
		item.PrivateNote = ""
		item.PurchasePrice = nil
		item.PurchaseDate = nil
	}
	return item, nil
}

func validateItem(item *models.CollectionItem) error {
	if item.PurchasePrice != nil && item.PurchasePrice.IsNegative() {
		return validationError("purchase price must not be negative")
	}
	return nil
}

// Add records that the actor owns a banknote and credits points.
func (s *CollectionService) Add(ctx context.Context, actor Actor, item *models.CollectionItem) (*models.CollectionItem, error) {
	if blank(item.BanknoteID) {
		return nil, validationError("banknote is required")
	}
	if err := validateItem(item); err != nil {
		return nil, err
	}
	item.UserID = actor.UserID
	item.IsForSale = false
	item.SalePrice = nil

	created, err := s.repomanager.Collection(s.db).Create(ctx, item)
	if err != nil {
		return nil, err
	}
	s.points.reward(ctx, actor.UserID, ActionAddCollectionItem)
	return created, nil
}

func (s *CollectionService) owned(ctx context.Context, actor Actor, id string) (*models.CollectionItem, error) {
	item, err := s.repomanager.Collection(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.UserID != actor.UserID {
		return nil, common.ErrorForbidden
	}
	return item, nil
}

// Update changes the owner-editable fields of an item.
func (s *CollectionService) Update(ctx context.Context, actor Actor, item *models.CollectionItem) (*models.CollectionItem, error) {
	existing, err := s.owned(ctx, actor, item.ID)
	if err != nil {
		return nil, err
	}
	if err := validateItem(item); err != nil {
		return nil, err
	}
	item.UserID = existing.UserID
	item.BanknoteID = existing.BanknoteID
	item.IsForSale = existing.IsForSale
	item.SalePrice = existing.SalePrice
	item.CreatedAt = existing.CreatedAt
	item.Banknote = existing.Banknote
	return s.repomanager.Collection(s.db).Update(ctx, item)
}

// Delete removes an item together with its marketplace listing.
func (s *CollectionService) Delete(ctx context.Context, actor Actor, id string) error {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return err
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Marketplace(tx).DeleteByCollectionItem(ctx, id); err != nil {
			return err
		}
		return s.repomanager.Collection(tx).Delete(ctx, id)
	})
}

// SetForSale lists the item at price, or withdraws it when forSale is false.
// The listing is returned when one was created.
func (s *CollectionService) SetForSale(ctx context.Context, actor Actor, id string, forSale bool, price *decimal.Decimal) (*models.MarketplaceItem, error) {
	if !forSale {
		if _, err := s.owned(ctx, actor, id); err != nil {
			return nil, err
		}
		return nil, s.market.unlist(ctx, id)
	}
	if price == nil {
		return nil, validationError("price is required")
	}
	listing, err := s.market.Create(ctx, actor, id, *price)
	if err != nil && !errors.Is(err, common.ErrorValidation) {
		s.log.Warn(ctx, "failed to list item", "item_id", id, "error", err)
	}
	return listing, err
}
