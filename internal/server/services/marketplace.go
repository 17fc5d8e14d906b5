package services

import (
	"context"
	"database/sql"

	"github.com/ottocollect/ottocollect/internal/common"
	"github.com/ottocollect/ottocollect/internal/dbx"
	"github.com/ottocollect/ottocollect/internal/logging"
	"github.com/ottocollect/ottocollect/internal/server/models"
	"github.com/ottocollect/ottocollect/internal/server/repositories/repomanager"
	"github.com/shopspring/decimal"
)

// MarketplaceService lists collection items for sale. A listing and the
// for-sale flag of its collection item always change together.
type MarketplaceService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	points      *PointsService
	log         logging.Logger
}

func NewMarketplaceService(db *sql.DB, m repomanager.RepositoryManager, p *PointsService, log logging.Logger) *MarketplaceService {
	return &MarketplaceService{db: db, repomanager: m, points: p, log: log.With("module", "marketplace")}
}

// List returns listings of one status, Available by default, optionally
// limited to a country.
func (s *MarketplaceService) List(ctx context.Context, countryID, status string) ([]models.MarketplaceItem, error) {
	if status == "" {
		status = models.StatusAvailable
	}
	if !models.ValidListingStatus(status) {
		return nil, validationError("unknown status %q", status)
	}
	return s.repomanager.Marketplace(s.db).List(ctx, countryID, status)
}

func (s *MarketplaceService) Get(ctx context.Context, id string) (*models.MarketplaceItem, error) {
	return s.repomanager.Marketplace(s.db).GetByID(ctx, id)
}

// Create lists the seller's collection item at price. Listing an item that
// is already for sale replaces the old listing.
func (s *MarketplaceService) Create(ctx context.Context, seller Actor, collectionItemID string, price decimal.Decimal) (*models.MarketplaceItem, error) {
	if !price.IsPositive() {
		return nil, validationError("price must be greater than zero")
	}

	item, err := s.repomanager.Collection(s.db).GetByID(ctx, collectionItemID)
	if err != nil {
		return nil, err
	}
	if item.UserID != seller.UserID {
		return nil, common.ErrorForbidden
	}

	var listing *models.MarketplaceItem
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Collection(tx).SetForSale(ctx, item.ID, true, &price); err != nil {
			return err
		}
		market := s.repomanager.Marketplace(tx)
		if err := market.DeleteByCollectionItem(ctx, item.ID); err != nil {
			return err
		}
		var err error
		listing, err = market.Create(ctx, &models.MarketplaceItem{
			CollectionItemID: item.ID,
			SellerID:         seller.UserID,
			Price:            price,
			Status:           models.StatusAvailable,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "listing created", "listing_id", listing.ID, "item_id", item.ID, "price", price.String())
	s.points.reward(ctx, seller.UserID, ActionCreateListing)
	return listing, nil
}

// UpdateStatus moves a listing between Available, Reserved and Sold. Only
// the seller or an admin may do so.
func (s *MarketplaceService) UpdateStatus(ctx context.Context, actor Actor, id, status string) error {
	if !models.ValidListingStatus(status) {
		return validationError("unknown status %q", status)
	}
	repo := s.repomanager.Marketplace(s.db)
	listing, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.canModify(listing.SellerID) {
		return common.ErrorForbidden
	}
	return repo.UpdateStatus(ctx, id, status)
}

// Remove withdraws a listing and clears the item's for-sale flag.
func (s *MarketplaceService) Remove(ctx context.Context, actor Actor, id string) error {
	listing, err := s.repomanager.Marketplace(s.db).GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.canModify(listing.SellerID) {
		return common.ErrorForbidden
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Marketplace(tx).Delete(ctx, id); err != nil {
			return err
		}
		return s.repomanager.Collection(tx).SetForSale(ctx, listing.CollectionItemID, false, nil)
	})
}

// unlist clears the for-sale flag of an owned item and drops its listing.
func (s *MarketplaceService) unlist(ctx context.Context, collectionItemID string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Collection(tx).SetForSale(ctx, collectionItemID, false, nil); err != nil {
			return err
		}
		return s.repomanager.Marketplace(tx).DeleteByCollectionItem(ctx, collectionItemID)
	})
}
