package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Listing statuses.
const (
	StatusAvailable = "Available"
	StatusReserved  = "Reserved"
	StatusSold      = "Sold"
)

// ValidListingStatus reports whether s is a known listing status.
func ValidListingStatus(s string) bool {
	return s == StatusAvailable || s == StatusReserved || s == StatusSold
}

// MarketplaceItem offers a collection item for sale.
type MarketplaceItem struct {
	ID               string          `json:"id"`
	CollectionItemID string          `json:"collectionItemId"`
	SellerID         string          `json:"sellerId"`
	SellerName       string          `json:"sellerName,omitempty"`
	Price            decimal.Decimal `json:"price"`
	Status           string          `json:"status"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`

	Item *CollectionItem `json:"collectionItem,omitempty"`
}
