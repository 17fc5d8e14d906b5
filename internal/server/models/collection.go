package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CollectionItem is a user's ownership record for a banknote.
type CollectionItem struct {
	ID            string           `json:"id"`
	UserID        string           `json:"userId"`
	BanknoteID    string           `json:"banknoteId"`
	Condition     string           `json:"condition,omitempty"`
	GradeBy       string           `json:"gradeBy,omitempty"`
	Grade         string           `json:"grade,omitempty"`
	PublicNote    string           `json:"publicNote,omitempty"`
	PrivateNote   string           `json:"privateNote,omitempty"`
	PurchasePrice *decimal.Decimal `json:"purchasePrice,omitempty"`
	PurchaseDate  *time.Time       `json:"purchaseDate,omitempty"`
	IsPrivate     bool             `json:"isPrivate"`
	IsForSale     bool             `json:"isForSale"`
	SalePrice     *decimal.Decimal `json:"salePrice,omitempty"`
	ObverseImage  string           `json:"obverseImage,omitempty"`
	ReverseImage  string           `json:"reverseImage,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`

	Banknote *Banknote `json:"banknote,omitempty"`
}

func (c *CollectionItem) GroupCategory() string {
	if c.Banknote == nil {
		return ""
	}
	return c.Banknote.Category
}

func (c *CollectionItem) GroupSultan() string {
	if c.Banknote == nil {
		return ""
	}
	return c.Banknote.SultanName
}

// Images returns the owner's pictures, falling back to the catalog ones.
func (c *CollectionItem) Images() []string {
	var urls []string
	for _, u := range []string{c.ObverseImage, c.ReverseImage} {
		if u != "" {
			urls = append(urls, u)
		}
	}
	if len(urls) == 0 && c.Banknote != nil {
		for _, u := range []string{c.Banknote.Images.Front, c.Banknote.Images.Back} {
			if u != "" {
				urls = append(urls, u)
			}
		}
	}
	return urls
}
