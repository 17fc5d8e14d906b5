package models

import "time"

// Banknote is a catalog record describing a historical currency note.
type Banknote struct {
	ID             string    `json:"id"`
	CountryID      string    `json:"countryId"`
	Country        string    `json:"country"`
	ExtendedPick   string    `json:"extendedPickNumber"`
	PickNumber     string    `json:"pickNumber"`
	FaceValue      string    `json:"faceValue"`
	GregorianYear  string    `json:"gregorianYear,omitempty"`
	IslamicYear    string    `json:"islamicYear,omitempty"`
	Category       string    `json:"category"`
	Type           string    `json:"type"`
	SultanName     string    `json:"sultanName,omitempty"`
	Description    string    `json:"description,omitempty"`
	Rarity         string    `json:"rarity,omitempty"`
	Images         Images    `json:"images"`
	IsApproved     bool      `json:"isApproved"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Images holds the six picture fields every banknote carries.
type Images struct {
	Front            string `json:"frontPicture,omitempty"`
	Back             string `json:"backPicture,omitempty"`
	FrontWatermarked string `json:"frontPictureWatermarked,omitempty"`
	BackWatermarked  string `json:"backPictureWatermarked,omitempty"`
	FrontThumbnail   string `json:"frontPictureThumbnail,omitempty"`
	BackThumbnail    string `json:"backPictureThumbnail,omitempty"`
}

// All returns the six image fields in storage order, empty ones included.
func (i Images) All() []string {
	return []string{i.Front, i.Back, i.FrontWatermarked, i.BackWatermarked, i.FrontThumbnail, i.BackThumbnail}
}

// Contains reports whether url equals any non-empty image field.
func (i Images) Contains(url string) bool {
	if url == "" {
		return false
	}
	for _, u := range i.All() {
		if u == url {
			return true
		}
	}
	return false
}

func (b *Banknote) GroupCategory() string { return b.Category }
func (b *Banknote) GroupSultan() string   { return b.SultanName }

// Sort keys accepted by BanknoteFilter.Sort.
const (
	SortExtendedPick = "extPick"
	SortFaceValue    = "faceValue"
	SortNewest       = "newest"
	SortSultan       = "sultan"
)

// BanknoteFilter narrows a catalog listing for one country.
type BanknoteFilter struct {
	CountryID  string   `json:"countryId"`
	Search     string   `json:"search,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Types      []string `json:"types,omitempty"`
	Sort       string   `json:"sort,omitempty"`
}
