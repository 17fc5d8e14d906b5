package models

import "time"

type Country struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	DisplayOrder int       `json:"displayOrder"`
	CreatedAt    time.Time `json:"createdAt"`
}

// DefinitionKind names a country-scoped lookup table with a display order.
type DefinitionKind string

const (
	KindCategories DefinitionKind = "categories"
	KindTypes      DefinitionKind = "types"
	KindSultans    DefinitionKind = "sultans"
	KindCurrencies DefinitionKind = "currencies"
	KindStamps     DefinitionKind = "stamps"
)

// DefinitionKinds lists every valid kind, in the order they are shown to admins.
var DefinitionKinds = []DefinitionKind{KindCategories, KindTypes, KindSultans, KindCurrencies, KindStamps}

// Valid reports whether k is a known kind.
func (k DefinitionKind) Valid() bool {
	for _, known := range DefinitionKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Definition is a row of one of the country-scoped lookup tables:
// banknote categories, types, sultans, currencies or stamps.
type Definition struct {
	ID           string         `json:"id"`
	Kind         DefinitionKind `json:"kind"`
	CountryID    string         `json:"countryId"`
	Name         string         `json:"name"`
	DisplayOrder int            `json:"displayOrder"`
	ImageURL     string         `json:"imageUrl,omitempty"`
}
