package models

import (
	"encoding/json"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Product categories are a closed set stored as plain strings on the document.
const (
	CategoryWomen    = "Women"
	CategoryMen      = "Men"
	CategoryChildren = "Children"
)

// ValidCategory reports whether name matches one of the known categories,
// ignoring case.
func ValidCategory(name string) bool {
	return strings.EqualFold(name, CategoryWomen) ||
		strings.EqualFold(name, CategoryMen) ||
		strings.EqualFold(name, CategoryChildren)
}

type Image struct {
	URL      string `bson:"imageUrl" json:"imageUrl"`
	PublicID string `bson:"publicId" json:"publicId"`
	FileName string `bson:"fileName,omitempty" json:"fileName,omitempty"`
}

// Variant is one stocked color/size combination of a product. Availability
// is derived from quantity, never stored.
type Variant struct {
	ID       bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Color    string        `bson:"color" json:"color"`
	ColorHex string        `bson:"colorHex,omitempty" json:"colorHex,omitempty"`
	Size     string        `bson:"size" json:"size"`
	Quantity int           `bson:"quantity" json:"quantity"`
	Images   []Image       `bson:"images" json:"images"`
}

func (v Variant) Available() bool {
	return v.Quantity > 0
}

// MarshalJSON adds the computed isAvailable field the storefront reads.
func (v Variant) MarshalJSON() ([]byte, error) {
	type alias Variant
	return json.Marshal(struct {
		alias
		IsAvailable bool `json:"isAvailable"`
	}{alias(v), v.Available()})
}

type Product struct {
	ID            bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string        `bson:"name" json:"name"`
	Description   string        `bson:"description" json:"description"`
	Price         float64       `bson:"price" json:"price"`
	OriginalPrice float64       `bson:"originalPrice" json:"originalPrice"`
	DiscountPrice *float64      `bson:"discountPrice" json:"discountPrice"`
	Category      string        `bson:"category" json:"category"`
	MainImage     Image         `bson:"mainImage" json:"mainImage"`
	Material      string        `bson:"material,omitempty" json:"material,omitempty"`
	Weight        float64       `bson:"weight,omitempty" json:"weight,omitempty"`
	IsActive      bool          `bson:"isActive" json:"isActive"`
	Featured      bool          `bson:"featured" json:"featured"`
	Variants      []Variant     `bson:"variants" json:"variants"`
	CreatedAt     time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// EffectivePrice is the price the shopper actually pays: the discount price
// when one is set, the regular price otherwise.
func (p Product) EffectivePrice() float64 {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Price
}

// FindVariant returns the variant with the given id, or nil.
func (p Product) FindVariant(id bson.ObjectID) *Variant {
	for i := range p.Variants {
		if p.Variants[i].ID == id {
			return &p.Variants[i]
		}
	}
	return nil
}
