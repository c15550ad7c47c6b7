package dto

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/veloradesign/velorabackend/models"
)

// NullableFloat distinguishes an absent JSON field from an explicit null:
// Set is false when the field never appeared, true with a nil Value when
// the payload carried null. That lets an update clear a discount instead
// of merely leaving it alone.
type NullableFloat struct {
	Set   bool
	Value *float64
}

func (n *NullableFloat) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

type ImageDTO struct {
	URL      string `json:"imageUrl"`
	PublicID string `json:"publicId"`
	FileName string `json:"fileName"`
}

func (i ImageDTO) complete() bool {
	return i.URL != "" && i.PublicID != ""
}

func (i ImageDTO) model() models.Image {
	return models.Image{URL: i.URL, PublicID: i.PublicID, FileName: i.FileName}
}

type VariantDTO struct {
	Color    string     `json:"color"`
	ColorHex string     `json:"colorHex"`
	Size     string     `json:"size"`
	Quantity *int       `json:"quantity"`
	Images   []ImageDTO `json:"images"`
}

func (v VariantDTO) validate() error {
	if v.Color == "" {
		return errors.New("variant color is required")
	}
	if v.Size == "" {
		return errors.New("variant size is required")
	}
	if v.Quantity == nil {
		return errors.New("variant quantity is required")
	}
	if *v.Quantity < 0 {
		return errors.New("variant quantity cannot be negative")
	}
	if len(v.Images) == 0 {
		return errors.New("at least one image is required for each variant")
	}
	for _, img := range v.Images {
		if !img.complete() {
			return errors.New("variant image details (imageUrl, publicId) are required")
		}
	}
	return nil
}

func (v VariantDTO) model() models.Variant {
	images := make([]models.Image, 0, len(v.Images))
	for _, img := range v.Images {
		images = append(images, img.model())
	}
	return models.Variant{
		ID:       bson.NewObjectID(),
		Color:    v.Color,
		ColorHex: v.ColorHex,
		Size:     v.Size,
		Quantity: *v.Quantity,
		Images:   images,
	}
}

type CreateProductDTO struct {
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	Price         float64      `json:"price"`
	OriginalPrice float64      `json:"originalPrice"`
	DiscountPrice *float64     `json:"discountPrice"`
	Category      string       `json:"category"`
	MainImage     ImageDTO     `json:"mainImage"`
	Material      string       `json:"material"`
	Weight        float64      `json:"weight"`
	Featured      bool         `json:"featured"`
	Variants      []VariantDTO `json:"variants"`
}

// Validate enforces the admin mutation contract in one place: the data
// layer does not re-check any of this.
func (d CreateProductDTO) Validate() error {
	if d.Name == "" {
		return errors.New("name is required")
	}
	if d.Description == "" {
		return errors.New("description is required")
	}
	if d.Price <= 0 {
		return errors.New("price must be positive")
	}
	if d.OriginalPrice <= 0 {
		return errors.New("original price must be positive")
	}
	if d.DiscountPrice != nil {
		if *d.DiscountPrice < 0 {
			return errors.New("discount price cannot be negative")
		}
		if *d.DiscountPrice > d.Price {
			return errors.New("discount price cannot exceed price")
		}
	}
	if !models.ValidCategory(d.Category) {
		return fmt.Errorf("unknown category %q", d.Category)
	}
	if !d.MainImage.complete() {
		return errors.New("main image details (imageUrl, publicId) are required")
	}
	if d.Weight < 0 {
		return errors.New("weight cannot be negative")
	}
	if len(d.Variants) == 0 {
		return errors.New("at least one product variant is required")
	}
	for _, v := range d.Variants {
		if err := v.validate(); err != nil {
			return err
		}
	}
	return nil
}

// Product converts the validated payload into the stored shape.
func (d CreateProductDTO) Product() models.Product {
	variants := make([]models.Variant, 0, len(d.Variants))
	for _, v := range d.Variants {
		variants = append(variants, v.model())
	}
	return models.Product{
		Name:          d.Name,
		Description:   d.Description,
		Price:         d.Price,
		OriginalPrice: d.OriginalPrice,
		DiscountPrice: d.DiscountPrice,
		Category:      d.Category,
		MainImage:     d.MainImage.model(),
		Material:      d.Material,
		Weight:        d.Weight,
		IsActive:      true,
		Featured:      d.Featured,
		Variants:      variants,
	}
}

type UpdateProductDTO struct {
	Name          *string       `json:"name,omitempty"`
	Description   *string       `json:"description,omitempty"`
	Price         *float64      `json:"price,omitempty"`
	OriginalPrice *float64      `json:"originalPrice,omitempty"`
	DiscountPrice NullableFloat `json:"discountPrice,omitempty"`
	Category      *string       `json:"category,omitempty"`
	MainImage     *ImageDTO     `json:"mainImage,omitempty"`
	Material      *string       `json:"material,omitempty"`
	Weight        *float64      `json:"weight,omitempty"`
	IsActive      *bool         `json:"isActive,omitempty"`
	Featured      *bool         `json:"featured,omitempty"`
	Variants      []VariantDTO  `json:"variants,omitempty"`
}

// Empty reports whether the payload carries no updates at all.
func (d UpdateProductDTO) Empty() bool {
	return d.Name == nil && d.Description == nil && d.Price == nil &&
		d.OriginalPrice == nil && !d.DiscountPrice.Set && d.Category == nil &&
		d.MainImage == nil && d.Material == nil && d.Weight == nil &&
		d.IsActive == nil && d.Featured == nil && d.Variants == nil
}

// Validate checks every supplied field against the same contract as
// create. currentPrice is the stored price, used to bound a discount when
// the payload updates the discount without touching the price.
func (d UpdateProductDTO) Validate(currentPrice float64) error {
	if d.Name != nil && *d.Name == "" {
		return errors.New("name cannot be empty")
	}
	if d.Description != nil && *d.Description == "" {
		return errors.New("description cannot be empty")
	}
	if d.Price != nil && *d.Price <= 0 {
		return errors.New("price must be positive")
	}
	if d.OriginalPrice != nil && *d.OriginalPrice <= 0 {
		return errors.New("original price must be positive")
	}
	if d.DiscountPrice.Set && d.DiscountPrice.Value != nil {
		price := currentPrice
		if d.Price != nil {
			price = *d.Price
		}
		if *d.DiscountPrice.Value < 0 {
			return errors.New("discount price cannot be negative")
		}
		if *d.DiscountPrice.Value > price {
			return errors.New("discount price cannot exceed price")
		}
	}
	if d.Category != nil && !models.ValidCategory(*d.Category) {
		return fmt.Errorf("unknown category %q", *d.Category)
	}
	if d.MainImage != nil && !d.MainImage.complete() {
		return errors.New("main image details (imageUrl, publicId) are required if mainImage is being updated")
	}
	if d.Weight != nil && *d.Weight < 0 {
		return errors.New("weight cannot be negative")
	}
	if d.Variants != nil {
		if len(d.Variants) == 0 {
			return errors.New("product variants array cannot be empty if provided for update")
		}
		for _, v := range d.Variants {
			if err := v.validate(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Set builds the partial $set document for the supplied fields only.
func (d UpdateProductDTO) Set() bson.M {
	set := bson.M{}
	if d.Name != nil {
		set["name"] = *d.Name
	}
	if d.Description != nil {
		set["description"] = *d.Description
	}
	if d.Price != nil {
		set["price"] = *d.Price
	}
	if d.OriginalPrice != nil {
		set["originalPrice"] = *d.OriginalPrice
	}
	if d.DiscountPrice.Set {
		if d.DiscountPrice.Value != nil {
			set["discountPrice"] = *d.DiscountPrice.Value
		} else {
			// explicit null clears the discount
			set["discountPrice"] = nil
		}
	}
	if d.Category != nil {
		set["category"] = *d.Category
	}
	if d.MainImage != nil {
		set["mainImage"] = d.MainImage.model()
	}
	if d.Material != nil {
		set["material"] = *d.Material
	}
	if d.Weight != nil {
		set["weight"] = *d.Weight
	}
	if d.IsActive != nil {
		set["isActive"] = *d.IsActive
	}
	if d.Featured != nil {
		set["featured"] = *d.Featured
	}
	if d.Variants != nil {
		variants := make([]models.Variant, 0, len(d.Variants))
		for _, v := range d.Variants {
			variants = append(variants, v.model())
		}
		set["variants"] = variants
	}
	return set
}
