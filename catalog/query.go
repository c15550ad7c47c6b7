// Package catalog turns listing-page filter state into product store
// queries and manages the fetch lifecycle around them.
package catalog

import (
	"regexp"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/veloradesign/velorabackend/utils"
)

// PageSize is fixed for every listing page.
const PageSize = 12

type SortKey string

const (
	SortFeatured  SortKey = "featured"
	SortNewest    SortKey = "newest"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortName      SortKey = "name"
)

// FilterState is the full set of active filter/sort/page selections for a
// category listing. Price bounds stay raw strings: a bound that does not
// parse as a number is omitted from the query, not an error.
type FilterState struct {
	Category string
	PriceMin string
	PriceMax string
	OnSale   bool
	Featured bool
	InStock  bool
	Colors   []string
	Sizes    []string
	Material []string
	Sort     SortKey
	Page     int
}

// Query is the backend-executable descriptor: a predicate, a sort spec
// and a skip/limit window. Price predicates and price sorts reference the
// effectivePrice field the store materializes before matching, so sale
// prices filter and order the way the shopper sees them.
type Query struct {
	Match bson.D
	Sort  bson.D
	Skip  int64
	Limit int64
}

// Query compiles the filter state deterministically.
func (f FilterState) Query() Query {
	match := bson.D{{Key: "isActive", Value: true}}

	if f.Category != "" {
		match = append(match, bson.E{Key: "category", Value: bson.M{
			"$regex":   "^" + regexp.QuoteMeta(f.Category) + "$",
			"$options": "i",
		}})
	}

	price := bson.M{}
	if min, ok := utils.ParseFloatQuery(f.PriceMin); ok {
		price["$gte"] = min
	}
	if max, ok := utils.ParseFloatQuery(f.PriceMax); ok {
		price["$lte"] = max
	}
	if len(price) > 0 {
		match = append(match, bson.E{Key: "effectivePrice", Value: price})
	}

	if f.OnSale {
		match = append(match, bson.E{Key: "discountPrice", Value: bson.M{
			"$exists": true,
			"$ne":     nil,
		}})
	}
	if f.Featured {
		match = append(match, bson.E{Key: "featured", Value: true})
	}
	if f.InStock {
		match = append(match, bson.E{Key: "variants.quantity", Value: bson.M{"$gt": 0}})
	}
	if len(f.Colors) > 0 {
		match = append(match, bson.E{Key: "variants.color", Value: bson.M{"$in": f.Colors}})
	}
	if len(f.Sizes) > 0 {
		match = append(match, bson.E{Key: "variants.size", Value: bson.M{"$in": f.Sizes}})
	}
	if len(f.Material) > 0 {
		match = append(match, bson.E{Key: "material", Value: bson.M{"$in": f.Material}})
	}

	var sort bson.D
	switch f.Sort {
	case SortPriceLow:
		sort = bson.D{{Key: "effectivePrice", Value: 1}}
	case SortPriceHigh:
		sort = bson.D{{Key: "effectivePrice", Value: -1}}
	case SortName:
		sort = bson.D{{Key: "name", Value: 1}}
	case SortNewest:
		sort = bson.D{{Key: "createdAt", Value: -1}}
	case SortFeatured:
		fallthrough
	default:
		// Prioritize featured, then newest
		sort = bson.D{{Key: "featured", Value: -1}, {Key: "createdAt", Value: -1}}
	}
	// _id keeps the order total so pages never overlap or skip under ties.
	sort = append(sort, bson.E{Key: "_id", Value: 1})

	page := f.Page
	if page < 1 {
		page = 1
	}

	return Query{
		Match: match,
		Sort:  sort,
		Skip:  int64(page-1) * PageSize,
		Limit: PageSize,
	}
}
