package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/veloradesign/velorabackend/models"
)

var (
	ErrInvalidID = errors.New("catalog: invalid product id")
	ErrNotFound  = errors.New("catalog: product not found")
)

// RelatedLimit caps the related-products query.
const RelatedLimit = 5

// Page is the response envelope for one listing page. An empty Products
// slice is a valid result, not an error.
type Page struct {
	Products      []models.Product `json:"data"`
	CurrentPage   int              `json:"currentPage"`
	TotalPages    int              `json:"totalPages"`
	TotalProducts int64            `json:"totalProducts"`
}

// Store executes catalog queries against the products collection.
type Store struct {
	col *mongo.Collection
}

func NewStore(col *mongo.Collection) *Store {
	return &Store{col: col}
}

// FindPage runs the compiled filter query and interprets the envelope.
// effectivePrice is materialized first so price bounds and price sorts see
// the discount price where one exists.
func (s *Store) FindPage(ctx context.Context, f FilterState) (*Page, error) {
	q := f.Query()

	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"effectivePrice": bson.M{"$ifNull": bson.A{"$discountPrice", "$price"}},
		}}},
		{{Key: "$match", Value: q.Match}},
		{{Key: "$sort", Value: q.Sort}},
		{{Key: "$facet", Value: bson.M{
			"data": bson.A{
				bson.M{"$skip": q.Skip},
				bson.M{"$limit": q.Limit},
				bson.M{"$unset": "effectivePrice"},
			},
			"total": bson.A{bson.M{"$count": "count"}},
		}}},
	}

	cursor, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("catalog query: %w", err)
	}
	defer cursor.Close(ctx)

	var envelope []struct {
		Data  []models.Product `bson:"data"`
		Total []struct {
			Count int64 `bson:"count"`
		} `bson:"total"`
	}
	if err := cursor.All(ctx, &envelope); err != nil {
		return nil, fmt.Errorf("catalog decode: %w", err)
	}

	page := int(q.Skip/PageSize) + 1
	result := &Page{
		Products:    []models.Product{},
		CurrentPage: page,
	}
	if len(envelope) > 0 {
		result.Products = append(result.Products, envelope[0].Data...)
		if len(envelope[0].Total) > 0 {
			result.TotalProducts = envelope[0].Total[0].Count
		}
	}
	result.TotalPages = int((result.TotalProducts + PageSize - 1) / PageSize)
	return result, nil
}

// FindByID distinguishes a malformed id (ErrInvalidID) from a missing
// document (ErrNotFound) so handlers can route them differently.
func (s *Store) FindByID(ctx context.Context, id string) (*models.Product, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	var p models.Product
	if err := s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("catalog find: %w", err)
	}
	return &p, nil
}

// Related returns up to RelatedLimit products sharing the source
// product's category, never the source itself.
func (s *Store) Related(ctx context.Context, id string) ([]models.Product, error) {
	current, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	filter := bson.M{
		"category": current.Category,
		"_id":      bson.M{"$ne": current.ID},
	}
	cursor, err := s.col.Find(ctx, filter, options.Find().SetLimit(RelatedLimit))
	if err != nil {
		return nil, fmt.Errorf("catalog related: %w", err)
	}
	defer cursor.Close(ctx)

	return decodeProducts(ctx, cursor)
}

// Featured returns all featured products, newest first.
func (s *Store) Featured(ctx context.Context) ([]models.Product, error) {
	return s.find(ctx, bson.M{"featured": true})
}

// All returns every product, newest first. Used by the admin console.
func (s *Store) All(ctx context.Context) ([]models.Product, error) {
	return s.find(ctx, bson.M{})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("catalog find: %w", err)
	}
	defer cursor.Close(ctx)

	return decodeProducts(ctx, cursor)
}

// Insert stores a new product and fills in its id and timestamps.
func (s *Store) Insert(ctx context.Context, p *models.Product) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	for i := range p.Variants {
		if p.Variants[i].ID.IsZero() {
			p.Variants[i].ID = bson.NewObjectID()
		}
	}

	res, err := s.col.InsertOne(ctx, p)
	if err != nil {
		return fmt.Errorf("catalog insert: %w", err)
	}
	if oid, ok := res.InsertedID.(bson.ObjectID); ok {
		p.ID = oid
	}
	return nil
}

// Update applies the partial $set document and returns the updated
// product.
func (s *Store) Update(ctx context.Context, id string, set bson.M) (*models.Product, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	set["updatedAt"] = time.Now().UTC()
	res, err := s.col.UpdateByID(ctx, oid, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("catalog update: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return s.FindByID(ctx, id)
}

// Delete removes the product and returns it so the caller can clean up
// its hosted images.
func (s *Store) Delete(ctx context.Context, id string) (*models.Product, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	var p models.Product
	if err := s.col.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("catalog delete: %w", err)
	}
	return &p, nil
}

func decodeProducts(ctx context.Context, cursor *mongo.Cursor) ([]models.Product, error) {
	products := make([]models.Product, 0)
	for cursor.Next(ctx) {
		var p models.Product
		if err := cursor.Decode(&p); err != nil {
			return nil, fmt.Errorf("catalog decode: %w", err)
		}
		products = append(products, p)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("catalog cursor: %w", err)
	}
	return products, nil
}
