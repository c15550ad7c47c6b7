package catalog

import (
	"context"
	"fmt"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/veloradesign/velorabackend/models"
)

var testClient *mongo.Client

func setupTestMongo() (func(context.Context, ...testcontainers.TerminateOption) error, error) {
	ctr, err := mongodb.Run(context.Background(), "mongo:7")
	if err != nil {
		return nil, err
	}

	uri, err := ctr.ConnectionString(context.Background())
	if err != nil {
		return ctr.Terminate, err
	}

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return ctr.Terminate, err
	}
	if err := client.Ping(context.Background(), readpref.Primary()); err != nil {
		return ctr.Terminate, err
	}

	testClient = client
	return ctr.Terminate, nil
}

func TestMain(m *testing.M) {
	teardown, err := setupTestMongo()
	if err != nil {
		log.Fatalf("could not start mongo container: %v", err)
	}

	m.Run()

	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Fatalf("could not teardown mongo container: %v", err)
		}
	}
}

// testStore gives every test its own collection so they cannot see each
// other's documents.
func testStore(t *testing.T) *Store {
	t.Helper()
	col := testClient.Database("velora_test").Collection(t.Name())
	t.Cleanup(func() {
		_ = col.Drop(context.Background())
	})
	return NewStore(col)
}

func seedProduct(i int) models.Product {
	p := models.Product{
		Name:          fmt.Sprintf("Garment %02d", i),
		Description:   "seeded",
		Price:         float64(20 + i%5), // deliberate price ties
		OriginalPrice: 60,
		Category:      models.CategoryWomen,
		MainImage:     models.Image{URL: "https://cdn.example/m.jpg", PublicID: "m"},
		IsActive:      true,
		Variants: []models.Variant{{
			ID:       bson.NewObjectID(),
			Color:    "Black",
			Size:     "M",
			Quantity: 2,
			Images:   []models.Image{{URL: "https://cdn.example/v.jpg", PublicID: "v"}},
		}},
	}
	if i%3 == 0 {
		d := p.Price - 5
		p.DiscountPrice = &d
	}
	return p
}

func TestFindPagePartitionsResults(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	const active = 30
	for i := 0; i < active; i++ {
		p := seedProduct(i)
		require.NoError(t, store.Insert(ctx, &p))
	}
	// hidden products never count toward the listing
	hidden := seedProduct(99)
	hidden.IsActive = false
	require.NoError(t, store.Insert(ctx, &hidden))

	seen := make(map[bson.ObjectID]bool)
	var all []models.Product
	for page := 1; ; page++ {
		res, err := store.FindPage(ctx, FilterState{Sort: SortPriceLow, Page: page})
		require.NoError(t, err)

		assert.Equal(t, page, res.CurrentPage)
		assert.EqualValues(t, active, res.TotalProducts)
		assert.LessOrEqual(t, len(res.Products), PageSize)

		for _, p := range res.Products {
			assert.False(t, seen[p.ID], "product %s appeared on two pages", p.ID.Hex())
			seen[p.ID] = true
		}
		all = append(all, res.Products...)

		if page >= res.TotalPages {
			// one past the end is a valid, empty page
			over, err := store.FindPage(ctx, FilterState{Sort: SortPriceLow, Page: page + 1})
			require.NoError(t, err)
			assert.Empty(t, over.Products)
			break
		}
	}

	// concatenating the pages yields every active product exactly once,
	// in one globally sorted order despite the price ties
	require.Len(t, all, active)
	for i := 1; i < len(all); i++ {
		assert.LessOrEqual(t, all[i-1].EffectivePrice(), all[i].EffectivePrice())
	}
}

func TestFindPageFiltersOnEffectivePrice(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	full := seedProduct(1) // price 21, no discount
	require.NoError(t, store.Insert(ctx, &full))
	sale := seedProduct(2) // price 22
	d := 10.0
	sale.DiscountPrice = &d
	require.NoError(t, store.Insert(ctx, &sale))

	res, err := store.FindPage(ctx, FilterState{PriceMax: "15"})
	require.NoError(t, err)
	require.Len(t, res.Products, 1)
	assert.Equal(t, sale.ID, res.Products[0].ID)
}

func TestStoreRoundTrip(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	p := seedProduct(0) // i%3==0: discounted
	require.NoError(t, store.Insert(ctx, &p))
	require.False(t, p.ID.IsZero())
	require.NotNil(t, p.DiscountPrice)

	got, err := store.FindByID(ctx, p.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)

	// a nil $set value clears the discount on the stored document
	updated, err := store.Update(ctx, p.ID.Hex(), bson.M{"discountPrice": nil})
	require.NoError(t, err)
	assert.Nil(t, updated.DiscountPrice)
	assert.True(t, updated.UpdatedAt.After(time.Time{}))

	deleted, err := store.Delete(ctx, p.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, p.ID, deleted.ID)

	_, err = store.FindByID(ctx, p.ID.Hex())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.FindByID(ctx, "not-a-hex-id")
	assert.ErrorIs(t, err, ErrInvalidID)
}
