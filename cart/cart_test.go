package cart

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/veloradesign/velorabackend/models"
)

func makeVariant(size string, qty int) models.Variant {
	return models.Variant{
		ID:       bson.NewObjectID(),
		Color:    "Black",
		Size:     size,
		Quantity: qty,
		Images:   []models.Image{{URL: "https://cdn.example/img.jpg", PublicID: "img"}},
	}
}

func makeProduct(price float64, discount *float64, variants ...models.Variant) models.Product {
	return models.Product{
		ID:            bson.NewObjectID(),
		Name:          "Linen Shirt",
		Price:         price,
		OriginalPrice: price,
		DiscountPrice: discount,
		Category:      models.CategoryMen,
		IsActive:      true,
		Variants:      variants,
	}
}

func TestAddItemMergesSameVariant(t *testing.T) {
	v := makeVariant("M", 10)
	p := makeProduct(100, nil, v)
	e := New()

	require.NoError(t, e.AddItem(p, v, 1))
	require.NoError(t, e.AddItem(p, v, 2))

	// 3, not 2 (last write) and not two separate lines
	assert.Equal(t, 3, e.ItemCount(p.ID, v.ID))
	groups := e.Items()
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Entries, 1)
}

func TestAddItemNewVariantAppendsEntry(t *testing.T) {
	v1 := makeVariant("M", 10)
	v2 := makeVariant("L", 10)
	p := makeProduct(100, nil, v1, v2)
	e := New()

	require.NoError(t, e.AddItem(p, v1, 1))
	require.NoError(t, e.AddItem(p, v2, 1))

	groups := e.Items()
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Entries, 2)
}

func TestAddItemPreconditions(t *testing.T) {
	v := makeVariant("M", 10)
	p := makeProduct(100, nil, v)
	e := New()

	assert.ErrorIs(t, e.AddItem(p, v, 0), ErrQuantity)
	assert.ErrorIs(t, e.AddItem(p, v, -1), ErrQuantity)

	stray := makeVariant("S", 5)
	assert.ErrorIs(t, e.AddItem(p, stray, 1), ErrVariantMismatch)

	assert.Equal(t, 0, e.TotalItems())
}

func TestRemoveItemThenCountIsZero(t *testing.T) {
	v := makeVariant("M", 10)
	p := makeProduct(100, nil, v)
	e := New()

	require.NoError(t, e.AddItem(p, v, 4))
	e.RemoveItem(p.ID, v.ID)

	assert.Equal(t, 0, e.ItemCount(p.ID, v.ID))
	assert.Empty(t, e.Items())
}

func TestRemoveAbsentPairIsNoOp(t *testing.T) {
	v := makeVariant("M", 10)
	p := makeProduct(100, nil, v)
	e := New()
	require.NoError(t, e.AddItem(p, v, 1))

	e.RemoveItem(bson.NewObjectID(), bson.NewObjectID())
	e.RemoveItem(p.ID, bson.NewObjectID())

	assert.Equal(t, 1, e.TotalItems())
}

func TestUpdateQuantitySetsAbsolute(t *testing.T) {
	v := makeVariant("M", 10)
	p := makeProduct(100, nil, v)
	e := New()

	require.NoError(t, e.AddItem(p, v, 2))
	e.UpdateQuantity(p.ID, v.ID, 7)

	assert.Equal(t, 7, e.ItemCount(p.ID, v.ID))
}

func TestUpdateQuantityNonPositiveRemoves(t *testing.T) {
	for _, qty := range []int{0, -3} {
		v := makeVariant("M", 10)
		p := makeProduct(100, nil, v)
		e := New()
		require.NoError(t, e.AddItem(p, v, 2))

		e.UpdateQuantity(p.ID, v.ID, qty)

		assert.Equal(t, 0, e.ItemCount(p.ID, v.ID))
		assert.Empty(t, e.Items(), "no phantom line may remain")
	}
}

func TestGroupPrunedWithLastEntry(t *testing.T) {
	v1 := makeVariant("M", 10)
	v2 := makeVariant("L", 10)
	p := makeProduct(100, nil, v1, v2)
	e := New()

	require.NoError(t, e.AddItem(p, v1, 1))
	require.NoError(t, e.AddItem(p, v2, 1))

	e.RemoveItem(p.ID, v1.ID)
	groups := e.Items()
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Entries, 1)

	e.RemoveItem(p.ID, v2.ID)
	assert.Empty(t, e.Items())

	// a group is never observable with zero entries
	for _, g := range e.Items() {
		assert.NotEmpty(t, g.Entries)
	}
}

func TestTotalUsesEffectivePrice(t *testing.T) {
	discount := 80.0
	vA := makeVariant("M", 10)
	a := makeProduct(100, &discount, vA)
	vB := makeVariant("L", 10)
	b := makeProduct(50, nil, vB)

	e := New()
	require.NoError(t, e.AddItem(a, vA, 2))
	require.NoError(t, e.AddItem(b, vB, 3))

	// 80*2 + 50*3
	assert.InDelta(t, 310.0, e.Total(), 1e-9)
	assert.Equal(t, 5, e.TotalItems())
}

func TestTotalsRefreshOnEveryMutation(t *testing.T) {
	v := makeVariant("M", 10)
	p := makeProduct(20, nil, v)
	e := New()

	require.NoError(t, e.AddItem(p, v, 1))
	assert.InDelta(t, 20.0, e.Total(), 1e-9)

	e.UpdateQuantity(p.ID, v.ID, 5)
	assert.InDelta(t, 100.0, e.Total(), 1e-9)
	assert.Equal(t, 5, e.TotalItems())

	e.RemoveItem(p.ID, v.ID)
	assert.Zero(t, e.Total())
	assert.Zero(t, e.TotalItems())
}

// Property: for any sequence of AddItem calls on the same pair, the
// resulting quantity is the sum of the quantities passed.
func TestProperty_CartQuantities(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("quantities accumulate across repeated adds", prop.ForAll(
		func(quantities []int) bool {
			v := makeVariant("M", 100)
			p := makeProduct(10, nil, v)
			e := New()

			sum := 0
			for _, q := range quantities {
				if err := e.AddItem(p, v, q); err != nil {
					return false
				}
				sum += q
			}
			return e.ItemCount(p.ID, v.ID) == sum && e.TotalItems() == sum
		},
		gen.SliceOf(gen.IntRange(1, 20)),
	))

	properties.Property("updateQuantity with n <= 0 equals removeItem", prop.ForAll(
		func(initial, n int) bool {
			v := makeVariant("M", 100)
			p := makeProduct(10, nil, v)

			updated := New()
			if err := updated.AddItem(p, v, initial); err != nil {
				return false
			}
			updated.UpdateQuantity(p.ID, v.ID, n)

			removed := New()
			if err := removed.AddItem(p, v, initial); err != nil {
				return false
			}
			removed.RemoveItem(p.ID, v.ID)

			return updated.ItemCount(p.ID, v.ID) == removed.ItemCount(p.ID, v.ID) &&
				len(updated.Items()) == len(removed.Items())
		},
		gen.IntRange(1, 20),
		gen.IntRange(-5, 0),
	))

	properties.TestingRun(t)
}
