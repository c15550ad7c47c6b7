// Package cart holds what the shopper intends to buy. The engine is a
// small state machine over (productId, variantId) pairs: adding an
// already-present pair accumulates quantity, a quantity update of zero or
// less removes the pair, and a product group never outlives its last
// variant entry. Totals are memoized and refreshed on every mutation, so
// reads are never stale and never recompute.
package cart

import (
	"errors"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/veloradesign/velorabackend/models"
)

var (
	// ErrQuantity is returned when AddItem is called with a non-positive
	// quantity. Validation normally happens in the form layer first.
	ErrQuantity = errors.New("cart: quantity must be positive")
	// ErrVariantMismatch is returned when the variant does not belong to
	// the product it was added under.
	ErrVariantMismatch = errors.New("cart: variant does not belong to product")
)

// Entry is one chosen variant and how many of it.
type Entry struct {
	Variant  models.Variant `json:"variant"`
	Quantity int            `json:"quantity"`
}

// LineGroup is the set of entries in the cart belonging to one product.
type LineGroup struct {
	Product models.Product `json:"product"`
	Entries []Entry        `json:"entries"`
}

// Engine is the single owner of one session's cart state. Every mutation
// is serialized through its mutex, so two concurrent additions of the
// same variant can never lose an update.
type Engine struct {
	mu     sync.Mutex
	groups []*LineGroup

	total float64
	count int
}

func New() *Engine {
	return &Engine{}
}

// AddItem merges (product, variant, qty) into the cart. Re-adding a
// variant already in the cart increments its quantity rather than
// duplicating the line.
func (e *Engine) AddItem(product models.Product, variant models.Variant, qty int) error {
	if qty <= 0 {
		return ErrQuantity
	}
	if product.FindVariant(variant.ID) == nil {
		return ErrVariantMismatch
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	g := e.group(product.ID)
	if g == nil {
		snap := product
		snap.Variants = nil // chosen variants live in the entries
		e.groups = append(e.groups, &LineGroup{
			Product: snap,
			Entries: []Entry{{Variant: variant, Quantity: qty}},
		})
		e.recompute()
		return nil
	}

	for i := range g.Entries {
		if g.Entries[i].Variant.ID == variant.ID {
			g.Entries[i].Quantity += qty
			e.recompute()
			return nil
		}
	}

	g.Entries = append(g.Entries, Entry{Variant: variant, Quantity: qty})
	e.recompute()
	return nil
}

// RemoveItem drops the (productID, variantID) entry and prunes its group
// when that was the last entry. Removing an absent pair is a no-op.
func (e *Engine) RemoveItem(productID, variantID bson.ObjectID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.remove(productID, variantID)
}

// UpdateQuantity sets the entry's quantity outright. Zero or negative
// means "take it out of the cart".
func (e *Engine) UpdateQuantity(productID, variantID bson.ObjectID, qty int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if qty <= 0 {
		e.remove(productID, variantID)
		return
	}

	g := e.group(productID)
	if g == nil {
		return
	}
	for i := range g.Entries {
		if g.Entries[i].Variant.ID == variantID {
			g.Entries[i].Quantity = qty
			e.recompute()
			return
		}
	}
}

// ItemCount returns the quantity held for the pair, 0 when absent.
func (e *Engine) ItemCount(productID, variantID bson.ObjectID) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	g := e.group(productID)
	if g == nil {
		return 0
	}
	for i := range g.Entries {
		if g.Entries[i].Variant.ID == variantID {
			return g.Entries[i].Quantity
		}
	}
	return 0
}

// Total is the memoized sum of effective unit price times quantity across
// every entry in the cart.
func (e *Engine) Total() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.total
}

// TotalItems is the memoized sum of all entry quantities.
func (e *Engine) TotalItems() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.count
}

// Items returns a snapshot of the cart for rendering. Mutating the
// returned slice does not touch engine state.
func (e *Engine) Items() []LineGroup {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]LineGroup, 0, len(e.groups))
	for _, g := range e.groups {
		cp := LineGroup{Product: g.Product, Entries: make([]Entry, len(g.Entries))}
		copy(cp.Entries, g.Entries)
		out = append(out, cp)
	}
	return out
}

// group finds the line group for a product id. Caller holds the lock.
func (e *Engine) group(productID bson.ObjectID) *LineGroup {
	for _, g := range e.groups {
		if g.Product.ID == productID {
			return g
		}
	}
	return nil
}

func (e *Engine) remove(productID, variantID bson.ObjectID) {
	for gi, g := range e.groups {
		if g.Product.ID != productID {
			continue
		}
		for i := range g.Entries {
			if g.Entries[i].Variant.ID == variantID {
				g.Entries = append(g.Entries[:i], g.Entries[i+1:]...)
				if len(g.Entries) == 0 {
					e.groups = append(e.groups[:gi], e.groups[gi+1:]...)
				}
				e.recompute()
				return
			}
		}
		return
	}
}

// recompute refreshes the memoized aggregates. Caller holds the lock.
func (e *Engine) recompute() {
	total := 0.0
	count := 0
	for _, g := range e.groups {
		unit := g.Product.EffectivePrice()
		for i := range g.Entries {
			total += unit * float64(g.Entries[i].Quantity)
			count += g.Entries[i].Quantity
		}
	}
	e.total = total
	e.count = count
}
