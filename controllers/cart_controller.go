package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/veloradesign/velorabackend/cart"
)

const cartCookie = "cart_session"

type cartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	VariantID string `json:"variantId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// session returns the caller's cart engine, minting a session cookie on
// first touch. Each session's cart starts empty and lives only as long as
// the session store keeps it.
func (a *App) session(c *gin.Context) *cart.Engine {
	id, err := c.Cookie(cartCookie)
	if err != nil || id == "" {
		id = cart.NewSessionID()
		c.SetCookie(cartCookie, id, 0, "/", "", false, true)
	}
	return a.Carts.Session(id)
}

// GetCart renders the current cart with its derived aggregates.
func (a *App) GetCart() gin.HandlerFunc {
	return func(c *gin.Context) {
		engine := a.session(c)
		c.JSON(http.StatusOK, gin.H{
			"items":      engine.Items(),
			"total":      engine.Total(),
			"totalItems": engine.TotalItems(),
		})
	}
}

// AddCartItem merges a (product, variant, quantity) selection into the
// cart. The product is loaded fresh so the cart line snapshots current
// prices.
func (a *App) AddCartItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body cartItemRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "productId and variantId are required"})
			return
		}
		if body.Quantity <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be positive"})
			return
		}

		product, err := a.Store.FindByID(c.Request.Context(), body.ProductID)
		if err != nil {
			a.storeError(c, err)
			return
		}

		variantID, err := bson.ObjectIDFromHex(body.VariantID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid variant id"})
			return
		}
		variant := product.FindVariant(variantID)
		if variant == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "variant not found"})
			return
		}

		engine := a.session(c)
		if err := engine.AddItem(*product, *variant, body.Quantity); err != nil {
			if errors.Is(err, cart.ErrQuantity) || errors.Is(err, cart.ErrVariantMismatch) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"items":      engine.Items(),
			"total":      engine.Total(),
			"totalItems": engine.TotalItems(),
		})
	}
}

// UpdateCartItem sets an entry's quantity outright; zero or less removes
// the entry. Updating an absent pair is a no-op, not an error.
func (a *App) UpdateCartItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body cartItemRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "productId and variantId are required"})
			return
		}

		productID, err := bson.ObjectIDFromHex(body.ProductID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
			return
		}
		variantID, err := bson.ObjectIDFromHex(body.VariantID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid variant id"})
			return
		}

		engine := a.session(c)
		engine.UpdateQuantity(productID, variantID, body.Quantity)

		c.JSON(http.StatusOK, gin.H{
			"items":      engine.Items(),
			"total":      engine.Total(),
			"totalItems": engine.TotalItems(),
		})
	}
}

// RemoveCartItem drops one (product, variant) entry from the cart.
func (a *App) RemoveCartItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := bson.ObjectIDFromHex(c.Param("productId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
			return
		}
		variantID, err := bson.ObjectIDFromHex(c.Param("variantId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid variant id"})
			return
		}

		engine := a.session(c)
		engine.RemoveItem(productID, variantID)

		c.JSON(http.StatusOK, gin.H{
			"items":      engine.Items(),
			"total":      engine.Total(),
			"totalItems": engine.TotalItems(),
		})
	}
}
