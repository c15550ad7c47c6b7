package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/veloradesign/velorabackend/dto"
)

// GetProduct serves the product detail page.
func (a *App) GetProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := a.Store.FindByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			a.storeError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Product fetched successfully!",
			"data":    product,
		})
	}
}

// GetFeaturedProducts returns all featured products, newest first.
func (a *App) GetFeaturedProducts() gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := a.Store.Featured(c.Request.Context())
		if err != nil {
			a.storeError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Featured products fetched successfully!",
			"data":    products,
			"count":   len(products),
		})
	}
}

// GetRelatedProducts returns up to five products from the same category,
// excluding the source product.
func (a *App) GetRelatedProducts() gin.HandlerFunc {
	return func(c *gin.Context) {
		related, err := a.Store.Related(c.Request.Context(), c.Param("id"))
		if err != nil {
			a.storeError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Related products fetched successfully!",
			"data":    related,
		})
	}
}

// ListProducts returns every product, newest first, for the admin console.
func (a *App) ListProducts() gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := a.Store.All(c.Request.Context())
		if err != nil {
			a.storeError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Products fetched successfully!",
			"data":    products,
			"count":   len(products),
		})
	}
}

// AddProduct creates a product from a fully validated payload.
func (a *App) AddProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.CreateProductDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product json"})
			return
		}
		if err := body.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		product := body.Product()
		if err := a.Store.Insert(c.Request.Context(), &product); err != nil {
			a.storeError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "Product created successfully!",
			"data":    product,
		})
	}
}

// UpdateProduct applies a partial update. The current document is loaded
// first so a discount update is bounded by the stored price.
func (a *App) UpdateProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		id := c.Param("id")

		var body dto.UpdateProductDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product json"})
			return
		}
		if body.Empty() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "request body cannot be empty for an update operation"})
			return
		}

		current, err := a.Store.FindByID(ctx, id)
		if err != nil {
			a.storeError(c, err)
			return
		}
		if err := body.Validate(current.Price); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		updated, err := a.Store.Update(ctx, id, body.Set())
		if err != nil {
			a.storeError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Product updated successfully!",
			"data":    updated,
		})
	}
}

// DeleteProduct removes the product, then cleans its hosted images up in
// the background. Cleanup failures are logged and never retried or
// surfaced; an orphaned image must not fail the delete.
func (a *App) DeleteProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := a.Store.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			a.storeError(c, err)
			return
		}

		publicIDs := make([]string, 0, 1+len(product.Variants))
		if product.MainImage.PublicID != "" {
			publicIDs = append(publicIDs, product.MainImage.PublicID)
		}
		for _, v := range product.Variants {
			for _, img := range v.Images {
				if img.PublicID != "" {
					publicIDs = append(publicIDs, img.PublicID)
				}
			}
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := a.Media.Delete(ctx, publicIDs); err != nil {
				a.Log.Warn("orphaned image cleanup failed",
					zap.String("productId", product.ID.Hex()),
					zap.Error(err))
			}
		}()

		c.JSON(http.StatusOK, gin.H{
			"message": "Product deleted successfully!",
			"data":    gin.H{"id": product.ID},
		})
	}
}
