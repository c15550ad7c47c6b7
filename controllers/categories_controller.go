package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/veloradesign/velorabackend/catalog"
	"github.com/veloradesign/velorabackend/utils"
)

// GetCategoryProducts serves the category listing: the filter/sort/page
// state from the query string is compiled into one catalog query and the
// paginated envelope is returned as-is. Zero matches is a normal page.
func (a *App) GetCategoryProducts() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := strings.TrimSpace(c.Param("name"))
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "category name is required"})
			return
		}

		filters := catalog.FilterState{
			Category: name,
			PriceMin: c.Query("priceMin"),
			PriceMax: c.Query("priceMax"),
			OnSale:   c.Query("onSale") == "true",
			Featured: c.Query("featured") == "true",
			InStock:  c.Query("inStock") == "true",
			Colors:   c.QueryArray("color"),
			Sizes:    c.QueryArray("size"),
			Material: c.QueryArray("material"),
			Sort:     catalog.SortKey(c.DefaultQuery("sortBy", string(catalog.SortFeatured))),
			Page:     utils.ParseIntDefault(c.Query("page"), 1),
		}

		page, err := a.Store.FindPage(c.Request.Context(), filters)
		if err != nil {
			a.storeError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       fmt.Sprintf("Products for category '%s' fetched successfully!", name),
			"data":          page.Products,
			"currentPage":   page.CurrentPage,
			"totalPages":    page.TotalPages,
			"totalProducts": page.TotalProducts,
			"limit":         catalog.PageSize,
		})
	}
}
