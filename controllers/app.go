package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/veloradesign/velorabackend/cart"
	"github.com/veloradesign/velorabackend/catalog"
	"github.com/veloradesign/velorabackend/media"
)

// App carries the handlers' dependencies. Everything is constructed once
// in main and injected; handlers never reach for globals.
type App struct {
	Store *catalog.Store
	Media media.Host
	Carts *cart.SessionStore
	Log   *zap.Logger
}

// storeError maps the store's error taxonomy onto responses: a malformed
// id is the caller's fault, a missing document gets the not-found
// presentation, anything else is a backend failure.
func (a *App) storeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, catalog.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
	case errors.Is(err, catalog.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
	default:
		a.Log.Error("product store failure", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "an unexpected error occurred"})
	}
}
