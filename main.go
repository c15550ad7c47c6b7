package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/veloradesign/velorabackend/cart"
	"github.com/veloradesign/velorabackend/catalog"
	"github.com/veloradesign/velorabackend/config"
	"github.com/veloradesign/velorabackend/controllers"
	"github.com/veloradesign/velorabackend/database"
	"github.com/veloradesign/velorabackend/logger"
	"github.com/veloradesign/velorabackend/media"
	"github.com/veloradesign/velorabackend/middleware"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.Server.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zlog.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, cfg.Mongo)
	if err != nil {
		zlog.Fatal("database connect failed", zap.Error(err))
	}
	defer db.Close(context.Background())
	zlog.Info("connected to MongoDB", zap.String("database", cfg.Mongo.Database))

	host, err := media.NewHost(ctx, cfg.Media)
	if err != nil {
		zlog.Fatal("media host init failed", zap.Error(err))
	}

	carts := cart.NewSessionStore(cfg.Cart.SessionTTL)
	defer carts.Close()

	app := &controllers.App{
		Store: catalog.NewStore(db.Products),
		Media: host,
		Carts: carts,
		Log:   zlog,
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(middleware.RequestLogger(zlog))
	r.Use(gin.Recovery())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	r.GET("/products/featured", app.GetFeaturedProducts())
	r.GET("/products/related/:id", app.GetRelatedProducts())
	r.GET("/products/:id", app.GetProduct())
	r.GET("/category/:name", app.GetCategoryProducts())
	r.POST("/upload", app.UploadImage())

	r.GET("/cart", app.GetCart())
	r.POST("/cart/items", app.AddCartItem())
	r.PATCH("/cart/items", app.UpdateCartItem())
	r.DELETE("/cart/items/:productId/:variantId", app.RemoveCartItem())

	admin := r.Group("/admin")
	{
		admin.GET("/products", app.ListProducts())
		admin.POST("/products", app.AddProduct())
		admin.PUT("/products/:id", app.UpdateProduct())
		admin.DELETE("/products/:id", app.DeleteProduct())
	}

	zlog.Info("server starting", zap.String("port", cfg.Server.Port))
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
