// Package httpapi exposes the storefront over HTTP with gin. Responses use
// the envelope {success, data|message, ...}.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/lumina-market/backend/internal/auth"
	"github.com/lumina-market/backend/internal/cart"
	"github.com/lumina-market/backend/internal/order"
	"github.com/lumina-market/backend/internal/search"
	"github.com/lumina-market/backend/internal/store"
)

type Handlers struct {
	auth     *auth.Service
	search   *search.Service
	cart     *cart.Service
	orders   *order.Service
	products *store.ProductStore
	log      *slog.Logger
}

func NewHandlers(authSvc *auth.Service, searchSvc *search.Service, cartSvc *cart.Service, orderSvc *order.Service, products *store.ProductStore, log *slog.Logger) *Handlers {
	return &Handlers{
		auth:     authSvc,
		search:   searchSvc,
		cart:     cartSvc,
		orders:   orderSvc,
		products: products,
		log:      log,
	}
}

func NewRouter(h *Handlers, jwtSecret []byte) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())

	api := r.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "message": "Lumina Market API is running"})
	})

	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)

	api.GET("/products", h.ListProducts)
	api.GET("/products/categories", h.ListCategories)
	api.GET("/products/:id", h.GetProduct)
	api.POST("/products", h.CreateProduct)
	api.PUT("/products/:id", h.UpdateProduct)
	api.DELETE("/products/:id", h.DeleteProduct)

	api.POST("/search/ai", h.AISearch)
	api.GET("/search/text", h.TextSearch)

	authed := api.Group("", auth.Middleware(jwtSecret))
	{
		authed.GET("/auth/profile", h.Profile)

		authed.GET("/cart", h.GetCart)
		authed.POST("/cart", h.AddToCart)
		authed.PUT("/cart/:productId", h.UpdateCartItem)
		authed.DELETE("/cart/:productId", h.RemoveFromCart)
		authed.DELETE("/cart", h.ClearCart)
		authed.POST("/cart/checkout", h.Checkout)

		authed.GET("/orders", h.ListOrders)
	}

	r.NoRoute(func(c *gin.Context) {
		fail(c, http.StatusNotFound, "Route not found")
	})

	return r
}
