package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lumina-market/backend/internal/domain"
	"github.com/lumina-market/backend/internal/store"
)

func (h *Handlers) ListProducts(c *gin.Context) {
	filter := store.ProductFilter{
		Category:    c.Query("category"),
		MinPrice:    queryFloat(c, "minPrice"),
		MaxPrice:    queryFloat(c, "maxPrice"),
		MinRating:   queryFloat(c, "minRating"),
		Search:      c.Query("search"),
		NewArrivals: c.Query("newArrivals") == "true",
	}

	products, err := h.products.List(c.Request.Context(), filter)
	if err != nil {
		h.failErr(c, err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(products), "data": products})
}

func (h *Handlers) GetProduct(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.products.Get(c.Request.Context(), id)
	if err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, http.StatusOK, product)
}

func (h *Handlers) ListCategories(c *gin.Context) {
	categories, err := h.products.Categories(c.Request.Context())
	if err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, http.StatusOK, categories)
}

func (h *Handlers) CreateProduct(c *gin.Context) {
	var p domain.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		fail(c, http.StatusBadRequest, "invalid product payload")
		return
	}
	if p.Name == "" || p.Price < 0 || !domain.ValidCategory(p.Category) {
		fail(c, http.StatusBadRequest, "name, non-negative price and a known category are required")
		return
	}

	created, err := h.products.Create(c.Request.Context(), p)
	if err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, created)
}

func (h *Handlers) UpdateProduct(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid product id")
		return
	}

	var p domain.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		fail(c, http.StatusBadRequest, "invalid product payload")
		return
	}

	updated, err := h.products.Update(c.Request.Context(), id, p)
	if err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, http.StatusOK, updated)
}

func (h *Handlers) DeleteProduct(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		h.failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product deleted"})
}

func queryFloat(c *gin.Context, key string) float64 {
	v := c.Query(key)
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}
