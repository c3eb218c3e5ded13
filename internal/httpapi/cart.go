package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lumina-market/backend/internal/auth"
)

type addToCartRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type updateCartRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handlers) GetCart(c *gin.Context) {
	view, err := h.cart.Get(c.Request.Context(), auth.UserID(c))
	if err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, http.StatusOK, view)
}

func (h *Handlers) AddToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "productId is required")
		return
	}

	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid product id")
		return
	}

	qty := req.Quantity
	if qty == 0 {
		qty = 1
	}

	userID := auth.UserID(c)
	if err := h.cart.Add(c.Request.Context(), userID, productID, qty); err != nil {
		h.failErr(c, err)
		return
	}

	h.respondCart(c, userID)
}

func (h *Handlers) UpdateCartItem(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid product id")
		return
	}

	var req updateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "quantity is required")
		return
	}

	userID := auth.UserID(c)
	if err := h.cart.UpdateQuantity(c.Request.Context(), userID, productID, req.Quantity); err != nil {
		h.failErr(c, err)
		return
	}

	h.respondCart(c, userID)
}

func (h *Handlers) RemoveFromCart(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid product id")
		return
	}

	userID := auth.UserID(c)
	if err := h.cart.Remove(c.Request.Context(), userID, productID); err != nil {
		h.failErr(c, err)
		return
	}

	h.respondCart(c, userID)
}

func (h *Handlers) ClearCart(c *gin.Context) {
	userID := auth.UserID(c)
	if err := h.cart.Clear(c.Request.Context(), userID); err != nil {
		h.failErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cart cleared"})
}

// respondCart returns the freshly joined cart view after a mutation, the
// shape the storefront drawer rerenders from.
func (h *Handlers) respondCart(c *gin.Context, userID primitive.ObjectID) {
	view, err := h.cart.Get(c.Request.Context(), userID)
	if err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, http.StatusOK, view)
}
