package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumina-market/backend/internal/auth"
	"github.com/lumina-market/backend/internal/domain"
)

func (h *Handlers) Checkout(c *gin.Context) {
	email, _ := c.MustGet(auth.CtxEmail).(string)

	order, err := h.orders.Checkout(c.Request.Context(), auth.UserID(c), email)
	if err != nil {
		h.failErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Order placed successfully!",
		"orderId": order.ID,
		"data":    order,
	})
}

func (h *Handlers) ListOrders(c *gin.Context) {
	orders, err := h.orders.Orders(c.Request.Context(), auth.UserID(c))
	if err != nil {
		h.failErr(c, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	ok(c, http.StatusOK, orders)
}
