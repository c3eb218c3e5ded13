package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumina-market/backend/internal/auth"
)

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handlers) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "username, email and password are required")
		return
	}

	user, token, err := h.auth.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.failErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    gin.H{"user": user, "token": token},
	})
}

func (h *Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "email and password are required")
		return
	}

	user, token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.failErr(c, err)
		return
	}

	ok(c, http.StatusOK, gin.H{"user": user, "token": token})
}

func (h *Handlers) Profile(c *gin.Context) {
	user, err := h.auth.Profile(c.Request.Context(), auth.UserID(c))
	if err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, http.StatusOK, user)
}
