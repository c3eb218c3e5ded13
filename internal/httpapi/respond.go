package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumina-market/backend/internal/domain"
)

func ok(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// failErr maps domain errors to HTTP statuses. Client errors carry their
// message verbatim; anything unrecognized is a 500 with a generic message
// and the detail only in the server log.
func (h *Handlers) failErr(c *gin.Context, err error) {
	var stockErr *domain.InsufficientStockError

	switch {
	case errors.As(err, &stockErr):
		fail(c, http.StatusConflict, stockErr.Error())
	case errors.Is(err, domain.ErrNotFound):
		fail(c, http.StatusNotFound, "Not found")
	case errors.Is(err, domain.ErrEmptyQuery),
		errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidInput):
		fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrEmailTaken):
		fail(c, http.StatusConflict, err.Error())
	default:
		h.log.Error("request failed", slog.String("path", c.FullPath()), slog.Any("err", err))
		fail(c, http.StatusInternalServerError, "Something went wrong")
	}
}
