package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumina-market/backend/internal/domain"
)

type aiSearchRequest struct {
	Query string `json:"query"`
}

// AISearch resolves the query through the AI path. Resolution failures are
// absorbed by the search service, so this endpoint only errors on bad input
// or store failure.
func (h *Handlers) AISearch(c *gin.Context) {
	var req aiSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Search query is required")
		return
	}

	result, err := h.search.AI(c.Request.Context(), req.Query)
	if err != nil {
		h.failErr(c, err)
		return
	}

	writeSearchResult(c, result)
}

func (h *Handlers) TextSearch(c *gin.Context) {
	query := c.Query("query")

	result, err := h.search.Text(c.Request.Context(), query)
	if err != nil {
		h.failErr(c, err)
		return
	}

	writeSearchResult(c, result)
}

func writeSearchResult(c *gin.Context, result domain.SearchResult) {
	products := result.Products
	if products == nil {
		products = []domain.Product{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"count":      len(products),
		"data":       products,
		"query":      result.Query,
		"searchType": result.Type,
	})
}
