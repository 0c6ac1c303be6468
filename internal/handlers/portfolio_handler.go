package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"papertrade/internal/services"
)

// PortfolioHandler handles portfolio valuation requests.
type PortfolioHandler struct {
	portfolioService services.PortfolioValuator
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioService services.PortfolioValuator) *PortfolioHandler {
	return &PortfolioHandler{portfolioService: portfolioService}
}

// GetPortfolio handles a portfolio valuation.
// @Summary     Get portfolio
// @Description Get the user's current holdings marked to market, cash balance, and total net worth
// @Tags        portfolio
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.PortfolioSummary "Portfolio valuation"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Quote provider unavailable"
// @Router      /portfolio [get]
func (h *PortfolioHandler) GetPortfolio(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.portfolioService.ValuePortfolio(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
