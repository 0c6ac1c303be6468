package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "papertrade/internal/errors"
	"papertrade/internal/quotes"
)

// QuoteHandler handles quote lookup requests.
type QuoteHandler struct {
	provider quotes.Provider
}

// NewQuoteHandler creates a new QuoteHandler.
func NewQuoteHandler(provider quotes.Provider) *QuoteHandler {
	return &QuoteHandler{provider: provider}
}

// QuoteQuery represents the quote lookup query parameters.
type QuoteQuery struct {
	Symbol string `form:"symbol" binding:"required,symbol"`
}

// GetQuote handles a quote lookup.
// @Summary     Get stock quote
// @Description Look up the current price for a ticker symbol
// @Tags        quotes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       symbol query string true "Ticker symbol"
// @Success     200 {object} quotes.Quote "Current quote"
// @Failure     400 {object} ErrorResponse "Invalid or unknown symbol"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Quote provider unavailable"
// @Router      /quote [get]
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	var query QuoteQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	q, err := h.provider.Lookup(c.Request.Context(), query.Symbol)
	if err != nil {
		if errors.Is(err, quotes.ErrNotFound) {
			respondWithError(c, apperrors.ErrInvalidSymbol)
			return
		}
		respondWithError(c, apperrors.Wrap(apperrors.ErrQuoteUnavailable, err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"quote": q})
}
