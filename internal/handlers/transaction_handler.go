package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "papertrade/internal/errors"
	"papertrade/internal/models"
	"papertrade/internal/pagination"
	"papertrade/internal/services"
)

// TransactionHandler handles transaction history requests.
type TransactionHandler struct {
	store services.LedgerStorer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(store services.LedgerStorer) *TransactionHandler {
	return &TransactionHandler{store: store}
}

// historyQuery represents the history query parameters.
type historyQuery struct {
	pagination.PageRequest
	Type   string `form:"type" binding:"omitempty,transaction_type"`
	Symbol string `form:"symbol" binding:"omitempty,symbol"`
}

// GetHistory handles listing the user's transaction history.
// @Summary     Get transaction history
// @Description Get a paginated list of the user's buy/sell transactions in execution order
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Param       type      query string false "Filter by transaction type (BUY or SELL)"
// @Param       symbol    query string false "Filter by ticker symbol"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *TransactionHandler) GetHistory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query historyQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var filter services.TransactionFilter
	if query.Type != "" {
		txType := models.TransactionType(query.Type)
		filter.Type = &txType
	}
	if query.Symbol != "" {
		filter.Symbol = &query.Symbol
	}

	result, err := h.store.ListTransactions(userID, query.PageRequest, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
