package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "papertrade/internal/errors"
	"papertrade/internal/services"
)

// OrderHandler handles buy/sell orders and cash deposits.
type OrderHandler struct {
	orderService services.OrderExecutor
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService services.OrderExecutor) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// OrderRequest represents the request payload for buy and sell orders.
type OrderRequest struct {
	Symbol string `json:"symbol" binding:"required,symbol"`
	Shares int64  `json:"shares" binding:"required,gt=0"`
}

// DepositRequest represents the request payload for a cash deposit.
// Amount is in cents.
type DepositRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// Buy handles a buy order.
// @Summary     Buy shares
// @Description Buy shares of a stock at the current quoted price
// @Tags        orders
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body OrderRequest true "Order details"
// @Success     201 {object} services.OrderConfirmation "Order executed"
// @Failure     400 {object} ErrorResponse "Invalid amount, invalid symbol, or insufficient funds"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Quote provider unavailable"
// @Router      /orders/buy [post]
func (h *OrderHandler) Buy(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	confirmation, err := h.orderService.Buy(c.Request.Context(), userID, req.Symbol, req.Shares)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"order": confirmation})
}

// Sell handles a sell order.
// @Summary     Sell shares
// @Description Sell shares of a stock at the current quoted price
// @Tags        orders
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body OrderRequest true "Order details"
// @Success     201 {object} services.OrderConfirmation "Order executed"
// @Failure     400 {object} ErrorResponse "Invalid amount, invalid symbol, or insufficient shares"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Quote provider unavailable"
// @Router      /orders/sell [post]
func (h *OrderHandler) Sell(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	confirmation, err := h.orderService.Sell(c.Request.Context(), userID, req.Symbol, req.Shares)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"order": confirmation})
}

// Deposit handles a cash deposit.
// @Summary     Deposit cash
// @Description Add simulated cash to the user's balance
// @Tags        cash
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body DepositRequest true "Deposit amount in cents"
// @Success     200 {object} UserResponse "New cash balance"
// @Failure     400 {object} ErrorResponse "Invalid amount"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /cash/deposit [post]
func (h *OrderHandler) Deposit(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	newCash, err := h.orderService.AddCash(userID, req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cash": newCash})
}
