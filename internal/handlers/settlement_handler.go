package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/You2499/settleease/internal/errors"
	"github.com/You2499/settleease/internal/pagination"
	"github.com/You2499/settleease/internal/services"
)

// SettlementHandler handles balance and settlement-related requests
type SettlementHandler struct {
	settlementService services.SettlementServicer
}

// NewSettlementHandler creates a new SettlementHandler
func NewSettlementHandler(settlementService services.SettlementServicer) *SettlementHandler {
	return &SettlementHandler{settlementService: settlementService}
}

// RecordPaymentRequest represents the payload for marking a debt as paid or
// recording a custom payment.
type RecordPaymentRequest struct {
	DebtorID   string     `json:"debtor_id" binding:"required,uuid"`
	CreditorID string     `json:"creditor_id" binding:"required,uuid"`
	Amount     float64    `json:"amount" binding:"required,gt=0"`
	SettledAt  *time.Time `json:"settled_at"`
	Notes      string     `json:"notes" binding:"max=500"`
}

// UpdatePaymentRequest represents the payload for editing a payment. Nil
// fields are left unchanged.
type UpdatePaymentRequest struct {
	Amount    *float64   `json:"amount" binding:"omitempty,gt=0"`
	SettledAt *time.Time `json:"settled_at"`
	Notes     *string    `json:"notes" binding:"omitempty,max=500"`
}

// GetBalances returns every person's net position
// @Summary     Get net balances
// @Description Net balance per person across all expenses and payments. Positive means the group owes them.
// @Tags        settlements
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} services.PersonBalance "Balances"
// @Router      /settlements/balances [get]
func (h *SettlementHandler) GetBalances(c *gin.Context) {
	balances, err := h.settlementService.Balances()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, balances)
}

// GetPairwiseDebts returns exact per-pair debts
// @Summary     Get pairwise debts
// @Description Exact per-pair debts with the expenses that produced them
// @Tags        settlements
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} settlement.Transaction "Pairwise debts"
// @Router      /settlements/pairwise [get]
func (h *SettlementHandler) GetPairwiseDebts(c *gin.Context) {
	debts, err := h.settlementService.PairwiseDebts()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, debts)
}

// GetSimplifiedDebts returns the minimal settlement plan
// @Summary     Get simplified debts
// @Description Minimal set of transactions that settles all balances
// @Tags        settlements
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} settlement.Transaction "Simplified debts"
// @Router      /settlements/simplified [get]
func (h *SettlementHandler) GetSimplifiedDebts(c *gin.Context) {
	debts, err := h.settlementService.SimplifiedDebts()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, debts)
}

// RecordPayment records a settlement payment
// @Summary     Record a payment
// @Description Mark a debt as paid or record a custom payment between two people
// @Tags        settlements
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body RecordPaymentRequest true "Payment data"
// @Success     201 {object} models.SettlementPayment "Payment recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Person not found"
// @Router      /settlements/payments [post]
func (h *SettlementHandler) RecordPayment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	payment, err := h.settlementService.RecordPayment(req.DebtorID, req.CreditorID, req.Amount, req.SettledAt, req.Notes, userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, payment)
}

// ListPayments lists settlement payments
// @Summary     List payments
// @Description List settlement payments, newest first
// @Tags        settlements
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number" default(1)
// @Param       page_size query int false "Page size" default(20)
// @Success     200 {object} pagination.PageResponse[models.SettlementPayment] "Payments"
// @Router      /settlements/payments [get]
func (h *SettlementHandler) ListPayments(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.settlementService.ListPayments(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdatePayment edits a payment. Admin only.
// @Summary     Edit a payment
// @Description Update a payment's amount, date, or notes. Requires admin.
// @Tags        settlements
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Payment ID"
// @Param       request body UpdatePaymentRequest true "Fields to update"
// @Success     200 {object} models.SettlementPayment "Payment updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Admin access required"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /settlements/payments/{id} [put]
func (h *SettlementHandler) UpdatePayment(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	payment, err := h.settlementService.UpdatePayment(id, req.Amount, req.SettledAt, req.Notes)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

// DeletePayment unmarks a payment
// @Summary     Unmark a payment
// @Description Delete a payment record; the debt it offset reappears in the next calculation
// @Tags        settlements
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Payment ID"
// @Success     204 "Payment deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /settlements/payments/{id} [delete]
func (h *SettlementHandler) DeletePayment(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.settlementService.DeletePayment(id); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
