package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/You2499/settleease/internal/errors"
	"github.com/You2499/settleease/internal/models"
	"github.com/You2499/settleease/internal/pagination"
	"github.com/You2499/settleease/internal/services"
)

// ExpenseHandler handles expense-related requests
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService services.ExpenseServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// PayerRequest is one payer entry in an expense payload
type PayerRequest struct {
	PersonID string  `json:"person_id" binding:"required,uuid"`
	Amount   float64 `json:"amount" binding:"required,gt=0"`
}

// ShareRequest is one share entry in an expense payload
type ShareRequest struct {
	PersonID string  `json:"person_id" binding:"required,uuid"`
	Amount   float64 `json:"amount" binding:"gte=0"`
}

// ItemRequest is one line item in an itemwise expense payload
type ItemRequest struct {
	Name         string   `json:"name" binding:"required,max=200"`
	Price        float64  `json:"price" binding:"gte=0"`
	CategoryName string   `json:"category_name" binding:"max=100"`
	SharedBy     []string `json:"shared_by" binding:"required,min=1,dive,uuid"`
}

// ExpenseRequest represents the create/update expense payload. Shares arrive
// precomputed; the server validates that the arithmetic adds up.
type ExpenseRequest struct {
	Description         string         `json:"description" binding:"required,max=500"`
	TotalAmount         float64        `json:"total_amount" binding:"required,gt=0"`
	Category            string         `json:"category" binding:"max=100"`
	SplitMethod         string         `json:"split_method" binding:"required,split_method"`
	SpentAt             time.Time      `json:"spent_at" binding:"required"`
	CelebrationPersonID *string        `json:"celebration_person_id" binding:"omitempty,uuid"`
	CelebrationAmount   float64        `json:"celebration_amount" binding:"gte=0"`
	PaidBy              []PayerRequest `json:"paid_by" binding:"required,min=1,dive"`
	Shares              []ShareRequest `json:"shares" binding:"required,min=1,dive"`
	Items               []ItemRequest  `json:"items" binding:"omitempty,dive"`
}

func (r *ExpenseRequest) toInput() services.ExpenseInput {
	input := services.ExpenseInput{
		Description:         r.Description,
		TotalAmount:         r.TotalAmount,
		Category:            r.Category,
		SplitMethod:         models.SplitMethod(r.SplitMethod),
		SpentAt:             r.SpentAt,
		CelebrationPersonID: r.CelebrationPersonID,
		CelebrationAmount:   r.CelebrationAmount,
	}
	for _, p := range r.PaidBy {
		input.Payers = append(input.Payers, services.PayerInput{PersonID: p.PersonID, Amount: p.Amount})
	}
	for _, sh := range r.Shares {
		input.Shares = append(input.Shares, services.ShareInput{PersonID: sh.PersonID, Amount: sh.Amount})
	}
	for _, item := range r.Items {
		input.Items = append(input.Items, services.ItemInput{
			Name:         item.Name,
			Price:        item.Price,
			CategoryName: item.CategoryName,
			SharedBy:     item.SharedBy,
		})
	}
	return input
}

// CreateExpense creates an expense
// @Summary     Create an expense
// @Description Record an expense with payers, precomputed shares, and optional items and celebration contribution
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ExpenseRequest true "Expense data"
// @Success     201 {object} models.Expense "Expense created"
// @Failure     400 {object} ErrorResponse "Invalid input or arithmetic mismatch"
// @Failure     404 {object} ErrorResponse "Referenced person not found"
// @Router      /expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expense, err := h.expenseService.CreateExpense(req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, expense)
}

// ListExpenses lists expenses
// @Summary     List expenses
// @Description List expenses, newest spend first
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number" default(1)
// @Param       page_size query int false "Page size" default(20)
// @Success     200 {object} pagination.PageResponse[models.Expense] "Expenses"
// @Router      /expenses [get]
func (h *ExpenseHandler) ListExpenses(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.expenseService.ListExpenses(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetExpense retrieves one expense with its payers, shares, and items
// @Summary     Get an expense
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} models.Expense "Expense"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.GetExpenseByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, expense)
}

// UpdateExpense replaces an expense
// @Summary     Update an expense
// @Description Replace an expense's content. Payers, shares, and items are rewritten wholesale.
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Param       request body ExpenseRequest true "Replacement expense data"
// @Success     200 {object} models.Expense "Expense updated"
// @Failure     400 {object} ErrorResponse "Invalid input or arithmetic mismatch"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expense, err := h.expenseService.UpdateExpense(id, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, expense)
}

// DeleteExpense removes an expense
// @Summary     Delete an expense
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     204 "Expense deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.expenseService.DeleteExpense(id); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
