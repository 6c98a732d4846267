package services

import (
	"context"
	"time"

	"github.com/You2499/settleease/internal/models"
	"github.com/You2499/settleease/internal/pagination"
	"github.com/You2499/settleease/internal/settlement"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, name string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// PersonServicer defines the contract for person-related business logic.
type PersonServicer interface {
	CreatePerson(name string) (*models.Person, error)
	GetPersonByID(id string) (*models.Person, error)
	ListPeople() ([]models.Person, error)
	UpdatePerson(id, name string) (*models.Person, error)
	DeletePerson(id string) error
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(name, icon, color string) (*models.Category, error)
	GetCategoryByID(id string) (*models.Category, error)
	ListCategories() ([]models.Category, error)
	UpdateCategory(id, name, icon, color string) (*models.Category, error)
	DeleteCategory(id string) error
}

// PayerInput is one person's physical payment toward a new expense.
type PayerInput struct {
	PersonID string
	Amount   float64
}

// ShareInput is one person's computed obligation toward a new expense.
type ShareInput struct {
	PersonID string
	Amount   float64
}

// ItemInput is one line item on an itemwise expense.
type ItemInput struct {
	Name         string
	Price        float64
	CategoryName string
	SharedBy     []string
}

// ExpenseInput carries everything needed to create or replace an expense.
// Shares are computed by the client at write time; the service validates the
// arithmetic but never recomputes splits.
type ExpenseInput struct {
	Description         string
	TotalAmount         float64
	Category            string
	SplitMethod         models.SplitMethod
	SpentAt             time.Time
	CelebrationPersonID *string
	CelebrationAmount   float64
	Payers              []PayerInput
	Shares              []ShareInput
	Items               []ItemInput
}

// ExpenseServicer defines the contract for expense-related business logic.
type ExpenseServicer interface {
	CreateExpense(input ExpenseInput) (*models.Expense, error)
	GetExpenseByID(id string) (*models.Expense, error)
	ListExpenses(page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error)
	UpdateExpense(id string, input ExpenseInput) (*models.Expense, error)
	DeleteExpense(id string) error
}

// PersonBalance is one person's net position across all expenses and
// settlement payments. Positive means the group owes them.
type PersonBalance struct {
	PersonID   string  `json:"person_id"`
	Name       string  `json:"name"`
	NetBalance float64 `json:"net_balance"`
}

// SettlementServicer defines the contract for settlement calculations and
// payment records.
type SettlementServicer interface {
	Balances() ([]PersonBalance, error)
	PairwiseDebts() ([]settlement.Transaction, error)
	SimplifiedDebts() ([]settlement.Transaction, error)
	RecordPayment(debtorID, creditorID string, amount float64, settledAt *time.Time, notes, markedByUserID string) (*models.SettlementPayment, error)
	ListPayments(page pagination.PageRequest) (*pagination.PageResponse[models.SettlementPayment], error)
	UpdatePayment(id string, amount *float64, settledAt *time.Time, notes *string) (*models.SettlementPayment, error)
	DeletePayment(id string) error
}

// SummaryResult is a generated or cached settlement summary.
type SummaryResult struct {
	Content     string `json:"content"`
	Model       string `json:"model"`
	Cached      bool   `json:"cached"`
	PayloadHash string `json:"payload_hash"`
}

// SummaryServicer defines the contract for AI settlement summaries.
type SummaryServicer interface {
	// Summarize returns a summary of the current settlement state. onDelta,
	// when non-nil, receives tokens as they stream from the model; cached
	// results are delivered in a single call.
	Summarize(ctx context.Context, onDelta func(token string) error) (*SummaryResult, error)
}
