package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/You2499/settleease/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestPerson creates a person with a unique name.
func CreateTestPerson(t *testing.T, db *gorm.DB) *models.Person {
	t.Helper()
	return CreateTestPersonWithName(t, db, fmt.Sprintf("Person %d", nextID()))
}

// CreateTestPersonWithName creates a person with the given name.
func CreateTestPersonWithName(t *testing.T, db *gorm.DB, name string) *models.Person {
	t.Helper()

	person := &models.Person{Name: name}
	if err := db.Create(person).Error; err != nil {
		t.Fatalf("failed to create test person: %v", err)
	}
	return person
}

// CreateTestCategory creates a category with a unique name.
func CreateTestCategory(t *testing.T, db *gorm.DB) *models.Category {
	t.Helper()

	category := &models.Category{
		Name:  fmt.Sprintf("Test Category %d", nextID()),
		Icon:  "tag",
		Color: "#4f46e5",
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestExpense creates an equal-split expense paid by payerID and
// shared equally by sharerIDs.
func CreateTestExpense(t *testing.T, db *gorm.DB, payerID string, total float64, sharerIDs ...string) *models.Expense {
	t.Helper()

	if len(sharerIDs) == 0 {
		t.Fatal("CreateTestExpense requires at least one sharer")
	}

	expense := &models.Expense{
		Description: fmt.Sprintf("Test Expense %d", nextID()),
		TotalAmount: total,
		SplitMethod: models.SplitMethodEqual,
		SpentAt:     time.Now(),
		Payers: []models.ExpensePayer{
			{PersonID: payerID, Amount: total},
		},
	}
	share := total / float64(len(sharerIDs))
	for _, id := range sharerIDs {
		expense.Shares = append(expense.Shares, models.ExpenseShare{PersonID: id, Amount: share})
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestSettlementPayment creates a payment from debtor to creditor.
func CreateTestSettlementPayment(t *testing.T, db *gorm.DB, debtorID, creditorID string, amount float64) *models.SettlementPayment {
	t.Helper()

	payment := &models.SettlementPayment{
		DebtorID:      debtorID,
		CreditorID:    creditorID,
		AmountSettled: amount,
		SettledAt:     time.Now(),
	}
	if err := db.Create(payment).Error; err != nil {
		t.Fatalf("failed to create test settlement payment: %v", err)
	}
	return payment
}
