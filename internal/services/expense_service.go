package services

import (
	"errors"
	"math"
	"strings"

	"gorm.io/gorm"

	apperrors "github.com/You2499/settleease/internal/errors"
	"github.com/You2499/settleease/internal/models"
	"github.com/You2499/settleease/internal/pagination"
	"github.com/You2499/settleease/internal/settlement"
)

// expenseService handles expense-related business logic.
type expenseService struct {
	db *gorm.DB
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB) ExpenseServicer {
	return &expenseService{db: db}
}

// validAmount reports whether v is a usable monetary amount.
func validAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// validateInput enforces all write-time arithmetic so stored expenses are
// always internally consistent. Shares arrive precomputed from the client;
// this only checks that the numbers add up, it never recomputes splits.
func (s *expenseService) validateInput(input *ExpenseInput) error {
	if strings.TrimSpace(input.Description) == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	}
	if !validAmount(input.TotalAmount) || input.TotalAmount <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "total amount must be a positive number")
	}

	switch input.SplitMethod {
	case models.SplitMethodEqual, models.SplitMethodUnequal, models.SplitMethodItemwise:
	default:
		return apperrors.ErrInvalidSplitMethod
	}

	// Payers must cover the total exactly.
	if len(input.Payers) == 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "at least one payer is required")
	}
	paidTotal := 0.0
	payerSeen := make(map[string]bool, len(input.Payers))
	for _, p := range input.Payers {
		if !validAmount(p.Amount) {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "payer amounts must be non-negative numbers")
		}
		if payerSeen[p.PersonID] {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "a person appears more than once in paid_by")
		}
		payerSeen[p.PersonID] = true
		paidTotal += p.Amount
	}
	if math.Abs(paidTotal-input.TotalAmount) > settlement.Epsilon {
		return apperrors.ErrPayerSumMismatch
	}

	// Celebration contribution, when present, reduces the amount split.
	if input.CelebrationPersonID == nil {
		if input.CelebrationAmount != 0 {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "celebration amount requires a celebration person")
		}
	} else {
		if !validAmount(input.CelebrationAmount) || input.CelebrationAmount <= 0 {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "celebration amount must be a positive number")
		}
		if input.CelebrationAmount > input.TotalAmount+settlement.Epsilon {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "celebration amount cannot exceed the total amount")
		}
	}

	// Shares must cover exactly the amount effectively split.
	if len(input.Shares) == 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "at least one share is required")
	}
	shareTotal := 0.0
	shareSeen := make(map[string]bool, len(input.Shares))
	for _, sh := range input.Shares {
		if !validAmount(sh.Amount) {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "share amounts must be non-negative numbers")
		}
		if shareSeen[sh.PersonID] {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "a person appears more than once in shares")
		}
		shareSeen[sh.PersonID] = true
		shareTotal += sh.Amount
	}
	effectivelySplit := input.TotalAmount - input.CelebrationAmount
	if math.Abs(shareTotal-effectivelySplit) > settlement.Epsilon {
		return apperrors.ErrShareSumMismatch
	}

	// Items exist only on itemwise expenses and must add up to the total.
	if input.SplitMethod == models.SplitMethodItemwise {
		if len(input.Items) == 0 {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "itemwise expenses require at least one item")
		}
		itemTotal := 0.0
		for _, item := range input.Items {
			if strings.TrimSpace(item.Name) == "" {
				return apperrors.WithMessage(apperrors.ErrInvalidInput, "item name is required")
			}
			if !validAmount(item.Price) {
				return apperrors.WithMessage(apperrors.ErrInvalidInput, "item prices must be non-negative numbers")
			}
			if len(item.SharedBy) == 0 {
				return apperrors.WithMessage(apperrors.ErrInvalidInput, "each item must be shared by at least one person")
			}
			itemTotal += item.Price
		}
		if math.Abs(itemTotal-input.TotalAmount) > settlement.Epsilon {
			return apperrors.ErrItemSumMismatch
		}
	} else if len(input.Items) > 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "items are only allowed on itemwise expenses")
	}

	return s.verifyPeopleExist(input)
}

// verifyPeopleExist checks every person ID the input references against the
// people table in a single query.
func (s *expenseService) verifyPeopleExist(input *ExpenseInput) error {
	ids := make(map[string]bool)
	for _, p := range input.Payers {
		ids[p.PersonID] = true
	}
	for _, sh := range input.Shares {
		ids[sh.PersonID] = true
	}
	for _, item := range input.Items {
		for _, pid := range item.SharedBy {
			ids[pid] = true
		}
	}
	if input.CelebrationPersonID != nil {
		ids[*input.CelebrationPersonID] = true
	}

	idList := make([]string, 0, len(ids))
	for id := range ids {
		idList = append(idList, id)
	}

	var count int64
	if err := s.db.Model(&models.Person{}).Where("id IN ?", idList).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count != int64(len(idList)) {
		return apperrors.ErrPersonNotFound
	}
	return nil
}

// buildExpense assembles the model tree from validated input.
func buildExpense(input *ExpenseInput) *models.Expense {
	expense := &models.Expense{
		Description:         strings.TrimSpace(input.Description),
		TotalAmount:         input.TotalAmount,
		Category:            input.Category,
		SplitMethod:         input.SplitMethod,
		SpentAt:             input.SpentAt,
		CelebrationPersonID: input.CelebrationPersonID,
		CelebrationAmount:   input.CelebrationAmount,
	}
	for i, p := range input.Payers {
		expense.Payers = append(expense.Payers, models.ExpensePayer{
			PersonID: p.PersonID,
			Amount:   p.Amount,
			Position: i,
		})
	}
	for _, sh := range input.Shares {
		expense.Shares = append(expense.Shares, models.ExpenseShare{
			PersonID: sh.PersonID,
			Amount:   sh.Amount,
		})
	}
	for _, item := range input.Items {
		modelItem := models.ExpenseItem{
			Name:         item.Name,
			Price:        item.Price,
			CategoryName: item.CategoryName,
		}
		for _, pid := range item.SharedBy {
			modelItem.SharedBy = append(modelItem.SharedBy, models.ExpenseItemShare{PersonID: pid})
		}
		expense.Items = append(expense.Items, modelItem)
	}
	return expense
}

// CreateExpense validates and stores a new expense with its payers, shares,
// and items in a single transaction.
func (s *expenseService) CreateExpense(input ExpenseInput) (*models.Expense, error) {
	if err := s.validateInput(&input); err != nil {
		return nil, err
	}

	expense := buildExpense(&input)
	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expense, nil
}

// GetExpenseByID retrieves an expense with all of its associations.
func (s *expenseService) GetExpenseByID(id string) (*models.Expense, error) {
	var expense models.Expense
	err := s.db.
		Preload("Payers", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Preload("Shares").
		Preload("Items.SharedBy").
		Where("id = ?", id).
		First(&expense).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// ListExpenses returns a page of expenses, newest spend first.
func (s *expenseService) ListExpenses(page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
	page.Defaults()

	var totalItems int64
	if err := s.db.Model(&models.Expense{}).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	err := s.db.
		Preload("Payers", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Preload("Shares").
		Preload("Items.SharedBy").
		Order("spent_at desc").
		Scopes(pagination.Paginate(page)).
		Find(&expenses).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// UpdateExpense replaces an expense's content with the validated input.
// Children are rewritten wholesale; partial edits of payers or shares would
// make the stored arithmetic unverifiable.
func (s *expenseService) UpdateExpense(id string, input ExpenseInput) (*models.Expense, error) {
	existing, err := s.GetExpenseByID(id)
	if err != nil {
		return nil, err
	}

	if err := s.validateInput(&input); err != nil {
		return nil, err
	}

	replacement := buildExpense(&input)
	replacement.Base = existing.Base

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, child := range []interface{}{
			&models.ExpensePayer{},
			&models.ExpenseShare{},
		} {
			if err := tx.Where("expense_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		var itemIDs []string
		if err := tx.Model(&models.ExpenseItem{}).Where("expense_id = ?", id).Pluck("id", &itemIDs).Error; err != nil {
			return err
		}
		if len(itemIDs) > 0 {
			if err := tx.Where("item_id IN ?", itemIDs).Delete(&models.ExpenseItemShare{}).Error; err != nil {
				return err
			}
			if err := tx.Where("expense_id = ?", id).Delete(&models.ExpenseItem{}).Error; err != nil {
				return err
			}
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(replacement).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetExpenseByID(id)
}

// DeleteExpense removes an expense and its children.
func (s *expenseService) DeleteExpense(id string) error {
	expense, err := s.GetExpenseByID(id)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("expense_id = ?", id).Delete(&models.ExpensePayer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("expense_id = ?", id).Delete(&models.ExpenseShare{}).Error; err != nil {
			return err
		}
		var itemIDs []string
		if err := tx.Model(&models.ExpenseItem{}).Where("expense_id = ?", id).Pluck("id", &itemIDs).Error; err != nil {
			return err
		}
		if len(itemIDs) > 0 {
			if err := tx.Where("item_id IN ?", itemIDs).Delete(&models.ExpenseItemShare{}).Error; err != nil {
				return err
			}
			if err := tx.Where("expense_id = ?", id).Delete(&models.ExpenseItem{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(expense).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
