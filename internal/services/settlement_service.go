package services

import (
	"errors"
	"math"
	"sort"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/You2499/settleease/internal/errors"
	"github.com/You2499/settleease/internal/models"
	"github.com/You2499/settleease/internal/pagination"
	"github.com/You2499/settleease/internal/settlement"
)

// settlementService computes balances and debts from stored expenses and
// payments, and manages settlement payment records.
type settlementService struct {
	db *gorm.DB
}

// NewSettlementService creates a new SettlementServicer.
func NewSettlementService(db *gorm.DB) SettlementServicer {
	return &settlementService{db: db}
}

// settlementState is everything the calculation core needs, loaded in one
// pass.
type settlementState struct {
	people   []models.Person
	expenses []settlement.Expense
	payments []settlement.Payment
}

// loadState reads people, expenses, and settlement payments and converts
// them to the calculation core's types.
func (s *settlementService) loadState() (*settlementState, error) {
	var people []models.Person
	if err := s.db.Order("name asc").Find(&people).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var dbExpenses []models.Expense
	err := s.db.
		Preload("Payers", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Preload("Shares").
		Order("spent_at asc").
		Find(&dbExpenses).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var dbPayments []models.SettlementPayment
	if err := s.db.Order("settled_at asc").Find(&dbPayments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	state := &settlementState{people: people}
	for _, e := range dbExpenses {
		converted := settlement.Expense{
			ID:    e.ID,
			Total: e.TotalAmount,
		}
		for _, p := range e.Payers {
			converted.PaidBy = append(converted.PaidBy, settlement.Entry{PersonID: p.PersonID, Amount: p.Amount})
		}
		for _, sh := range e.Shares {
			converted.Shares = append(converted.Shares, settlement.Entry{PersonID: sh.PersonID, Amount: sh.Amount})
		}
		if e.CelebrationPersonID != nil && e.CelebrationAmount > 0 {
			converted.Celebration = &settlement.Entry{PersonID: *e.CelebrationPersonID, Amount: e.CelebrationAmount}
		}
		state.expenses = append(state.expenses, converted)
	}
	for _, p := range dbPayments {
		state.payments = append(state.payments, settlement.Payment{
			DebtorID:   p.DebtorID,
			CreditorID: p.CreditorID,
			Amount:     p.AmountSettled,
		})
	}
	return state, nil
}

func personIDs(people []models.Person) []string {
	ids := make([]string, len(people))
	for i, p := range people {
		ids[i] = p.ID
	}
	return ids
}

// Balances returns every person's net position, sorted by name.
func (s *settlementService) Balances() ([]PersonBalance, error) {
	state, err := s.loadState()
	if err != nil {
		return nil, err
	}

	balances := settlement.NetBalances(personIDs(state.people), state.expenses, state.payments)

	names := make(map[string]string, len(state.people))
	for _, p := range state.people {
		names[p.ID] = p.Name
	}

	result := make([]PersonBalance, 0, len(balances))
	for id, amount := range balances {
		if math.Abs(amount) <= settlement.Epsilon {
			amount = 0
		}
		result = append(result, PersonBalance{
			PersonID:   id,
			Name:       names[id],
			NetBalance: amount,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].PersonID < result[j].PersonID
	})
	return result, nil
}

// PairwiseDebts returns the exact per-pair debts with the expenses that
// produced them.
func (s *settlementService) PairwiseDebts() ([]settlement.Transaction, error) {
	state, err := s.loadState()
	if err != nil {
		return nil, err
	}
	return settlement.PairwiseTransactions(personIDs(state.people), state.expenses, state.payments), nil
}

// SimplifiedDebts returns the minimal transaction set that settles all
// balances.
func (s *settlementService) SimplifiedDebts() ([]settlement.Transaction, error) {
	state, err := s.loadState()
	if err != nil {
		return nil, err
	}
	return settlement.Simplify(personIDs(state.people), state.expenses, state.payments), nil
}

// RecordPayment stores a settlement payment, either a computed debt marked
// as paid or a custom payment with notes. The amount is not capped at the
// outstanding debt; overpayments are clamped at calculation time instead of
// rejected here, since a payment may race a concurrent expense edit.
func (s *settlementService) RecordPayment(debtorID, creditorID string, amount float64, settledAt *time.Time, notes, markedByUserID string) (*models.SettlementPayment, error) {
	if debtorID == creditorID {
		return nil, apperrors.ErrSelfSettlement
	}
	if !validAmount(amount) || amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be a positive number")
	}

	for _, id := range []string{debtorID, creditorID} {
		var count int64
		if err := s.db.Model(&models.Person{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return nil, apperrors.ErrPersonNotFound
		}
	}

	when := time.Now()
	if settledAt != nil {
		when = *settledAt
	}

	payment := &models.SettlementPayment{
		DebtorID:       debtorID,
		CreditorID:     creditorID,
		AmountSettled:  amount,
		SettledAt:      when,
		Notes:          notes,
		MarkedByUserID: markedByUserID,
	}
	if err := s.db.Create(payment).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return payment, nil
}

// ListPayments returns a page of settlement payments, newest first.
func (s *settlementService) ListPayments(page pagination.PageRequest) (*pagination.PageResponse[models.SettlementPayment], error) {
	page.Defaults()

	var totalItems int64
	if err := s.db.Model(&models.SettlementPayment{}).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var payments []models.SettlementPayment
	err := s.db.
		Order("settled_at desc").
		Scopes(pagination.Paginate(page)).
		Find(&payments).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(payments, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// UpdatePayment edits a payment's amount, date, or notes. Nil fields are
// left unchanged.
func (s *settlementService) UpdatePayment(id string, amount *float64, settledAt *time.Time, notes *string) (*models.SettlementPayment, error) {
	payment, err := s.getPayment(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if amount != nil {
		if !validAmount(*amount) || *amount <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be a positive number")
		}
		updates["amount_settled"] = *amount
	}
	if settledAt != nil {
		updates["settled_at"] = *settledAt
	}
	if notes != nil {
		updates["notes"] = *notes
	}

	if len(updates) > 0 {
		if err := s.db.Model(payment).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return payment, nil
}

// DeletePayment unmarks a payment; the debt it offset reappears in the next
// calculation.
func (s *settlementService) DeletePayment(id string) error {
	payment, err := s.getPayment(id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(payment).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *settlementService) getPayment(id string) (*models.SettlementPayment, error) {
	var payment models.SettlementPayment
	if err := s.db.Where("id = ?", id).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSettlementNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &payment, nil
}
