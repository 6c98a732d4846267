package models

import (
	"time"

	"github.com/You2499/settleease/internal/uuid"

	"gorm.io/gorm"
)

// SplitMethod controls how an expense's shares were computed at write time.
type SplitMethod string

const (
	SplitMethodEqual    SplitMethod = "equal"
	SplitMethodUnequal  SplitMethod = "unequal"
	SplitMethodItemwise SplitMethod = "itemwise"
)

// Expense is the central record: who paid, how the obligation was split, and
// an optional celebration contribution that reduced the amount split among
// the group. Shares are computed at write time and stored denormalized; the
// settlement core reads payers, shares, and the celebration contribution,
// never the items.
type Expense struct {
	Base
	Description string      `gorm:"not null" json:"description"`
	TotalAmount float64     `gorm:"not null" json:"total_amount"`
	Category    string      `json:"category"`
	SplitMethod SplitMethod `gorm:"not null" json:"split_method"`
	SpentAt     time.Time   `gorm:"not null" json:"spent_at"`

	// Optional celebration contribution: one person voluntarily covers this
	// amount on top of their own share, so only the remainder was split.
	CelebrationPersonID *string `gorm:"type:uuid" json:"celebration_person_id,omitempty"`
	CelebrationAmount   float64 `json:"celebration_amount,omitempty"`

	Payers []ExpensePayer `gorm:"foreignKey:ExpenseID;constraint:OnDelete:CASCADE" json:"paid_by"`
	Shares []ExpenseShare `gorm:"foreignKey:ExpenseID;constraint:OnDelete:CASCADE" json:"shares"`
	Items  []ExpenseItem  `gorm:"foreignKey:ExpenseID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// AmountEffectivelySplit is the total minus any celebration contribution:
// the amount the shares must sum to.
func (e *Expense) AmountEffectivelySplit() float64 {
	return e.TotalAmount - e.CelebrationAmount
}

// ExpensePayer records one person's physical payment toward an expense.
// Position preserves the order payers were entered in.
type ExpensePayer struct {
	ID        uint    `gorm:"primaryKey" json:"-"`
	ExpenseID string  `gorm:"type:uuid;index;not null" json:"-"`
	PersonID  string  `gorm:"type:uuid;not null" json:"person_id"`
	Amount    float64 `gorm:"not null" json:"amount"`
	Position  int     `json:"-"`
}

// ExpenseShare records one person's obligation toward the amount
// effectively split.
type ExpenseShare struct {
	ID        uint    `gorm:"primaryKey" json:"-"`
	ExpenseID string  `gorm:"type:uuid;index;not null" json:"-"`
	PersonID  string  `gorm:"type:uuid;not null" json:"person_id"`
	Amount    float64 `gorm:"not null" json:"amount"`
}

// ExpenseItem is a line item on an itemwise expense, kept for drill-down
// display only.
type ExpenseItem struct {
	ID           string             `gorm:"type:uuid;primaryKey" json:"id"`
	ExpenseID    string             `gorm:"type:uuid;index;not null" json:"-"`
	Name         string             `gorm:"not null" json:"name"`
	Price        float64            `gorm:"not null" json:"price"`
	CategoryName string             `json:"category_name"`
	SharedBy     []ExpenseItemShare `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE" json:"shared_by"`
}

// BeforeCreate generates a UUIDv7 for new items.
func (i *ExpenseItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New()
	}
	return nil
}

// ExpenseItemShare links an item to one of the people sharing it.
type ExpenseItemShare struct {
	ID       uint   `gorm:"primaryKey" json:"-"`
	ItemID   string `gorm:"type:uuid;index;not null" json:"-"`
	PersonID string `gorm:"type:uuid;not null" json:"person_id"`
}
