package models

import "time"

// SettlementPayment is a real-world payment event between two people,
// either a computed debt marked as paid or a manually entered custom
// payment. It directly offsets balances between exactly this
// debtor/creditor pair.
type SettlementPayment struct {
	Base
	DebtorID       string    `gorm:"type:uuid;index;not null" json:"debtor_id"`
	CreditorID     string    `gorm:"type:uuid;index;not null" json:"creditor_id"`
	AmountSettled  float64   `gorm:"not null" json:"amount_settled"`
	SettledAt      time.Time `gorm:"not null" json:"settled_at"`
	Notes          string    `json:"notes,omitempty"`
	MarkedByUserID string    `gorm:"type:uuid" json:"marked_by_user_id"`
}

// IsCustom reports whether this was a manually entered payment rather than
// a computed debt marked as paid; custom payments carry notes.
func (p *SettlementPayment) IsCustom() bool {
	return p.Notes != ""
}
