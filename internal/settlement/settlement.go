// Package settlement implements the group-settlement arithmetic: net balance
// accumulation across expenses and payments, person-to-person debt
// derivation, and greedy reduction of the debt graph into a minimal set of
// transactions.
//
// All functions are pure: they read their inputs, hold no state, and are safe
// to call from any number of goroutines. They are intended to be re-run from
// scratch whenever expenses or payments change.
package settlement

import (
	"math"
	"sort"
)

// Epsilon is the tolerance below which an amount is treated as zero.
// Every settled/owed decision in this package compares against it; using a
// different threshold in different places would let rounding drift produce
// inconsistent "settled" answers.
const Epsilon = 0.01

// Entry is a (person, amount) pair inside an expense: one payer's
// contribution or one sharer's obligation.
type Entry struct {
	PersonID string
	Amount   float64
}

// Expense carries the fields the settlement arithmetic reads. Split method,
// items, and other denormalized data are resolved upstream at write time;
// only the resulting paid_by/shares/celebration breakdown matters here.
type Expense struct {
	ID     string
	Total  float64
	PaidBy []Entry
	Shares []Entry

	// Celebration is an optional voluntary extra contribution by one person,
	// subtracted from the total before the remainder was split. Nil when the
	// expense has none.
	Celebration *Entry
}

// Payment is a recorded real-world settlement payment between two people.
type Payment struct {
	DebtorID   string
	CreditorID string
	Amount     float64
}

// Transaction is a derived, never-persisted payment suggestion: From owes To
// the given amount. ContributingExpenseIDs links pairwise debts back to the
// expenses that produced them and is empty for simplified transactions.
type Transaction struct {
	From                   string   `json:"from"`
	To                     string   `json:"to"`
	Amount                 float64  `json:"amount"`
	ContributingExpenseIDs []string `json:"contributing_expense_ids,omitempty"`
}

// amount sanitizes upstream values: NaN, infinities, and negative garbage
// all count as zero so a single malformed record cannot poison the whole
// settlement view.
func amount(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// sortTransactions orders transactions by debtor then creditor so results
// are deterministic. Display ordering (by person name) is a UI concern.
func sortTransactions(txs []Transaction) {
	sort.Slice(txs, func(i, j int) bool {
		if txs[i].From != txs[j].From {
			return txs[i].From < txs[j].From
		}
		return txs[i].To < txs[j].To
	})
}
