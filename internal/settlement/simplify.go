package settlement

import (
	"math"
	"sort"
)

// Simplify computes net balances for the given inputs and reduces them to
// the minimum set of transactions that settles everyone.
func Simplify(people []string, expenses []Expense, payments []Payment) []Transaction {
	return SimplifyBalances(NetBalances(people, expenses, payments))
}

// SimplifyBalances reduces a net-balance vector to at most
// |debtors| + |creditors| − 1 transactions using a greedy
// largest-debtor/largest-creditor sweep.
//
// Debtors and creditors are matched pairwise, settling the smaller of the
// two outstanding amounts each step; a party whose remainder drops under
// Epsilon is done and the sweep advances past them. Balances already within
// Epsilon of zero never appear in the output.
func SimplifyBalances(balances map[string]float64) []Transaction {
	type position struct {
		id     string
		amount float64 // positive magnitude on both sides
	}

	var debtors, creditors []position
	for id, b := range balances {
		switch {
		case b < -Epsilon:
			debtors = append(debtors, position{id: id, amount: -b})
		case b > Epsilon:
			creditors = append(creditors, position{id: id, amount: b})
		}
	}

	// Largest first; ties broken by id for deterministic output.
	byAmountDesc := func(ps []position) {
		sort.Slice(ps, func(i, j int) bool {
			if ps[i].amount != ps[j].amount {
				return ps[i].amount > ps[j].amount
			}
			return ps[i].id < ps[j].id
		})
	}
	byAmountDesc(debtors)
	byAmountDesc(creditors)

	var txs []Transaction
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		settle := math.Min(debtors[i].amount, creditors[j].amount)
		if settle > Epsilon {
			txs = append(txs, Transaction{
				From:   debtors[i].id,
				To:     creditors[j].id,
				Amount: settle,
			})
		}

		debtors[i].amount -= settle
		creditors[j].amount -= settle
		if debtors[i].amount < Epsilon {
			i++
		}
		if creditors[j].amount < Epsilon {
			j++
		}
	}

	return txs
}
