package settlement

import (
	"fmt"
	"math"
	"math/rand"
	"reflect"
	"testing"
)

// randomExpenses builds expenses with internally consistent paid_by/shares
// breakdowns: payers sum to the total and shares sum to the total minus any
// celebration contribution, mirroring what write-time validation enforces.
func randomExpenses(rng *rand.Rand, people []string, n int) []Expense {
	expenses := make([]Expense, 0, n)
	for i := 0; i < n; i++ {
		total := float64(rng.Intn(20000)+100) / 100

		e := Expense{ID: fmt.Sprintf("e%d", i), Total: total}

		// One or two payers covering the total.
		payer := people[rng.Intn(len(people))]
		if rng.Intn(3) == 0 {
			second := people[rng.Intn(len(people))]
			if second != payer {
				first := total * (float64(rng.Intn(80)+10) / 100)
				e.PaidBy = []Entry{
					{PersonID: payer, Amount: first},
					{PersonID: second, Amount: total - first},
				}
			}
		}
		if e.PaidBy == nil {
			e.PaidBy = []Entry{{PersonID: payer, Amount: total}}
		}

		split := total
		if rng.Intn(4) == 0 {
			contributor := people[rng.Intn(len(people))]
			contribution := total * (float64(rng.Intn(40)+5) / 100)
			e.Celebration = &Entry{PersonID: contributor, Amount: contribution}
			split = total - contribution
		}

		// Equal split of whatever remained among a random subset.
		count := rng.Intn(len(people)-1) + 2
		perHead := split / float64(count)
		perm := rng.Perm(len(people))
		for _, idx := range perm[:count] {
			e.Shares = append(e.Shares, Entry{PersonID: people[idx], Amount: perHead})
		}

		expenses = append(expenses, e)
	}
	return expenses
}

// randomPayments settles random fractions of currently suggested
// transactions, the way the mark-as-paid flow produces payments.
func randomPayments(rng *rand.Rand, people []string, expenses []Expense) []Payment {
	var payments []Payment
	for _, tx := range Simplify(people, expenses, nil) {
		if rng.Intn(2) == 0 {
			continue
		}
		fraction := float64(rng.Intn(100)+1) / 100
		payments = append(payments, Payment{
			DebtorID:   tx.From,
			CreditorID: tx.To,
			Amount:     tx.Amount * fraction,
		})
	}
	return payments
}

func TestSettlementProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	people := []string{"A", "B", "C", "D", "E", "F"}

	for round := 0; round < 50; round++ {
		expenses := randomExpenses(rng, people, rng.Intn(12)+1)
		payments := randomPayments(rng, people, expenses)

		balances := NetBalances(people, expenses, payments)

		// Money is neither created nor destroyed.
		var sum float64
		for _, b := range balances {
			sum += b
		}
		if math.Abs(sum) > Epsilon*float64(len(balances)) {
			t.Fatalf("round %d: balances sum to %v, want ~0", round, sum)
		}

		// Applying the simplified transactions reproduces the balances.
		simplified := SimplifyBalances(balances)
		applied := make(map[string]float64)
		for _, tx := range simplified {
			applied[tx.From] -= tx.Amount
			applied[tx.To] += tx.Amount
		}
		for id, want := range balances {
			if math.Abs(applied[id]-want) > Epsilon {
				t.Fatalf("round %d: applied[%s] = %v, want %v", round, id, applied[id], want)
			}
		}

		// Minimality: bounded by |debtors| + |creditors| - 1 and never more
		// transactions than the unsimplified pairwise view.
		var debtors, creditors int
		for _, b := range balances {
			switch {
			case b < -Epsilon:
				debtors++
			case b > Epsilon:
				creditors++
			}
		}
		if debtors > 0 && creditors > 0 && len(simplified) > debtors+creditors-1 {
			t.Fatalf("round %d: %d transactions exceeds bound %d", round, len(simplified), debtors+creditors-1)
		}
		pairwise := PairwiseTransactions(people, expenses, payments)
		if len(simplified) > len(pairwise) {
			t.Fatalf("round %d: simplified (%d) emitted more transactions than pairwise (%d)",
				round, len(simplified), len(pairwise))
		}

		// Pure functions: recomputation on unchanged input is identical.
		if again := NetBalances(people, expenses, payments); !reflect.DeepEqual(balances, again) {
			t.Fatalf("round %d: NetBalances not deterministic", round)
		}
		if again := PairwiseTransactions(people, expenses, payments); !reflect.DeepEqual(pairwise, again) {
			t.Fatalf("round %d: PairwiseTransactions not deterministic", round)
		}
		if again := SimplifyBalances(balances); !reflect.DeepEqual(simplified, again) {
			t.Fatalf("round %d: SimplifyBalances not deterministic", round)
		}
	}
}
