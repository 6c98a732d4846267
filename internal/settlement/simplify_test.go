package settlement

import (
	"math"
	"testing"
)

func TestSimplify(t *testing.T) {
	people := []string{"A", "B", "C"}

	t.Run("two_debtors_one_creditor", func(t *testing.T) {
		txs := Simplify(people, []Expense{dinner90()}, nil)

		if len(txs) != 2 {
			t.Fatalf("expected exactly 2 transactions, got %d: %+v", len(txs), txs)
		}
		for _, debtor := range []string{"B", "C"} {
			tx := findTx(txs, debtor, "A")
			if tx == nil {
				t.Fatalf("missing transaction %s -> A", debtor)
			}
			if math.Abs(tx.Amount-30) > Epsilon {
				t.Errorf("%s -> A = %v, want 30", debtor, tx.Amount)
			}
		}
	})

	t.Run("after_partial_settlement", func(t *testing.T) {
		payments := []Payment{
			{DebtorID: "B", CreditorID: "A", Amount: 30},
		}

		txs := Simplify(people, []Expense{dinner90()}, payments)

		if len(txs) != 1 {
			t.Fatalf("expected exactly 1 transaction, got %d: %+v", len(txs), txs)
		}
		tx := txs[0]
		if tx.From != "C" || tx.To != "A" || math.Abs(tx.Amount-30) > Epsilon {
			t.Fatalf("expected C -> A 30, got %s -> %s %v", tx.From, tx.To, tx.Amount)
		}
	})

	t.Run("empty_input", func(t *testing.T) {
		if txs := Simplify(nil, nil, nil); len(txs) != 0 {
			t.Errorf("expected no transactions, got %+v", txs)
		}
	})
}

func TestSimplifyBalances(t *testing.T) {
	t.Run("residuals_below_tolerance_skipped", func(t *testing.T) {
		balances := map[string]float64{
			"A": 0.004,
			"B": -0.004,
			"C": 0,
		}

		if txs := SimplifyBalances(balances); len(txs) != 0 {
			t.Errorf("expected rounding residue to be treated as settled, got %+v", txs)
		}
	})

	t.Run("transaction_count_bound", func(t *testing.T) {
		balances := map[string]float64{
			"A": 120, "B": 30,
			"C": -50, "D": -40, "E": -35, "F": -25,
		}

		txs := SimplifyBalances(balances)

		// 4 debtors + 2 creditors => at most 5 transactions.
		if len(txs) > 5 {
			t.Errorf("expected at most 5 transactions, got %d: %+v", len(txs), txs)
		}
	})

	t.Run("reapplying_transactions_restores_balances", func(t *testing.T) {
		balances := map[string]float64{
			"A": 75.5, "B": -20.25, "C": -55.25, "D": 0,
		}

		txs := SimplifyBalances(balances)

		applied := make(map[string]float64, len(balances))
		for _, tx := range txs {
			applied[tx.From] -= tx.Amount
			applied[tx.To] += tx.Amount
		}
		for id, want := range balances {
			if math.Abs(applied[id]-want) > Epsilon {
				t.Errorf("applied[%s] = %v, want %v", id, applied[id], want)
			}
		}
	})

	t.Run("largest_parties_matched_first", func(t *testing.T) {
		balances := map[string]float64{
			"A": 100, "B": 10,
			"C": -80, "D": -30,
		}

		txs := SimplifyBalances(balances)

		if len(txs) == 0 {
			t.Fatal("expected transactions")
		}
		first := txs[0]
		if first.From != "C" || first.To != "A" || math.Abs(first.Amount-80) > Epsilon {
			t.Errorf("expected C -> A 80 first, got %s -> %s %v", first.From, first.To, first.Amount)
		}
	})
}
