package settlement

import "sort"

// pair is a directed debtor→creditor edge key.
type pair struct {
	from, to string
}

// PairwiseTransactions derives the person-to-person debts directly
// attributable to shared expenses, so a debt can be explained by the
// expenses that produced it.
//
// For each expense, every sharer owes every payer a slice of their share
// proportional to how much of the total that payer fronted (the whole share
// when there is a single payer). Celebration contributions are deliberately
// excluded from this attribution and only affect net balances; see
// NetBalances.
//
// Opposite-direction debts between the same two people are netted into a
// single transaction, settlement payments recorded between exactly that
// debtor/creditor pair are subtracted, and anything left under Epsilon is
// dropped. Surviving transactions keep the ids of the contributing expenses.
func PairwiseTransactions(people []string, expenses []Expense, payments []Payment) []Transaction {
	debts := make(map[pair]float64)
	contrib := make(map[pair]map[string]struct{})

	addDebt := func(from, to, expenseID string, amt float64) {
		if amt <= 0 {
			return
		}
		k := pair{from, to}
		debts[k] += amt
		if contrib[k] == nil {
			contrib[k] = make(map[string]struct{})
		}
		contrib[k][expenseID] = struct{}{}
	}

	for _, e := range expenses {
		var payers []Entry
		var totalPaid float64
		for _, p := range e.PaidBy {
			if a := amount(p.Amount); a > 0 {
				payers = append(payers, Entry{PersonID: p.PersonID, Amount: a})
				totalPaid += a
			}
		}
		if len(payers) == 0 {
			continue
		}

		// The paid_by sum equals the stored total by invariant; fall back to
		// the observed sum when the stored total is unusable.
		total := amount(e.Total)
		if total < Epsilon {
			total = totalPaid
		}

		for _, s := range e.Shares {
			share := amount(s.Amount)
			if share <= 0 {
				continue
			}
			if len(payers) == 1 {
				if s.PersonID != payers[0].PersonID {
					addDebt(s.PersonID, payers[0].PersonID, e.ID, share)
				}
				continue
			}
			for _, p := range payers {
				if s.PersonID == p.PersonID {
					continue
				}
				addDebt(s.PersonID, p.PersonID, e.ID, share*(p.Amount/total))
			}
		}
	}

	// Net opposite directions down to one signed edge per unordered pair.
	seen := make(map[pair]bool)
	var txs []Transaction
	for k, owed := range debts {
		rk := pair{k.to, k.from}
		if seen[k] || seen[rk] {
			continue
		}
		seen[k] = true
		seen[rk] = true

		net := owed - debts[rk]
		from, to := k.from, k.to
		if net < 0 {
			net = -net
			from, to = to, from
		}

		// A real payment from the debtor to the creditor reduces or zeroes
		// the remaining debt; it never flips the direction.
		for _, p := range payments {
			if p.DebtorID == from && p.CreditorID == to {
				net -= amount(p.Amount)
			}
		}
		if net < Epsilon {
			continue
		}

		ids := make(map[string]struct{})
		for id := range contrib[k] {
			ids[id] = struct{}{}
		}
		for id := range contrib[rk] {
			ids[id] = struct{}{}
		}
		expenseIDs := make([]string, 0, len(ids))
		for id := range ids {
			expenseIDs = append(expenseIDs, id)
		}
		sort.Strings(expenseIDs)

		txs = append(txs, Transaction{
			From:                   from,
			To:                     to,
			Amount:                 net,
			ContributingExpenseIDs: expenseIDs,
		})
	}

	sortTransactions(txs)
	return txs
}
