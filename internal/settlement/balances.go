package settlement

// NetBalances computes each person's signed net position across all expenses
// and settlement payments. Positive means the person is owed money, negative
// means they owe; anything within Epsilon of zero is settled.
//
// Per expense: each payer is credited what they fronted, each sharer is
// debited their share, and a celebration contribution is debited from the
// contributor as an additional voluntary obligation (it reduced the pool the
// others split, it does not offset the contributor's own share).
//
// Per payment: the debtor's balance improves and the creditor's decreases,
// cancelling part of an existing debt.
//
// People appearing only inside expense or payment data are initialized on
// demand; ids listed in people always appear in the result, even at zero.
func NetBalances(people []string, expenses []Expense, payments []Payment) map[string]float64 {
	balances := make(map[string]float64, len(people))
	for _, id := range people {
		balances[id] = 0
	}

	for _, e := range expenses {
		for _, p := range e.PaidBy {
			balances[p.PersonID] += amount(p.Amount)
		}
		for _, s := range e.Shares {
			balances[s.PersonID] -= amount(s.Amount)
		}
		if e.Celebration != nil {
			balances[e.Celebration.PersonID] -= amount(e.Celebration.Amount)
		}
	}

	for _, p := range payments {
		a := amount(p.Amount)
		balances[p.DebtorID] += a
		balances[p.CreditorID] -= a
	}

	return balances
}
