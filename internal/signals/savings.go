package signals

import "github.com/spendsense/spendsense/internal/models"

// noExpenseSentinel replaces an unbounded emergency fund when a positive
// savings balance meets a zero tracked expense rate. Finite so the value
// survives JSON encoding.
const noExpenseSentinel = 999.0

var savingsSubtypes = map[string]bool{
	models.SubtypeSavings:     true,
	models.SubtypeMoneyMarket: true,
	models.SubtypeCD:          true,
}

// AnalyzeSavings computes net savings inflow, growth rate and emergency fund
// coverage over the window. Transactions are expected to already be scoped to
// the lookback window by the caller.
func AnalyzeSavings(accounts []models.Account, transactions []models.Transaction, windowDays int) SavingsSignal {
	savingsIDs := make(map[string]bool)
	var totalBalance int64
	for _, acc := range accounts {
		if savingsSubtypes[acc.Subtype] {
			savingsIDs[acc.ID] = true
			totalBalance += acc.Balance
		}
	}
	if len(savingsIDs) == 0 {
		return SavingsSignal{}
	}

	// Net inflow restricted to the savings accounts. Credits carry negative
	// amounts, so money in is the reversed sign.
	var credits, debits int64
	for _, t := range transactions {
		if !savingsIDs[t.AccountID] {
			continue
		}
		if t.Amount < 0 {
			credits += -t.Amount
		} else {
			debits += t.Amount
		}
	}
	netInflow := credits - debits

	var monthlyInflow int64
	if windowDays > 0 {
		monthlyInflow = int64(float64(netInflow) / (float64(windowDays) / 30))
	}

	// Expense rate over ALL non-income debits: users spend from savings too.
	var totalDebits int64
	for _, t := range transactions {
		if t.Amount > 0 && t.Category != models.CategoryIncome {
			totalDebits += t.Amount
		}
	}
	var monthlyExpenses int64
	if windowDays > 0 {
		monthlyExpenses = int64(float64(totalDebits) / (float64(windowDays) / 30))
	}

	var emergencyMonths float64
	switch {
	case monthlyExpenses > 0:
		emergencyMonths = round2(float64(totalBalance) / float64(monthlyExpenses))
	case totalBalance > 0:
		emergencyMonths = noExpenseSentinel
	}

	var growthRate float64
	if totalBalance > 0 {
		growthRate = round2(float64(netInflow) / float64(totalBalance) * 100)
	}

	return SavingsSignal{
		TotalBalance:        totalBalance,
		NetInflow:           netInflow,
		MonthlyInflow:       monthlyInflow,
		GrowthRate:          growthRate,
		EmergencyFundMonths: emergencyMonths,
	}
}
