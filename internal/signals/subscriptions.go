package signals

import (
	"sort"

	"github.com/spendsense/spendsense/internal/models"
)

const weeksPerMonth = 4.33

// DetectSubscriptions finds recurring merchants from transaction cadence.
// A merchant with at least three debits whose average inter-transaction gap
// falls in [20,45] days is monthly, [5,10] days is weekly; anything else is
// discarded as non-recurring.
func DetectSubscriptions(transactions []models.Transaction, windowDays int) SubscriptionSignal {
	empty := SubscriptionSignal{RecurringMerchants: []RecurringMerchant{}}
	if len(transactions) < 3 {
		return empty
	}

	var debits []models.Transaction
	var totalSpend int64
	for _, t := range transactions {
		if t.Amount > 0 && t.Category != models.CategoryIncome {
			debits = append(debits, t)
			totalSpend += t.Amount
		}
	}
	if len(debits) == 0 || totalSpend == 0 {
		return empty
	}

	// Group by normalized merchant identity, falling back to the raw name.
	groups := make(map[string][]models.Transaction)
	displayName := make(map[string]string)
	for _, t := range debits {
		key := t.MerchantEntityID
		if key == "" {
			key = t.MerchantName
		}
		if key == "" {
			continue
		}
		groups[key] = append(groups[key], t)
		if displayName[key] == "" {
			displayName[key] = t.MerchantName
		}
	}

	var recurring []RecurringMerchant
	var totalRecurringSpend int64

	for key, txns := range groups {
		if len(txns) < 3 {
			continue
		}
		sort.Slice(txns, func(i, j int) bool { return txns[i].Date.Before(txns[j].Date) })

		var gapSum float64
		for i := 0; i < len(txns)-1; i++ {
			gapSum += txns[i+1].Date.Sub(txns[i].Date).Hours() / 24
		}
		avgGap := gapSum / float64(len(txns)-1)

		var frequency string
		switch {
		case avgGap >= 20 && avgGap <= 45:
			frequency = FrequencyMonthly
		case avgGap >= 5 && avgGap <= 10:
			frequency = FrequencyWeekly
		default:
			continue
		}

		var sum int64
		for _, t := range txns {
			sum += t.Amount
		}
		avgAmount := sum / int64(len(txns))

		monthlySpend := avgAmount
		if frequency == FrequencyWeekly {
			monthlySpend = int64(float64(avgAmount) * weeksPerMonth)
		}
		totalRecurringSpend += monthlySpend

		name := displayName[key]
		if name == "" {
			name = key
		}
		recurring = append(recurring, RecurringMerchant{
			Name:      name,
			Frequency: frequency,
			AvgAmount: avgAmount,
			Count:     len(txns),
		})
	}

	// Map iteration order is random; keep the output deterministic.
	sort.Slice(recurring, func(i, j int) bool { return recurring[i].Name < recurring[j].Name })
	if recurring == nil {
		recurring = []RecurringMerchant{}
	}

	// Recurring spend is a monthly rate; scale it back to the window before
	// comparing against the window's total spend.
	var percentage float64
	if windowDays > 0 {
		recurringInWindow := float64(totalRecurringSpend) * (float64(windowDays) / 30)
		percentage = round2(recurringInWindow / float64(totalSpend) * 100)
	}

	return SubscriptionSignal{
		RecurringMerchants:    recurring,
		Count:                 len(recurring),
		MonthlyRecurringSpend: totalRecurringSpend,
		PercentageOfSpending:  percentage,
	}
}
