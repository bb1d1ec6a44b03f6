package signals

import (
	"sort"

	"github.com/spendsense/spendsense/internal/models"
)

// AnalyzeIncome classifies income frequency and stability from the income
// transactions inside the window and estimates the cash flow buffer.
//
// Fewer than two income transactions (or zero total income) returns the
// "unknown" zeroed record rather than an error.
func AnalyzeIncome(transactions []models.Transaction, windowDays int) IncomeSignal {
	unknown := IncomeSignal{
		Frequency: FrequencyUnknown,
		Stability: StabilityUnknown,
	}

	var incomeTxns []models.Transaction
	for _, t := range transactions {
		if t.Category == models.CategoryIncome {
			incomeTxns = append(incomeTxns, t)
		}
	}
	if len(incomeTxns) < 2 {
		return unknown
	}

	sort.Slice(incomeTxns, func(i, j int) bool {
		return incomeTxns[i].Date.Before(incomeTxns[j].Date)
	})

	// Income is credit-signed; take absolute amounts.
	amounts := make([]int64, len(incomeTxns))
	var totalIncome int64
	for i, t := range incomeTxns {
		a := t.Amount
		if a < 0 {
			a = -a
		}
		amounts[i] = a
		totalIncome += a
	}
	if totalIncome == 0 {
		return unknown
	}

	// Gaps in days between consecutive income events.
	gaps := make([]int, 0, len(incomeTxns)-1)
	for i := 0; i < len(incomeTxns)-1; i++ {
		gap := int(incomeTxns[i+1].Date.Sub(incomeTxns[i].Date).Hours() / 24)
		gaps = append(gaps, gap)
	}
	medianGap := int(medianInt(gaps))

	var frequency string
	switch {
	case medianGap >= 13 && medianGap <= 16:
		frequency = FrequencyBiweekly
	case medianGap >= 28 && medianGap <= 32:
		frequency = FrequencyMonthly
	case medianGap >= 6 && medianGap <= 8:
		frequency = FrequencyWeekly
	default:
		frequency = FrequencyVariable
	}

	average := int64(mean(amounts))

	var cv float64
	stability := StabilityUnknown
	if len(amounts) >= 2 {
		stdev := sampleStdev(amounts)
		if average > 0 {
			cv = stdev / float64(average)
		}
		if cv < 0.15 {
			stability = StabilityStable
		} else {
			stability = StabilityVariable
		}
	}

	// Cash flow buffer: net of income over non-income debits, expressed in
	// months of the debit rate. A zero debit rate pins the buffer at 0.0
	// even when income exists.
	var totalExpenses int64
	for _, t := range transactions {
		if t.Category != models.CategoryIncome && t.Amount > 0 {
			totalExpenses += t.Amount
		}
	}
	var bufferMonths float64
	if windowDays > 0 {
		monthlyExpenses := float64(totalExpenses) / (float64(windowDays) / 30)
		if monthlyExpenses > 0 {
			bufferMonths = float64(totalIncome-totalExpenses) / monthlyExpenses
		}
	}

	return IncomeSignal{
		Frequency:            frequency,
		Stability:            stability,
		AverageAmount:        average,
		CoefficientVariation: round4(cv),
		BufferMonths:         round2(bufferMonths),
		MedianGapDays:        medianGap,
	}
}
