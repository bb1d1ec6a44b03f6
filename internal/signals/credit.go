package signals

import (
	"math"

	"github.com/spendsense/spendsense/internal/models"
)

// AnalyzeCredit computes utilization and risk flags over credit accounts.
// Transactions are accepted for signature consistency with the other
// detectors but the analysis works on account state alone.
func AnalyzeCredit(accounts []models.Account, _ []models.Transaction) CreditSignal {
	var creditAccounts []models.Account
	for _, acc := range accounts {
		if acc.Type == models.AccountTypeCredit {
			creditAccounts = append(creditAccounts, acc)
		}
	}
	if len(creditAccounts) == 0 {
		return CreditSignal{Flags: []string{}, PerCard: []CardUtilization{}}
	}

	var totalBalance, totalLimit int64
	for _, acc := range creditAccounts {
		totalBalance += acc.Balance
		totalLimit += acc.Limit
	}

	var overall float64
	if totalLimit > 0 {
		overall = round2(float64(totalBalance) / float64(totalLimit) * 100)
	}

	perCard := make([]CardUtilization, 0, len(creditAccounts))
	for _, acc := range creditAccounts {
		var util float64
		if acc.Limit > 0 {
			util = round2(float64(acc.Balance) / float64(acc.Limit) * 100)
		}
		perCard = append(perCard, CardUtilization{
			AccountID:   acc.ID,
			Utilization: util,
			Balance:     acc.Balance,
			Limit:       acc.Limit,
		})
	}

	var interest float64
	for _, acc := range creditAccounts {
		interest += float64(acc.Balance) * acc.APR / 100 / 12
	}
	monthlyInterest := int64(math.Round(interest))

	flags := []string{}

	for _, acc := range creditAccounts {
		if acc.IsOverdue {
			flags = append(flags, FlagOverdue)
			break
		}
	}

	if monthlyInterest > 0 {
		flags = append(flags, FlagInterestCharges)
	}

	// 10% tolerance over the minimum covers rounding and fees.
	for _, acc := range creditAccounts {
		if acc.MinPayment > 0 && acc.LastPaymentAmount > 0 &&
			float64(acc.LastPaymentAmount) <= float64(acc.MinPayment)*1.1 {
			flags = append(flags, FlagMinimumPaymentOnly)
			break
		}
	}

	// At most one utilization band flag, highest threshold met.
	switch {
	case overall >= 80:
		flags = append(flags, FlagHighUtilization80)
	case overall >= 50:
		flags = append(flags, FlagHighUtilization50)
	case overall >= 30:
		flags = append(flags, FlagModerateUtil30)
	}

	return CreditSignal{
		OverallUtilization: overall,
		TotalBalance:       totalBalance,
		TotalLimit:         totalLimit,
		MonthlyInterest:    monthlyInterest,
		Flags:              flags,
		PerCard:            perCard,
	}
}
