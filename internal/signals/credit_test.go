package signals

import (
	"testing"

	"github.com/spendsense/spendsense/internal/models"
	"github.com/stretchr/testify/assert"
)

func creditCard(id string, balance, limit int64) models.Account {
	return models.Account{
		ID:      id,
		Type:    models.AccountTypeCredit,
		Subtype: models.SubtypeCreditCard,
		Balance: balance,
		Limit:   limit,
	}
}

func TestAnalyzeCredit_NoCreditAccounts(t *testing.T) {
	accounts := []models.Account{
		{ID: "acc_checking", Type: models.AccountTypeDepository, Subtype: models.SubtypeChecking},
	}
	sig := AnalyzeCredit(accounts, nil)

	assert.Zero(t, sig.OverallUtilization)
	assert.Empty(t, sig.Flags)
	assert.NotNil(t, sig.Flags)
	assert.NotNil(t, sig.PerCard)
}

func TestAnalyzeCredit_FlagOrder(t *testing.T) {
	card := creditCard("acc_card", 850000, 1000000)
	card.APR = 24.0
	card.IsOverdue = true
	card.MinPayment = 2500
	card.LastPaymentAmount = 2500

	sig := AnalyzeCredit([]models.Account{card}, nil)

	assert.InDelta(t, 85.0, sig.OverallUtilization, 0.001)
	assert.Equal(t, int64(17000), sig.MonthlyInterest)
	assert.Equal(t,
		[]string{FlagOverdue, FlagInterestCharges, FlagMinimumPaymentOnly, FlagHighUtilization80},
		sig.Flags)
}

func TestAnalyzeCredit_SingleUtilizationBandFlag(t *testing.T) {
	cases := []struct {
		name    string
		balance int64
		want    []string
	}{
		{"high band only", 550000, []string{FlagHighUtilization50}},
		{"moderate band only", 350000, []string{FlagModerateUtil30}},
		{"below all bands", 200000, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sig := AnalyzeCredit([]models.Account{creditCard("acc_card", tc.balance, 1000000)}, nil)
			assert.Equal(t, tc.want, sig.Flags)
		})
	}
}

func TestAnalyzeCredit_MinimumPaymentTolerance(t *testing.T) {
	card := creditCard("acc_card", 100000, 1000000)
	card.MinPayment = 2500
	card.LastPaymentAmount = 2750 // exactly min * 1.1

	sig := AnalyzeCredit([]models.Account{card}, nil)
	assert.Contains(t, sig.Flags, FlagMinimumPaymentOnly)

	card.LastPaymentAmount = 2800
	sig = AnalyzeCredit([]models.Account{card}, nil)
	assert.NotContains(t, sig.Flags, FlagMinimumPaymentOnly)
}

func TestAnalyzeCredit_PerCardBreakdown(t *testing.T) {
	accounts := []models.Account{
		creditCard("acc_a", 200000, 400000),
		creditCard("acc_b", 100000, 600000),
	}
	sig := AnalyzeCredit(accounts, nil)

	assert.InDelta(t, 30.0, sig.OverallUtilization, 0.001)
	assert.Equal(t, int64(300000), sig.TotalBalance)
	assert.Equal(t, int64(1000000), sig.TotalLimit)
	assert.Len(t, sig.PerCard, 2)
	assert.InDelta(t, 50.0, sig.PerCard[0].Utilization, 0.001)
	assert.InDelta(t, 16.67, sig.PerCard[1].Utilization, 0.001)
}

func TestAnalyzeCredit_ZeroLimit(t *testing.T) {
	sig := AnalyzeCredit([]models.Account{creditCard("acc_card", 50000, 0)}, nil)
	assert.Zero(t, sig.OverallUtilization)
	assert.Zero(t, sig.PerCard[0].Utilization)
}
