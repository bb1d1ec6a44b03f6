package recommend

import (
	"testing"

	"github.com/spendsense/spendsense/internal/personas"
	"github.com/spendsense/spendsense/internal/signals"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsd(t *testing.T) {
	assert.Equal(t, "$8,500.00", usd(850000))
	assert.Equal(t, "$15.99", usd(1599))
	assert.Equal(t, "$0.00", usd(0))
}

func TestGenerate_HighUtilizationCitesData(t *testing.T) {
	gen := NewGenerator(testLogger())
	sig := signals.BehaviorSignals{
		Credit: signals.CreditSignal{
			OverallUtilization: 85.0,
			TotalBalance:       850000,
			TotalLimit:         1000000,
			Flags:              []string{signals.FlagInterestCharges},
		},
	}

	rationale, err := gen.Generate(personas.PersonaHighUtilization, 0.90, sig,
		[]string{signals.FlagHighUtilization80, signals.FlagInterestCharges})
	require.NoError(t, err)

	assert.Equal(t, personas.PersonaHighUtilization, rationale.PersonaType)
	assert.Equal(t, 0.90, rationale.Confidence)
	assert.Contains(t, rationale.Explanation, "85.0%")
	assert.Contains(t, rationale.Explanation, "$8,500.00")
	assert.Contains(t, rationale.Explanation, "$10,000.00")
	assert.Contains(t, rationale.Explanation, "interest charges")
	assert.Equal(t, []string{signals.FlagHighUtilization80, signals.FlagInterestCharges}, rationale.KeySignals)
}

func TestGenerate_EveryPersonaPassesToneCheck(t *testing.T) {
	gen := NewGenerator(testLogger())
	sig := signals.BehaviorSignals{
		Income: signals.IncomeSignal{
			Frequency:     signals.FrequencyVariable,
			MedianGapDays: 60,
			AverageAmount: 250000,
			BufferMonths:  0.8,
		},
		Savings: signals.SavingsSignal{GrowthRate: 3.0, MonthlyInflow: 40000},
		Credit: signals.CreditSignal{
			OverallUtilization: 45.0,
			TotalBalance:       450000,
			TotalLimit:         1000000,
			MonthlyInterest:    9000,
			PerCard: []signals.CardUtilization{
				{AccountID: "a", Balance: 200000},
				{AccountID: "b", Balance: 250000},
			},
		},
		Subscriptions: signals.SubscriptionSignal{
			Count:                 5,
			MonthlyRecurringSpend: 8000,
			PercentageOfSpending:  12.0,
		},
	}

	for _, persona := range []string{
		personas.PersonaHighUtilization,
		personas.PersonaVariableIncome,
		personas.PersonaDebtConsolidator,
		personas.PersonaSubscriptionHeavy,
		personas.PersonaSavingsBuilder,
		personas.PersonaBalanced,
	} {
		rationale, err := gen.Generate(persona, 0.75, sig, nil)
		require.NoError(t, err, persona)
		assert.NotEmpty(t, rationale.Explanation, persona)
	}
}

func TestGenerate_VariableIncome(t *testing.T) {
	gen := NewGenerator(testLogger())
	sig := signals.BehaviorSignals{
		Income: signals.IncomeSignal{
			MedianGapDays: 60,
			AverageAmount: 250000,
			BufferMonths:  0.8,
		},
	}

	rationale, err := gen.Generate(personas.PersonaVariableIncome, 0.85, sig, nil)
	require.NoError(t, err)
	assert.Contains(t, rationale.Explanation, "60 days")
	assert.Contains(t, rationale.Explanation, "$2,500.00")
	assert.Contains(t, rationale.Explanation, "0.8 months")
}

func TestGenerate_BalancedAlwaysCitesData(t *testing.T) {
	gen := NewGenerator(testLogger())

	// Even a fully zeroed signal set produces a concrete number.
	rationale, err := gen.Generate(personas.PersonaBalanced, 0.60, signals.BehaviorSignals{}, nil)
	require.NoError(t, err)
	assert.Contains(t, rationale.Explanation, "0.0%")
}

func TestItemReason_PerPersona(t *testing.T) {
	gen := NewGenerator(testLogger())
	sig := signals.BehaviorSignals{
		Credit: signals.CreditSignal{
			OverallUtilization: 85.0,
			TotalBalance:       850000,
			Flags:              []string{signals.FlagInterestCharges},
		},
		Subscriptions: signals.SubscriptionSignal{Count: 4, MonthlyRecurringSpend: 6500},
	}
	userTags := []string{signals.FlagInterestCharges}

	reason, err := gen.ItemReason(personas.PersonaHighUtilization, sig, userTags)
	require.NoError(t, err)
	assert.Contains(t, reason, "85.0%")
	assert.Contains(t, reason, "$8,500.00")
	assert.Contains(t, reason, "interest charges")

	reason, err = gen.ItemReason(personas.PersonaSubscriptionHeavy, sig, userTags)
	require.NoError(t, err)
	assert.Contains(t, reason, "4 recurring subscriptions")
	assert.Contains(t, reason, "$65.00")

	reason, err = gen.ItemReason(personas.PersonaBalanced, sig, userTags)
	require.NoError(t, err)
	assert.NotEmpty(t, reason)
}
