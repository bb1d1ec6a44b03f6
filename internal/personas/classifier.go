// Package personas assigns one of six behavioral personas from computed
// signals. Personas are evaluated in a fixed priority order, most urgent
// first; the first rule whose confidence function reports a positive score
// wins and later rules are never evaluated.
package personas

import (
	"github.com/spendsense/spendsense/internal/signals"
)

// Persona types, in priority order.
const (
	PersonaHighUtilization   = "high_utilization"
	PersonaVariableIncome    = "variable_income"
	PersonaDebtConsolidator  = "debt_consolidator"
	PersonaSubscriptionHeavy = "subscription_heavy"
	PersonaSavingsBuilder    = "savings_builder"
	PersonaBalanced          = "balanced"
)

// balancedConfidence is the fixed confidence of the fallback persona.
const balancedConfidence = 0.60

// rule pairs a persona with its graded confidence function. A confidence of
// zero means the persona did not match.
type rule struct {
	persona    string
	confidence func(signals.BehaviorSignals) float64
}

var rules = []rule{
	{PersonaHighUtilization, highUtilizationConfidence},
	{PersonaVariableIncome, variableIncomeConfidence},
	{PersonaDebtConsolidator, debtConsolidatorConfidence},
	{PersonaSubscriptionHeavy, subscriptionHeavyConfidence},
	{PersonaSavingsBuilder, savingsBuilderConfidence},
}

// Classify evaluates the rule list against the signals and returns the first
// matching persona with its confidence. Identical signals always produce an
// identical result.
func Classify(sig signals.BehaviorSignals) (string, float64) {
	for _, r := range rules {
		if c := r.confidence(sig); c > 0 {
			return r.persona, c
		}
	}
	return PersonaBalanced, balancedConfidence
}

// highUtilizationConfidence matches when overall utilization reaches 50% or
// any risk flag (interest charges, overdue, minimum-payment-only) is present.
// Base 0.65-0.90 by utilization band, +0.05-0.10 per secondary flag, cap 0.98.
func highUtilizationConfidence(sig signals.BehaviorSignals) float64 {
	credit := sig.Credit
	util := credit.OverallUtilization

	var conf float64
	switch {
	case util >= 90:
		conf = 0.90
	case util >= 80:
		conf = 0.85
	case util >= 70:
		conf = 0.80
	case util >= 50:
		conf = 0.70
	}

	overdue := signals.HasTag(credit.Flags, signals.FlagOverdue)
	interest := signals.HasTag(credit.Flags, signals.FlagInterestCharges)
	minOnly := signals.HasTag(credit.Flags, signals.FlagMinimumPaymentOnly)

	if conf == 0 && !overdue && !interest && !minOnly {
		return 0
	}
	if conf == 0 {
		conf = 0.65
	}

	if overdue {
		conf = capAt(conf+0.10, 0.98)
	}
	if interest {
		conf = capAt(conf+0.05, 0.98)
	}
	if minOnly {
		conf = capAt(conf+0.05, 0.98)
	}
	if conf < 0.65 {
		conf = 0.65
	}
	return capAt(conf, 0.98)
}

// variableIncomeConfidence matches irregular income with a thin buffer:
// median pay gap >45 days and buffer below one month. Base 0.75-0.90 by gap
// severity, +0.05-0.10 for very low buffer, cap 0.95.
func variableIncomeConfidence(sig signals.BehaviorSignals) float64 {
	income := sig.Income
	if income.MedianGapDays <= 45 || income.BufferMonths >= 1.0 {
		return 0
	}

	var conf float64
	switch {
	case income.MedianGapDays >= 90:
		conf = 0.90
	case income.MedianGapDays >= 60:
		conf = 0.85
	default:
		conf = 0.75
	}

	if income.BufferMonths < 0.25 {
		conf = capAt(conf+0.10, 0.95)
	} else if income.BufferMonths < 0.5 {
		conf = capAt(conf+0.05, 0.95)
	}
	return capAt(conf, 0.95)
}

// debtConsolidatorConfidence matches a consolidation opportunity: moderate
// utilization [30,70), two or more cards carrying balances, interest being
// paid, not overdue, and a known income cadence. Base 0.75-0.88 by
// utilization, boosts for card count and interest, cap 0.92.
func debtConsolidatorConfidence(sig signals.BehaviorSignals) float64 {
	credit := sig.Credit
	util := credit.OverallUtilization
	if util < 30 || util >= 70 {
		return 0
	}

	cardsWithBalance := 0
	for _, c := range credit.PerCard {
		if c.Balance > 0 {
			cardsWithBalance++
		}
	}
	if cardsWithBalance < 2 {
		return 0
	}
	if credit.MonthlyInterest <= 0 {
		return 0
	}
	if signals.HasTag(credit.Flags, signals.FlagOverdue) {
		return 0
	}
	if sig.Income.Frequency == signals.FrequencyUnknown {
		return 0
	}

	var conf float64
	switch {
	case util >= 60:
		conf = 0.88
	case util >= 50:
		conf = 0.85
	default:
		conf = 0.75
	}

	if cardsWithBalance >= 4 {
		conf = capAt(conf+0.05, 0.92)
	} else if cardsWithBalance >= 3 {
		conf = capAt(conf+0.03, 0.92)
	}

	if credit.MonthlyInterest >= 20000 {
		conf = capAt(conf+0.05, 0.92)
	} else if credit.MonthlyInterest >= 10000 {
		conf = capAt(conf+0.03, 0.92)
	}
	return capAt(conf, 0.92)
}

// subscriptionHeavyConfidence matches three or more subscriptions whose
// recurring spend is at least 5000 minor units a month or 10% of spending.
// Base 0.70-0.85 by count, spend boosts, cap 0.90.
func subscriptionHeavyConfidence(sig signals.BehaviorSignals) float64 {
	subs := sig.Subscriptions
	if subs.Count < 3 {
		return 0
	}
	if subs.MonthlyRecurringSpend < 5000 && subs.PercentageOfSpending < 10.0 {
		return 0
	}

	var conf float64
	switch {
	case subs.Count >= 7:
		conf = 0.85
	case subs.Count >= 5:
		conf = 0.80
	default:
		conf = 0.70
	}

	if subs.MonthlyRecurringSpend >= 20000 {
		conf = capAt(conf+0.08, 0.90)
	} else if subs.MonthlyRecurringSpend >= 10000 {
		conf = capAt(conf+0.05, 0.90)
	}
	if subs.PercentageOfSpending >= 20.0 {
		conf = capAt(conf+0.05, 0.90)
	}
	return capAt(conf, 0.90)
}

// savingsBuilderConfidence matches a positive savings trajectory (growth
// rate >=2% or monthly inflow >=20000 minor units) with utilization below
// 30%. Base 0.70-0.85 by growth, inflow boost, -0.05 when utilization is
// already near the band edge, cap 0.88.
func savingsBuilderConfidence(sig signals.BehaviorSignals) float64 {
	savings := sig.Savings
	if savings.GrowthRate < 2.0 && savings.MonthlyInflow < 20000 {
		return 0
	}
	util := sig.Credit.OverallUtilization
	if util >= 30 {
		return 0
	}

	var conf float64
	switch {
	case savings.GrowthRate >= 5.0:
		conf = 0.85
	case savings.GrowthRate >= 3.0:
		conf = 0.80
	case savings.GrowthRate >= 2.0:
		conf = 0.75
	default:
		conf = 0.70
	}

	if savings.MonthlyInflow >= 50000 {
		conf = capAt(conf+0.05, 0.88)
	} else if savings.MonthlyInflow >= 30000 {
		conf = capAt(conf+0.03, 0.88)
	}

	if util >= 20 {
		conf = conf - 0.05
		if conf < 0.65 {
			conf = 0.65
		}
	}
	return capAt(conf, 0.88)
}

func capAt(v, ceiling float64) float64 {
	if v > ceiling {
		return ceiling
	}
	return v
}
