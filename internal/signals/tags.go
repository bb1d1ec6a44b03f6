package signals

// Derived signal tags used by catalog matching and offer eligibility.
const (
	TagVariableIncome    = "variable_income"
	TagStableIncome      = "stable_income"
	TagSubscriptionHeavy = "subscription_heavy"
	TagPositiveSavings   = "positive_savings"
	TagLowEmergencyFund  = "low_emergency_fund"
)

// ExtractTags derives the active signal tags from a computed signal set.
// The derivation is deterministic; tag order follows evaluation order.
func ExtractTags(sig BehaviorSignals) []string {
	tags := []string{}

	switch {
	case sig.Credit.OverallUtilization >= 80:
		tags = append(tags, FlagHighUtilization80)
	case sig.Credit.OverallUtilization >= 50:
		tags = append(tags, FlagHighUtilization50)
	case sig.Credit.OverallUtilization >= 30:
		tags = append(tags, FlagModerateUtil30)
	}
	for _, f := range sig.Credit.Flags {
		if f == FlagInterestCharges || f == FlagOverdue {
			tags = append(tags, f)
		}
	}

	if sig.Income.MedianGapDays > 45 {
		tags = append(tags, TagVariableIncome)
	}
	if sig.Income.Stability == StabilityStable {
		tags = append(tags, TagStableIncome)
	}

	if sig.Subscriptions.Count >= 3 {
		tags = append(tags, TagSubscriptionHeavy)
	}

	if sig.Savings.MonthlyInflow > 0 {
		tags = append(tags, TagPositiveSavings)
	}
	if sig.Savings.EmergencyFundMonths < 3.0 {
		tags = append(tags, TagLowEmergencyFund)
	}

	return tags
}

// HasTag reports whether tag is present in tags.
func HasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
