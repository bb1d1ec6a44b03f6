package signals

// Income frequency classifications.
const (
	FrequencyBiweekly = "biweekly"
	FrequencyMonthly  = "monthly"
	FrequencyWeekly   = "weekly"
	FrequencyVariable = "variable"
	FrequencyUnknown  = "unknown"
)

// Income stability classifications.
const (
	StabilityStable   = "stable"
	StabilityVariable = "variable"
	StabilityUnknown  = "unknown"
)

// Credit warning flags, in evaluation order.
const (
	FlagOverdue            = "overdue"
	FlagInterestCharges    = "interest_charges"
	FlagMinimumPaymentOnly = "minimum_payment_only"
	FlagHighUtilization80  = "high_utilization_80"
	FlagHighUtilization50  = "high_utilization_50"
	FlagModerateUtil30     = "moderate_utilization_30"
)

// IncomeSignal describes income frequency, stability and cash flow buffer.
type IncomeSignal struct {
	Frequency            string  `json:"frequency"`
	Stability            string  `json:"stability"`
	AverageAmount        int64   `json:"average_amount"` // minor units
	CoefficientVariation float64 `json:"coefficient_variation"`
	BufferMonths         float64 `json:"buffer_months"`
	MedianGapDays        int     `json:"median_gap_days"`
}

// SavingsSignal describes net savings inflow and emergency fund coverage.
type SavingsSignal struct {
	TotalBalance        int64   `json:"total_balance"`  // minor units
	NetInflow           int64   `json:"net_inflow"`     // minor units, may be negative
	MonthlyInflow       int64   `json:"monthly_inflow"` // minor units, 30-day rate
	GrowthRate          float64 `json:"growth_rate"`    // percent
	EmergencyFundMonths float64 `json:"emergency_fund_months"`
}

// CardUtilization is the per-card breakdown of a CreditSignal.
type CardUtilization struct {
	AccountID   string  `json:"account_id"`
	Utilization float64 `json:"utilization"` // percent
	Balance     int64   `json:"balance"`
	Limit       int64   `json:"limit"`
}

// CreditSignal describes credit utilization and risk flags.
type CreditSignal struct {
	OverallUtilization float64           `json:"overall_utilization"` // percent 0-100
	TotalBalance       int64             `json:"total_balance"`
	TotalLimit         int64             `json:"total_limit"`
	MonthlyInterest    int64             `json:"monthly_interest"` // minor units
	Flags              []string          `json:"flags"`
	PerCard            []CardUtilization `json:"per_card"`
}

// RecurringMerchant is one detected subscription.
type RecurringMerchant struct {
	Name      string `json:"name"`
	Frequency string `json:"frequency"` // "monthly" or "weekly"
	AvgAmount int64  `json:"avg_amount"`
	Count     int    `json:"count"`
}

// SubscriptionSignal describes recurring merchant spend.
type SubscriptionSignal struct {
	RecurringMerchants    []RecurringMerchant `json:"recurring_merchants"`
	Count                 int                 `json:"count"`
	MonthlyRecurringSpend int64               `json:"monthly_recurring_spend"`
	PercentageOfSpending  float64             `json:"percentage_of_spending"`
}

// BehaviorSignals aggregates all computed behavioral signals for a user.
// Every field is always present; detectors return zeroed/"unknown" records
// when data is insufficient. Signals are recomputed fresh per request and
// never cached.
type BehaviorSignals struct {
	Income        IncomeSignal       `json:"income"`
	Savings       SavingsSignal      `json:"savings"`
	Credit        CreditSignal       `json:"credit"`
	Subscriptions SubscriptionSignal `json:"subscriptions"`
}
