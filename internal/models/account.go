package models

// Account types and subtypes as reported by the data provider.
const (
	AccountTypeDepository = "depository"
	AccountTypeCredit     = "credit"

	SubtypeChecking    = "checking"
	SubtypeSavings     = "savings"
	SubtypeMoneyMarket = "money_market"
	SubtypeCD          = "cd"
	SubtypeCreditCard  = "credit_card"
)

// Account represents a linked financial account
type Account struct {
	ID                string  `json:"id"`
	UserID            string  `json:"user_id"`
	Type              string  `json:"type"`
	Subtype           string  `json:"subtype"`
	Name              string  `json:"name"`
	Balance           int64   `json:"balance"` // minor units
	Limit             int64   `json:"limit"`   // minor units, credit accounts only
	APR               float64 `json:"apr"`
	IsOverdue         bool    `json:"is_overdue"`
	LastPaymentAmount int64   `json:"last_payment_amount"` // minor units
	MinPayment        int64   `json:"min_payment"`         // minor units
}
