package models

import "time"

// CategoryIncome is the primary category assigned to income transactions.
const CategoryIncome = "INCOME"

// Transaction represents a financial transaction.
// Amounts are signed minor units: positive = debit (money out),
// negative = credit (money in).
type Transaction struct {
	ID               string    `json:"id"`
	AccountID        string    `json:"account_id"`
	Date             time.Time `json:"date"`
	Amount           int64     `json:"amount"`
	Category         string    `json:"category"`
	CategoryDetailed string    `json:"category_detailed,omitempty"`
	MerchantName     string    `json:"merchant_name,omitempty"`
	MerchantEntityID string    `json:"merchant_entity_id,omitempty"`
}
