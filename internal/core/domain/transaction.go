package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the closed set of recognised movement kinds.
type TransactionType string

const (
	TransactionDeposit    TransactionType = "DEPOSIT"
	TransactionWithdrawal TransactionType = "WITHDRAWAL"
	TransactionDebit      TransactionType = "DEBIT"
	TransactionCredit     TransactionType = "CREDIT"
)

const (
	MaxDescriptionLength = 255
	// MaxAmountDigits bounds both the significant digits and the scale of an
	// amount so every amount fits a Decimal128 exactly.
	MaxAmountDigits = 34
)

// Valid reports whether t is a recognised transaction type.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionDeposit, TransactionWithdrawal, TransactionDebit, TransactionCredit:
		return true
	}
	return false
}

// Transaction is a monetary movement attached to a user.
// UserID and CreatedAt are immutable after creation.
type Transaction struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	Type        TransactionType `json:"type"`
	CreatedAt   time.Time       `json:"created_at"`
}
