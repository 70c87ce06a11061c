package domain

import "time"

type TxType string

const (
	TxTypeDebit  TxType = "debit"
	TxTypeCredit TxType = "credit"
)

// Transaction is the audit row written alongside every balance adjustment,
// so that a user's balance always equals the sum of their transaction amounts.
type Transaction struct {
	ID          int64
	UserID      int64
	Amount      int64
	TxType      TxType
	Description string
	CreatedAt   time.Time
}
