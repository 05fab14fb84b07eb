package model

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType distinguishes manual income from expenses.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// IsValid reports whether the type is INCOME or EXPENSE.
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction is a manual financial entry, independent of appointments.
type Transaction struct {
	Base
	Audit
	TenantID    uuid.UUID       `json:"-" db:"tenant_id"`
	Description string          `json:"description" db:"description"`
	Type        TransactionType `json:"type" db:"type"`
	Amount      float64         `json:"amount" db:"amount"`
	Datetime    time.Time       `json:"datetime" db:"datetime"`
}
