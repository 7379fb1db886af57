package model

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type LedgerTransactionType string

const (
	LedgerTypeDeposit    LedgerTransactionType = "DEPOSIT"
	LedgerTypeWithdrawal LedgerTransactionType = "WITHDRAWAL"
	LedgerTypeRefund     LedgerTransactionType = "REFUND"
)

// LedgerTransaction is one immutable balance mutation. ExternalID is unique;
// inserting it and mutating User.Balance happen in the same database
// transaction, which is what makes crediting and debiting idempotent.
type LedgerTransaction struct {
	gorm.Model
	UserID      uint                  `gorm:"column:user_id;not null;index"`
	ExternalID  string                `gorm:"column:external_id;type:varchar(255);not null;uniqueIndex"`
	Type        LedgerTransactionType `gorm:"column:type;type:varchar(20);not null"`
	Amount      decimal.Decimal       `gorm:"column:amount;type:numeric(20,8);not null"`
	Description string                `gorm:"column:description;type:varchar(255)"`
}

func (LedgerTransaction) TableName() string {
	return "ledger_transactions"
}
