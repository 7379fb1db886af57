package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DepositStatus string

const (
	DepositStatusDetected  DepositStatus = "DETECTED"
	DepositStatusConfirmed DepositStatus = "CONFIRMED"
	DepositStatusCredited  DepositStatus = "CREDITED"
	DepositStatusFailed    DepositStatus = "FAILED"
)

// Deposit is one detected inbound transfer. (network, tx_hash, deposit_address)
// is the idempotency key: the same on-chain transfer can never be recorded, and
// therefore never credited, twice. Rows are never deleted.
type Deposit struct {
	gorm.Model
	UserID          uint            `gorm:"column:user_id;not null;index"`
	Network         Network         `gorm:"column:network;type:varchar(10);not null;uniqueIndex:idx_deposits_network_tx_address"`
	TxHash          string          `gorm:"column:tx_hash;type:varchar(128);not null;uniqueIndex:idx_deposits_network_tx_address"`
	DepositAddress  string          `gorm:"column:deposit_address;type:varchar(255);not null;uniqueIndex:idx_deposits_network_tx_address"`
	WalletAddressID uint            `gorm:"column:wallet_address_id;not null"`
	RawAmount       string          `gorm:"column:raw_amount;type:varchar(80);not null"`
	AmountUSD       decimal.Decimal `gorm:"column:amount_usd;type:numeric(20,8)"`
	PriceUsed       decimal.Decimal `gorm:"column:price_used;type:numeric(20,8)"`
	Status          DepositStatus   `gorm:"column:status;type:varchar(20);not null;default:'DETECTED';index"`
	IsBelowMinimum  bool            `gorm:"column:is_below_minimum;not null;default:false"`
	DetectedAt      time.Time       `gorm:"column:detected_at"`
	ConfirmedAt     *time.Time      `gorm:"column:confirmed_at"`
	CreditedAt      *time.Time      `gorm:"column:credited_at"`
}

func (Deposit) TableName() string {
	return "deposits"
}
