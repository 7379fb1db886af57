package model

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type WithdrawalStatus string

const (
	WithdrawalStatusPending  WithdrawalStatus = "PENDING"
	WithdrawalStatusApproved WithdrawalStatus = "APPROVED"
	WithdrawalStatusSent     WithdrawalStatus = "SENT"
	WithdrawalStatusFailed   WithdrawalStatus = "FAILED"

	// WithdrawalStatusProcessing predates the approve step; Send still
	// accepts it so old rows can be paid out.
	WithdrawalStatusProcessing WithdrawalStatus = "PROCESSING"
)

// WithdrawalRequest is one outbound payout. The gross amount is debited from
// the user at creation time, not at send time. TxID is set exactly once; a
// request whose TxID is already set can never be sent again.
type WithdrawalRequest struct {
	gorm.Model
	UserID      uint             `gorm:"column:user_id;not null;index"`
	Network     Network          `gorm:"column:network;type:varchar(10);not null"`
	ToAddress   string           `gorm:"column:to_address;type:varchar(255);not null"`
	AmountGross decimal.Decimal  `gorm:"column:amount_gross;type:numeric(20,8);not null"`
	Fee         decimal.Decimal  `gorm:"column:fee;type:numeric(20,8);not null"`
	AmountNet   decimal.Decimal  `gorm:"column:amount_net;type:numeric(20,8);not null"`
	Status      WithdrawalStatus `gorm:"column:status;type:varchar(20);not null;default:'PENDING';index"`
	TxID        string           `gorm:"column:tx_id;type:varchar(128)"`
	Error       string           `gorm:"column:error;type:text"`
	RetryCount  int              `gorm:"column:retry_count;not null;default:0"`
}

func (WithdrawalRequest) TableName() string {
	return "withdrawal_requests"
}
