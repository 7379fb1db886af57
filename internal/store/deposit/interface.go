package deposit

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/wagerly/bridge-backend/internal/model"
	"github.com/wagerly/bridge-backend/internal/store/storeutil"
)

type IStore interface {
	// Create inserts a detected deposit. A duplicate
	// (network, tx_hash, deposit_address) reports AlreadyExists, not an
	// error: a concurrent detector recorded the same transfer first.
	Create(tx *gorm.DB, deposit *model.Deposit) (*model.Deposit, storeutil.CreateResult, error)
	// FindByTxHash returns every deposit recorded for the hash; one
	// transaction can pay several deposit addresses.
	FindByTxHash(tx *gorm.DB, network model.Network, txHash string) ([]model.Deposit, error)
	FindByStatus(tx *gorm.DB, network model.Network, status model.DepositStatus) ([]model.Deposit, error)
	MarkConfirmed(tx *gorm.DB, id uint, amountUSD, priceUsed decimal.Decimal) error
	MarkBelowMinimum(tx *gorm.DB, id uint) error
	MarkCredited(tx *gorm.DB, id uint) error
}
