package deposit

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/wagerly/bridge-backend/internal/model"
	"github.com/wagerly/bridge-backend/internal/store/storeutil"
)

type Store struct {
}

func New() IStore {
	return &Store{}
}

func (s *Store) Create(tx *gorm.DB, deposit *model.Deposit) (*model.Deposit, storeutil.CreateResult, error) {
	result, err := storeutil.ClassifyCreateErr(tx.Create(deposit).Error)
	return deposit, result, err
}

func (s *Store) FindByTxHash(tx *gorm.DB, network model.Network, txHash string) ([]model.Deposit, error) {
	var deposits []model.Deposit
	err := tx.Where("network = ? AND tx_hash = ?", network, txHash).
		Order("id ASC").
		Find(&deposits).Error
	if err != nil {
		return nil, err
	}
	return deposits, nil
}

func (s *Store) FindByStatus(tx *gorm.DB, network model.Network, status model.DepositStatus) ([]model.Deposit, error) {
	var deposits []model.Deposit
	err := tx.Where("network = ? AND status = ?", network, status).
		Order("id ASC").
		Find(&deposits).Error
	if err != nil {
		return nil, err
	}
	return deposits, nil
}

func (s *Store) MarkConfirmed(tx *gorm.DB, id uint, amountUSD, priceUsed decimal.Decimal) error {
	return tx.Model(&model.Deposit{}).
		Where("id = ? AND status = ?", id, model.DepositStatusDetected).
		Updates(map[string]interface{}{
			"status":       model.DepositStatusConfirmed,
			"amount_usd":   amountUSD,
			"price_used":   priceUsed,
			"confirmed_at": time.Now(),
		}).Error
}

func (s *Store) MarkBelowMinimum(tx *gorm.DB, id uint) error {
	return tx.Model(&model.Deposit{}).
		Where("id = ? AND status = ?", id, model.DepositStatusDetected).
		Updates(map[string]interface{}{
			"status":           model.DepositStatusFailed,
			"is_below_minimum": true,
		}).Error
}

func (s *Store) MarkCredited(tx *gorm.DB, id uint) error {
	return tx.Model(&model.Deposit{}).
		Where("id = ? AND status IN ?", id, []model.DepositStatus{
			model.DepositStatusConfirmed,
			model.DepositStatusCredited,
		}).
		Updates(map[string]interface{}{
			"status":      model.DepositStatusCredited,
			"credited_at": time.Now(),
		}).Error
}
