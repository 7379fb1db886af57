package withdrawalrequest

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wagerly/bridge-backend/internal/model"
)

type Store struct {
}

func New() IStore {
	return &Store{}
}

func (s *Store) Create(tx *gorm.DB, req *model.WithdrawalRequest) (*model.WithdrawalRequest, error) {
	return req, tx.Create(req).Error
}

func (s *Store) GetByID(tx *gorm.DB, id uint) (*model.WithdrawalRequest, error) {
	var req model.WithdrawalRequest
	err := tx.First(&req, id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (s *Store) GetByIDForUpdate(tx *gorm.DB, id uint) (*model.WithdrawalRequest, error) {
	var req model.WithdrawalRequest
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&req, id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (s *Store) FindByStatus(tx *gorm.DB, status model.WithdrawalStatus) ([]model.WithdrawalRequest, error) {
	var reqs []model.WithdrawalRequest
	err := tx.Where("status = ?", status).Order("id ASC").Find(&reqs).Error
	if err != nil {
		return nil, err
	}
	return reqs, nil
}

// UpdateApproved moves PENDING to APPROVED. The rows-affected count tells the
// caller whether the request really was pending.
func (s *Store) UpdateApproved(tx *gorm.DB, id uint) (int64, error) {
	result := tx.Model(&model.WithdrawalRequest{}).
		Where("id = ? AND status = ?", id, model.WithdrawalStatusPending).
		Update("status", model.WithdrawalStatusApproved)
	return result.RowsAffected, result.Error
}

func (s *Store) MarkSent(tx *gorm.DB, id uint, txID string) error {
	return tx.Model(&model.WithdrawalRequest{}).
		Where("id = ? AND (tx_id IS NULL OR tx_id = '')", id).
		Updates(map[string]interface{}{
			"status": model.WithdrawalStatusSent,
			"tx_id":  txID,
		}).Error
}

func (s *Store) MarkFailed(tx *gorm.DB, id uint, errMsg string) error {
	return tx.Model(&model.WithdrawalRequest{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status": model.WithdrawalStatusFailed,
			"error":  errMsg,
		}).Error
}

func (s *Store) MarkRetrying(tx *gorm.DB, id uint) error {
	return tx.Model(&model.WithdrawalRequest{}).
		Where("id = ? AND status = ?", id, model.WithdrawalStatusFailed).
		Updates(map[string]interface{}{
			"status":      model.WithdrawalStatusApproved,
			"error":       "",
			"retry_count": gorm.Expr("retry_count + 1"),
		}).Error
}
