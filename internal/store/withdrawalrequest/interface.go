package withdrawalrequest

import (
	"gorm.io/gorm"

	"github.com/wagerly/bridge-backend/internal/model"
)

type IStore interface {
	Create(tx *gorm.DB, req *model.WithdrawalRequest) (*model.WithdrawalRequest, error)
	GetByID(tx *gorm.DB, id uint) (*model.WithdrawalRequest, error)
	// GetByIDForUpdate locks the request row; the send path holds this lock
	// across the state check and the txID write so a request can never be
	// paid out twice.
	GetByIDForUpdate(tx *gorm.DB, id uint) (*model.WithdrawalRequest, error)
	FindByStatus(tx *gorm.DB, status model.WithdrawalStatus) ([]model.WithdrawalRequest, error)
	UpdateApproved(tx *gorm.DB, id uint) (int64, error)
	MarkSent(tx *gorm.DB, id uint, txID string) error
	MarkFailed(tx *gorm.DB, id uint, errMsg string) error
	MarkRetrying(tx *gorm.DB, id uint) error
}
