package user

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/wagerly/bridge-backend/internal/model"
)

type IStore interface {
	Create(tx *gorm.DB, user *model.User) (*model.User, error)
	GetByID(tx *gorm.DB, id uint) (*model.User, error)
	// GetByIDForUpdate locks the user row until the surrounding transaction
	// commits. Balance checks followed by mutation must use this.
	GetByIDForUpdate(tx *gorm.DB, id uint) (*model.User, error)
	AddToBalance(tx *gorm.DB, id uint, delta decimal.Decimal) error
}
