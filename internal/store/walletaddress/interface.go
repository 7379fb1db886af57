package walletaddress

import (
	"gorm.io/gorm"

	"github.com/wagerly/bridge-backend/internal/model"
	"github.com/wagerly/bridge-backend/internal/store/storeutil"
)

type IStore interface {
	Create(tx *gorm.DB, addr *model.WalletAddress) (*model.WalletAddress, storeutil.CreateResult, error)
	GetByUserAndNetwork(tx *gorm.DB, userID uint, network model.Network) (*model.WalletAddress, error)
	GetByAddress(tx *gorm.DB, network model.Network, address string) (*model.WalletAddress, error)
	ListByNetwork(tx *gorm.DB, network model.Network) ([]model.WalletAddress, error)
	NextDerivationIndex(tx *gorm.DB, network model.Network) (uint32, error)
}
