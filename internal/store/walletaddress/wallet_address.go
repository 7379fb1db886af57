package walletaddress

import (
	"gorm.io/gorm"

	"github.com/wagerly/bridge-backend/internal/model"
	"github.com/wagerly/bridge-backend/internal/store/storeutil"
)

type Store struct {
}

func New() IStore {
	return &Store{}
}

func (s *Store) Create(tx *gorm.DB, addr *model.WalletAddress) (*model.WalletAddress, storeutil.CreateResult, error) {
	result, err := storeutil.ClassifyCreateErr(tx.Create(addr).Error)
	return addr, result, err
}

func (s *Store) GetByUserAndNetwork(tx *gorm.DB, userID uint, network model.Network) (*model.WalletAddress, error) {
	var addr model.WalletAddress
	err := tx.Where("user_id = ? AND network = ?", userID, network).First(&addr).Error
	if err != nil {
		return nil, err
	}
	return &addr, nil
}

func (s *Store) GetByAddress(tx *gorm.DB, network model.Network, address string) (*model.WalletAddress, error) {
	var addr model.WalletAddress
	err := tx.Where("network = ? AND address = ?", network, address).First(&addr).Error
	if err != nil {
		return nil, err
	}
	return &addr, nil
}

func (s *Store) ListByNetwork(tx *gorm.DB, network model.Network) ([]model.WalletAddress, error) {
	var addrs []model.WalletAddress
	err := tx.Where("network = ?", network).Find(&addrs).Error
	if err != nil {
		return nil, err
	}
	return addrs, nil
}

func (s *Store) NextDerivationIndex(tx *gorm.DB, network model.Network) (uint32, error) {
	var max *uint32
	err := tx.Model(&model.WalletAddress{}).
		Where("network = ?", network).
		Select("MAX(derivation_index)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max + 1, nil
}
