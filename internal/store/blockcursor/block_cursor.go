package blockcursor

import (
	"gorm.io/gorm"

	"github.com/wagerly/bridge-backend/internal/model"
)

type Store struct {
}

func New() IStore {
	return &Store{}
}

func (s *Store) Get(tx *gorm.DB, network model.Network) (*model.BlockCursor, error) {
	var cursor model.BlockCursor
	err := tx.Where("network = ?", network).First(&cursor).Error
	if err != nil {
		return nil, err
	}
	return &cursor, nil
}

func (s *Store) Create(tx *gorm.DB, cursor *model.BlockCursor) (*model.BlockCursor, error) {
	return cursor, tx.Create(cursor).Error
}

func (s *Store) Advance(tx *gorm.DB, network model.Network, toBlock uint64) error {
	return tx.Model(&model.BlockCursor{}).
		Where("network = ? AND last_processed_block < ?", network, toBlock).
		Update("last_processed_block", toBlock).Error
}
