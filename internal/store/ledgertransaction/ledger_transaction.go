package ledgertransaction

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

func (s *Store) Create(tx *gorm.DB, entry *model.LedgerTransaction) (*model.LedgerTransaction, storeutil.CreateResult, error) {
	result, err := storeutil.ClassifyCreateErr(tx.Create(entry).Error)
	return entry, result, err
}

func (s *Store) GetByExternalID(tx *gorm.DB, externalID string) (*model.LedgerTransaction, error) {
	var entry model.LedgerTransaction
	err := tx.Where("external_id = ?", externalID).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
