package ledgertransaction

import (
	"gorm.io/gorm"

	"github.com/wagerly/bridge-backend/internal/model"
	"github.com/wagerly/bridge-backend/internal/store/storeutil"
)

type IStore interface {
	// Create inserts a ledger entry. A duplicate external id reports
	// AlreadyExists: the mutation this entry records already happened.
	Create(tx *gorm.DB, entry *model.LedgerTransaction) (*model.LedgerTransaction, storeutil.CreateResult, error)
	GetByExternalID(tx *gorm.DB, externalID string) (*model.LedgerTransaction, error)
}
