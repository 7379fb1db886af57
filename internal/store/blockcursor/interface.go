package blockcursor

import (
	"gorm.io/gorm"

	"github.com/wagerly/bridge-backend/internal/model"
)

type IStore interface {
	Get(tx *gorm.DB, network model.Network) (*model.BlockCursor, error)
	Create(tx *gorm.DB, cursor *model.BlockCursor) (*model.BlockCursor, error)
	// Advance persists toBlock as the last fully scanned height. It never
	// moves the cursor backwards: a stale toBlock is a silent no-op.
	Advance(tx *gorm.DB, network model.Network, toBlock uint64) error
}
