package model

import "time"

// BlockCursor is the last block height fully scanned for one network. It is
// only advanced after the whole range up to LastProcessedBlock succeeded.
type BlockCursor struct {
	Network            Network   `gorm:"column:network;type:varchar(10);primaryKey"`
	LastProcessedBlock uint64    `gorm:"column:last_processed_block;not null"`
	CreatedAt          time.Time `gorm:"column:created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at"`
}

func (BlockCursor) TableName() string {
	return "block_cursors"
}
