package model

import "gorm.io/gorm"

// WalletAddress is a per-user deposit address on one network. Created on
// demand when the user first asks for a deposit address, immutable after.
type WalletAddress struct {
	gorm.Model
	UserID          uint    `gorm:"column:user_id;not null;uniqueIndex:idx_wallet_addresses_user_network"`
	Network         Network `gorm:"column:network;type:varchar(10);not null;uniqueIndex:idx_wallet_addresses_user_network;uniqueIndex:idx_wallet_addresses_network_address"`
	Address         string  `gorm:"column:address;type:varchar(255);not null;uniqueIndex:idx_wallet_addresses_network_address"`
	DerivationIndex uint32  `gorm:"column:derivation_index;not null"`
}

func (WalletAddress) TableName() string {
	return "wallet_addresses"
}
