package store

import (
	"github.com/wagerly/bridge-backend/internal/store/blockcursor"
	"github.com/wagerly/bridge-backend/internal/store/deposit"
	"github.com/wagerly/bridge-backend/internal/store/ledgertransaction"
	"github.com/wagerly/bridge-backend/internal/store/user"
	"github.com/wagerly/bridge-backend/internal/store/walletaddress"
	"github.com/wagerly/bridge-backend/internal/store/withdrawalrequest"
)

type Store struct {
	User              user.IStore
	WalletAddress     walletaddress.IStore
	BlockCursor       blockcursor.IStore
	Deposit           deposit.IStore
	LedgerTransaction ledgertransaction.IStore
	WithdrawalRequest withdrawalrequest.IStore
}

func New() *Store {
	return &Store{
		User:              user.New(),
		WalletAddress:     walletaddress.New(),
		BlockCursor:       blockcursor.New(),
		Deposit:           deposit.New(),
		LedgerTransaction: ledgertransaction.New(),
		WithdrawalRequest: withdrawalrequest.New(),
	}
}
