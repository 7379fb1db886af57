package tronrpc

import (
	"context"

	"github.com/wagerly/bridge-backend/internal/chain"
)

type ITronRpc interface {
	chain.Client
	// GetTRC20Transfers lists inbound token transfers for one deposit
	// address, newest first, via the Trongrid account history API.
	GetTRC20Transfers(ctx context.Context, address string) ([]chain.TransferEvent, error)
}
