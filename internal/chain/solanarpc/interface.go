package solanarpc

import (
	"context"

	"github.com/wagerly/bridge-backend/internal/chain"
)

type ISolanaRpc interface {
	chain.Client
	// GetTokenTransfers lists recent inbound SPL token transfers to one
	// deposit address, derived from pre/post token balances of the owner
	// in each jsonParsed transaction.
	GetTokenTransfers(ctx context.Context, address string, limit int) ([]chain.TransferEvent, error)
}
