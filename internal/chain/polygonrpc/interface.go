package polygonrpc

import (
	"context"

	"github.com/wagerly/bridge-backend/internal/chain"
)

type IPolygonRpc interface {
	chain.Client
	BlockNumber(ctx context.Context) (uint64, error)
	// FilterTransferLogs scans the token's Transfer events in [fromBlock,
	// toBlock]. The destination address is decoded from the last indexed
	// topic of each log.
	FilterTransferLogs(ctx context.Context, fromBlock, toBlock uint64) ([]chain.TransferEvent, error)
	// TransfersByTxHash extracts the token's Transfer events from one mined
	// transaction, for the manual credit-by-hash recovery path.
	TransfersByTxHash(ctx context.Context, txHash string) ([]chain.TransferEvent, error)
}
