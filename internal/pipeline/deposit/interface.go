package deposit

import (
	"context"

	"github.com/wagerly/bridge-backend/internal/model"
)

type IPipeline interface {
	// RunCycle runs detect, confirm and credit for one network. It never
	// raises: per-item failures are collected into the result so one bad
	// address or transaction cannot block the rest of the batch. Safe
	// under concurrent re-entry.
	RunCycle(ctx context.Context, network model.Network) *CycleResult

	// CreditByTxHash is the manual recovery path for a single known
	// transaction. It returns every deposit recorded for the hash, one
	// per deposit address the transaction paid. Idempotent: re-running
	// it on already credited deposits changes nothing.
	CreditByTxHash(ctx context.Context, network model.Network, txHash string) ([]model.Deposit, error)

	// RescanForAddress replays detection for one address over a bounded
	// block range (Polygon) or its recent history (TRON, Solana), then
	// confirms and credits whatever it found. Does not move the cursor.
	RescanForAddress(ctx context.Context, network model.Network, address string, fromBlock uint64, toBlock *uint64) (*CycleResult, error)
}

// CycleResult is the partial-failure-tolerant outcome of one cycle.
type CycleResult struct {
	Network   model.Network `json:"network"`
	Detected  int           `json:"detected"`
	Confirmed int           `json:"confirmed"`
	Credited  int           `json:"credited"`
	Errors    []string      `json:"errors"`
}

func (r *CycleResult) addError(err error) {
	r.Errors = append(r.Errors, err.Error())
}
