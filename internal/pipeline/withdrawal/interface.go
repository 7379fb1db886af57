package withdrawal

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/wagerly/bridge-backend/internal/model"
)

type IPipeline interface {
	// Create reserves the gross amount immediately: the balance is debited
	// and a WITHDRAWAL ledger entry written in the same transaction that
	// inserts the PENDING request. Funds are never debited at send time.
	Create(userID uint, network model.Network, toAddress string, amountGross decimal.Decimal) (*model.WithdrawalRequest, decimal.Decimal, error)

	// Approve moves PENDING to APPROVED; any other starting state is
	// rejected.
	Approve(id uint) error

	// Send pays out an APPROVED (or legacy PROCESSING) request whose txID
	// is still unset. The request row stays locked across the state check,
	// the chain send and the txID write, so a request can be paid out at
	// most once even under concurrent admin actions. A chain-send failure
	// marks the request FAILED, refunds the gross amount and records a
	// REFUND ledger entry, all atomically.
	Send(ctx context.Context, id uint) (*model.WithdrawalRequest, error)

	// SendApproved pays out every APPROVED request, collecting per-request
	// failures instead of stopping.
	SendApproved(ctx context.Context) *SendResult

	// Retry re-arms a FAILED request: re-debits the gross amount under a
	// fresh external id and moves it back to APPROVED.
	Retry(id uint) error

	// Fail rejects a PENDING request before any chain interaction,
	// refunding the gross amount.
	Fail(id uint, reason string) error
}

type SendResult struct {
	Sent   int      `json:"sent"`
	Failed int      `json:"failed"`
	Errors []string `json:"errors"`
}
