package chain

import (
	"context"

	"github.com/wagerly/bridge-backend/internal/model"
)

// Client is the per-network abstraction the pipelines talk to. Implementations
// are pure request/response against external APIs and hold no pipeline state.
//
// Balance getters deliberately return a zero amount instead of an error on
// lookup failure: a transient read failure must never be mistaken for "no
// funds" by a caller deciding whether to sweep or pay out.
type Client interface {
	Network() model.Network
	DeriveAddress(ctx context.Context, index uint32) (string, error)
	GetTokenBalance(ctx context.Context, address string) *model.TokenAmount
	GetNativeBalance(ctx context.Context, address string) *model.TokenAmount
	SendToken(ctx context.Context, toAddress string, amount *model.TokenAmount) (string, error)
	SendNative(ctx context.Context, toAddress string, amount *model.TokenAmount) (string, error)
	HealthCheck(ctx context.Context) error
}

// TransferEvent is one inbound token transfer as reported by a chain,
// normalized across networks.
type TransferEvent struct {
	TxHash      string
	FromAddress string
	ToAddress   string
	RawAmount   string
	BlockNumber uint64
}
