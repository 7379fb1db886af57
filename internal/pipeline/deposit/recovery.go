package deposit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/wagerly/bridge-backend/internal/chain"
	"github.com/wagerly/bridge-backend/internal/model"
)

// ErrTxNotFound reports a recovery hash that matched no deposit address.
var ErrTxNotFound = errors.New("transaction not found for any deposit address")

// CreditByTxHash replays detect, confirm and credit for one known transaction.
// Every phase is idempotent, so this is safe to run any number of times, on
// deposits in any state. One transaction can pay several deposit addresses, so
// the result is every deposit recorded for the hash.
func (p *Pipeline) CreditByTxHash(ctx context.Context, network model.Network, txHash string) ([]model.Deposit, error) {
	deposits, err := p.store.Deposit.FindByTxHash(p.db, network, txHash)
	if err != nil {
		return nil, err
	}
	if len(deposits) == 0 {
		// not recorded yet: pull it off the chain first
		if err := p.detectByTxHash(ctx, network, txHash); err != nil {
			return nil, err
		}
		deposits, err = p.store.Deposit.FindByTxHash(p.db, network, txHash)
		if err != nil {
			return nil, err
		}
		if len(deposits) == 0 {
			return nil, errors.Wrap(ErrTxNotFound, txHash)
		}
	}

	result := &CycleResult{Network: network}
	p.confirm(network, result)
	p.credit(network, result)
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("recovery finished with errors: %s", strings.Join(result.Errors, "; "))
	}

	return p.store.Deposit.FindByTxHash(p.db, network, txHash)
}

func (p *Pipeline) detectByTxHash(ctx context.Context, network model.Network, txHash string) error {
	if network == model.NetworkPolygon {
		events, err := p.polygonRpc.TransfersByTxHash(ctx, txHash)
		if err != nil {
			return err
		}
		return p.recordMatchingEvents(network, events)
	}

	// TRON and Solana have no direct tx-to-deposit lookup; walk the recent
	// history of every deposit address and record each payout of the hash
	addresses, err := p.store.WalletAddress.ListByNetwork(p.db, network)
	if err != nil {
		return err
	}

	result := &CycleResult{Network: network}
	found := false
	for _, addr := range addresses {
		var events []chain.TransferEvent
		switch network {
		case model.NetworkTron:
			events, err = p.tronRpc.GetTRC20Transfers(ctx, addr.Address)
		case model.NetworkSolana:
			events, err = p.solanaRpc.GetTokenTransfers(ctx, addr.Address, solanaSignatureLimit)
		}
		if err != nil {
			continue
		}
		for _, event := range events {
			if event.TxHash != txHash {
				continue
			}
			found = true
			p.recordDetected(addr, event, result)
		}
	}
	if !found {
		return errors.Wrapf(ErrTxNotFound, "%s not in recent history", txHash)
	}
	if len(result.Errors) > 0 {
		return fmt.Errorf("%s", strings.Join(result.Errors, "; "))
	}
	return nil
}

func (p *Pipeline) recordMatchingEvents(network model.Network, events []chain.TransferEvent) error {
	result := &CycleResult{Network: network}
	for _, event := range events {
		addr, err := p.store.WalletAddress.GetByAddress(p.db, network, event.ToAddress)
		if err != nil {
			continue
		}
		p.recordDetected(*addr, event, result)
	}
	if len(result.Errors) > 0 {
		return fmt.Errorf("%s", strings.Join(result.Errors, "; "))
	}
	return nil
}

// RescanForAddress replays detection for one address, then confirms and
// credits. For Polygon the scan covers [fromBlock, toBlock] (toBlock defaults
// to the chain head); the shared cursor is left untouched.
func (p *Pipeline) RescanForAddress(ctx context.Context, network model.Network, address string, fromBlock uint64, toBlock *uint64) (*CycleResult, error) {
	addr, err := p.store.WalletAddress.GetByAddress(p.db, network, address)
	if err != nil {
		return nil, fmt.Errorf("no deposit address %s on %s", address, network)
	}

	result := &CycleResult{Network: network}

	switch network {
	case model.NetworkPolygon:
		head := uint64(0)
		if toBlock != nil {
			head = *toBlock
		} else {
			head, err = p.polygonRpc.BlockNumber(ctx)
			if err != nil {
				return nil, err
			}
		}

		scanResult, scanErr := p.scanner.Scan(ctx, p.polygonRpc, fromBlock, head, map[string]bool{
			strings.ToLower(addr.Address): true,
		})
		for _, event := range scanResult.Events {
			p.recordDetected(*addr, event, result)
		}
		if scanErr != nil {
			result.addError(scanErr)
		}
	case model.NetworkTron:
		events, err := p.tronRpc.GetTRC20Transfers(ctx, addr.Address)
		if err != nil {
			return nil, err
		}
		for _, event := range events {
			p.recordDetected(*addr, event, result)
		}
	case model.NetworkSolana:
		events, err := p.solanaRpc.GetTokenTransfers(ctx, addr.Address, solanaSignatureLimit)
		if err != nil {
			return nil, err
		}
		for _, event := range events {
			p.recordDetected(*addr, event, result)
		}
	}

	p.confirm(network, result)
	p.credit(network, result)

	p.logger.Info("[RescanForAddress] rescan finished", map[string]string{
		"network":  network.String(),
		"address":  address,
		"detected": fmt.Sprintf("%d", result.Detected),
		"credited": fmt.Sprintf("%d", result.Credited),
		"at":       time.Now().Format(time.RFC3339),
	})
	return result, nil
}
