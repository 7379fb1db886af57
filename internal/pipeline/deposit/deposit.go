package deposit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/wagerly/bridge-backend/internal/chain"
	"github.com/wagerly/bridge-backend/internal/chain/polygonrpc"
	"github.com/wagerly/bridge-backend/internal/chain/scanner"
	"github.com/wagerly/bridge-backend/internal/chain/solanarpc"
	"github.com/wagerly/bridge-backend/internal/chain/tronrpc"
	"github.com/wagerly/bridge-backend/internal/ledger"
	"github.com/wagerly/bridge-backend/internal/model"
	"github.com/wagerly/bridge-backend/internal/monitoring"
	"github.com/wagerly/bridge-backend/internal/store"
	"github.com/wagerly/bridge-backend/internal/utils/config"
	"github.com/wagerly/bridge-backend/internal/utils/logger"
)

// externalIDTag prefixes deposit ledger entries; the full id is
// dep:<network>:<txHash>:<depositAddress>.
const externalIDTag = "dep"

const solanaSignatureLimit = 25

// stablecoins are credited 1:1, no oracle call
var stablecoinPrice = decimal.NewFromInt(1)

type Pipeline struct {
	db        *gorm.DB
	store     *store.Store
	appConfig *config.AppConfig
	logger    *logger.Logger
	ledger    *ledger.Ledger
	metrics   *monitoring.Metrics

	tronRpc    tronrpc.ITronRpc
	polygonRpc polygonrpc.IPolygonRpc
	solanaRpc  solanarpc.ISolanaRpc
	scanner    *scanner.Scanner

	// doInTx is swapped for a pass-through in tests
	doInTx func(db *gorm.DB, fn func(tx *gorm.DB) error) error
}

func New(
	db *gorm.DB,
	s *store.Store,
	appConfig *config.AppConfig,
	logger *logger.Logger,
	ldgr *ledger.Ledger,
	metrics *monitoring.Metrics,
	tronRpc tronrpc.ITronRpc,
	polygonRpc polygonrpc.IPolygonRpc,
	solanaRpc solanarpc.ISolanaRpc,
) IPipeline {
	return &Pipeline{
		db:         db,
		store:      s,
		appConfig:  appConfig,
		logger:     logger,
		ledger:     ldgr,
		metrics:    metrics,
		tronRpc:    tronRpc,
		polygonRpc: polygonRpc,
		solanaRpc:  solanaRpc,
		scanner:    scanner.New(appConfig.Scan.DefaultChunkSize, logger),
		doInTx:     store.DoInTx,
	}
}

func ExternalID(network model.Network, txHash, depositAddress string) string {
	return fmt.Sprintf("%s:%s:%s:%s", externalIDTag, network, txHash, depositAddress)
}

func (p *Pipeline) RunCycle(ctx context.Context, network model.Network) *CycleResult {
	result := &CycleResult{Network: network}
	p.logger.Info("[RunCycle] starting deposit cycle", map[string]string{
		"network": network.String(),
	})

	p.detect(ctx, network, result)
	p.confirm(network, result)
	p.credit(network, result)

	p.metrics.ObserveDepositCycle(network.String(), result.Detected, result.Confirmed, result.Credited, len(result.Errors))
	p.logger.Info("[RunCycle] deposit cycle finished", map[string]string{
		"network":   network.String(),
		"detected":  fmt.Sprintf("%d", result.Detected),
		"confirmed": fmt.Sprintf("%d", result.Confirmed),
		"credited":  fmt.Sprintf("%d", result.Credited),
		"errors":    fmt.Sprintf("%d", len(result.Errors)),
	})
	return result
}

// detect finds new inbound transfers and records them as DETECTED deposits.
// Duplicate rows are fine: a concurrent cycle got there first.
func (p *Pipeline) detect(ctx context.Context, network model.Network, result *CycleResult) {
	addresses, err := p.store.WalletAddress.ListByNetwork(p.db, network)
	if err != nil {
		result.addError(fmt.Errorf("failed to list deposit addresses: %v", err))
		return
	}
	if len(addresses) == 0 {
		return
	}

	switch network {
	case model.NetworkTron:
		p.detectPerAddress(ctx, addresses, result, func(ctx context.Context, address string) ([]chain.TransferEvent, error) {
			return p.tronRpc.GetTRC20Transfers(ctx, address)
		})
	case model.NetworkSolana:
		p.detectPerAddress(ctx, addresses, result, func(ctx context.Context, address string) ([]chain.TransferEvent, error) {
			return p.solanaRpc.GetTokenTransfers(ctx, address, solanaSignatureLimit)
		})
	case model.NetworkPolygon:
		p.detectPolygon(ctx, addresses, result)
	}
}

// detectPerAddress covers the chains whose providers expose per-address
// transfer history (TRON, Solana). One failing address is reported and
// skipped, not fatal.
func (p *Pipeline) detectPerAddress(ctx context.Context, addresses []model.WalletAddress, result *CycleResult,
	fetch func(ctx context.Context, address string) ([]chain.TransferEvent, error)) {
	for _, addr := range addresses {
		events, err := fetch(ctx, addr.Address)
		if err != nil {
			result.addError(fmt.Errorf("detect %s: %v", addr.Address, err))
			continue
		}
		for _, event := range events {
			p.recordDetected(addr, event, result)
		}
	}
}

// detectPolygon runs the chunked log scan between the cursor and the chain
// head. The cursor only advances over blocks whose events are all on disk:
// when recording an event fails, the advance stops short of its block so the
// next cycle scans it again.
func (p *Pipeline) detectPolygon(ctx context.Context, addresses []model.WalletAddress, result *CycleResult) {
	head, err := p.polygonRpc.BlockNumber(ctx)
	if err != nil {
		result.addError(fmt.Errorf("failed to fetch chain head: %v", err))
		return
	}

	cursor, err := p.ensureCursor(model.NetworkPolygon, head)
	if err != nil {
		result.addError(fmt.Errorf("failed to load block cursor: %v", err))
		return
	}

	byAddress := make(map[string]model.WalletAddress, len(addresses))
	addressSet := make(map[string]bool, len(addresses))
	for _, addr := range addresses {
		key := strings.ToLower(addr.Address)
		byAddress[key] = addr
		addressSet[key] = true
	}

	scanResult, scanErr := p.scanner.Scan(ctx, p.polygonRpc, cursor+1, head, addressSet)
	advanceTo := scanResult.LastScanned
	for _, event := range scanResult.Events {
		addr, ok := byAddress[strings.ToLower(event.ToAddress)]
		if !ok {
			continue
		}
		if err := p.recordDetected(addr, event, result); err != nil && event.BlockNumber > 0 {
			// the row never made it to disk; keep its block inside the
			// next scan window
			if event.BlockNumber-1 < advanceTo {
				advanceTo = event.BlockNumber - 1
			}
		}
	}

	if advanceTo > cursor {
		if err := p.store.BlockCursor.Advance(p.db, model.NetworkPolygon, advanceTo); err != nil {
			result.addError(fmt.Errorf("failed to advance cursor: %v", err))
		}
	}
	if scanErr != nil {
		result.addError(scanErr)
	}
}

// ensureCursor loads the network cursor, creating it initialBlocksBack behind
// the head on first contact so we never scan from genesis.
func (p *Pipeline) ensureCursor(network model.Network, head uint64) (uint64, error) {
	cursor, err := p.store.BlockCursor.Get(p.db, network)
	if err == nil {
		return cursor.LastProcessedBlock, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	start := uint64(0)
	if head > p.appConfig.Scan.InitialBlocksBack {
		start = head - p.appConfig.Scan.InitialBlocksBack
	}

	created, err := p.store.BlockCursor.Create(p.db, &model.BlockCursor{
		Network:            network,
		LastProcessedBlock: start,
	})
	if err != nil {
		// concurrent cycle created it first
		if existing, getErr := p.store.BlockCursor.Get(p.db, network); getErr == nil {
			return existing.LastProcessedBlock, nil
		}
		return 0, err
	}
	return created.LastProcessedBlock, nil
}

// recordDetected persists one transfer as a DETECTED deposit. The returned
// error mirrors what was added to the result, so the Polygon detector can
// hold its cursor back for events that never reached the database.
func (p *Pipeline) recordDetected(addr model.WalletAddress, event chain.TransferEvent, result *CycleResult) error {
	raw := model.TokenAmount{Value: event.RawAmount, Decimal: p.tokenDecimals(addr.Network)}
	if !raw.ToDecimal().IsPositive() {
		return nil
	}

	_, createResult, err := p.store.Deposit.Create(p.db, &model.Deposit{
		UserID:          addr.UserID,
		Network:         addr.Network,
		TxHash:          event.TxHash,
		DepositAddress:  addr.Address,
		WalletAddressID: addr.ID,
		RawAmount:       event.RawAmount,
		Status:          model.DepositStatusDetected,
		DetectedAt:      time.Now(),
	})
	if err != nil {
		err = fmt.Errorf("record deposit %s: %v", event.TxHash, err)
		result.addError(err)
		return err
	}
	if createResult == store.AlreadyExists {
		return nil
	}

	result.Detected++
	p.logger.Info("[detect] new deposit", map[string]string{
		"network": addr.Network.String(),
		"txHash":  event.TxHash,
		"address": addr.Address,
		"raw":     event.RawAmount,
	})
	return nil
}

// confirm applies the network's fixed USD minimum to every DETECTED deposit.
// Stablecoins price 1:1, so amountUsd is just the human amount.
func (p *Pipeline) confirm(network model.Network, result *CycleResult) {
	detected, err := p.store.Deposit.FindByStatus(p.db, network, model.DepositStatusDetected)
	if err != nil {
		result.addError(fmt.Errorf("failed to list detected deposits: %v", err))
		return
	}

	minimum := p.appConfig.ByNetwork(network.String()).MinDepositUSD
	for _, dep := range detected {
		raw := model.TokenAmount{Value: dep.RawAmount, Decimal: p.tokenDecimals(network)}
		amountUSD := raw.ToDecimal().Mul(stablecoinPrice)

		if amountUSD.LessThan(minimum) {
			if err := p.store.Deposit.MarkBelowMinimum(p.db, dep.ID); err != nil {
				result.addError(fmt.Errorf("mark deposit %d below minimum: %v", dep.ID, err))
			}
			continue
		}

		if err := p.store.Deposit.MarkConfirmed(p.db, dep.ID, amountUSD, stablecoinPrice); err != nil {
			result.addError(fmt.Errorf("confirm deposit %d: %v", dep.ID, err))
			continue
		}
		result.Confirmed++
	}
}

// credit applies each CONFIRMED deposit to the user's balance exactly once.
// A duplicate external id means another cycle already credited: the deposit
// is marked CREDITED without touching the balance again.
func (p *Pipeline) credit(network model.Network, result *CycleResult) {
	confirmed, err := p.store.Deposit.FindByStatus(p.db, network, model.DepositStatusConfirmed)
	if err != nil {
		result.addError(fmt.Errorf("failed to list confirmed deposits: %v", err))
		return
	}

	for _, dep := range confirmed {
		dep := dep
		err := p.doInTx(p.db, func(tx *gorm.DB) error {
			applied, err := p.ledger.Credit(
				tx,
				dep.UserID,
				ExternalID(network, dep.TxHash, dep.DepositAddress),
				model.LedgerTypeDeposit,
				dep.AmountUSD,
				fmt.Sprintf("deposit %s on %s", dep.TxHash, network),
			)
			if err != nil {
				return err
			}
			if !applied {
				p.logger.Info("[credit] ledger entry already exists, marking credited", map[string]string{
					"network": network.String(),
					"txHash":  dep.TxHash,
				})
			}
			return p.store.Deposit.MarkCredited(tx, dep.ID)
		})
		if err != nil {
			result.addError(fmt.Errorf("credit deposit %d: %v", dep.ID, err))
			continue
		}
		result.Credited++
	}
}

func (p *Pipeline) tokenDecimals(network model.Network) int {
	return p.appConfig.ByNetwork(network.String()).TokenDecimals
}
