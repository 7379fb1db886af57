package deposit

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/wagerly/bridge-backend/internal/chain"
	"github.com/wagerly/bridge-backend/internal/chain/scanner"
	"github.com/wagerly/bridge-backend/internal/ledger"
	"github.com/wagerly/bridge-backend/internal/model"
	"github.com/wagerly/bridge-backend/internal/monitoring"
	"github.com/wagerly/bridge-backend/internal/store"
	"github.com/wagerly/bridge-backend/internal/types/environments"
	"github.com/wagerly/bridge-backend/internal/utils/config"
	"github.com/wagerly/bridge-backend/internal/utils/logger"
)

type fakeUserStore struct {
	users map[uint]*model.User
}

func (f *fakeUserStore) Create(_ *gorm.DB, u *model.User) (*model.User, error) {
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUserStore) GetByID(_ *gorm.DB, id uint) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserStore) GetByIDForUpdate(tx *gorm.DB, id uint) (*model.User, error) {
	return f.GetByID(tx, id)
}

func (f *fakeUserStore) AddToBalance(_ *gorm.DB, id uint, delta decimal.Decimal) error {
	u, ok := f.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Balance = u.Balance.Add(delta)
	return nil
}

type fakeLedgerStore struct {
	entries map[string]*model.LedgerTransaction
}

func (f *fakeLedgerStore) Create(_ *gorm.DB, entry *model.LedgerTransaction) (*model.LedgerTransaction, store.CreateResult, error) {
	if _, ok := f.entries[entry.ExternalID]; ok {
		return entry, store.AlreadyExists, nil
	}
	f.entries[entry.ExternalID] = entry
	return entry, store.Created, nil
}

func (f *fakeLedgerStore) GetByExternalID(_ *gorm.DB, externalID string) (*model.LedgerTransaction, error) {
	entry, ok := f.entries[externalID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return entry, nil
}

type fakeWalletAddressStore struct {
	addresses []model.WalletAddress
}

func (f *fakeWalletAddressStore) Create(_ *gorm.DB, addr *model.WalletAddress) (*model.WalletAddress, store.CreateResult, error) {
	f.addresses = append(f.addresses, *addr)
	return addr, store.Created, nil
}

func (f *fakeWalletAddressStore) GetByUserAndNetwork(_ *gorm.DB, userID uint, network model.Network) (*model.WalletAddress, error) {
	for _, addr := range f.addresses {
		if addr.UserID == userID && addr.Network == network {
			copied := addr
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeWalletAddressStore) GetByAddress(_ *gorm.DB, network model.Network, address string) (*model.WalletAddress, error) {
	for _, addr := range f.addresses {
		if addr.Network == network && addr.Address == address {
			copied := addr
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeWalletAddressStore) ListByNetwork(_ *gorm.DB, network model.Network) ([]model.WalletAddress, error) {
	var out []model.WalletAddress
	for _, addr := range f.addresses {
		if addr.Network == network {
			out = append(out, addr)
		}
	}
	return out, nil
}

func (f *fakeWalletAddressStore) NextDerivationIndex(_ *gorm.DB, network model.Network) (uint32, error) {
	var max uint32
	for _, addr := range f.addresses {
		if addr.Network == network && addr.DerivationIndex >= max {
			max = addr.DerivationIndex + 1
		}
	}
	return max, nil
}

type fakeDepositStore struct {
	nextID   uint
	deposits map[uint]*model.Deposit

	// createErr fails every insert when set
	createErr error
}

func depositKey(network model.Network, txHash, address string) string {
	return fmt.Sprintf("%s|%s|%s", network, txHash, address)
}

func (f *fakeDepositStore) Create(_ *gorm.DB, dep *model.Deposit) (*model.Deposit, store.CreateResult, error) {
	for _, existing := range f.deposits {
		if depositKey(existing.Network, existing.TxHash, existing.DepositAddress) ==
			depositKey(dep.Network, dep.TxHash, dep.DepositAddress) {
			return dep, store.AlreadyExists, nil
		}
	}
	if f.createErr != nil {
		return nil, store.Created, f.createErr
	}
	f.nextID++
	dep.ID = f.nextID
	f.deposits[dep.ID] = dep
	return dep, store.Created, nil
}

func (f *fakeDepositStore) FindByTxHash(_ *gorm.DB, network model.Network, txHash string) ([]model.Deposit, error) {
	var out []model.Deposit
	for id := uint(1); id <= f.nextID; id++ {
		if dep, ok := f.deposits[id]; ok && dep.Network == network && dep.TxHash == txHash {
			out = append(out, *dep)
		}
	}
	return out, nil
}

func (f *fakeDepositStore) FindByStatus(_ *gorm.DB, network model.Network, status model.DepositStatus) ([]model.Deposit, error) {
	var out []model.Deposit
	for id := uint(1); id <= f.nextID; id++ {
		if dep, ok := f.deposits[id]; ok && dep.Network == network && dep.Status == status {
			out = append(out, *dep)
		}
	}
	return out, nil
}

func (f *fakeDepositStore) MarkConfirmed(_ *gorm.DB, id uint, amountUSD, priceUsed decimal.Decimal) error {
	dep, ok := f.deposits[id]
	if !ok || dep.Status != model.DepositStatusDetected {
		return nil
	}
	now := time.Now()
	dep.Status = model.DepositStatusConfirmed
	dep.AmountUSD = amountUSD
	dep.PriceUsed = priceUsed
	dep.ConfirmedAt = &now
	return nil
}

func (f *fakeDepositStore) MarkBelowMinimum(_ *gorm.DB, id uint) error {
	dep, ok := f.deposits[id]
	if !ok || dep.Status != model.DepositStatusDetected {
		return nil
	}
	dep.Status = model.DepositStatusFailed
	dep.IsBelowMinimum = true
	return nil
}

func (f *fakeDepositStore) MarkCredited(_ *gorm.DB, id uint) error {
	dep, ok := f.deposits[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if dep.Status != model.DepositStatusConfirmed && dep.Status != model.DepositStatusCredited {
		return nil
	}
	now := time.Now()
	dep.Status = model.DepositStatusCredited
	dep.CreditedAt = &now
	return nil
}

type fakeCursorStore struct {
	cursors map[model.Network]*model.BlockCursor
}

func (f *fakeCursorStore) Get(_ *gorm.DB, network model.Network) (*model.BlockCursor, error) {
	cursor, ok := f.cursors[network]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *cursor
	return &copied, nil
}

func (f *fakeCursorStore) Create(_ *gorm.DB, cursor *model.BlockCursor) (*model.BlockCursor, error) {
	if _, ok := f.cursors[cursor.Network]; ok {
		return nil, gorm.ErrDuplicatedKey
	}
	f.cursors[cursor.Network] = cursor
	return cursor, nil
}

func (f *fakeCursorStore) Advance(_ *gorm.DB, network model.Network, toBlock uint64) error {
	cursor, ok := f.cursors[network]
	if !ok {
		return nil
	}
	if toBlock > cursor.LastProcessedBlock {
		cursor.LastProcessedBlock = toBlock
	}
	return nil
}

// baseClient gives the chain fakes their no-op chain.Client surface.
type baseClient struct {
	network model.Network
}

func (b *baseClient) Network() model.Network { return b.network }

func (b *baseClient) DeriveAddress(context.Context, uint32) (string, error) { return "addr", nil }

func (b *baseClient) GetTokenBalance(context.Context, string) *model.TokenAmount {
	return model.ZeroTokenAmount(6)
}

func (b *baseClient) GetNativeBalance(context.Context, string) *model.TokenAmount {
	return model.ZeroTokenAmount(6)
}

func (b *baseClient) SendToken(context.Context, string, *model.TokenAmount) (string, error) {
	return "", errors.New("not supported")
}

func (b *baseClient) SendNative(context.Context, string, *model.TokenAmount) (string, error) {
	return "", errors.New("not supported")
}

func (b *baseClient) HealthCheck(context.Context) error { return nil }

type fakeTronRpc struct {
	baseClient
	transfers map[string][]chain.TransferEvent
	errs      map[string]error
}

func (f *fakeTronRpc) GetTRC20Transfers(_ context.Context, address string) ([]chain.TransferEvent, error) {
	if err, ok := f.errs[address]; ok {
		return nil, err
	}
	return f.transfers[address], nil
}

type fakeSolanaRpc struct {
	baseClient
	transfers map[string][]chain.TransferEvent
}

func (f *fakeSolanaRpc) GetTokenTransfers(_ context.Context, address string, _ int) ([]chain.TransferEvent, error) {
	return f.transfers[address], nil
}

type fakePolygonRpc struct {
	baseClient
	head   uint64
	logs   []chain.TransferEvent
	byHash map[string][]chain.TransferEvent

	filterCalls [][2]uint64
}

func (f *fakePolygonRpc) BlockNumber(context.Context) (uint64, error) {
	return f.head, nil
}

func (f *fakePolygonRpc) FilterTransferLogs(_ context.Context, fromBlock, toBlock uint64) ([]chain.TransferEvent, error) {
	f.filterCalls = append(f.filterCalls, [2]uint64{fromBlock, toBlock})
	var out []chain.TransferEvent
	for _, event := range f.logs {
		if event.BlockNumber >= fromBlock && event.BlockNumber <= toBlock {
			out = append(out, event)
		}
	}
	return out, nil
}

func (f *fakePolygonRpc) TransfersByTxHash(_ context.Context, txHash string) ([]chain.TransferEvent, error) {
	return f.byHash[txHash], nil
}

type fixture struct {
	pipeline *Pipeline
	users    *fakeUserStore
	ledgers  *fakeLedgerStore
	wallets  *fakeWalletAddressStore
	deposits *fakeDepositStore
	cursors  *fakeCursorStore
	tron     *fakeTronRpc
	polygon  *fakePolygonRpc
	solana   *fakeSolanaRpc
}

func testConfig() *config.AppConfig {
	network := config.NetworkConfig{
		TokenDecimals:    6,
		MinDepositUSD:    decimal.NewFromInt(1),
		MinWithdrawalUSD: decimal.NewFromInt(10),
		WithdrawalFeeUSD: decimal.RequireFromString("0.5"),
	}
	return &config.AppConfig{
		Environment: environments.Test,
		Tron:        network,
		Polygon:     network,
		Solana:      network,
		Scan: config.ScanConfig{
			InitialBlocksBack: 1000,
			DefaultChunkSize:  500,
		},
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	users := &fakeUserStore{users: map[uint]*model.User{}}
	user := &model.User{Balance: decimal.Zero}
	user.ID = 1
	users.users[1] = user

	ledgers := &fakeLedgerStore{entries: map[string]*model.LedgerTransaction{}}
	wallets := &fakeWalletAddressStore{}
	deposits := &fakeDepositStore{deposits: map[uint]*model.Deposit{}}
	cursors := &fakeCursorStore{cursors: map[model.Network]*model.BlockCursor{}}

	tron := &fakeTronRpc{
		baseClient: baseClient{network: model.NetworkTron},
		transfers:  map[string][]chain.TransferEvent{},
		errs:       map[string]error{},
	}
	polygon := &fakePolygonRpc{
		baseClient: baseClient{network: model.NetworkPolygon},
		byHash:     map[string][]chain.TransferEvent{},
	}
	solana := &fakeSolanaRpc{
		baseClient: baseClient{network: model.NetworkSolana},
		transfers:  map[string][]chain.TransferEvent{},
	}

	s := &store.Store{
		User:              users,
		WalletAddress:     wallets,
		BlockCursor:       cursors,
		Deposit:           deposits,
		LedgerTransaction: ledgers,
	}
	l := logger.New(environments.Test)
	cfg := testConfig()

	p := &Pipeline{
		store:      s,
		appConfig:  cfg,
		logger:     l,
		ledger:     ledger.New(s, l),
		metrics:    monitoring.NewMetrics(),
		tronRpc:    tron,
		polygonRpc: polygon,
		solanaRpc:  solana,
		scanner:    scanner.New(cfg.Scan.DefaultChunkSize, l),
		doInTx: func(_ *gorm.DB, fn func(tx *gorm.DB) error) error {
			return fn(nil)
		},
	}

	return &fixture{
		pipeline: p,
		users:    users,
		ledgers:  ledgers,
		wallets:  wallets,
		deposits: deposits,
		cursors:  cursors,
		tron:     tron,
		polygon:  polygon,
		solana:   solana,
	}
}

func (f *fixture) addWallet(userID uint, network model.Network, address string) model.WalletAddress {
	addr := model.WalletAddress{
		UserID:          userID,
		Network:         network,
		Address:         address,
		DerivationIndex: uint32(len(f.wallets.addresses)),
	}
	addr.ID = uint(len(f.wallets.addresses) + 1)
	f.wallets.addresses = append(f.wallets.addresses, addr)
	return addr
}

func (f *fixture) depositByHash(t *testing.T, network model.Network, txHash string) model.Deposit {
	t.Helper()
	deps, err := f.deposits.FindByTxHash(nil, network, txHash)
	require.NoError(t, err)
	require.Len(t, deps, 1)
	return deps[0]
}

func TestRunCycle_CreditsDepositOnce(t *testing.T) {
	f := newFixture(t)
	f.addWallet(1, model.NetworkTron, "TAddr1")

	// 1500000 raw at 6 decimals is 1.5 USDT, above the 1 USD minimum
	f.tron.transfers["TAddr1"] = []chain.TransferEvent{
		{TxHash: "txA", FromAddress: "TSender", ToAddress: "TAddr1", RawAmount: "1500000"},
	}

	result := f.pipeline.RunCycle(context.Background(), model.NetworkTron)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 1, result.Detected)
	assert.Equal(t, 1, result.Confirmed)
	assert.Equal(t, 1, result.Credited)

	assert.Equal(t, "1.5", f.users.users[1].Balance.String())

	dep := f.depositByHash(t, model.NetworkTron, "txA")
	assert.Equal(t, model.DepositStatusCredited, dep.Status)
	assert.Equal(t, "1.5", dep.AmountUSD.String())
	assert.Equal(t, "1", dep.PriceUsed.String())

	// the whole cycle again: same transfer still in the provider history
	result = f.pipeline.RunCycle(context.Background(), model.NetworkTron)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 0, result.Detected)
	assert.Equal(t, 0, result.Credited)
	assert.Equal(t, "1.5", f.users.users[1].Balance.String())
}

func TestRunCycle_CreditSurvivesCrashBetweenLedgerAndMark(t *testing.T) {
	f := newFixture(t)
	f.addWallet(1, model.NetworkTron, "TAddr1")
	f.tron.transfers["TAddr1"] = []chain.TransferEvent{
		{TxHash: "txA", ToAddress: "TAddr1", RawAmount: "2000000"},
	}

	result := f.pipeline.RunCycle(context.Background(), model.NetworkTron)
	require.Equal(t, 1, result.Credited)
	require.Equal(t, "2", f.users.users[1].Balance.String())

	// simulate a crash after the ledger write but before the status flip:
	// the deposit is back to CONFIRMED while the ledger entry exists
	dep := f.depositByHash(t, model.NetworkTron, "txA")
	f.deposits.deposits[dep.ID].Status = model.DepositStatusConfirmed

	result = f.pipeline.RunCycle(context.Background(), model.NetworkTron)
	assert.Empty(t, result.Errors)

	// the replay marks it credited without moving the balance again
	assert.Equal(t, "2", f.users.users[1].Balance.String())
	assert.Equal(t, model.DepositStatusCredited, f.deposits.deposits[dep.ID].Status)
}

func TestRunCycle_BelowMinimumNeverCredits(t *testing.T) {
	f := newFixture(t)
	f.addWallet(1, model.NetworkTron, "TAddr1")

	// 0.5 USDT, below the 1 USD minimum
	f.tron.transfers["TAddr1"] = []chain.TransferEvent{
		{TxHash: "txSmall", ToAddress: "TAddr1", RawAmount: "500000"},
	}

	result := f.pipeline.RunCycle(context.Background(), model.NetworkTron)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 1, result.Detected)
	assert.Equal(t, 0, result.Confirmed)
	assert.Equal(t, 0, result.Credited)

	dep := f.depositByHash(t, model.NetworkTron, "txSmall")
	assert.Equal(t, model.DepositStatusFailed, dep.Status)
	assert.True(t, dep.IsBelowMinimum)
	assert.True(t, f.users.users[1].Balance.IsZero())
}

func TestRunCycle_ZeroAmountIsIgnored(t *testing.T) {
	f := newFixture(t)
	f.addWallet(1, model.NetworkTron, "TAddr1")
	f.tron.transfers["TAddr1"] = []chain.TransferEvent{
		{TxHash: "txZero", ToAddress: "TAddr1", RawAmount: "0"},
	}

	result := f.pipeline.RunCycle(context.Background(), model.NetworkTron)
	assert.Equal(t, 0, result.Detected)
	assert.Equal(t, uint(0), f.deposits.nextID)
}

func TestRunCycle_OneBadAddressDoesNotBlockOthers(t *testing.T) {
	f := newFixture(t)
	f.addWallet(1, model.NetworkTron, "TBroken")
	f.addWallet(1, model.NetworkTron, "TGood")

	f.tron.errs["TBroken"] = errors.New("status code: 502, body: bad gateway")
	f.tron.transfers["TGood"] = []chain.TransferEvent{
		{TxHash: "txB", ToAddress: "TGood", RawAmount: "3000000"},
	}

	result := f.pipeline.RunCycle(context.Background(), model.NetworkTron)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "TBroken")
	assert.Equal(t, 1, result.Credited)
	assert.Equal(t, "3", f.users.users[1].Balance.String())
}

func TestRunCycle_PolygonCursorInitAndAdvance(t *testing.T) {
	f := newFixture(t)
	f.addWallet(1, model.NetworkPolygon, "0xAbCd")

	f.polygon.head = 5000
	f.polygon.logs = []chain.TransferEvent{
		{TxHash: "0xdead", ToAddress: "0xabcd", RawAmount: "1500000", BlockNumber: 4500},
	}

	result := f.pipeline.RunCycle(context.Background(), model.NetworkPolygon)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 1, result.Credited)

	// first contact starts initialBlocksBack behind the head, then the
	// cursor lands on the head after a clean scan
	require.NotEmpty(t, f.polygon.filterCalls)
	assert.Equal(t, uint64(4001), f.polygon.filterCalls[0][0])
	assert.Equal(t, uint64(5000), f.cursors.cursors[model.NetworkPolygon].LastProcessedBlock)

	// address matching is case-insensitive on hex addresses
	assert.Equal(t, "1.5", f.users.users[1].Balance.String())

	// next cycle resumes from the cursor
	f.polygon.head = 5200
	f.polygon.filterCalls = nil
	result = f.pipeline.RunCycle(context.Background(), model.NetworkPolygon)
	assert.Empty(t, result.Errors)
	require.NotEmpty(t, f.polygon.filterCalls)
	assert.Equal(t, uint64(5001), f.polygon.filterCalls[0][0])
	assert.Equal(t, uint64(5200), f.cursors.cursors[model.NetworkPolygon].LastProcessedBlock)
}

func TestRunCycle_PolygonCursorHoldsUnpersistedDeposit(t *testing.T) {
	f := newFixture(t)
	f.addWallet(1, model.NetworkPolygon, "0xAbCd")
	f.cursors.cursors[model.NetworkPolygon] = &model.BlockCursor{
		Network:            model.NetworkPolygon,
		LastProcessedBlock: 40,
	}

	f.polygon.head = 100
	f.polygon.logs = []chain.TransferEvent{
		{TxHash: "0xdead", ToAddress: "0xabcd", RawAmount: "1500000", BlockNumber: 50},
	}
	f.deposits.createErr = errors.New("connection reset by peer")

	result := f.pipeline.RunCycle(context.Background(), model.NetworkPolygon)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "record deposit")
	assert.True(t, f.users.users[1].Balance.IsZero())

	// the cursor stops short of the block with the unpersisted event
	assert.Equal(t, uint64(49), f.cursors.cursors[model.NetworkPolygon].LastProcessedBlock)

	// once the store recovers, the next cycle rescans the block and credits
	f.deposits.createErr = nil
	result = f.pipeline.RunCycle(context.Background(), model.NetworkPolygon)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 1, result.Credited)
	assert.Equal(t, "1.5", f.users.users[1].Balance.String())
	assert.Equal(t, uint64(100), f.cursors.cursors[model.NetworkPolygon].LastProcessedBlock)
}

func TestCreditByTxHash_DetectsUnrecordedTransaction(t *testing.T) {
	f := newFixture(t)
	f.addWallet(1, model.NetworkTron, "TAddr1")

	// the transaction exists on chain but no cycle has recorded it
	f.tron.transfers["TAddr1"] = []chain.TransferEvent{
		{TxHash: "txLost", ToAddress: "TAddr1", RawAmount: "7000000"},
	}

	deps, err := f.pipeline.CreditByTxHash(context.Background(), model.NetworkTron, "txLost")
	require.NoError(t, err)
	require.Len(t, deps, 1)
	assert.Equal(t, model.DepositStatusCredited, deps[0].Status)
	assert.Equal(t, "7", f.users.users[1].Balance.String())

	// replays are no-ops
	deps, err = f.pipeline.CreditByTxHash(context.Background(), model.NetworkTron, "txLost")
	require.NoError(t, err)
	require.Len(t, deps, 1)
	assert.Equal(t, model.DepositStatusCredited, deps[0].Status)
	assert.Equal(t, "7", f.users.users[1].Balance.String())
}

func TestCreditByTxHash_OneTransactionTwoAddresses(t *testing.T) {
	f := newFixture(t)
	f.users.users[2] = &model.User{Balance: decimal.Zero}
	f.users.users[2].ID = 2
	f.addWallet(1, model.NetworkTron, "TAddr1")
	f.addWallet(2, model.NetworkTron, "TAddr2")

	// one transaction paying both deposit addresses
	f.tron.transfers["TAddr1"] = []chain.TransferEvent{
		{TxHash: "txBoth", ToAddress: "TAddr1", RawAmount: "2000000"},
	}
	f.tron.transfers["TAddr2"] = []chain.TransferEvent{
		{TxHash: "txBoth", ToAddress: "TAddr2", RawAmount: "3000000"},
	}

	deps, err := f.pipeline.CreditByTxHash(context.Background(), model.NetworkTron, "txBoth")
	require.NoError(t, err)
	require.Len(t, deps, 2)
	for _, dep := range deps {
		assert.Equal(t, model.DepositStatusCredited, dep.Status)
	}
	assert.Equal(t, "2", f.users.users[1].Balance.String())
	assert.Equal(t, "3", f.users.users[2].Balance.String())
}

func TestCreditByTxHash_UnknownHash(t *testing.T) {
	f := newFixture(t)
	f.addWallet(1, model.NetworkTron, "TAddr1")

	_, err := f.pipeline.CreditByTxHash(context.Background(), model.NetworkTron, "txMissing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestRescanForAddress_LeavesCursorAlone(t *testing.T) {
	f := newFixture(t)
	f.addWallet(1, model.NetworkPolygon, "0xAbCd")
	f.cursors.cursors[model.NetworkPolygon] = &model.BlockCursor{
		Network:            model.NetworkPolygon,
		LastProcessedBlock: 9000,
	}

	f.polygon.head = 9500
	f.polygon.logs = []chain.TransferEvent{
		{TxHash: "0xold", ToAddress: "0xabcd", RawAmount: "4000000", BlockNumber: 1200},
	}

	to := uint64(2000)
	result, err := f.pipeline.RescanForAddress(context.Background(), model.NetworkPolygon, "0xAbCd", 1000, &to)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Credited)
	assert.Equal(t, "4", f.users.users[1].Balance.String())

	// the shared cursor did not move
	assert.Equal(t, uint64(9000), f.cursors.cursors[model.NetworkPolygon].LastProcessedBlock)
}

func TestRunCycle_SolanaPerAddressDetection(t *testing.T) {
	f := newFixture(t)
	f.addWallet(1, model.NetworkSolana, "So1Addr")
	f.solana.transfers["So1Addr"] = []chain.TransferEvent{
		{TxHash: "sigA", ToAddress: "So1Addr", RawAmount: "2500000"},
	}

	result := f.pipeline.RunCycle(context.Background(), model.NetworkSolana)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 1, result.Credited)
	assert.Equal(t, "2.5", f.users.users[1].Balance.String())

	entry, err := f.ledgers.GetByExternalID(nil, "dep:SOL:sigA:So1Addr")
	require.NoError(t, err)
	assert.Equal(t, model.LedgerTypeDeposit, entry.Type)
}
