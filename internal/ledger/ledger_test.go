package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/wagerly/bridge-backend/internal/model"
	"github.com/wagerly/bridge-backend/internal/store"
	"github.com/wagerly/bridge-backend/internal/types/environments"
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

func newTestLedger(balance string) (*Ledger, *fakeUserStore, *fakeLedgerStore) {
	users := &fakeUserStore{users: map[uint]*model.User{}}
	u := &model.User{Balance: decimal.RequireFromString(balance)}
	u.ID = 1
	users.users[1] = u

	entries := &fakeLedgerStore{entries: map[string]*model.LedgerTransaction{}}
	s := &store.Store{User: users, LedgerTransaction: entries}
	return New(s, logger.New(environments.Test)), users, entries
}

func TestCredit_AppliesOncePerExternalID(t *testing.T) {
	l, users, entries := newTestLedger("0")

	applied, err := l.Credit(nil, 1, "dep:TRON:txA:addr", model.LedgerTypeDeposit, decimal.RequireFromString("1.5"), "deposit txA")
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, "1.5", users.users[1].Balance.String())

	// same external id again: recorded once, balance untouched
	applied, err = l.Credit(nil, 1, "dep:TRON:txA:addr", model.LedgerTypeDeposit, decimal.RequireFromString("1.5"), "deposit txA")
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, "1.5", users.users[1].Balance.String())
	assert.Len(t, entries.entries, 1)
}

func TestDebit_ChecksBalanceAndStoresNegativeAmount(t *testing.T) {
	l, users, entries := newTestLedger("20")

	applied, err := l.Debit(nil, 1, "wd:TRON:1:debit0", model.LedgerTypeWithdrawal, decimal.NewFromInt(15), "withdrawal 1")
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, "5", users.users[1].Balance.String())
	assert.Equal(t, "-15", entries.entries["wd:TRON:1:debit0"].Amount.String())

	// balance no longer covers a second debit of the same size
	_, err = l.Debit(nil, 1, "wd:TRON:2:debit0", model.LedgerTypeWithdrawal, decimal.NewFromInt(15), "withdrawal 2")
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, "5", users.users[1].Balance.String())
}

func TestDebit_DuplicateExternalIDIsNoOp(t *testing.T) {
	l, users, _ := newTestLedger("20")

	applied, err := l.Debit(nil, 1, "wd:TRON:1:debit0", model.LedgerTypeWithdrawal, decimal.NewFromInt(5), "withdrawal 1")
	require.NoError(t, err)
	require.True(t, applied)

	applied, err = l.Debit(nil, 1, "wd:TRON:1:debit0", model.LedgerTypeWithdrawal, decimal.NewFromInt(5), "withdrawal 1")
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, "15", users.users[1].Balance.String())
}
