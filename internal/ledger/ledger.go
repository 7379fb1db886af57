package ledger

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/wagerly/bridge-backend/internal/model"
	"github.com/wagerly/bridge-backend/internal/store"
	"github.com/wagerly/bridge-backend/internal/utils/logger"
)

var ErrInsufficientFunds = errors.New("insufficient funds")

// Ledger is the only code allowed to touch User.Balance. Every mutation is a
// ledger entry plus a balance change inside the caller's transaction, keyed by
// a deterministic external id so replays collapse into no-ops.
type Ledger struct {
	store  *store.Store
	logger *logger.Logger
}

func New(s *store.Store, logger *logger.Logger) *Ledger {
	return &Ledger{
		store:  s,
		logger: logger,
	}
}

// Credit adds amount to the user's balance. Returns applied=false when the
// external id was already recorded: the credit happened before, possibly in a
// concurrent cycle, and the balance must not move again.
func (l *Ledger) Credit(tx *gorm.DB, userID uint, externalID string, typ model.LedgerTransactionType, amount decimal.Decimal, description string) (bool, error) {
	_, result, err := l.store.LedgerTransaction.Create(tx, &model.LedgerTransaction{
		UserID:      userID,
		ExternalID:  externalID,
		Type:        typ,
		Amount:      amount,
		Description: description,
	})
	if err != nil {
		return false, err
	}
	if result == store.AlreadyExists {
		return false, nil
	}

	return true, l.store.User.AddToBalance(tx, userID, amount)
}

// Debit subtracts amount from the user's balance after verifying it covers the
// amount, holding the user row lock for the rest of the transaction. Returns
// applied=false on a duplicate external id.
func (l *Ledger) Debit(tx *gorm.DB, userID uint, externalID string, typ model.LedgerTransactionType, amount decimal.Decimal, description string) (bool, error) {
	user, err := l.store.User.GetByIDForUpdate(tx, userID)
	if err != nil {
		return false, err
	}
	if user.Balance.LessThan(amount) {
		return false, ErrInsufficientFunds
	}

	_, result, err := l.store.LedgerTransaction.Create(tx, &model.LedgerTransaction{
		UserID:      userID,
		ExternalID:  externalID,
		Type:        typ,
		Amount:      amount.Neg(),
		Description: description,
	})
	if err != nil {
		return false, err
	}
	if result == store.AlreadyExists {
		return false, nil
	}

	return true, l.store.User.AddToBalance(tx, userID, amount.Neg())
}
