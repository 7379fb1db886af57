package withdrawal

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/wagerly/bridge-backend/internal/chain"
	"github.com/wagerly/bridge-backend/internal/ledger"
	"github.com/wagerly/bridge-backend/internal/model"
	"github.com/wagerly/bridge-backend/internal/monitoring"
	"github.com/wagerly/bridge-backend/internal/store"
	"github.com/wagerly/bridge-backend/internal/utils/config"
	"github.com/wagerly/bridge-backend/internal/utils/logger"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrInsufficientFunds    = ledger.ErrInsufficientFunds
	ErrBelowMinimum         = errors.New("amount below network minimum")
	ErrNetAmountNotPositive = errors.New("net amount after fee must be positive")
	ErrInvalidState         = errors.New("request is not in a valid state for this transition")
	ErrAlreadySent          = errors.New("request already has a transaction id")
	ErrUnknownNetwork       = errors.New("unknown network")
)

type Pipeline struct {
	db        *gorm.DB
	store     *store.Store
	appConfig *config.AppConfig
	logger    *logger.Logger
	ledger    *ledger.Ledger
	metrics   *monitoring.Metrics

	clients map[model.Network]chain.Client

	doInTx func(db *gorm.DB, fn func(tx *gorm.DB) error) error
}

func New(
	db *gorm.DB,
	s *store.Store,
	appConfig *config.AppConfig,
	logger *logger.Logger,
	ldgr *ledger.Ledger,
	metrics *monitoring.Metrics,
	clients map[model.Network]chain.Client,
) IPipeline {
	return &Pipeline{
		db:        db,
		store:     s,
		appConfig: appConfig,
		logger:    logger,
		ledger:    ldgr,
		metrics:   metrics,
		clients:   clients,
		doInTx:    store.DoInTx,
	}
}

func debitExternalID(network model.Network, id uint, attempt int) string {
	return fmt.Sprintf("wd:%s:%d:debit%d", network, id, attempt)
}

func refundExternalID(network model.Network, id uint, attempt int) string {
	return fmt.Sprintf("wd:%s:%d:refund%d", network, id, attempt)
}

func (p *Pipeline) Create(userID uint, network model.Network, toAddress string, amountGross decimal.Decimal) (*model.WithdrawalRequest, decimal.Decimal, error) {
	if !network.Valid() {
		return nil, decimal.Zero, ErrUnknownNetwork
	}

	cfg := p.appConfig.ByNetwork(network.String())
	if amountGross.LessThan(cfg.MinWithdrawalUSD) {
		return nil, decimal.Zero, ErrBelowMinimum
	}

	fee := cfg.WithdrawalFeeUSD
	amountNet := amountGross.Sub(fee)
	if !amountNet.IsPositive() {
		return nil, decimal.Zero, ErrNetAmountNotPositive
	}

	var req *model.WithdrawalRequest
	var newBalance decimal.Decimal
	err := p.doInTx(p.db, func(tx *gorm.DB) error {
		user, err := p.store.User.GetByIDForUpdate(tx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if user.Balance.LessThan(amountGross) {
			return ErrInsufficientFunds
		}

		req, err = p.store.WithdrawalRequest.Create(tx, &model.WithdrawalRequest{
			UserID:      userID,
			Network:     network,
			ToAddress:   toAddress,
			AmountGross: amountGross,
			Fee:         fee,
			AmountNet:   amountNet,
			Status:      model.WithdrawalStatusPending,
		})
		if err != nil {
			return err
		}

		applied, err := p.ledger.Debit(
			tx,
			userID,
			debitExternalID(network, req.ID, 0),
			model.LedgerTypeWithdrawal,
			amountGross,
			fmt.Sprintf("withdrawal %d to %s on %s", req.ID, toAddress, network),
		)
		if err != nil {
			return err
		}
		if !applied {
			// request ids are fresh, so a duplicate debit id here means
			// something is badly wrong
			return fmt.Errorf("duplicate debit external id for new request %d", req.ID)
		}

		newBalance = user.Balance.Sub(amountGross)
		return nil
	})
	if err != nil {
		return nil, decimal.Zero, err
	}

	p.logger.Info("[Create] withdrawal request created", map[string]string{
		"requestId": fmt.Sprintf("%d", req.ID),
		"network":   network.String(),
		"gross":     amountGross.String(),
		"net":       amountNet.String(),
	})
	return req, newBalance, nil
}

func (p *Pipeline) Approve(id uint) error {
	rows, err := p.store.WithdrawalRequest.UpdateApproved(p.db, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrInvalidState
	}
	return nil
}

func (p *Pipeline) Send(ctx context.Context, id uint) (*model.WithdrawalRequest, error) {
	var out *model.WithdrawalRequest
	err := p.doInTx(p.db, func(tx *gorm.DB) error {
		req, err := p.store.WithdrawalRequest.GetByIDForUpdate(tx, id)
		if err != nil {
			return err
		}

		// the anti-double-payout check: state and txID, both under the
		// row lock
		if req.TxID != "" {
			return ErrAlreadySent
		}
		if req.Status != model.WithdrawalStatusApproved && req.Status != model.WithdrawalStatusProcessing {
			return ErrInvalidState
		}

		client, ok := p.clients[req.Network]
		if !ok {
			return ErrUnknownNetwork
		}

		cfg := p.appConfig.ByNetwork(req.Network.String())
		amount := model.FromDecimal(req.AmountNet, cfg.TokenDecimals)

		txID, sendErr := client.SendToken(ctx, req.ToAddress, amount)
		if sendErr != nil {
			return p.failAndRefund(tx, req, sendErr.Error())
		}

		if err := p.store.WithdrawalRequest.MarkSent(tx, req.ID, txID); err != nil {
			return err
		}

		req.TxID = txID
		req.Status = model.WithdrawalStatusSent
		out = req
		p.metrics.ObserveWithdrawalSent(req.Network.String())
		p.logger.Info("[Send] payout sent", map[string]string{
			"requestId": fmt.Sprintf("%d", req.ID),
			"network":   req.Network.String(),
			"txId":      txID,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	if out == nil {
		// chain send failed; the FAILED status and refund were committed
		return p.store.WithdrawalRequest.GetByID(p.db, id)
	}
	return out, nil
}

// failAndRefund marks the request FAILED and returns the gross amount to the
// user, all within the caller's transaction. A failed payout never leaves
// funds both debited and unsent.
func (p *Pipeline) failAndRefund(tx *gorm.DB, req *model.WithdrawalRequest, reason string) error {
	if err := p.store.WithdrawalRequest.MarkFailed(tx, req.ID, reason); err != nil {
		return err
	}

	applied, err := p.ledger.Credit(
		tx,
		req.UserID,
		refundExternalID(req.Network, req.ID, req.RetryCount),
		model.LedgerTypeRefund,
		req.AmountGross,
		fmt.Sprintf("refund for failed withdrawal %d", req.ID),
	)
	if err != nil {
		return err
	}
	if !applied {
		p.logger.Info("[failAndRefund] refund already recorded", map[string]string{
			"requestId": fmt.Sprintf("%d", req.ID),
		})
	}

	p.metrics.ObserveWithdrawalFailed(req.Network.String())
	p.logger.Error("[failAndRefund] payout failed, gross amount refunded", map[string]string{
		"requestId": fmt.Sprintf("%d", req.ID),
		"network":   req.Network.String(),
		"reason":    reason,
	})
	return nil
}

func (p *Pipeline) SendApproved(ctx context.Context) *SendResult {
	result := &SendResult{}

	approved, err := p.store.WithdrawalRequest.FindByStatus(p.db, model.WithdrawalStatusApproved)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	for _, req := range approved {
		sent, err := p.Send(ctx, req.ID)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("request %d: %v", req.ID, err))
			continue
		}
		if sent.Status == model.WithdrawalStatusSent {
			result.Sent++
		} else {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("request %d: %s", req.ID, sent.Error))
		}
	}
	return result
}

func (p *Pipeline) Retry(id uint) error {
	return p.doInTx(p.db, func(tx *gorm.DB) error {
		req, err := p.store.WithdrawalRequest.GetByIDForUpdate(tx, id)
		if err != nil {
			return err
		}
		if req.Status != model.WithdrawalStatusFailed {
			return ErrInvalidState
		}

		applied, err := p.ledger.Debit(
			tx,
			req.UserID,
			debitExternalID(req.Network, req.ID, req.RetryCount+1),
			model.LedgerTypeWithdrawal,
			req.AmountGross,
			fmt.Sprintf("withdrawal %d retry %d", req.ID, req.RetryCount+1),
		)
		if err != nil {
			return err
		}
		if !applied {
			return fmt.Errorf("duplicate debit external id for retry of request %d", req.ID)
		}

		return p.store.WithdrawalRequest.MarkRetrying(tx, req.ID)
	})
}

func (p *Pipeline) Fail(id uint, reason string) error {
	return p.doInTx(p.db, func(tx *gorm.DB) error {
		req, err := p.store.WithdrawalRequest.GetByIDForUpdate(tx, id)
		if err != nil {
			return err
		}
		if req.Status != model.WithdrawalStatusPending {
			return ErrInvalidState
		}
		return p.failAndRefund(tx, req, reason)
	})
}
