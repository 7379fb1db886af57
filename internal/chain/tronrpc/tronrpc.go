package tronrpc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"github.com/wagerly/bridge-backend/internal/chain"
	"github.com/wagerly/bridge-backend/internal/chain/keyprovider"
	"github.com/wagerly/bridge-backend/internal/chain/tatum"
	"github.com/wagerly/bridge-backend/internal/model"
	"github.com/wagerly/bridge-backend/internal/utils/config"
	"github.com/wagerly/bridge-backend/internal/utils/logger"
)

const trc20FeeLimit = 100_000_000 // 100 TRX, Trongrid's recommended ceiling for TRC20 sends

type TronRpc struct {
	appConfig   *config.AppConfig
	logger      *logger.Logger
	tatum       *tatum.Client
	keyProvider keyprovider.IKeyProvider
	trongrid    *http.Client

	// wallet xpub for address derivation, generated once via Tatum and
	// reused for every index
	xpub string
}

func New(appConfig *config.AppConfig, logger *logger.Logger, tatumClient *tatum.Client, keyProvider keyprovider.IKeyProvider) ITronRpc {
	return &TronRpc{
		appConfig:   appConfig,
		logger:      logger,
		tatum:       tatumClient,
		keyProvider: keyProvider,
		trongrid: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (t *TronRpc) Network() model.Network {
	return model.NetworkTron
}

func (t *TronRpc) DeriveAddress(ctx context.Context, index uint32) (string, error) {
	if t.xpub == "" {
		xpub, err := t.resolveXpub(ctx)
		if err != nil {
			return "", err
		}
		t.xpub = xpub
	}

	var addr tatum.GeneratedAddress
	err := t.tatum.Get(ctx, fmt.Sprintf("/tron/address/%s/%d", t.xpub, index), &addr)
	if err != nil {
		return "", errors.Wrap(err, "failed to derive tron address")
	}
	return addr.Address, nil
}

func (t *TronRpc) resolveXpub(ctx context.Context) (string, error) {
	var wallet tatum.TronWallet
	err := t.tatum.Get(ctx, "/tron/wallet", &wallet)
	if err != nil {
		return "", errors.Wrap(err, "failed to generate tron wallet")
	}
	return wallet.Xpub, nil
}

// trc20Response is the Trongrid /v1/accounts/{addr}/transactions/trc20 shape.
type trc20Response struct {
	Data []struct {
		TransactionID string `json:"transaction_id"`
		From          string `json:"from"`
		To            string `json:"to"`
		Value         string `json:"value"`
		TokenInfo     struct {
			Address  string `json:"address"`
			Decimals int    `json:"decimals"`
		} `json:"token_info"`
		BlockTimestamp int64 `json:"block_timestamp"`
	} `json:"data"`
}

func (t *TronRpc) GetTRC20Transfers(ctx context.Context, address string) ([]chain.TransferEvent, error) {
	endpoint := fmt.Sprintf(
		"%s/v1/accounts/%s/transactions/trc20?only_to=true&limit=50&contract_address=%s",
		t.appConfig.Tron.RPCEndpoint,
		url.PathEscape(address),
		url.QueryEscape(t.appConfig.Tron.TokenContract),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	resp, err := t.trongrid.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to request trc20 transfers")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status code: %d, body: %s", resp.StatusCode, string(body))
	}

	var parsed trc20Response
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, errors.Wrap(err, "failed to decode trc20 transfers")
	}

	events := make([]chain.TransferEvent, 0, len(parsed.Data))
	for _, tx := range parsed.Data {
		if tx.To != address {
			continue
		}
		events = append(events, chain.TransferEvent{
			TxHash:      tx.TransactionID,
			FromAddress: tx.From,
			ToAddress:   tx.To,
			RawAmount:   tx.Value,
		})
	}
	return events, nil
}

func (t *TronRpc) GetTokenBalance(ctx context.Context, address string) *model.TokenAmount {
	var account tatum.TronAccount
	err := t.tatum.Get(ctx, "/tron/account/"+url.PathEscape(address), &account)
	if err != nil {
		t.logger.Error("[GetTokenBalance] lookup failed, treating as zero", map[string]string{
			"address": address,
			"error":   err.Error(),
		})
		return model.ZeroTokenAmount(t.appConfig.Tron.TokenDecimals)
	}

	for _, entry := range account.TRC20 {
		if raw, ok := entry[t.appConfig.Tron.TokenContract]; ok {
			return &model.TokenAmount{Value: raw, Decimal: t.appConfig.Tron.TokenDecimals}
		}
	}
	return model.ZeroTokenAmount(t.appConfig.Tron.TokenDecimals)
}

func (t *TronRpc) GetNativeBalance(ctx context.Context, address string) *model.TokenAmount {
	var account tatum.TronAccount
	err := t.tatum.Get(ctx, "/tron/account/"+url.PathEscape(address), &account)
	if err != nil {
		t.logger.Error("[GetNativeBalance] lookup failed, treating as zero", map[string]string{
			"address": address,
			"error":   err.Error(),
		})
		return model.ZeroTokenAmount(6)
	}
	return &model.TokenAmount{Value: fmt.Sprintf("%d", account.Balance), Decimal: 6}
}

func (t *TronRpc) SendToken(ctx context.Context, toAddress string, amount *model.TokenAmount) (string, error) {
	key, err := t.keyProvider.ResolvePrivateKey(model.NetworkTron)
	if err != nil {
		return "", err
	}

	var result tatum.TxID
	err = t.tatum.Post(ctx, "/tron/trc20/transaction", &tatum.TronTRC20Send{
		FromPrivateKey: key,
		To:             toAddress,
		TokenAddress:   t.appConfig.Tron.TokenContract,
		Amount:         amount.ToDecimal().String(),
		FeeLimit:       trc20FeeLimit,
	}, &result)
	if err != nil {
		return "", errors.Wrap(err, "failed to send trc20 transfer")
	}
	return result.TxID, nil
}

func (t *TronRpc) SendNative(ctx context.Context, toAddress string, amount *model.TokenAmount) (string, error) {
	key, err := t.keyProvider.ResolvePrivateKey(model.NetworkTron)
	if err != nil {
		return "", err
	}

	var result tatum.TxID
	err = t.tatum.Post(ctx, "/tron/transaction", &tatum.TronSend{
		FromPrivateKey: key,
		To:             toAddress,
		Amount:         amount.ToDecimal().String(),
	}, &result)
	if err != nil {
		return "", errors.Wrap(err, "failed to send trx transfer")
	}
	return result.TxID, nil
}

func (t *TronRpc) HealthCheck(ctx context.Context) error {
	master, err := t.keyProvider.ResolveMasterAddress(model.NetworkTron)
	if err != nil {
		return err
	}
	var account tatum.TronAccount
	return t.tatum.Get(ctx, "/tron/account/"+url.PathEscape(master), &account)
}
