package solanarpc

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"time"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/pkg/errors"

	"github.com/wagerly/bridge-backend/internal/chain"
	"github.com/wagerly/bridge-backend/internal/chain/keyprovider"
	"github.com/wagerly/bridge-backend/internal/chain/tatum"
	"github.com/wagerly/bridge-backend/internal/model"
	"github.com/wagerly/bridge-backend/internal/utils/config"
	"github.com/wagerly/bridge-backend/internal/utils/logger"
)

const (
	maxRateLimitRetries = 5
	rateLimitBaseDelay  = 500 * time.Millisecond
)

type SolanaRpc struct {
	appConfig   *config.AppConfig
	logger      *logger.Logger
	tatum       *tatum.Client
	keyProvider keyprovider.IKeyProvider
	httpClient  *http.Client
}

func New(appConfig *config.AppConfig, logger *logger.Logger, tatumClient *tatum.Client, keyProvider keyprovider.IKeyProvider) ISolanaRpc {
	return &SolanaRpc{
		appConfig:   appConfig,
		logger:      logger,
		tatum:       tatumClient,
		keyProvider: keyProvider,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (s *SolanaRpc) Network() model.Network {
	return model.NetworkSolana
}

type rpcRequest struct {
	Jsonrpc string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// call posts one JSON-RPC request, retrying with exponential backoff when the
// public endpoint answers HTTP 429.
func (s *SolanaRpc) call(ctx context.Context, method string, params []interface{}, out interface{}) error {
	payload, err := json.Marshal(rpcRequest{
		Jsonrpc: "2.0",
		ID:      1,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return errors.Wrap(err, "failed to encode rpc request")
	}

	var lastErr error
	for attempt := 0; attempt <= maxRateLimitRetries; attempt++ {
		if attempt > 0 {
			delay := rateLimitBaseDelay * time.Duration(1<<(attempt-1))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.appConfig.Solana.RPCEndpoint, bytes.NewReader(payload))
		if err != nil {
			return errors.Wrap(err, "failed to create request")
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return errors.Wrapf(err, "failed to call %s", method)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return errors.Wrap(err, "failed to read response")
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("status code: 429, rate limited on %s", method)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("status code: %d, body: %s", resp.StatusCode, string(body))
		}

		var envelope struct {
			Result json.RawMessage `json:"result"`
			Error  *rpcError       `json:"error"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return errors.Wrap(err, "failed to decode rpc response")
		}
		if envelope.Error != nil {
			return fmt.Errorf("rpc error %d: %s", envelope.Error.Code, envelope.Error.Message)
		}
		if out == nil {
			return nil
		}
		return json.Unmarshal(envelope.Result, out)
	}

	return lastErr
}

func (s *SolanaRpc) DeriveAddress(ctx context.Context, index uint32) (string, error) {
	key, err := s.keyProvider.ResolvePrivateKey(model.NetworkSolana)
	if err != nil {
		return "", err
	}

	pub := childKey(base58.Decode(key), index).Public().(ed25519.PublicKey)
	return base58.Encode(pub), nil
}

// childKey derives the deposit keypair for one index from the master signing
// key. Same index, same keypair, so addresses survive restarts.
func childKey(masterKey []byte, index uint32) ed25519.PrivateKey {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, index)
	seed := sha256.Sum256(append(append([]byte{}, masterKey...), buf...))
	return ed25519.NewKeyFromSeed(seed[:])
}

type signatureInfo struct {
	Signature string `json:"signature"`
	Err       any    `json:"err"`
	Slot      uint64 `json:"slot"`
}

type tokenBalance struct {
	AccountIndex  int    `json:"accountIndex"`
	Mint          string `json:"mint"`
	Owner         string `json:"owner"`
	UITokenAmount struct {
		Amount   string `json:"amount"`
		Decimals int    `json:"decimals"`
	} `json:"uiTokenAmount"`
}

type parsedTransaction struct {
	Slot int64 `json:"slot"`
	Meta struct {
		Err               any            `json:"err"`
		PreTokenBalances  []tokenBalance `json:"preTokenBalances"`
		PostTokenBalances []tokenBalance `json:"postTokenBalances"`
	} `json:"meta"`
}

func (s *SolanaRpc) GetTokenTransfers(ctx context.Context, address string, limit int) ([]chain.TransferEvent, error) {
	var signatures []signatureInfo
	err := s.call(ctx, "getSignaturesForAddress", []interface{}{
		address,
		map[string]interface{}{"limit": limit},
	}, &signatures)
	if err != nil {
		return nil, err
	}

	var events []chain.TransferEvent
	for _, sig := range signatures {
		if sig.Err != nil {
			continue
		}

		var tx parsedTransaction
		err := s.call(ctx, "getTransaction", []interface{}{
			sig.Signature,
			map[string]interface{}{"encoding": "jsonParsed", "maxSupportedTransactionVersion": 0},
		}, &tx)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to fetch transaction %s", sig.Signature)
		}
		if tx.Meta.Err != nil {
			continue
		}

		delta := s.ownerTokenDelta(&tx, address)
		if delta.Sign() <= 0 {
			continue
		}

		events = append(events, chain.TransferEvent{
			TxHash:      sig.Signature,
			ToAddress:   address,
			RawAmount:   delta.String(),
			BlockNumber: sig.Slot,
		})
	}
	return events, nil
}

// ownerTokenDelta computes how much of the configured mint the owner gained in
// one transaction, from pre/post token balances.
func (s *SolanaRpc) ownerTokenDelta(tx *parsedTransaction, owner string) *big.Int {
	mint := s.appConfig.Solana.TokenContract

	pre := big.NewInt(0)
	for _, b := range tx.Meta.PreTokenBalances {
		if b.Owner == owner && b.Mint == mint {
			if v, ok := new(big.Int).SetString(b.UITokenAmount.Amount, 10); ok {
				pre.Add(pre, v)
			}
		}
	}

	post := big.NewInt(0)
	for _, b := range tx.Meta.PostTokenBalances {
		if b.Owner == owner && b.Mint == mint {
			if v, ok := new(big.Int).SetString(b.UITokenAmount.Amount, 10); ok {
				post.Add(post, v)
			}
		}
	}

	return new(big.Int).Sub(post, pre)
}

func (s *SolanaRpc) GetTokenBalance(ctx context.Context, address string) *model.TokenAmount {
	var result struct {
		Value []struct {
			Account struct {
				Data struct {
					Parsed struct {
						Info struct {
							TokenAmount struct {
								Amount string `json:"amount"`
							} `json:"tokenAmount"`
						} `json:"info"`
					} `json:"parsed"`
				} `json:"data"`
			} `json:"account"`
		} `json:"value"`
	}

	err := s.call(ctx, "getTokenAccountsByOwner", []interface{}{
		address,
		map[string]interface{}{"mint": s.appConfig.Solana.TokenContract},
		map[string]interface{}{"encoding": "jsonParsed"},
	}, &result)
	if err != nil {
		s.logger.Error("[GetTokenBalance] lookup failed, treating as zero", map[string]string{
			"address": address,
			"error":   err.Error(),
		})
		return model.ZeroTokenAmount(s.appConfig.Solana.TokenDecimals)
	}

	total := big.NewInt(0)
	for _, acct := range result.Value {
		if v, ok := new(big.Int).SetString(acct.Account.Data.Parsed.Info.TokenAmount.Amount, 10); ok {
			total.Add(total, v)
		}
	}
	return &model.TokenAmount{Value: total.String(), Decimal: s.appConfig.Solana.TokenDecimals}
}

func (s *SolanaRpc) GetNativeBalance(ctx context.Context, address string) *model.TokenAmount {
	var result struct {
		Value uint64 `json:"value"`
	}
	err := s.call(ctx, "getBalance", []interface{}{address}, &result)
	if err != nil {
		s.logger.Error("[GetNativeBalance] lookup failed, treating as zero", map[string]string{
			"address": address,
			"error":   err.Error(),
		})
		return model.ZeroTokenAmount(9)
	}
	return &model.TokenAmount{Value: fmt.Sprintf("%d", result.Value), Decimal: 9}
}

func (s *SolanaRpc) SendToken(ctx context.Context, toAddress string, amount *model.TokenAmount) (string, error) {
	key, err := s.keyProvider.ResolvePrivateKey(model.NetworkSolana)
	if err != nil {
		return "", err
	}
	from, err := s.keyProvider.ResolveMasterAddress(model.NetworkSolana)
	if err != nil {
		return "", err
	}

	var result tatum.TxID
	err = s.tatum.Post(ctx, "/solana/transaction", &tatum.SolanaSend{
		FromPrivateKey: key,
		From:           from,
		To:             toAddress,
		Amount:         amount.ToDecimal().String(),
		TokenAddress:   s.appConfig.Solana.TokenContract,
	}, &result)
	if err != nil {
		return "", errors.Wrap(err, "failed to send spl transfer")
	}
	return result.TxID, nil
}

func (s *SolanaRpc) SendNative(ctx context.Context, toAddress string, amount *model.TokenAmount) (string, error) {
	key, err := s.keyProvider.ResolvePrivateKey(model.NetworkSolana)
	if err != nil {
		return "", err
	}
	from, err := s.keyProvider.ResolveMasterAddress(model.NetworkSolana)
	if err != nil {
		return "", err
	}

	var result tatum.TxID
	err = s.tatum.Post(ctx, "/solana/transaction", &tatum.SolanaSend{
		FromPrivateKey: key,
		From:           from,
		To:             toAddress,
		Amount:         amount.ToDecimal().String(),
	}, &result)
	if err != nil {
		return "", errors.Wrap(err, "failed to send sol transfer")
	}
	return result.TxID, nil
}

func (s *SolanaRpc) HealthCheck(ctx context.Context) error {
	var result struct {
		Value uint64 `json:"value"`
	}
	return s.call(ctx, "getBalance", []interface{}{"11111111111111111111111111111111"}, &result)
}
