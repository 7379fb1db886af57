package polygonrpc

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"

	"github.com/wagerly/bridge-backend/internal/chain"
	"github.com/wagerly/bridge-backend/internal/chain/keyprovider"
	"github.com/wagerly/bridge-backend/internal/chain/tatum"
	"github.com/wagerly/bridge-backend/internal/model"
	"github.com/wagerly/bridge-backend/internal/utils/config"
	"github.com/wagerly/bridge-backend/internal/utils/logger"
)

var transferEventTopic = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))

// erc20 balanceOf(address) selector
var balanceOfSelector = crypto.Keccak256([]byte("balanceOf(address)"))[:4]

type PolygonRpc struct {
	appConfig   *config.AppConfig
	logger      *logger.Logger
	client      *ethclient.Client
	tatum       *tatum.Client
	keyProvider keyprovider.IKeyProvider
	token       common.Address
}

func New(appConfig *config.AppConfig, logger *logger.Logger, tatumClient *tatum.Client, keyProvider keyprovider.IKeyProvider) (IPolygonRpc, error) {
	client, err := ethclient.Dial(appConfig.Polygon.RPCEndpoint)
	if err != nil {
		return nil, errors.Wrap(err, "failed to dial polygon rpc")
	}

	return &PolygonRpc{
		appConfig:   appConfig,
		logger:      logger,
		client:      client,
		tatum:       tatumClient,
		keyProvider: keyProvider,
		token:       common.HexToAddress(appConfig.Polygon.TokenContract),
	}, nil
}

func (p *PolygonRpc) Network() model.Network {
	return model.NetworkPolygon
}

func (p *PolygonRpc) DeriveAddress(ctx context.Context, index uint32) (string, error) {
	key, err := p.keyProvider.ResolvePrivateKey(model.NetworkPolygon)
	if err != nil {
		return "", err
	}

	// deposit addresses are children of the signing key: privkey + index,
	// folded back onto the curve, so every index yields a stable address
	priv, err := crypto.HexToECDSA(strings.TrimPrefix(key, "0x"))
	if err != nil {
		return "", errors.Wrap(err, "failed to parse signing key")
	}

	child := new(big.Int).Add(priv.D, big.NewInt(int64(index)))
	child.Mod(child, crypto.S256().Params().N)
	childKey, err := crypto.ToECDSA(common.LeftPadBytes(child.Bytes(), 32))
	if err != nil {
		return "", errors.Wrap(err, "failed to derive child key")
	}

	return crypto.PubkeyToAddress(childKey.PublicKey).Hex(), nil
}

func (p *PolygonRpc) BlockNumber(ctx context.Context) (uint64, error) {
	return p.client.BlockNumber(ctx)
}

func (p *PolygonRpc) FilterTransferLogs(ctx context.Context, fromBlock, toBlock uint64) ([]chain.TransferEvent, error) {
	query := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		ToBlock:   new(big.Int).SetUint64(toBlock),
		Addresses: []common.Address{p.token},
		Topics:    [][]common.Hash{{transferEventTopic}},
	}

	logs, err := p.client.FilterLogs(ctx, query)
	if err != nil {
		return nil, err
	}

	events := make([]chain.TransferEvent, 0, len(logs))
	for _, l := range logs {
		event, ok := decodeTransferLog(l)
		if !ok {
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

func (p *PolygonRpc) TransfersByTxHash(ctx context.Context, txHash string) ([]chain.TransferEvent, error) {
	receipt, err := p.client.TransactionReceipt(ctx, common.HexToHash(txHash))
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch receipt")
	}

	var events []chain.TransferEvent
	for _, l := range receipt.Logs {
		if l.Address != p.token {
			continue
		}
		event, ok := decodeTransferLog(*l)
		if !ok {
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

// decodeTransferLog turns a raw ERC20 Transfer log into a TransferEvent. The
// destination lives in the last indexed topic, the value in the data word.
func decodeTransferLog(l types.Log) (chain.TransferEvent, bool) {
	if len(l.Topics) < 3 || l.Topics[0] != transferEventTopic {
		return chain.TransferEvent{}, false
	}

	from := common.BytesToAddress(l.Topics[1].Bytes())
	to := common.BytesToAddress(l.Topics[len(l.Topics)-1].Bytes())
	value := new(big.Int).SetBytes(l.Data)

	return chain.TransferEvent{
		TxHash:      l.TxHash.Hex(),
		FromAddress: from.Hex(),
		ToAddress:   to.Hex(),
		RawAmount:   value.String(),
		BlockNumber: l.BlockNumber,
	}, true
}

func (p *PolygonRpc) GetTokenBalance(ctx context.Context, address string) *model.TokenAmount {
	data := append(append([]byte{}, balanceOfSelector...), common.LeftPadBytes(common.HexToAddress(address).Bytes(), 32)...)

	result, err := p.client.CallContract(ctx, ethereum.CallMsg{
		To:   &p.token,
		Data: data,
	}, nil)
	if err != nil {
		p.logger.Error("[GetTokenBalance] lookup failed, treating as zero", map[string]string{
			"address": address,
			"error":   err.Error(),
		})
		return model.ZeroTokenAmount(p.appConfig.Polygon.TokenDecimals)
	}

	return &model.TokenAmount{
		Value:   new(big.Int).SetBytes(result).String(),
		Decimal: p.appConfig.Polygon.TokenDecimals,
	}
}

func (p *PolygonRpc) GetNativeBalance(ctx context.Context, address string) *model.TokenAmount {
	balance, err := p.client.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		p.logger.Error("[GetNativeBalance] lookup failed, treating as zero", map[string]string{
			"address": address,
			"error":   err.Error(),
		})
		return model.ZeroTokenAmount(18)
	}
	return &model.TokenAmount{Value: balance.String(), Decimal: 18}
}

func (p *PolygonRpc) SendToken(ctx context.Context, toAddress string, amount *model.TokenAmount) (string, error) {
	key, err := p.keyProvider.ResolvePrivateKey(model.NetworkPolygon)
	if err != nil {
		return "", err
	}

	var result tatum.TxID
	err = p.tatum.Post(ctx, "/polygon/transaction", &tatum.PolygonSend{
		FromPrivateKey:       key,
		To:                   toAddress,
		Amount:               amount.ToDecimal().String(),
		CurrencyContractAddr: p.appConfig.Polygon.TokenContract,
		Digits:               p.appConfig.Polygon.TokenDecimals,
	}, &result)
	if err != nil {
		return "", errors.Wrap(err, "failed to send token transfer")
	}
	return result.TxID, nil
}

func (p *PolygonRpc) SendNative(ctx context.Context, toAddress string, amount *model.TokenAmount) (string, error) {
	key, err := p.keyProvider.ResolvePrivateKey(model.NetworkPolygon)
	if err != nil {
		return "", err
	}

	var result tatum.TxID
	err = p.tatum.Post(ctx, "/polygon/transaction", &tatum.PolygonSend{
		FromPrivateKey: key,
		To:             toAddress,
		Amount:         amount.ToDecimal().String(),
	}, &result)
	if err != nil {
		return "", errors.Wrap(err, "failed to send native transfer")
	}
	return result.TxID, nil
}

func (p *PolygonRpc) HealthCheck(ctx context.Context) error {
	_, err := p.client.BlockNumber(ctx)
	if err != nil {
		return fmt.Errorf("polygon rpc unreachable: %v", err)
	}
	return nil
}
