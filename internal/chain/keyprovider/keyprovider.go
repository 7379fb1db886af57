package keyprovider

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"sync"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/wagerly/bridge-backend/internal/model"
	"github.com/wagerly/bridge-backend/internal/utils/config"
	"github.com/wagerly/bridge-backend/internal/utils/logger"
)

// SLIP-44 coin types for the hardened derivation path m/44'/coin'/0'.
const (
	coinTypeTron    uint32 = 195
	coinTypePolygon uint32 = 966
)

const tronAddressVersion = 0x41

type Provider struct {
	appConfig *config.AppConfig
	logger    *logger.Logger

	mu        sync.Mutex
	keys      map[model.Network]string
	addresses map[model.Network]string
}

func New(appConfig *config.AppConfig, logger *logger.Logger) IKeyProvider {
	return &Provider{
		appConfig: appConfig,
		logger:    logger,
		keys:      map[model.Network]string{},
		addresses: map[model.Network]string{},
	}
}

func (p *Provider) ResolvePrivateKey(network model.Network) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if key, ok := p.keys[network]; ok {
		return key, nil
	}

	if override := os.Getenv(fmt.Sprintf("%s_PRIVATE_KEY", network)); override != "" {
		p.keys[network] = override
		return override, nil
	}

	key, err := p.deriveKey(network)
	if err != nil {
		return "", err
	}

	p.keys[network] = key
	return key, nil
}

func (p *Provider) ResolveMasterAddress(network model.Network) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if addr, ok := p.addresses[network]; ok {
		return addr, nil
	}

	if override := os.Getenv(fmt.Sprintf("%s_MASTER_ADDRESS", network)); override != "" {
		p.addresses[network] = override
		return override, nil
	}

	addr, err := p.deriveAddress(network)
	if err != nil {
		return "", err
	}

	p.addresses[network] = addr
	return addr, nil
}

func (p *Provider) deriveKey(network model.Network) (string, error) {
	switch network {
	case model.NetworkTron:
		key, err := p.deriveSecp256k1(coinTypeTron)
		if err != nil {
			return "", err
		}
		return hex.EncodeToString(key.Serialize()), nil
	case model.NetworkPolygon:
		key, err := p.deriveSecp256k1(coinTypePolygon)
		if err != nil {
			return "", err
		}
		return hex.EncodeToString(key.Serialize()), nil
	case model.NetworkSolana:
		key := p.deriveEd25519()
		return base58.Encode(key), nil
	}
	return "", errors.Errorf("no key derivation for network %s", network)
}

func (p *Provider) deriveAddress(network model.Network) (string, error) {
	switch network {
	case model.NetworkTron:
		key, err := p.deriveSecp256k1(coinTypeTron)
		if err != nil {
			return "", err
		}
		pub := key.PubKey().ToECDSA()
		hash := crypto.Keccak256(crypto.FromECDSAPub(pub)[1:])
		return base58.CheckEncode(hash[12:], tronAddressVersion), nil
	case model.NetworkPolygon:
		key, err := p.deriveSecp256k1(coinTypePolygon)
		if err != nil {
			return "", err
		}
		return crypto.PubkeyToAddress(*key.PubKey().ToECDSA()).Hex(), nil
	case model.NetworkSolana:
		key := p.deriveEd25519()
		return base58.Encode(key.Public().(ed25519.PublicKey)), nil
	}
	return "", errors.Errorf("no address derivation for network %s", network)
}

func (p *Provider) masterSeedBytes() []byte {
	seed, err := hex.DecodeString(p.appConfig.Wallet.MasterSeed)
	if err != nil || len(seed) < hdkeychain.MinSeedBytes {
		sum := sha256.Sum256([]byte(p.appConfig.Wallet.MasterSeed))
		return sum[:]
	}
	return seed
}

func (p *Provider) deriveSecp256k1(coinType uint32) (*btcec.PrivateKey, error) {
	master, err := hdkeychain.NewMaster(p.masterSeedBytes(), &chaincfg.MainNetParams)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build master key")
	}

	purpose, err := master.Derive(hdkeychain.HardenedKeyStart + 44)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive purpose key")
	}

	coin, err := purpose.Derive(hdkeychain.HardenedKeyStart + coinType)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive coin key")
	}

	account, err := coin.Derive(hdkeychain.HardenedKeyStart)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive account key")
	}

	return account.ECPrivKey()
}

func (p *Provider) deriveEd25519() ed25519.PrivateKey {
	seed := sha256.Sum256(append(p.masterSeedBytes(), []byte(model.NetworkSolana)...))
	return ed25519.NewKeyFromSeed(seed[:])
}
