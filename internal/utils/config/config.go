package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/wagerly/bridge-backend/internal/types/environments"
)

type AppConfig struct {
	Environment environments.Environment
	ApiServer   ApiServerConfig
	Postgres    DBConnection
	Tatum       TatumConfig
	Tron        NetworkConfig
	Polygon     NetworkConfig
	Solana      NetworkConfig
	Wallet      WalletConfig
	Scan        ScanConfig
}

type ApiServerConfig struct {
	AllowedOrigins string
}

type DBConnection struct {
	Host string
	Port string
	User string
	Name string
	Pass string

	SSLMode string
}

type TatumConfig struct {
	APIKey  string
	BaseURL string
}

// NetworkConfig carries everything chain-specific: the RPC endpoint, the
// stablecoin token contract, and the fixed deposit/withdrawal limits in USD.
type NetworkConfig struct {
	RPCEndpoint      string
	TokenContract    string
	TokenDecimals    int
	MinDepositUSD    decimal.Decimal
	MinWithdrawalUSD decimal.Decimal
	WithdrawalFeeUSD decimal.Decimal
}

type WalletConfig struct {
	MasterSeed string
}

type ScanConfig struct {
	InitialBlocksBack uint64
	DefaultChunkSize  uint64
	DepositCronSpec   string
	WithdrawCronSpec  string
}

func New() *AppConfig {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// will not override env variables that already exist
	godotenv.Load(".env." + env)

	return &AppConfig{
		Environment: environments.Environment(env),
		ApiServer: ApiServerConfig{
			AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),
		},
		Postgres: DBConnection{
			Host:    os.Getenv("DB_HOST"),
			Port:    os.Getenv("DB_PORT"),
			User:    os.Getenv("DB_USER"),
			Name:    os.Getenv("DB_NAME"),
			Pass:    os.Getenv("DB_PASS"),
			SSLMode: os.Getenv("DB_SSL_MODE"),
		},
		Tatum: TatumConfig{
			APIKey:  os.Getenv("TATUM_API_KEY"),
			BaseURL: envVarWithDefault("TATUM_BASE_URL", "https://api.tatum.io/v3"),
		},
		Tron: NetworkConfig{
			RPCEndpoint:      envVarWithDefault("TRON_RPC_ENDPOINT", "https://api.trongrid.io"),
			TokenContract:    os.Getenv("TRON_USDT_CONTRACT"),
			TokenDecimals:    envVarAtoiWithDefault("TRON_TOKEN_DECIMALS", 6),
			MinDepositUSD:    envVarAsDecimal("TRON_MIN_DEPOSIT_USD", "1"),
			MinWithdrawalUSD: envVarAsDecimal("TRON_MIN_WITHDRAWAL_USD", "10"),
			WithdrawalFeeUSD: envVarAsDecimal("TRON_WITHDRAWAL_FEE_USD", "1"),
		},
		Polygon: NetworkConfig{
			RPCEndpoint:      os.Getenv("POLYGON_RPC_ENDPOINT"),
			TokenContract:    os.Getenv("POLYGON_USDT_CONTRACT"),
			TokenDecimals:    envVarAtoiWithDefault("POLYGON_TOKEN_DECIMALS", 6),
			MinDepositUSD:    envVarAsDecimal("POLYGON_MIN_DEPOSIT_USD", "1"),
			MinWithdrawalUSD: envVarAsDecimal("POLYGON_MIN_WITHDRAWAL_USD", "5"),
			WithdrawalFeeUSD: envVarAsDecimal("POLYGON_WITHDRAWAL_FEE_USD", "0.5"),
		},
		Solana: NetworkConfig{
			RPCEndpoint:      envVarWithDefault("SOLANA_RPC_ENDPOINT", "https://api.mainnet-beta.solana.com"),
			TokenContract:    os.Getenv("SOLANA_USDC_MINT"),
			TokenDecimals:    envVarAtoiWithDefault("SOLANA_TOKEN_DECIMALS", 6),
			MinDepositUSD:    envVarAsDecimal("SOLANA_MIN_DEPOSIT_USD", "1"),
			MinWithdrawalUSD: envVarAsDecimal("SOLANA_MIN_WITHDRAWAL_USD", "5"),
			WithdrawalFeeUSD: envVarAsDecimal("SOLANA_WITHDRAWAL_FEE_USD", "0.5"),
		},
		Wallet: WalletConfig{
			MasterSeed: os.Getenv("MASTER_SEED"),
		},
		Scan: ScanConfig{
			InitialBlocksBack: uint64(envVarAtoiWithDefault("SCAN_INITIAL_BLOCKS_BACK", 1000)),
			DefaultChunkSize:  uint64(envVarAtoiWithDefault("SCAN_DEFAULT_CHUNK_SIZE", 500)),
			DepositCronSpec:   envVarWithDefault("DEPOSIT_CRON_SPEC", "@every 2m"),
			WithdrawCronSpec:  envVarWithDefault("WITHDRAW_CRON_SPEC", "@every 1m"),
		},
	}
}

// ByNetwork returns the NetworkConfig for one network.
func (c *AppConfig) ByNetwork(network string) NetworkConfig {
	switch network {
	case "TRON":
		return c.Tron
	case "MATIC":
		return c.Polygon
	case "SOL":
		return c.Solana
	}
	return NetworkConfig{}
}

func envVarWithDefault(envName, fallback string) string {
	value := os.Getenv(envName)
	if value == "" {
		return fallback
	}
	return value
}

func envVarAtoiWithDefault(envName string, fallback int) int {
	valueStr := os.Getenv(envName)
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return fallback
	}
	return value
}

func envVarAsDecimal(envName, fallback string) decimal.Decimal {
	valueStr := os.Getenv(envName)
	value, err := decimal.NewFromString(valueStr)
	if err != nil {
		return decimal.RequireFromString(fallback)
	}
	return value
}
