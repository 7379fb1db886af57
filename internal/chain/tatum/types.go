package tatum

// TxID is the common shape of Tatum transaction submission responses.
type TxID struct {
	TxID string `json:"txId"`
}

type TronWallet struct {
	Mnemonic string `json:"mnemonic"`
	Xpub     string `json:"xpub"`
}

type GeneratedAddress struct {
	Address string `json:"address"`
}

// TronTRC20Send is the request body of POST /tron/trc20/transaction.
type TronTRC20Send struct {
	FromPrivateKey string `json:"fromPrivateKey"`
	To             string `json:"to"`
	TokenAddress   string `json:"tokenAddress"`
	Amount         string `json:"amount"`
	FeeLimit       int64  `json:"feeLimit"`
}

// TronSend is the request body of POST /tron/transaction.
type TronSend struct {
	FromPrivateKey string `json:"fromPrivateKey"`
	To             string `json:"to"`
	Amount         string `json:"amount"`
}

// PolygonSend is the request body of POST /polygon/transaction. For ERC20
// transfers the payload carries the token contract address and raw data.
type PolygonSend struct {
	FromPrivateKey       string `json:"fromPrivateKey"`
	To                   string `json:"to"`
	Amount               string `json:"amount"`
	CurrencyContractAddr string `json:"contractAddress,omitempty"`
	Digits               int    `json:"digits,omitempty"`
}

// SolanaSend is the request body of POST /solana/transaction.
type SolanaSend struct {
	FromPrivateKey string `json:"fromPrivateKey"`
	From           string `json:"from"`
	To             string `json:"to"`
	Amount         string `json:"amount"`
	TokenAddress   string `json:"contractAddress,omitempty"`
}

// TronAccount is the subset of GET /tron/account/{address} the bridge reads.
type TronAccount struct {
	Balance int64               `json:"balance"`
	TRC20   []map[string]string `json:"trc20"`
}
