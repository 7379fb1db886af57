package keyprovider

import "github.com/wagerly/bridge-backend/internal/model"

// IKeyProvider resolves signing material for outbound transfers. Resolution
// order: exact environment override first, then deterministic derivation from
// the master seed. Results are cached per network after first resolution.
// Secrets never appear in logs or error messages.
type IKeyProvider interface {
	ResolvePrivateKey(network model.Network) (string, error)
	ResolveMasterAddress(network model.Network) (string, error)
}
