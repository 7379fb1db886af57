package model

import "fmt"

// Network is the closed set of chains the bridge speaks to. Pipeline code
// dispatches on it only at the chain-client boundary.
type Network string

const (
	NetworkTron    Network = "TRON"
	NetworkPolygon Network = "MATIC"
	NetworkSolana  Network = "SOL"
)

func AllNetworks() []Network {
	return []Network{NetworkTron, NetworkPolygon, NetworkSolana}
}

func ParseNetwork(s string) (Network, error) {
	switch Network(s) {
	case NetworkTron, NetworkPolygon, NetworkSolana:
		return Network(s), nil
	}
	return "", fmt.Errorf("unknown network: %q", s)
}

func (n Network) Valid() bool {
	switch n {
	case NetworkTron, NetworkPolygon, NetworkSolana:
		return true
	}
	return false
}

func (n Network) String() string {
	return string(n)
}
