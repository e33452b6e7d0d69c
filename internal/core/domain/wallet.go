package domain

import (
	"time"
)

// Wallet is the public identity of an externally connected wallet. It is
// present only while a provider connection is active.
type Wallet struct {
	Address     string
	ConnectedAt time.Time
}

// NetworkID identifies the target cluster.
type NetworkID string

const (
	NetworkDevnet  NetworkID = "devnet"
	NetworkTestnet NetworkID = "testnet"
)

// RPCEndpoint returns the public RPC endpoint for the network.
func (n NetworkID) RPCEndpoint() string {
	switch n {
	case NetworkTestnet:
		return "https://api.testnet.solana.com"
	default:
		return "https://api.devnet.solana.com"
	}
}
