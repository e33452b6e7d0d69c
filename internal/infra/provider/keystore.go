package provider

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/mr-tron/base58"
)

// KeystoreProvider backs the wallet capability with a Solana-CLI-compatible
// keystore file (a JSON array of 64 key bytes). Only the public identity is
// retained; key bytes are zeroed after the address is derived.
type KeystoreProvider struct {
	path    string
	address string

	mu        sync.Mutex
	connected bool

	log *slog.Logger
}

// OpenKeystore reads and validates a keystore file.
func OpenKeystore(path string) (*KeystoreProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("provider: read keystore: %w", err)
	}

	key, err := parseKeystore(data)
	if err != nil {
		return nil, err
	}

	address := base58.Encode(key.Public().(ed25519.PublicKey))
	zero(key)

	return &KeystoreProvider{
		path:    path,
		address: address,
		log:     slog.Default().With("component", "provider"),
	}, nil
}

// Connect returns the wallet's public address. With OnlyIfTrusted set, the
// keystore must carry a prior-approval marker.
func (p *KeystoreProvider) Connect(ctx context.Context, opts ConnectOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if opts.OnlyIfTrusted && !p.trusted() {
		return "", ErrNotTrusted
	}

	p.connected = true
	p.log.Debug("wallet connected", "address", p.address)
	return p.address, nil
}

// Disconnect releases the connection.
func (p *KeystoreProvider) Disconnect(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.connected {
		return ErrNotConnected
	}
	p.connected = false
	p.log.Debug("wallet disconnected", "address", p.address)
	return nil
}

// Address returns the wallet's public identity without connecting.
func (p *KeystoreProvider) Address() string {
	return p.address
}

// trusted reports whether the keystore carries a prior-approval marker.
func (p *KeystoreProvider) trusted() bool {
	_, err := os.Stat(p.path + ".trusted")
	return err == nil
}

// parseKeystore decodes the Solana CLI keypair format: a JSON array of the
// 64 secret key bytes.
func parseKeystore(data []byte) (ed25519.PrivateKey, error) {
	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return nil, fmt.Errorf("provider: keystore is not a json byte array: %w", err)
	}
	if len(ints) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("provider: keystore has %d bytes, want %d", len(ints), ed25519.PrivateKeySize)
	}

	key := make(ed25519.PrivateKey, ed25519.PrivateKeySize)
	for i, v := range ints {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("provider: keystore byte out of range at %d: %d", i, v)
		}
		key[i] = byte(v)
	}
	return key, nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
