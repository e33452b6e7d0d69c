package domain

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/mr-tron/base58"
)

// Account is a locally generated keypair. The private key lives in memory
// only and is never written anywhere by this package.
type Account struct {
	Address    string
	PrivateKey ed25519.PrivateKey
	CreatedAt  time.Time
}

// GenerateAccount creates a fresh random keypair. The address is the
// base58-encoded ed25519 public key, same as a Solana CLI keypair.
func GenerateAccount() (*Account, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate keypair: %w", err)
	}
	return &Account{
		Address:    base58.Encode(pub),
		PrivateKey: priv,
		CreatedAt:  time.Now(),
	}, nil
}

// ValidateAddress checks that s decodes as a 32-byte base58 public key.
func ValidateAddress(s string) error {
	if s == "" {
		return fmt.Errorf("address is empty")
	}
	raw, err := base58.Decode(s)
	if err != nil {
		return fmt.Errorf("address is not base58: %w", err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return fmt.Errorf("address decodes to %d bytes, want %d", len(raw), ed25519.PublicKeySize)
	}
	return nil
}
