package solana

import (
	"testing"
	"time"

	"github.com/blocto/solana-go-sdk/rpc"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "empty endpoint",
			cfg:     Config{},
			wantErr: true,
		},
		{
			name:    "devnet defaults",
			cfg:     Config{RPCURL: "https://api.devnet.solana.com"},
			wantErr: false,
		},
		{
			name:    "explicit finalized",
			cfg:     Config{RPCURL: "https://api.devnet.solana.com", Commitment: "finalized"},
			wantErr: false,
		},
		{
			name:    "unknown commitment",
			cfg:     Config{RPCURL: "https://api.devnet.solana.com", Commitment: "eventual"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClient(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewClient error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && c.confirmTimeout != 60*time.Second {
				t.Errorf("default confirm timeout = %v, want 60s", c.confirmTimeout)
			}
		})
	}
}

func TestCommitmentReached(t *testing.T) {
	tests := []struct {
		name string
		got  rpc.Commitment
		want rpc.Commitment
		ok   bool
	}{
		{name: "processed short of confirmed", got: rpc.CommitmentProcessed, want: rpc.CommitmentConfirmed, ok: false},
		{name: "confirmed meets confirmed", got: rpc.CommitmentConfirmed, want: rpc.CommitmentConfirmed, ok: true},
		{name: "finalized exceeds confirmed", got: rpc.CommitmentFinalized, want: rpc.CommitmentConfirmed, ok: true},
		{name: "confirmed short of finalized", got: rpc.CommitmentConfirmed, want: rpc.CommitmentFinalized, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := commitmentReached(tt.got, tt.want); got != tt.ok {
				t.Errorf("commitmentReached(%s, %s) = %v, want %v", tt.got, tt.want, got, tt.ok)
			}
		})
	}
}
