package solana

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/system"
	"github.com/blocto/solana-go-sdk/rpc"
	"github.com/blocto/solana-go-sdk/types"

	"github.com/vietddude/walletdemo/internal/core/domain"
	"github.com/vietddude/walletdemo/internal/metrics"
)

var (
	ErrNotConfigured  = errors.New("solana: client not configured")
	ErrEmptyAddress   = errors.New("solana: address is empty")
	ErrInvalidSigner  = errors.New("solana: invalid signer key")
	ErrConfirmTimeout = errors.New("solana: confirmation timed out")
	ErrTxFailed       = errors.New("solana: transaction failed on chain")
)

const confirmPollInterval = 500 * time.Millisecond

// Config holds RPC client settings.
type Config struct {
	RPCURL         string
	Commitment     string // processed, confirmed, finalized
	ConfirmTimeout time.Duration
}

// Client is the network endpoint handle. It is created once at startup and
// read-only afterward.
type Client struct {
	rpc            *client.Client
	commitment     rpc.Commitment
	confirmTimeout time.Duration
	log            *slog.Logger
}

// NewClient creates a Solana RPC client for the configured endpoint.
func NewClient(cfg Config) (*Client, error) {
	url := strings.TrimSpace(cfg.RPCURL)
	if url == "" {
		return nil, ErrNotConfigured
	}

	commitment := rpc.CommitmentConfirmed
	switch cfg.Commitment {
	case "processed":
		commitment = rpc.CommitmentProcessed
	case "finalized":
		commitment = rpc.CommitmentFinalized
	case "", "confirmed":
	default:
		return nil, fmt.Errorf("solana: unknown commitment %q", cfg.Commitment)
	}

	timeout := cfg.ConfirmTimeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		rpc:            client.NewClient(url),
		commitment:     commitment,
		confirmTimeout: timeout,
		log:            slog.Default().With("component", "solana"),
	}, nil
}

// Health checks RPC reachability.
func (c *Client) Health(ctx context.Context) error {
	start := time.Now()
	_, err := c.rpc.GetVersion(ctx)
	c.observe("getVersion", start, err)
	if err != nil {
		return fmt.Errorf("solana: getVersion: %w", err)
	}
	return nil
}

// Balance queries the current lamport balance of an address.
func (c *Client) Balance(ctx context.Context, address string) (domain.Lamports, error) {
	addr := strings.TrimSpace(address)
	if addr == "" {
		return 0, ErrEmptyAddress
	}

	start := time.Now()
	bal, err := c.rpc.GetBalance(ctx, addr)
	c.observe("getBalance", start, err)
	if err != nil {
		return 0, fmt.Errorf("solana: getBalance %s: %w", addr, err)
	}
	return domain.Lamports(bal), nil
}

// Airdrop requests a faucet credit for the address and waits for the
// crediting transaction to reach the configured commitment.
func (c *Client) Airdrop(ctx context.Context, address string, amount domain.Lamports) (string, error) {
	addr := strings.TrimSpace(address)
	if addr == "" {
		return "", ErrEmptyAddress
	}

	start := time.Now()
	sig, err := c.rpc.RequestAirdrop(ctx, addr, uint64(amount))
	c.observe("requestAirdrop", start, err)
	if err != nil {
		return "", fmt.Errorf("solana: requestAirdrop %s: %w", addr, err)
	}

	c.log.Debug("airdrop submitted", "address", addr, "lamports", uint64(amount), "signature", sig)

	if err := c.awaitConfirmation(ctx, sig); err != nil {
		return sig, err
	}
	return sig, nil
}

// Transfer moves lamports from the locally held keypair to a destination
// address with a single system-program instruction, signed by the source
// key, and waits for confirmation.
func (c *Client) Transfer(ctx context.Context, from *domain.Account, to string, amount domain.Lamports) (string, error) {
	if from == nil {
		return "", ErrInvalidSigner
	}
	dest := strings.TrimSpace(to)
	if dest == "" {
		return "", ErrEmptyAddress
	}

	signer, err := types.AccountFromBytes(from.PrivateKey)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSigner, err)
	}

	start := time.Now()
	latest, err := c.rpc.GetLatestBlockhash(ctx)
	c.observe("getLatestBlockhash", start, err)
	if err != nil {
		return "", fmt.Errorf("solana: getLatestBlockhash: %w", err)
	}

	tx, err := types.NewTransaction(types.NewTransactionParam{
		Message: types.NewMessage(types.NewMessageParam{
			FeePayer:        signer.PublicKey,
			RecentBlockhash: latest.Blockhash,
			Instructions: []types.Instruction{
				system.Transfer(system.TransferParam{
					From:   signer.PublicKey,
					To:     common.PublicKeyFromString(dest),
					Amount: uint64(amount),
				}),
			},
		}),
		Signers: []types.Account{signer},
	})
	if err != nil {
		return "", fmt.Errorf("solana: build transaction: %w", err)
	}

	start = time.Now()
	sig, err := c.rpc.SendTransaction(ctx, tx)
	c.observe("sendTransaction", start, err)
	if err != nil {
		return "", fmt.Errorf("solana: sendTransaction: %w", err)
	}

	c.log.Debug("transfer submitted",
		"from", from.Address, "to", dest, "lamports", uint64(amount), "signature", sig)

	if err := c.awaitConfirmation(ctx, sig); err != nil {
		return sig, err
	}
	return sig, nil
}

// awaitConfirmation polls the signature status until the configured
// commitment is reached, the transaction fails, or the timeout expires.
func (c *Client) awaitConfirmation(ctx context.Context, signature string) error {
	ctx, cancel := context.WithTimeout(ctx, c.confirmTimeout)
	defer cancel()

	ticker := time.NewTicker(confirmPollInterval)
	defer ticker.Stop()

	for {
		start := time.Now()
		status, err := c.rpc.GetSignatureStatus(ctx, signature)
		c.observe("getSignatureStatus", start, err)
		if err == nil && status != nil {
			if status.Err != nil {
				return fmt.Errorf("%w: %s: %v", ErrTxFailed, signature, status.Err)
			}
			if status.ConfirmationStatus != nil && commitmentReached(*status.ConfirmationStatus, c.commitment) {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %s", ErrConfirmTimeout, signature)
		case <-ticker.C:
		}
	}
}

func commitmentReached(got, want rpc.Commitment) bool {
	return commitmentRank(got) >= commitmentRank(want)
}

func commitmentRank(c rpc.Commitment) int {
	switch c {
	case rpc.CommitmentFinalized:
		return 2
	case rpc.CommitmentConfirmed:
		return 1
	default:
		return 0
	}
}

func (c *Client) observe(method string, start time.Time, err error) {
	metrics.RPCCallsTotal.WithLabelValues(method).Inc()
	metrics.RPCLatency.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RPCErrorsTotal.WithLabelValues(method).Inc()
	}
}
