// Package session owns the demo's mutable state and runs its user-triggered
// actions: account generation and funding, wallet connect/disconnect,
// transfer, and balance refresh. One action runs at a time; a second
// invocation while one is in flight fails fast with ErrBusy.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vietddude/walletdemo/internal/core/domain"
	"github.com/vietddude/walletdemo/internal/infra/provider"
	"github.com/vietddude/walletdemo/internal/infra/storage"
	"github.com/vietddude/walletdemo/internal/metrics"
)

var (
	// ErrBusy means another action holds the processing gate.
	ErrBusy = errors.New("session: another action is in flight")

	// ErrNoProvider means no wallet provider was detected at startup.
	ErrNoProvider = errors.New("session: no wallet provider available")

	// ErrPrecondition means the transfer preconditions are not met.
	ErrPrecondition = errors.New("session: transfer requires a generated account and a connected wallet")
)

// Chain is the narrow view of the network endpoint the session consumes.
type Chain interface {
	// Balance queries the current lamport balance of an address.
	Balance(ctx context.Context, address string) (domain.Lamports, error)

	// Airdrop requests a faucet credit and waits for confirmation.
	Airdrop(ctx context.Context, address string, amount domain.Lamports) (string, error)

	// Transfer moves lamports from the local keypair to an address and
	// waits for confirmation.
	Transfer(ctx context.Context, from *domain.Account, to string, amount domain.Lamports) (string, error)
}

// Config holds the demo's amounts.
type Config struct {
	FaucetLamports    domain.Lamports
	TransferLamports  domain.Lamports
	FeeMarginLamports domain.Lamports
}

// Session is the orchestrator. The chain and provider handles are set once
// at construction and read-only afterward.
type Session struct {
	cfg      Config
	chain    Chain
	provider provider.Provider // nil when absent
	store    storage.ActivityRepository
	log      *slog.Logger

	gate sync.Mutex // single-slot processing gate, TryLock only

	mu             sync.RWMutex
	account        *domain.Account
	wallet         *domain.Wallet
	accountBalance domain.Lamports
	walletBalance  domain.Lamports
}

// New creates a session. p may be nil when no provider was detected;
// account generation works regardless.
func New(cfg Config, chain Chain, p provider.Provider, store storage.ActivityRepository) *Session {
	return &Session{
		cfg:      cfg,
		chain:    chain,
		provider: p,
		store:    store,
		log:      slog.Default().With("component", "session"),
	}
}

// Status is a read-only snapshot of the session state.
type Status struct {
	ProviderDetected bool
	Busy             bool
	AccountAddress   string
	AccountBalance   domain.Lamports
	WalletAddress    string
	WalletBalance    domain.Lamports
}

// Status returns a snapshot of the current state.
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{
		ProviderDetected: s.provider != nil,
		Busy:             s.Busy(),
		AccountBalance:   s.accountBalance,
		WalletBalance:    s.walletBalance,
	}
	if s.account != nil {
		st.AccountAddress = s.account.Address
	}
	if s.wallet != nil {
		st.WalletAddress = s.wallet.Address
	}
	return st
}

// Busy reports whether an action currently holds the gate.
func (s *Session) Busy() bool {
	if s.gate.TryLock() {
		s.gate.Unlock()
		return false
	}
	return true
}

// acquire takes the processing gate or fails fast.
func (s *Session) acquire() (func(), error) {
	if !s.gate.TryLock() {
		return nil, ErrBusy
	}
	metrics.GateBusy.Set(1)
	return func() {
		metrics.GateBusy.Set(0)
		s.gate.Unlock()
	}, nil
}

// CreateAccountResult describes a completed account generation.
type CreateAccountResult struct {
	Address          string
	Balance          domain.Lamports
	AirdropSignature string
}

// CreateAccount generates a fresh keypair, requests the configured faucet
// credit, waits for it, and reads the resulting balance. A previously
// generated account is replaced.
func (s *Session) CreateAccount(ctx context.Context) (CreateAccountResult, error) {
	release, err := s.acquire()
	if err != nil {
		return CreateAccountResult{}, err
	}
	defer release()

	act := domain.NewActivity(domain.ActionCreateAccount, domain.OutcomeOK)

	account, err := domain.GenerateAccount()
	if err != nil {
		return CreateAccountResult{}, s.fail(ctx, act, fmt.Errorf("create account: %w", err))
	}
	act.To = account.Address
	act.Amount = s.cfg.FaucetLamports

	sig, err := s.chain.Airdrop(ctx, account.Address, s.cfg.FaucetLamports)
	if err != nil {
		return CreateAccountResult{}, s.fail(ctx, act, fmt.Errorf("airdrop: %w", err))
	}
	act.Signature = sig

	balance, err := s.chain.Balance(ctx, account.Address)
	if err != nil {
		return CreateAccountResult{}, s.fail(ctx, act, fmt.Errorf("query balance: %w", err))
	}

	s.mu.Lock()
	s.account = account
	s.accountBalance = balance
	s.mu.Unlock()
	metrics.BalanceLamports.WithLabelValues("account").Set(float64(balance))

	s.record(ctx, act)
	s.log.Info("account created and funded",
		"address", account.Address, "balance", balance.String(), "signature", sig)

	return CreateAccountResult{
		Address:          account.Address,
		Balance:          balance,
		AirdropSignature: sig,
	}, nil
}

// ConnectResult describes a completed wallet connection.
type ConnectResult struct {
	Address string
	Balance domain.Lamports
}

// ConnectWallet requests a connection from the detected provider, stores
// the returned identity, and reads its balance.
func (s *Session) ConnectWallet(ctx context.Context, onlyIfTrusted bool) (ConnectResult, error) {
	release, err := s.acquire()
	if err != nil {
		return ConnectResult{}, err
	}
	defer release()

	if s.provider == nil {
		return ConnectResult{}, ErrNoProvider
	}

	act := domain.NewActivity(domain.ActionConnect, domain.OutcomeOK)

	address, err := s.provider.Connect(ctx, provider.ConnectOptions{OnlyIfTrusted: onlyIfTrusted})
	if err != nil {
		return ConnectResult{}, s.fail(ctx, act, fmt.Errorf("connect wallet: %w", err))
	}
	act.To = address

	balance, err := s.chain.Balance(ctx, address)
	if err != nil {
		return ConnectResult{}, s.fail(ctx, act, fmt.Errorf("query wallet balance: %w", err))
	}

	s.mu.Lock()
	s.wallet = &domain.Wallet{Address: address, ConnectedAt: time.Now()}
	s.walletBalance = balance
	s.mu.Unlock()
	metrics.BalanceLamports.WithLabelValues("wallet").Set(float64(balance))

	s.record(ctx, act)
	s.log.Info("wallet connected", "address", address, "balance", balance.String())

	return ConnectResult{Address: address, Balance: balance}, nil
}

// DisconnectWallet releases the provider connection and clears the stored
// wallet identity. The last fetched wallet balance is intentionally left in
// place; it reads as stale until the next connect.
func (s *Session) DisconnectWallet(ctx context.Context) error {
	release, err := s.acquire()
	if err != nil {
		return err
	}
	defer release()

	if s.provider == nil {
		return ErrNoProvider
	}

	act := domain.NewActivity(domain.ActionDisconnect, domain.OutcomeOK)

	s.mu.RLock()
	if s.wallet != nil {
		act.From = s.wallet.Address
	}
	s.mu.RUnlock()

	if err := s.provider.Disconnect(ctx); err != nil {
		return s.fail(ctx, act, fmt.Errorf("disconnect wallet: %w", err))
	}

	s.mu.Lock()
	s.wallet = nil
	s.mu.Unlock()

	s.record(ctx, act)
	s.log.Info("wallet disconnected")
	return nil
}

// TransferResult describes a completed transfer.
type TransferResult struct {
	From           string
	To             string
	Amount         domain.Lamports
	Signature      string
	AccountBalance domain.Lamports
	WalletBalance  domain.Lamports
}

// Transfer sends the configured amount, minus the fee margin, from the
// generated account to the connected wallet. Both must be present or the
// action aborts before any network call. On success both balances are
// refreshed concurrently and awaited before the result is returned.
func (s *Session) Transfer(ctx context.Context) (TransferResult, error) {
	release, err := s.acquire()
	if err != nil {
		return TransferResult{}, err
	}
	defer release()

	s.mu.RLock()
	account := s.account
	wallet := s.wallet
	s.mu.RUnlock()

	if account == nil || wallet == nil {
		return TransferResult{}, ErrPrecondition
	}

	amount := s.cfg.TransferLamports - s.cfg.FeeMarginLamports

	act := domain.NewActivity(domain.ActionTransfer, domain.OutcomeOK)
	act.From = account.Address
	act.To = wallet.Address
	act.Amount = amount

	sig, err := s.chain.Transfer(ctx, account, wallet.Address, amount)
	if err != nil {
		return TransferResult{}, s.fail(ctx, act, fmt.Errorf("transfer: %w", err))
	}
	act.Signature = sig

	accountBalance, walletBalance, err := s.refreshBalances(ctx, account.Address, wallet.Address)
	if err != nil {
		// The transfer itself is confirmed; only the post-transfer
		// refresh failed.
		act.Detail = "balance refresh failed"
		return TransferResult{Signature: sig}, s.fail(ctx, act, fmt.Errorf("refresh after transfer: %w", err))
	}

	s.record(ctx, act)
	s.log.Info("transfer confirmed",
		"from", account.Address, "to", wallet.Address,
		"amount", amount.String(), "signature", sig)

	return TransferResult{
		From:           account.Address,
		To:             wallet.Address,
		Amount:         amount,
		Signature:      sig,
		AccountBalance: accountBalance,
		WalletBalance:  walletBalance,
	}, nil
}

// Refresh re-queries the balances of whichever identities are present.
func (s *Session) Refresh(ctx context.Context) error {
	release, err := s.acquire()
	if err != nil {
		return err
	}
	defer release()

	s.mu.RLock()
	var accountAddr, walletAddr string
	if s.account != nil {
		accountAddr = s.account.Address
	}
	if s.wallet != nil {
		walletAddr = s.wallet.Address
	}
	s.mu.RUnlock()

	if accountAddr == "" && walletAddr == "" {
		return nil
	}

	_, _, err = s.refreshBalances(ctx, accountAddr, walletAddr)
	if err != nil {
		return fmt.Errorf("refresh balances: %w", err)
	}
	return nil
}

// refreshBalances queries both balances concurrently and waits for both
// before publishing them. Empty addresses are skipped.
func (s *Session) refreshBalances(ctx context.Context, accountAddr, walletAddr string) (domain.Lamports, domain.Lamports, error) {
	var accountBalance, walletBalance domain.Lamports

	g, gctx := errgroup.WithContext(ctx)
	if accountAddr != "" {
		g.Go(func() error {
			b, err := s.chain.Balance(gctx, accountAddr)
			if err != nil {
				return err
			}
			accountBalance = b
			return nil
		})
	}
	if walletAddr != "" {
		g.Go(func() error {
			b, err := s.chain.Balance(gctx, walletAddr)
			if err != nil {
				return err
			}
			walletBalance = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, 0, err
	}

	s.mu.Lock()
	if accountAddr != "" {
		s.accountBalance = accountBalance
		metrics.BalanceLamports.WithLabelValues("account").Set(float64(accountBalance))
	}
	if walletAddr != "" {
		s.walletBalance = walletBalance
		metrics.BalanceLamports.WithLabelValues("wallet").Set(float64(walletBalance))
	}
	s.mu.Unlock()

	return accountBalance, walletBalance, nil
}

// Activities returns the most recent action records, newest first.
func (s *Session) Activities(ctx context.Context, limit int) ([]*domain.Activity, error) {
	return s.store.List(ctx, limit)
}

// fail records the failed action and returns err unchanged.
func (s *Session) fail(ctx context.Context, act domain.Activity, err error) error {
	act.Outcome = domain.OutcomeFailed
	if act.Detail == "" {
		act.Detail = err.Error()
	}
	s.record(ctx, act)
	s.log.Error("action failed", "action", string(act.Kind), "error", err)
	return err
}

// record persists the activity and bumps counters. Storage failures are
// logged, not propagated; the audit trail never blocks an action.
func (s *Session) record(ctx context.Context, act domain.Activity) {
	metrics.ActionsTotal.WithLabelValues(string(act.Kind), string(act.Outcome)).Inc()
	if s.store == nil {
		return
	}
	if err := s.store.Save(context.WithoutCancel(ctx), &act); err != nil {
		s.log.Warn("failed to record activity", "action", string(act.Kind), "error", err)
	}
}
