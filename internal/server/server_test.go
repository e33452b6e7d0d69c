package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/vietddude/walletdemo/internal/core/domain"
	"github.com/vietddude/walletdemo/internal/infra/provider"
	"github.com/vietddude/walletdemo/internal/infra/storage/memory"
	"github.com/vietddude/walletdemo/internal/session"
)

const walletAddr = "FakeWa11etAddre55111111111111111111111111111"

// fakeChain mirrors the session test double, kept local to the package.
type fakeChain struct {
	mu       sync.Mutex
	balances map[string]domain.Lamports
	sigs     int
	healthy  bool
}

func newFakeChain() *fakeChain {
	return &fakeChain{balances: make(map[string]domain.Lamports), healthy: true}
}

func (f *fakeChain) Balance(ctx context.Context, address string) (domain.Lamports, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balances[address], nil
}

func (f *fakeChain) Airdrop(ctx context.Context, address string, amount domain.Lamports) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[address] += amount
	f.sigs++
	return fmt.Sprintf("sig-%d", f.sigs), nil
}

func (f *fakeChain) Transfer(ctx context.Context, from *domain.Account, to string, amount domain.Lamports) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[from.Address] -= amount
	f.balances[to] += amount
	f.sigs++
	return fmt.Sprintf("sig-%d", f.sigs), nil
}

func (f *fakeChain) Health(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.healthy {
		return errors.New("rpc unreachable")
	}
	return nil
}

type fakeProvider struct{}

func (fakeProvider) Connect(ctx context.Context, opts provider.ConnectOptions) (string, error) {
	return walletAddr, nil
}

func (fakeProvider) Disconnect(ctx context.Context) error { return nil }

func newTestServer(t *testing.T, chain *fakeChain, p provider.Provider) (*Server, *session.Session) {
	t.Helper()
	cfg := session.Config{
		FaucetLamports:    2 * domain.Lamports(domain.LamportsPerSOL),
		TransferLamports:  domain.Lamports(domain.LamportsPerSOL),
		FeeMarginLamports: 100_000,
	}
	sess := session.New(cfg, chain, p, memory.NewActivityRepo())
	return NewServer(sess, map[string]Checker{"chain": chain}, 0), sess
}

func do(t *testing.T, s *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestStatusEndpoint(t *testing.T) {
	s, _ := newTestServer(t, newFakeChain(), fakeProvider{})

	rec := do(t, s, http.MethodGet, "/status")
	if rec.Code != http.StatusOK {
		t.Fatalf("status code = %d", rec.Code)
	}

	var body statusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.ProviderDetected {
		t.Error("provider_detected = false")
	}
	if body.Busy {
		t.Error("busy before any action")
	}
	if body.AccountSOL != 0 {
		t.Errorf("account_balance_sol = %v, want 0", body.AccountSOL)
	}
}

func TestCreateAccountEndpoint(t *testing.T) {
	s, _ := newTestServer(t, newFakeChain(), fakeProvider{})

	rec := do(t, s, http.MethodPost, "/account")
	if rec.Code != http.StatusOK {
		t.Fatalf("status code = %d, body %s", rec.Code, rec.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["balance_sol"] != 2.0 {
		t.Errorf("balance_sol = %v, want 2", body["balance_sol"])
	}
	if body["airdrop_signature"] == "" {
		t.Error("missing airdrop signature")
	}
}

func TestTransferEndpoint_PreconditionFailed(t *testing.T) {
	s, _ := newTestServer(t, newFakeChain(), fakeProvider{})

	rec := do(t, s, http.MethodPost, "/transfer")
	if rec.Code != http.StatusPreconditionFailed {
		t.Fatalf("status code = %d, want 412", rec.Code)
	}

	// Gate must be free again.
	rec = do(t, s, http.MethodGet, "/status")
	var body statusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Busy {
		t.Error("busy after aborted transfer")
	}
}

func TestTransferEndpoint(t *testing.T) {
	s, _ := newTestServer(t, newFakeChain(), fakeProvider{})

	if rec := do(t, s, http.MethodPost, "/account"); rec.Code != http.StatusOK {
		t.Fatalf("create account: %d", rec.Code)
	}
	if rec := do(t, s, http.MethodPost, "/wallet/connect"); rec.Code != http.StatusOK {
		t.Fatalf("connect: %d", rec.Code)
	}

	rec := do(t, s, http.MethodPost, "/transfer")
	if rec.Code != http.StatusOK {
		t.Fatalf("transfer: %d, body %s", rec.Code, rec.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["to"] != walletAddr {
		t.Errorf("to = %v", body["to"])
	}
	if body["signature"] == "" {
		t.Error("missing signature")
	}
}

func TestConnectEndpoint_NoProvider(t *testing.T) {
	s, _ := newTestServer(t, newFakeChain(), nil)

	rec := do(t, s, http.MethodPost, "/wallet/connect")
	if rec.Code != http.StatusFailedDependency {
		t.Fatalf("status code = %d, want 424", rec.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	chain := newFakeChain()
	s, _ := newTestServer(t, chain, fakeProvider{})

	rec := do(t, s, http.MethodGet, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status code = %d", rec.Code)
	}

	chain.mu.Lock()
	chain.healthy = false
	chain.mu.Unlock()

	rec = do(t, s, http.MethodGet, "/health")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status code = %d, want 503", rec.Code)
	}
}

func TestActivityEndpoint(t *testing.T) {
	s, _ := newTestServer(t, newFakeChain(), fakeProvider{})

	if rec := do(t, s, http.MethodPost, "/account"); rec.Code != http.StatusOK {
		t.Fatalf("create account: %d", rec.Code)
	}

	rec := do(t, s, http.MethodGet, "/activity?limit=5")
	if rec.Code != http.StatusOK {
		t.Fatalf("status code = %d", rec.Code)
	}
	var records []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	if records[0]["kind"] != string(domain.ActionCreateAccount) {
		t.Errorf("kind = %v", records[0]["kind"])
	}

	if rec := do(t, s, http.MethodGet, "/activity?limit=bogus"); rec.Code != http.StatusBadRequest {
		t.Errorf("bogus limit status = %d, want 400", rec.Code)
	}
}
