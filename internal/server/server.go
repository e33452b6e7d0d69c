// Package server exposes the demo over HTTP: action endpoints, a status
// snapshot, the activity log, and the usual health/metrics pair.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vietddude/walletdemo/internal/session"
)

// Checker reports the health of a dependency.
type Checker interface {
	Health(ctx context.Context) error
}

// Server provides the HTTP endpoints.
type Server struct {
	sess     *session.Session
	checkers map[string]Checker
	server   *http.Server
	log      *slog.Logger
}

// NewServer creates the HTTP server. checkers maps a dependency name to
// its health probe ("chain", "database", ...).
func NewServer(sess *session.Session, checkers map[string]Checker, port int) *Server {
	mux := http.NewServeMux()
	s := &Server{
		sess:     sess,
		checkers: checkers,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		},
		log: slog.Default().With("component", "server"),
	}

	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("GET /activity", s.handleActivity)
	mux.HandleFunc("POST /account", s.handleCreateAccount)
	mux.HandleFunc("POST /wallet/connect", s.handleConnect)
	mux.HandleFunc("POST /wallet/disconnect", s.handleDisconnect)
	mux.HandleFunc("POST /transfer", s.handleTransfer)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

type statusResponse struct {
	ProviderDetected bool    `json:"provider_detected"`
	Busy             bool    `json:"busy"`
	AccountAddress   string  `json:"account_address,omitempty"`
	AccountBalance   uint64  `json:"account_balance_lamports"`
	AccountSOL       float64 `json:"account_balance_sol"`
	WalletAddress    string  `json:"wallet_address,omitempty"`
	WalletBalance    uint64  `json:"wallet_balance_lamports"`
	WalletSOL        float64 `json:"wallet_balance_sol"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st := s.sess.Status()
	writeJSON(w, http.StatusOK, statusResponse{
		ProviderDetected: st.ProviderDetected,
		Busy:             st.Busy,
		AccountAddress:   st.AccountAddress,
		AccountBalance:   uint64(st.AccountBalance),
		AccountSOL:       st.AccountBalance.SOL(),
		WalletAddress:    st.WalletAddress,
		WalletBalance:    uint64(st.WalletBalance),
		WalletSOL:        st.WalletBalance.SOL(),
	})
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid limit %q", v))
			return
		}
		limit = n
	}

	acts, err := s.sess.Activities(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	type record struct {
		ID        string    `json:"id"`
		Kind      string    `json:"kind"`
		Outcome   string    `json:"outcome"`
		From      string    `json:"from,omitempty"`
		To        string    `json:"to,omitempty"`
		Amount    uint64    `json:"amount_lamports,omitempty"`
		Signature string    `json:"signature,omitempty"`
		Detail    string    `json:"detail,omitempty"`
		CreatedAt time.Time `json:"created_at"`
	}
	out := make([]record, 0, len(acts))
	for _, a := range acts {
		out = append(out, record{
			ID:        a.ID,
			Kind:      string(a.Kind),
			Outcome:   string(a.Outcome),
			From:      a.From,
			To:        a.To,
			Amount:    uint64(a.Amount),
			Signature: a.Signature,
			Detail:    a.Detail,
			CreatedAt: a.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	res, err := s.sess.CreateAccount(r.Context())
	if err != nil {
		s.writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"address":           res.Address,
		"balance_lamports":  uint64(res.Balance),
		"balance_sol":       res.Balance.SOL(),
		"airdrop_signature": res.AirdropSignature,
	})
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	onlyIfTrusted := r.URL.Query().Get("only_if_trusted") == "true"

	res, err := s.sess.ConnectWallet(r.Context(), onlyIfTrusted)
	if err != nil {
		s.writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"address":          res.Address,
		"balance_lamports": uint64(res.Balance),
		"balance_sol":      res.Balance.SOL(),
	})
}

func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	if err := s.sess.DisconnectWallet(r.Context()); err != nil {
		s.writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "disconnected"})
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	res, err := s.sess.Transfer(r.Context())
	if err != nil {
		s.writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"from":                     res.From,
		"to":                       res.To,
		"amount_lamports":          uint64(res.Amount),
		"signature":                res.Signature,
		"account_balance_lamports": uint64(res.AccountBalance),
		"wallet_balance_lamports":  uint64(res.WalletBalance),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	code := http.StatusOK
	detail := make(map[string]string, len(s.checkers))

	for name, c := range s.checkers {
		if err := c.Health(r.Context()); err != nil {
			status = "critical"
			code = http.StatusServiceUnavailable
			detail[name] = err.Error()
		} else {
			detail[name] = "ok"
		}
	}

	writeJSON(w, code, map[string]any{"status": status, "checks": detail})
}

// writeActionError maps session errors to HTTP statuses.
func (s *Server) writeActionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrBusy):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, session.ErrPrecondition):
		writeError(w, http.StatusPreconditionFailed, err)
	case errors.Is(err, session.ErrNoProvider):
		writeError(w, http.StatusFailedDependency, err)
	default:
		s.log.Error("action failed", "error", err)
		writeError(w, http.StatusBadGateway, err)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
