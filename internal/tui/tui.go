// Package tui renders the demo as a single screen with three action
// groups: account creation, wallet connect/disconnect, and transfer.
// Triggers are ignored while an action is in flight.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vietddude/walletdemo/internal/session"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	groupStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

const statusTickInterval = time.Second

// Bubble Tea messages

type statusTickMsg struct{}

type accountDoneMsg struct {
	res session.CreateAccountResult
	err error
}

type connectDoneMsg struct {
	res session.ConnectResult
	err error
}

type disconnectDoneMsg struct {
	err error
}

type transferDoneMsg struct {
	res session.TransferResult
	err error
}

type refreshDoneMsg struct {
	err error
}

// Model is the single-screen UI state.
type Model struct {
	sess    *session.Session
	network string

	status   session.Status
	inflight string // label of the running action, "" when idle
	flash    string // last confirmation or alert line
	flashErr bool
	quitting bool
}

// New creates the UI around an initialized session.
func New(sess *session.Session, network string) Model {
	return Model{
		sess:    sess,
		network: network,
		status:  sess.Status(),
	}
}

func (m Model) Init() tea.Cmd {
	return statusTick()
}

func statusTick() tea.Cmd {
	return tea.Tick(statusTickInterval, func(time.Time) tea.Msg {
		return statusTickMsg{}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case statusTickMsg:
		m.status = m.sess.Status()
		return m, statusTick()

	case accountDoneMsg:
		m.inflight = ""
		m.status = m.sess.Status()
		if msg.err != nil {
			return m.withError("account creation failed: " + msg.err.Error()), nil
		}
		return m.withFlash(fmt.Sprintf("account %s funded with %s", short(msg.res.Address), msg.res.Balance)), nil

	case connectDoneMsg:
		m.inflight = ""
		m.status = m.sess.Status()
		if msg.err != nil {
			return m.withError("wallet connect failed: " + msg.err.Error()), nil
		}
		return m.withFlash(fmt.Sprintf("wallet %s connected (%s)", short(msg.res.Address), msg.res.Balance)), nil

	case disconnectDoneMsg:
		m.inflight = ""
		m.status = m.sess.Status()
		if msg.err != nil {
			return m.withError("wallet disconnect failed: " + msg.err.Error()), nil
		}
		return m.withFlash("wallet disconnected"), nil

	case transferDoneMsg:
		m.inflight = ""
		m.status = m.sess.Status()
		if msg.err != nil {
			if errors.Is(msg.err, session.ErrPrecondition) {
				return m.withError("create an account and connect a wallet first"), nil
			}
			return m.withError("transfer failed: " + msg.err.Error()), nil
		}
		return m.withFlash(fmt.Sprintf("sent %s from %s to %s (sig %s)",
			msg.res.Amount, short(msg.res.From), short(msg.res.To), short(msg.res.Signature))), nil

	case refreshDoneMsg:
		m.inflight = ""
		m.status = m.sess.Status()
		if msg.err != nil {
			return m.withError("refresh failed: " + msg.err.Error()), nil
		}
		return m.withFlash("balances refreshed"), nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	}

	// All action triggers are disabled while one is in flight.
	if m.inflight != "" || m.status.Busy {
		return m, nil
	}

	switch msg.String() {
	case "g":
		m.inflight = "creating account"
		return m, m.run(func(ctx context.Context) tea.Msg {
			res, err := m.sess.CreateAccount(ctx)
			return accountDoneMsg{res: res, err: err}
		})
	case "c":
		m.inflight = "connecting wallet"
		return m, m.run(func(ctx context.Context) tea.Msg {
			res, err := m.sess.ConnectWallet(ctx, false)
			return connectDoneMsg{res: res, err: err}
		})
	case "d":
		m.inflight = "disconnecting wallet"
		return m, m.run(func(ctx context.Context) tea.Msg {
			return disconnectDoneMsg{err: m.sess.DisconnectWallet(ctx)}
		})
	case "t":
		m.inflight = "transferring"
		return m, m.run(func(ctx context.Context) tea.Msg {
			res, err := m.sess.Transfer(ctx)
			return transferDoneMsg{res: res, err: err}
		})
	case "r":
		m.inflight = "refreshing"
		return m, m.run(func(ctx context.Context) tea.Msg {
			return refreshDoneMsg{err: m.sess.Refresh(ctx)}
		})
	}

	return m, nil
}

func (m Model) run(fn func(context.Context) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return fn(context.Background())
	}
}

func (m Model) withFlash(s string) Model {
	m.flash = s
	m.flashErr = false
	return m
}

func (m Model) withError(s string) Model {
	m.flash = s
	m.flashErr = true
	return m
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Solana Wallet Demo"))
	b.WriteString(dimStyle.Render("  [" + m.network + "]"))
	b.WriteString("\n\n")

	// Account group
	b.WriteString(groupStyle.Render("Account"))
	b.WriteString("\n")
	if m.status.AccountAddress == "" {
		b.WriteString(dimStyle.Render("  no account yet, press g to generate and fund one"))
	} else {
		b.WriteString("  " + m.status.AccountAddress + "\n")
		b.WriteString("  balance: " + m.status.AccountBalance.String())
	}
	b.WriteString("\n\n")

	// Wallet group
	b.WriteString(groupStyle.Render("Wallet"))
	b.WriteString("\n")
	switch {
	case !m.status.ProviderDetected:
		b.WriteString(warnStyle.Render("  no wallet provider detected; provision a keystore to enable wallet actions"))
	case m.status.WalletAddress == "":
		b.WriteString(dimStyle.Render("  not connected, press c to connect"))
	default:
		b.WriteString("  " + m.status.WalletAddress + "\n")
		b.WriteString("  balance: " + m.status.WalletBalance.String())
	}
	b.WriteString("\n\n")

	// Transfer group
	b.WriteString(groupStyle.Render("Transfer"))
	b.WriteString("\n")
	if m.status.AccountAddress != "" && m.status.WalletAddress != "" {
		b.WriteString(dimStyle.Render("  press t to send from the account to the wallet"))
	} else {
		b.WriteString(dimStyle.Render("  requires an account and a connected wallet"))
	}
	b.WriteString("\n\n")

	if m.inflight != "" {
		b.WriteString(warnStyle.Render("… " + m.inflight))
		b.WriteString("\n")
	} else if m.flash != "" {
		if m.flashErr {
			b.WriteString(errStyle.Render("✗ " + m.flash))
		} else {
			b.WriteString(okStyle.Render("✓ " + m.flash))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("g generate · c connect · d disconnect · t transfer · r refresh · q quit"))
	b.WriteString("\n")

	return b.String()
}

func short(s string) string {
	if len(s) <= 12 {
		return s
	}
	return s[:6] + "…" + s[len(s)-6:]
}
