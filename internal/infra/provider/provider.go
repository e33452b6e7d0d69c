// Package provider models the externally provisioned wallet capability.
// Its presence is decided by the host environment, not by this code;
// absence is a normal, non-error state.
package provider

import (
	"context"
	"errors"
)

var (
	ErrNoProvider   = errors.New("provider: no wallet provider detected")
	ErrNotTrusted   = errors.New("provider: connection requires prior approval")
	ErrNotConnected = errors.New("provider: not connected")
)

// ConnectOptions control a connection request.
type ConnectOptions struct {
	// OnlyIfTrusted restricts the connection to previously approved
	// sessions.
	OnlyIfTrusted bool
}

// Provider exposes the wallet operations the demo consumes.
type Provider interface {
	// Connect requests a connection and returns the wallet's public
	// address.
	Connect(ctx context.Context, opts ConnectOptions) (string, error)

	// Disconnect releases the connection.
	Disconnect(ctx context.Context) error
}

// Event describes a provider-side state change.
type Event struct {
	Kind    string // "connect", "disconnect", "accountChanged"
	Address string
}

// Subscriber is the provider's event-subscription capability. None of the
// demo flows consume it.
type Subscriber interface {
	Events() <-chan Event
}
