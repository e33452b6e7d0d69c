package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActionKind names one of the user-triggered actions.
type ActionKind string

const (
	ActionCreateAccount ActionKind = "create_account"
	ActionConnect       ActionKind = "connect_wallet"
	ActionDisconnect    ActionKind = "disconnect_wallet"
	ActionTransfer      ActionKind = "transfer"
)

// Outcome is the terminal state of an action.
type Outcome string

const (
	OutcomeOK     Outcome = "ok"
	OutcomeFailed Outcome = "failed"
)

// Activity is an audit record of one completed action. It never carries
// private key material.
type Activity struct {
	ID        string
	Kind      ActionKind
	Outcome   Outcome
	From      string
	To        string
	Amount    Lamports
	Signature string
	Detail    string
	CreatedAt time.Time
}

// NewActivity builds a record with a fresh ID and timestamp.
func NewActivity(kind ActionKind, outcome Outcome) Activity {
	return Activity{
		ID:        uuid.NewString(),
		Kind:      kind,
		Outcome:   outcome,
		CreatedAt: time.Now(),
	}
}
