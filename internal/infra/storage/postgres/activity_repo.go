package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/vietddude/walletdemo/internal/core/domain"
)

// ActivityRepo implements storage.ActivityRepository using PostgreSQL.
type ActivityRepo struct {
	db *DB
}

// NewActivityRepo creates a new PostgreSQL activity repository.
func NewActivityRepo(db *DB) *ActivityRepo {
	return &ActivityRepo{db: db}
}

type activityRow struct {
	ID        string    `db:"id"`
	Kind      string    `db:"kind"`
	Outcome   string    `db:"outcome"`
	From      string    `db:"from_address"`
	To        string    `db:"to_address"`
	Amount    int64     `db:"amount"`
	Signature string    `db:"signature"`
	Detail    string    `db:"detail"`
	CreatedAt time.Time `db:"created_at"`
}

// Save persists one activity record.
func (r *ActivityRepo) Save(ctx context.Context, activity *domain.Activity) error {
	const q = `
		INSERT INTO activity (id, kind, outcome, from_address, to_address, amount, signature, detail, created_at)
		VALUES (:id, :kind, :outcome, :from_address, :to_address, :amount, :signature, :detail, :created_at)`

	_, err := r.db.NamedExecContext(ctx, q, activityRow{
		ID:        activity.ID,
		Kind:      string(activity.Kind),
		Outcome:   string(activity.Outcome),
		From:      activity.From,
		To:        activity.To,
		Amount:    int64(activity.Amount),
		Signature: activity.Signature,
		Detail:    activity.Detail,
		CreatedAt: activity.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to save activity: %w", err)
	}
	return nil
}

// List returns the most recent records, newest first. A limit of zero or
// less returns every record.
func (r *ActivityRepo) List(ctx context.Context, limit int) ([]*domain.Activity, error) {
	const q = `
		SELECT id, kind, outcome, from_address, to_address, amount, signature, detail, created_at
		FROM activity ORDER BY created_at DESC`

	var rows []activityRow
	var err error
	if limit > 0 {
		err = r.db.SelectContext(ctx, &rows, q+` LIMIT $1`, limit)
	} else {
		err = r.db.SelectContext(ctx, &rows, q)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}

	out := make([]*domain.Activity, 0, len(rows))
	for _, row := range rows {
		out = append(out, &domain.Activity{
			ID:        row.ID,
			Kind:      domain.ActionKind(row.Kind),
			Outcome:   domain.Outcome(row.Outcome),
			From:      row.From,
			To:        row.To,
			Amount:    domain.Lamports(row.Amount),
			Signature: row.Signature,
			Detail:    row.Detail,
			CreatedAt: row.CreatedAt,
		})
	}
	return out, nil
}
