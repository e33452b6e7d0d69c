package memory

import (
	"context"
	"sync"

	"github.com/vietddude/walletdemo/internal/core/domain"
)

// ActivityRepo is an in-memory activity log, used when no database is
// configured.
type ActivityRepo struct {
	mu      sync.RWMutex
	records []*domain.Activity
}

func NewActivityRepo() *ActivityRepo {
	return &ActivityRepo{}
}

func (r *ActivityRepo) Save(ctx context.Context, activity *domain.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *activity
	r.records = append(r.records, &cp)
	return nil
}

func (r *ActivityRepo) List(ctx context.Context, limit int) ([]*domain.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := len(r.records)
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]*domain.Activity, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		cp := *r.records[i]
		out = append(out, &cp)
	}
	return out, nil
}
