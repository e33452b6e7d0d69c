package memory

import (
	"context"
	"testing"

	"github.com/vietddude/walletdemo/internal/core/domain"
)

func TestActivityRepo_SaveAndList(t *testing.T) {
	repo := NewActivityRepo()
	ctx := context.Background()

	kinds := []domain.ActionKind{
		domain.ActionCreateAccount,
		domain.ActionConnect,
		domain.ActionTransfer,
	}
	for _, k := range kinds {
		a := domain.NewActivity(k, domain.OutcomeOK)
		if err := repo.Save(ctx, &a); err != nil {
			t.Fatalf("Save(%s): %v", k, err)
		}
	}

	got, err := repo.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("List returned %d records, want 3", len(got))
	}
	// Newest first
	if got[0].Kind != domain.ActionTransfer {
		t.Errorf("first record kind = %s, want %s", got[0].Kind, domain.ActionTransfer)
	}
	if got[2].Kind != domain.ActionCreateAccount {
		t.Errorf("last record kind = %s, want %s", got[2].Kind, domain.ActionCreateAccount)
	}
}

func TestActivityRepo_ListLimit(t *testing.T) {
	repo := NewActivityRepo()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		a := domain.NewActivity(domain.ActionCreateAccount, domain.OutcomeOK)
		if err := repo.Save(ctx, &a); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	got, err := repo.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("List returned %d records, want 2", len(got))
	}

	all, err := repo.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 5 {
		t.Errorf("List(0) returned %d records, want 5", len(all))
	}
}
