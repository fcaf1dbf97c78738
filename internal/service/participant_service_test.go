package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ducdang/billbook/internal/storage"
)

func TestParticipantServiceCascadeDelete(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	user := registerTestUser(t, store, "owner@example.com")
	bills := NewBillService(store)
	registry := NewParticipantService(store)

	reg, err := registry.Create(ctx, user.ID, "Binh")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Attach the registry participant to two bills; a third stays untouched.
	var attached []string
	for i := 0; i < 3; i++ {
		bill, err := bills.CreateBill(ctx, user.ID, CreateBillInput{
			Title:     "Bill",
			StartDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC),
		})
		if err != nil {
			t.Fatalf("CreateBill failed: %v", err)
		}
		if i < 2 {
			if _, err := bills.AddParticipant(ctx, user.ID, bill.ID, AddParticipantInput{ParticipantID: reg.ID}); err != nil {
				t.Fatalf("AddParticipant failed: %v", err)
			}
			attached = append(attached, bill.ID)
		}
	}

	// The sweep must not rewrite historical selections.
	if _, err := bills.AddDailyDetail(ctx, user.ID, attached[0], DetailInput{
		Date:                 time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
		Amount:               40000,
		SelectedParticipants: []string{reg.ID},
	}); err != nil {
		t.Fatalf("AddDailyDetail failed: %v", err)
	}

	if err := registry.Delete(ctx, user.ID, reg.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	t.Run("registry entry is gone", func(t *testing.T) {
		if _, err := store.GetParticipant(ctx, user.ID, reg.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("id swept from every bill's participant list", func(t *testing.T) {
		all, err := bills.ListBills(ctx, user.ID)
		if err != nil {
			t.Fatalf("ListBills failed: %v", err)
		}
		for _, b := range all {
			if _, ok := b.ParticipantName(reg.ID); ok {
				t.Errorf("bill %s still lists %s", b.ID, reg.ID)
			}
		}
	})

	t.Run("detail selections are left dangling", func(t *testing.T) {
		b, err := bills.GetBill(ctx, user.ID, attached[0])
		if err != nil {
			t.Fatalf("GetBill failed: %v", err)
		}
		if len(b.DailyDetails) != 1 || len(b.DailyDetails[0].SelectedParticipants) != 1 {
			t.Fatalf("detail selection rewritten: %+v", b.DailyDetails)
		}

		summary, err := bills.ComputeSummary(ctx, user.ID, attached[0], nil)
		if err != nil {
			t.Fatalf("ComputeSummary failed: %v", err)
		}
		if len(summary.Participants) != 1 || summary.Participants[0].Name != "Unknown" {
			t.Errorf("dangling id should resolve to Unknown: %+v", summary.Participants)
		}
	})
}

func TestParticipantServiceValidation(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	user := registerTestUser(t, store, "owner@example.com")
	registry := NewParticipantService(store)

	if _, err := registry.Create(ctx, user.ID, "  "); !errors.Is(err, ErrValidation) {
		t.Errorf("blank name: err = %v, want ErrValidation", err)
	}
	if err := registry.Delete(ctx, user.ID, "no-such-id"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("missing id: err = %v, want ErrNotFound", err)
	}
}
