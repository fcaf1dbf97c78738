package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ducdang/billbook/internal/models"
	"github.com/ducdang/billbook/internal/storage"
	"github.com/ducdang/billbook/internal/storage/sqlite"
)

func setupTestStore(t *testing.T) *sqlite.SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "billbook-service-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func registerTestUser(t *testing.T, store storage.Store, email string) *models.User {
	t.Helper()
	user := models.NewUser(email, "hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func validCreateInput() CreateBillInput {
	return CreateBillInput{
		Title:        "March trip",
		StartDate:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		Participants: []string{"An", "Binh", "Chi"},
	}
}

func TestBillServiceCreate(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	user := registerTestUser(t, store, "owner@example.com")
	svc := NewBillService(store)

	tests := []struct {
		name         string
		input        CreateBillInput
		wantErr      error
		validateFunc func(t *testing.T, bill *models.Bill)
	}{
		{
			name:  "creates a draft bill with participants",
			input: validCreateInput(),
			validateFunc: func(t *testing.T, bill *models.Bill) {
				if bill.Status != models.StatusDraft {
					t.Errorf("status = %s, want draft", bill.Status)
				}
				if len(bill.Participants) != 3 {
					t.Errorf("participants = %d, want 3", len(bill.Participants))
				}
				seen := map[string]bool{}
				for _, p := range bill.Participants {
					if p.ID == "" || seen[p.ID] {
						t.Errorf("participant id missing or duplicated: %+v", p)
					}
					seen[p.ID] = true
				}
				if bill.TotalAmount != 0 || bill.TotalDays != 0 {
					t.Errorf("fresh bill has derived totals: %+v", bill)
				}
			},
		},
		{
			name: "rejects empty title",
			input: func() CreateBillInput {
				in := validCreateInput()
				in.Title = "   "
				return in
			}(),
			wantErr: ErrValidation,
		},
		{
			name: "rejects end date before start date",
			input: func() CreateBillInput {
				in := validCreateInput()
				in.EndDate = in.StartDate.AddDate(0, 0, -1)
				return in
			}(),
			wantErr: ErrValidation,
		},
		{
			name: "rejects blank participant name",
			input: func() CreateBillInput {
				in := validCreateInput()
				in.Participants = []string{"An", ""}
				return in
			}(),
			wantErr: ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bill, err := svc.CreateBill(ctx, user.ID, tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateBill failed: %v", err)
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, bill)
			}
		})
	}
}

func TestBillServiceDetailLifecycle(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	user := registerTestUser(t, store, "owner@example.com")
	svc := NewBillService(store)

	bill, err := svc.CreateBill(ctx, user.ID, validCreateInput())
	if err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}
	p1 := bill.Participants[0].ID
	p2 := bill.Participants[1].ID

	t.Run("add detail recomputes derived fields", func(t *testing.T) {
		updated, err := svc.AddDailyDetail(ctx, user.ID, bill.ID, DetailInput{
			Date:                 time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
			Amount:               300000,
			SelectedParticipants: []string{p1, p2},
			Description:          "groceries",
		})
		if err != nil {
			t.Fatalf("AddDailyDetail failed: %v", err)
		}
		if updated.TotalAmount != 300000 || updated.TotalDays != 1 {
			t.Errorf("derived totals wrong: amount=%v days=%d", updated.TotalAmount, updated.TotalDays)
		}
		d := updated.DailyDetails[0]
		if d.SplitCount != 2 {
			t.Errorf("splitCount defaulted to %d, want 2", d.SplitCount)
		}
		if d.AmountPerPerson != 150000 {
			t.Errorf("amountPerPerson = %v, want 150000", d.AmountPerPerson)
		}
	})

	t.Run("update replaces the entry wholesale", func(t *testing.T) {
		current, err := svc.GetBill(ctx, user.ID, bill.ID)
		if err != nil {
			t.Fatalf("GetBill failed: %v", err)
		}
		detailID := current.DailyDetails[0].ID

		updated, err := svc.UpdateDailyDetail(ctx, user.ID, bill.ID, detailID, DetailInput{
			Date:       time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC),
			Amount:     90000,
			SplitCount: 3,
		})
		if err != nil {
			t.Fatalf("UpdateDailyDetail failed: %v", err)
		}
		d := updated.DailyDetails[0]
		if d.Amount != 90000 || d.SplitCount != 3 || len(d.SelectedParticipants) != 0 {
			t.Errorf("entry not replaced: %+v", d)
		}
		if d.Description != "" {
			t.Errorf("description survived full replace: %q", d.Description)
		}
		if updated.TotalAmount != 90000 {
			t.Errorf("totalAmount = %v, want 90000", updated.TotalAmount)
		}
	})

	t.Run("validation failure leaves the stored bill untouched", func(t *testing.T) {
		before, err := svc.GetBill(ctx, user.ID, bill.ID)
		if err != nil {
			t.Fatalf("GetBill failed: %v", err)
		}

		_, err = svc.AddDailyDetail(ctx, user.ID, bill.ID, DetailInput{
			Date:   time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
			Amount: -5,
		})
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("err = %v, want ErrValidation", err)
		}

		after, err := svc.GetBill(ctx, user.ID, bill.ID)
		if err != nil {
			t.Fatalf("GetBill failed: %v", err)
		}
		if len(after.DailyDetails) != len(before.DailyDetails) || after.TotalAmount != before.TotalAmount {
			t.Errorf("rejected write persisted: before %+v, after %+v", before, after)
		}
	})

	t.Run("remove detail recomputes totals", func(t *testing.T) {
		current, err := svc.GetBill(ctx, user.ID, bill.ID)
		if err != nil {
			t.Fatalf("GetBill failed: %v", err)
		}
		updated, err := svc.RemoveDailyDetail(ctx, user.ID, bill.ID, current.DailyDetails[0].ID)
		if err != nil {
			t.Fatalf("RemoveDailyDetail failed: %v", err)
		}
		if updated.TotalAmount != 0 || updated.TotalDays != 0 {
			t.Errorf("totals not recomputed: %+v", updated)
		}
	})

	t.Run("missing detail id is not found", func(t *testing.T) {
		_, err := svc.RemoveDailyDetail(ctx, user.ID, bill.ID, "no-such-detail")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})
}

func TestBillServiceParticipants(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	user := registerTestUser(t, store, "owner@example.com")
	svc := NewBillService(store)
	registry := NewParticipantService(store)

	bill, err := svc.CreateBill(ctx, user.ID, CreateBillInput{
		Title:     "Dinner club",
		StartDate: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}

	t.Run("add by name generates an id", func(t *testing.T) {
		updated, err := svc.AddParticipant(ctx, user.ID, bill.ID, AddParticipantInput{Name: "An"})
		if err != nil {
			t.Fatalf("AddParticipant failed: %v", err)
		}
		if len(updated.Participants) != 1 || updated.Participants[0].ID == "" {
			t.Errorf("participant not added: %+v", updated.Participants)
		}
	})

	t.Run("attach from registry keeps the registry id", func(t *testing.T) {
		reg, err := registry.Create(ctx, user.ID, "Binh")
		if err != nil {
			t.Fatalf("registry Create failed: %v", err)
		}
		updated, err := svc.AddParticipant(ctx, user.ID, bill.ID, AddParticipantInput{ParticipantID: reg.ID})
		if err != nil {
			t.Fatalf("AddParticipant failed: %v", err)
		}
		name, ok := updated.ParticipantName(reg.ID)
		if !ok || name != "Binh" {
			t.Errorf("registry participant not attached: %+v", updated.Participants)
		}

		if _, err := svc.AddParticipant(ctx, user.ID, bill.ID, AddParticipantInput{ParticipantID: reg.ID}); !errors.Is(err, ErrValidation) {
			t.Errorf("duplicate attach: err = %v, want ErrValidation", err)
		}
	})

	t.Run("remove keeps dangling detail selections", func(t *testing.T) {
		current, err := svc.GetBill(ctx, user.ID, bill.ID)
		if err != nil {
			t.Fatalf("GetBill failed: %v", err)
		}
		target := current.Participants[0].ID

		if _, err := svc.AddDailyDetail(ctx, user.ID, bill.ID, DetailInput{
			Date:                 time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC),
			Amount:               50000,
			SelectedParticipants: []string{target},
		}); err != nil {
			t.Fatalf("AddDailyDetail failed: %v", err)
		}

		updated, err := svc.RemoveParticipant(ctx, user.ID, bill.ID, target)
		if err != nil {
			t.Fatalf("RemoveParticipant failed: %v", err)
		}
		if _, ok := updated.ParticipantName(target); ok {
			t.Error("participant still on bill after removal")
		}
		if len(updated.DailyDetails[0].SelectedParticipants) != 1 {
			t.Errorf("detail selection was rewritten: %+v", updated.DailyDetails[0])
		}

		summary, err := svc.ComputeSummary(ctx, user.ID, bill.ID, nil)
		if err != nil {
			t.Fatalf("ComputeSummary failed: %v", err)
		}
		foundUnknown := false
		for _, line := range summary.Participants {
			if line.Name == "Unknown" {
				foundUnknown = true
			}
		}
		if !foundUnknown {
			t.Errorf("dangling id did not resolve to Unknown: %+v", summary.Participants)
		}
	})
}

func TestBillServiceShareLifecycle(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	user := registerTestUser(t, store, "owner@example.com")
	svc := NewBillService(store)

	bill, err := svc.CreateBill(ctx, user.ID, validCreateInput())
	if err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}
	if _, err := svc.AddDailyDetail(ctx, user.ID, bill.ID, DetailInput{
		Date:                 time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		Amount:               300000,
		SelectedParticipants: []string{bill.Participants[0].ID},
	}); err != nil {
		t.Fatalf("AddDailyDetail failed: %v", err)
	}

	key, err := svc.EnableShare(ctx, user.ID, bill.ID)
	if err != nil {
		t.Fatalf("EnableShare failed: %v", err)
	}
	if key == "" {
		t.Fatal("empty share key")
	}

	t.Run("enable is idempotent", func(t *testing.T) {
		again, err := svc.EnableShare(ctx, user.ID, bill.ID)
		if err != nil {
			t.Fatalf("second EnableShare failed: %v", err)
		}
		if again != key {
			t.Errorf("share key rotated: %s != %s", again, key)
		}
	})

	t.Run("public view omits the owner and includes the summary", func(t *testing.T) {
		view, err := svc.GetSharedBill(ctx, key)
		if err != nil {
			t.Fatalf("GetSharedBill failed: %v", err)
		}
		if view.ID != bill.ID || view.Title != bill.Title {
			t.Errorf("wrong bill in view: %+v", view)
		}
		if view.Summary == nil || view.Summary.Overview.TotalAmount != 300000 {
			t.Errorf("summary missing or wrong: %+v", view.Summary)
		}
	})

	t.Run("disable revokes the key", func(t *testing.T) {
		if err := svc.DisableShare(ctx, user.ID, bill.ID); err != nil {
			t.Fatalf("DisableShare failed: %v", err)
		}
		if _, err := svc.GetSharedBill(ctx, key); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("revoked key still resolves: err = %v", err)
		}
	})
}

func TestBillServiceStats(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	user := registerTestUser(t, store, "owner@example.com")
	svc := NewBillService(store)

	mk := func(status models.Status, amount float64) {
		t.Helper()
		bill, err := svc.CreateBill(ctx, user.ID, validCreateInput())
		if err != nil {
			t.Fatalf("CreateBill failed: %v", err)
		}
		if amount > 0 {
			if _, err := svc.AddDailyDetail(ctx, user.ID, bill.ID, DetailInput{
				Date:       time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
				Amount:     amount,
				SplitCount: 1,
			}); err != nil {
				t.Fatalf("AddDailyDetail failed: %v", err)
			}
		}
		if status != models.StatusDraft {
			in := UpdateBillInput{
				Title:     "March trip",
				StartDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
				EndDate:   time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
				Status:    status,
			}
			if _, err := svc.UpdateBill(ctx, user.ID, bill.ID, in); err != nil {
				t.Fatalf("UpdateBill failed: %v", err)
			}
		}
	}

	mk(models.StatusActive, 100000)
	mk(models.StatusActive, 50000)
	mk(models.StatusCompleted, 25000)
	mk(models.StatusDraft, 0)

	stats, err := svc.Stats(ctx, user.ID)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalBills != 4 || stats.ActiveBills != 2 || stats.CompletedBills != 1 {
		t.Errorf("counts wrong: %+v", stats)
	}
	if stats.TotalAmount != 175000 {
		t.Errorf("totalAmount = %v, want 175000", stats.TotalAmount)
	}
}

func TestBillServiceOwnerScoping(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	owner := registerTestUser(t, store, "owner@example.com")
	other := registerTestUser(t, store, "other@example.com")
	svc := NewBillService(store)

	bill, err := svc.CreateBill(ctx, owner.ID, validCreateInput())
	if err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}

	if _, err := svc.GetBill(ctx, other.ID, bill.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("foreign GetBill: err = %v, want ErrNotFound", err)
	}
	if err := svc.DeleteBill(ctx, other.ID, bill.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("foreign DeleteBill: err = %v, want ErrNotFound", err)
	}
	if _, err := svc.GetBill(ctx, owner.ID, bill.ID); err != nil {
		t.Errorf("owner lost access after foreign delete attempt: %v", err)
	}
}
