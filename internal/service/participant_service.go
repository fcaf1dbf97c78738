package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ducdang/billbook/internal/models"
	"github.com/ducdang/billbook/internal/storage"
)

// ParticipantService manages the per-user global participant registry.
// Registry entries exist so frequently-split-with people can be attached to
// new bills under a stable id.
type ParticipantService struct {
	store storage.Store
}

func NewParticipantService(store storage.Store) *ParticipantService {
	return &ParticipantService{store: store}
}

// List returns the owner's registry, newest first.
func (s *ParticipantService) List(ctx context.Context, owner string) ([]*models.Participant, error) {
	return s.store.ListParticipants(ctx, owner)
}

// Create adds a named participant to the owner's registry.
func (s *ParticipantService) Create(ctx context.Context, owner, name string) (*models.Participant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationErrorf("participant name must not be empty")
	}

	p := &models.Participant{
		ID:        uuid.NewString(),
		Owner:     owner,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateParticipant(ctx, p); err != nil {
		slog.Error("CreateParticipant failed", "owner", owner, "error", err)
		return nil, err
	}
	slog.Info("Registry participant created", "participant_id", p.ID, "owner", owner)
	return p, nil
}

// Delete removes a registry entry and sweeps the id out of every owned bill's
// embedded participant list. Daily details that still select the id are left
// alone; reports resolve those ids to the "Unknown" placeholder from then on.
func (s *ParticipantService) Delete(ctx context.Context, owner, id string) error {
	if err := s.store.DeleteParticipant(ctx, owner, id); err != nil {
		return err
	}

	bills, err := s.store.ListBills(ctx, owner)
	if err != nil {
		return err
	}
	swept := 0
	for _, bill := range bills {
		kept := bill.Participants[:0]
		removed := false
		for _, p := range bill.Participants {
			if p.ID == id {
				removed = true
				continue
			}
			kept = append(kept, p)
		}
		if !removed {
			continue
		}
		bill.Participants = kept
		bill.Recompute()
		bill.UpdatedAt = time.Now().UTC()
		if err := s.store.SaveBill(ctx, bill); err != nil {
			return err
		}
		swept++
	}

	slog.Info("Registry participant deleted", "participant_id", id, "owner", owner, "bills_swept", swept)
	return nil
}
