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

// NoteService manages per-user notes.
type NoteService struct {
	store storage.Store
}

func NewNoteService(store storage.Store) *NoteService {
	return &NoteService{store: store}
}

// NoteInput carries the editable fields of a note.
type NoteInput struct {
	Title   string
	Content string
	Pinned  bool
}

// List returns the owner's notes, pinned first.
func (s *NoteService) List(ctx context.Context, owner string) ([]*models.Note, error) {
	return s.store.ListNotes(ctx, owner)
}

// Get retrieves one of the owner's notes.
func (s *NoteService) Get(ctx context.Context, owner, id string) (*models.Note, error) {
	return s.store.GetNote(ctx, owner, id)
}

// Create validates and persists a new note.
func (s *NoteService) Create(ctx context.Context, owner string, in NoteInput) (*models.Note, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, validationErrorf("title must not be empty")
	}

	now := time.Now().UTC()
	note := &models.Note{
		ID:        uuid.NewString(),
		Owner:     owner,
		Title:     strings.TrimSpace(in.Title),
		Content:   in.Content,
		Pinned:    in.Pinned,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateNote(ctx, note); err != nil {
		slog.Error("CreateNote failed", "owner", owner, "error", err)
		return nil, err
	}
	slog.Info("Note created", "note_id", note.ID, "owner", owner)
	return note, nil
}

// Update replaces a note's editable fields.
func (s *NoteService) Update(ctx context.Context, owner, id string, in NoteInput) (*models.Note, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, validationErrorf("title must not be empty")
	}

	note, err := s.store.GetNote(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	note.Title = strings.TrimSpace(in.Title)
	note.Content = in.Content
	note.Pinned = in.Pinned
	note.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateNote(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// Delete removes one of the owner's notes.
func (s *NoteService) Delete(ctx context.Context, owner, id string) error {
	if err := s.store.DeleteNote(ctx, owner, id); err != nil {
		return err
	}
	slog.Info("Note deleted", "note_id", id, "owner", owner)
	return nil
}
