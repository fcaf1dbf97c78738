// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/ducdang/billbook/internal/models"
)

// ErrNotFound is returned when a record does not exist under the given scope
// (wrong id, or a record owned by a different user).
var ErrNotFound = errors.New("record not found")

// Store defines the persistence operations the services depend on.
// Bills follow a document model: SaveBill persists the whole record in one
// write, and every mutation is a read-modify-write cycle scoped by
// (bill id, owner id). Swapping backends (SQLite, Postgres, ...) must not
// require service changes.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Bills. SaveBill upserts the full document; GetBill and DeleteBill are
	// owner-scoped; GetBillByShareKey is the unauthenticated lookup path.
	SaveBill(ctx context.Context, bill *models.Bill) error
	GetBill(ctx context.Context, owner, id string) (*models.Bill, error)
	ListBills(ctx context.Context, owner string) ([]*models.Bill, error)
	DeleteBill(ctx context.Context, owner, id string) error
	GetBillByShareKey(ctx context.Context, key string) (*models.Bill, error)

	// Global participant registry
	CreateParticipant(ctx context.Context, p *models.Participant) error
	ListParticipants(ctx context.Context, owner string) ([]*models.Participant, error)
	GetParticipant(ctx context.Context, owner, id string) (*models.Participant, error)
	DeleteParticipant(ctx context.Context, owner, id string) error

	// Notes
	CreateNote(ctx context.Context, note *models.Note) error
	ListNotes(ctx context.Context, owner string) ([]*models.Note, error)
	GetNote(ctx context.Context, owner, id string) (*models.Note, error)
	UpdateNote(ctx context.Context, note *models.Note) error
	DeleteNote(ctx context.Context, owner, id string) error

	// Vocabulary
	CreateVocabulary(ctx context.Context, v *models.Vocabulary) error
	GetVocabulary(ctx context.Context, id string) (*models.Vocabulary, error)
	ListVocabulary(ctx context.Context, filter VocabularyFilter) ([]*models.Vocabulary, error)

	// Learned words
	CreateLearnedWord(ctx context.Context, lw *models.LearnedWord) error
	GetLearnedWord(ctx context.Context, owner, vocabularyID string) (*models.LearnedWord, error)
	UpdateLearnedWord(ctx context.Context, lw *models.LearnedWord) error
	DeleteLearnedWord(ctx context.Context, owner, vocabularyID string) error
	ListLearnedWords(ctx context.Context, owner string) ([]*models.LearnedWord, error)

	// Close releases any resources held by the store.
	Close() error
}

// VocabularyFilter narrows a vocabulary listing. Zero values match everything.
type VocabularyFilter struct {
	// Level filters by difficulty when non-empty.
	Level models.Level
	// Category filters by exact category when non-empty.
	Category string
	// Search matches a substring of the word when non-empty.
	Search string
}
