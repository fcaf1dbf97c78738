package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ducdang/billbook/internal/models"
	"github.com/ducdang/billbook/internal/storage"
)

// Review counts at which a learned word's proficiency is bumped.
const (
	familiarReviews = 3
	masteredReviews = 10
)

// VocabularyService manages the shared English word list and each user's
// learning progress over it.
type VocabularyService struct {
	store storage.Store
}

func NewVocabularyService(store storage.Store) *VocabularyService {
	return &VocabularyService{store: store}
}

// WordInput carries a manually-entered vocabulary word.
type WordInput struct {
	Word          string
	Meaning       string
	Pronunciation string
	Example       string
	Level         models.Level
	Category      string
}

// LearnedVocabulary pairs a learned-word record with the word it refers to.
type LearnedVocabulary struct {
	*models.LearnedWord
	Word *models.Vocabulary `json:"word"`
}

// ListWords returns words matching the filter, alphabetically.
func (s *VocabularyService) ListWords(ctx context.Context, filter storage.VocabularyFilter) ([]*models.Vocabulary, error) {
	if filter.Level != "" && !models.ValidLevel(filter.Level) {
		return nil, validationErrorf("unknown level %q", filter.Level)
	}
	return s.store.ListVocabulary(ctx, filter)
}

// GetWord retrieves one word.
func (s *VocabularyService) GetWord(ctx context.Context, id string) (*models.Vocabulary, error) {
	return s.store.GetVocabulary(ctx, id)
}

// AddWord validates and persists a manually-entered word.
func (s *VocabularyService) AddWord(ctx context.Context, in WordInput) (*models.Vocabulary, error) {
	word := strings.TrimSpace(in.Word)
	if word == "" {
		return nil, validationErrorf("word must not be empty")
	}
	if strings.TrimSpace(in.Meaning) == "" {
		return nil, validationErrorf("meaning must not be empty")
	}
	level := in.Level
	if level == "" {
		level = models.LevelBeginner
	}
	if !models.ValidLevel(level) {
		return nil, validationErrorf("unknown level %q", in.Level)
	}

	v := &models.Vocabulary{
		ID:            uuid.NewString(),
		Word:          word,
		Meaning:       strings.TrimSpace(in.Meaning),
		Pronunciation: in.Pronunciation,
		Example:       in.Example,
		Level:         level,
		Category:      in.Category,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.store.CreateVocabulary(ctx, v); err != nil {
		slog.Error("AddWord failed", "word", word, "error", err)
		return nil, err
	}
	slog.Info("Vocabulary word added", "vocabulary_id", v.ID, "word", v.Word, "level", v.Level)
	return v, nil
}

// Learn marks a word as learned by the user. A word can only be learned once;
// a second learn is a validation error, not a reset.
func (s *VocabularyService) Learn(ctx context.Context, owner, vocabularyID string) (*models.LearnedWord, error) {
	if _, err := s.store.GetVocabulary(ctx, vocabularyID); err != nil {
		return nil, err
	}
	if _, err := s.store.GetLearnedWord(ctx, owner, vocabularyID); err == nil {
		return nil, validationErrorf("word already learned")
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	lw := &models.LearnedWord{
		ID:           uuid.NewString(),
		Owner:        owner,
		VocabularyID: vocabularyID,
		LearnedAt:    time.Now().UTC(),
		Proficiency:  models.ProficiencyLearning,
	}
	if err := s.store.CreateLearnedWord(ctx, lw); err != nil {
		slog.Error("Learn failed", "vocabulary_id", vocabularyID, "owner", owner, "error", err)
		return nil, err
	}
	slog.Info("Word learned", "vocabulary_id", vocabularyID, "owner", owner)
	return lw, nil
}

// Review records one review of a learned word: the count goes up, the review
// time is stamped and proficiency is bumped at the fixed thresholds.
func (s *VocabularyService) Review(ctx context.Context, owner, vocabularyID string) (*models.LearnedWord, error) {
	lw, err := s.store.GetLearnedWord(ctx, owner, vocabularyID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	lw.ReviewCount++
	lw.LastReviewedAt = &now
	switch {
	case lw.ReviewCount >= masteredReviews:
		lw.Proficiency = models.ProficiencyMastered
	case lw.ReviewCount >= familiarReviews:
		lw.Proficiency = models.ProficiencyFamiliar
	}

	if err := s.store.UpdateLearnedWord(ctx, lw); err != nil {
		return nil, err
	}
	return lw, nil
}

// Unlearn removes the user's learned-word record, discarding review progress.
func (s *VocabularyService) Unlearn(ctx context.Context, owner, vocabularyID string) error {
	if err := s.store.DeleteLearnedWord(ctx, owner, vocabularyID); err != nil {
		return err
	}
	slog.Info("Word unlearned", "vocabulary_id", vocabularyID, "owner", owner)
	return nil
}

// ListLearned returns the user's learned words joined with their vocabulary
// entries, newest first. Words deleted from the list are skipped.
func (s *VocabularyService) ListLearned(ctx context.Context, owner string) ([]*LearnedVocabulary, error) {
	learned, err := s.store.ListLearnedWords(ctx, owner)
	if err != nil {
		return nil, err
	}

	result := make([]*LearnedVocabulary, 0, len(learned))
	for _, lw := range learned {
		word, err := s.store.GetVocabulary(ctx, lw.VocabularyID)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		result = append(result, &LearnedVocabulary{LearnedWord: lw, Word: word})
	}
	return result, nil
}
