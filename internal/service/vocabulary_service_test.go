package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ducdang/billbook/internal/models"
	"github.com/ducdang/billbook/internal/storage"
)

func TestVocabularyServiceLearningFlow(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	user := registerTestUser(t, store, "learner@example.com")
	svc := NewVocabularyService(store)

	word, err := svc.AddWord(ctx, WordInput{
		Word:     "allocate",
		Meaning:  "phân bổ",
		Level:    models.LevelIntermediate,
		Category: "finance",
	})
	if err != nil {
		t.Fatalf("AddWord failed: %v", err)
	}

	t.Run("learn starts at learning proficiency", func(t *testing.T) {
		lw, err := svc.Learn(ctx, user.ID, word.ID)
		if err != nil {
			t.Fatalf("Learn failed: %v", err)
		}
		if lw.Proficiency != models.ProficiencyLearning || lw.ReviewCount != 0 {
			t.Errorf("fresh learned word: %+v", lw)
		}
	})

	t.Run("learning twice is rejected", func(t *testing.T) {
		if _, err := svc.Learn(ctx, user.ID, word.ID); !errors.Is(err, ErrValidation) {
			t.Errorf("err = %v, want ErrValidation", err)
		}
	})

	t.Run("reviews bump proficiency at thresholds", func(t *testing.T) {
		var lw *models.LearnedWord
		var err error
		for i := 0; i < familiarReviews; i++ {
			if lw, err = svc.Review(ctx, user.ID, word.ID); err != nil {
				t.Fatalf("Review %d failed: %v", i+1, err)
			}
		}
		if lw.Proficiency != models.ProficiencyFamiliar {
			t.Errorf("after %d reviews: %s, want familiar", familiarReviews, lw.Proficiency)
		}
		if lw.LastReviewedAt == nil {
			t.Error("lastReviewedAt not stamped")
		}

		for i := familiarReviews; i < masteredReviews; i++ {
			if lw, err = svc.Review(ctx, user.ID, word.ID); err != nil {
				t.Fatalf("Review %d failed: %v", i+1, err)
			}
		}
		if lw.Proficiency != models.ProficiencyMastered {
			t.Errorf("after %d reviews: %s, want mastered", masteredReviews, lw.Proficiency)
		}
	})

	t.Run("listing joins words onto progress", func(t *testing.T) {
		learned, err := svc.ListLearned(ctx, user.ID)
		if err != nil {
			t.Fatalf("ListLearned failed: %v", err)
		}
		if len(learned) != 1 || learned[0].Word.Word != "allocate" {
			t.Errorf("unexpected learned list: %+v", learned)
		}
		if learned[0].ReviewCount != masteredReviews {
			t.Errorf("reviewCount = %d, want %d", learned[0].ReviewCount, masteredReviews)
		}
	})

	t.Run("unlearn discards progress", func(t *testing.T) {
		if err := svc.Unlearn(ctx, user.ID, word.ID); err != nil {
			t.Fatalf("Unlearn failed: %v", err)
		}
		if _, err := svc.Review(ctx, user.ID, word.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("review of unlearned word: err = %v, want ErrNotFound", err)
		}
	})
}

func TestVocabularyServiceValidation(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	svc := NewVocabularyService(store)

	tests := []struct {
		name  string
		input WordInput
	}{
		{"empty word", WordInput{Meaning: "nghĩa"}},
		{"empty meaning", WordInput{Word: "ledger"}},
		{"unknown level", WordInput{Word: "ledger", Meaning: "sổ cái", Level: "expert"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.AddWord(ctx, tt.input); !errors.Is(err, ErrValidation) {
				t.Errorf("err = %v, want ErrValidation", err)
			}
		})
	}

	t.Run("level defaults to beginner", func(t *testing.T) {
		word, err := svc.AddWord(ctx, WordInput{Word: "ledger", Meaning: "sổ cái"})
		if err != nil {
			t.Fatalf("AddWord failed: %v", err)
		}
		if word.Level != models.LevelBeginner {
			t.Errorf("level = %s, want beginner", word.Level)
		}
	})

	t.Run("learn of a missing word is not found", func(t *testing.T) {
		user := registerTestUser(t, store, "learner@example.com")
		if _, err := svc.Learn(ctx, user.ID, "no-such-word"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})
}
