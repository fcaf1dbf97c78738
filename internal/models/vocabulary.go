package models

import "time"

// Level grades a vocabulary word's difficulty.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// ValidLevel reports whether l is a known difficulty level.
func ValidLevel(l Level) bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// Proficiency tracks how well a user knows a learned word.
type Proficiency string

const (
	ProficiencyLearning Proficiency = "learning"
	ProficiencyFamiliar Proficiency = "familiar"
	ProficiencyMastered Proficiency = "mastered"
)

// Vocabulary is one entry in the shared English word list.
type Vocabulary struct {
	ID            string    `json:"id"`
	Word          string    `json:"word"`
	Meaning       string    `json:"meaning"`
	Pronunciation string    `json:"pronunciation,omitempty"`
	Example       string    `json:"example,omitempty"`
	Level         Level     `json:"level"`
	Category      string    `json:"category"`
	CreatedAt     time.Time `json:"createdAt"`
}

// LearnedWord links a user to a vocabulary entry they have studied.
// At most one record exists per (user, vocabulary) pair.
type LearnedWord struct {
	ID             string      `json:"id"`
	Owner          string      `json:"-"`
	VocabularyID   string      `json:"vocabularyId"`
	LearnedAt      time.Time   `json:"learnedAt"`
	ReviewCount    int         `json:"reviewCount"`
	LastReviewedAt *time.Time  `json:"lastReviewedAt,omitempty"`
	Proficiency    Proficiency `json:"proficiency"`
}
