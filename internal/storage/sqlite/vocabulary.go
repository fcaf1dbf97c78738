package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ducdang/billbook/internal/models"
	"github.com/ducdang/billbook/internal/storage"
)

// CreateVocabulary inserts a new word into the shared word list.
func (s *SQLiteStore) CreateVocabulary(ctx context.Context, v *models.Vocabulary) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO vocabulary (id, word, meaning, pronunciation, example, level, category, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, v.ID, v.Word, v.Meaning, v.Pronunciation, v.Example, string(v.Level), v.Category, v.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to create vocabulary entry: %w", err)
	}
	return nil
}

// GetVocabulary retrieves one word by id.
func (s *SQLiteStore) GetVocabulary(ctx context.Context, id string) (*models.Vocabulary, error) {
	v := &models.Vocabulary{}
	var createdAt int64
	err := s.db.QueryRowContext(ctx, `
		SELECT id, word, meaning, pronunciation, example, level, category, created_at
		FROM vocabulary
		WHERE id = ?
	`, id).Scan(&v.ID, &v.Word, &v.Meaning, &v.Pronunciation, &v.Example, &v.Level, &v.Category, &createdAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vocabulary entry: %w", err)
	}
	v.CreatedAt = time.Unix(createdAt, 0).UTC()
	return v, nil
}

// ListVocabulary retrieves words matching the filter, alphabetically.
func (s *SQLiteStore) ListVocabulary(ctx context.Context, filter storage.VocabularyFilter) ([]*models.Vocabulary, error) {
	query := `
		SELECT id, word, meaning, pronunciation, example, level, category, created_at
		FROM vocabulary
		WHERE 1=1`
	var args []any
	if filter.Level != "" {
		query += " AND level = ?"
		args = append(args, string(filter.Level))
	}
	if filter.Category != "" {
		query += " AND category = ?"
		args = append(args, filter.Category)
	}
	if filter.Search != "" {
		query += " AND word LIKE ?"
		args = append(args, "%"+filter.Search+"%")
	}
	query += " ORDER BY word, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list vocabulary: %w", err)
	}
	defer rows.Close()

	var words []*models.Vocabulary
	for rows.Next() {
		v := &models.Vocabulary{}
		var createdAt int64
		if err := rows.Scan(&v.ID, &v.Word, &v.Meaning, &v.Pronunciation, &v.Example, &v.Level, &v.Category, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan vocabulary entry: %w", err)
		}
		v.CreatedAt = time.Unix(createdAt, 0).UTC()
		words = append(words, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate vocabulary: %w", err)
	}
	return words, nil
}

// CreateLearnedWord records that a user has learned a word. The unique
// (owner, vocabulary) constraint makes repeated learns fail at the database.
func (s *SQLiteStore) CreateLearnedWord(ctx context.Context, lw *models.LearnedWord) error {
	var lastReviewed sql.NullInt64
	if lw.LastReviewedAt != nil {
		lastReviewed = sql.NullInt64{Int64: lw.LastReviewedAt.Unix(), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO learned_words (id, owner_id, vocabulary_id, learned_at, review_count, last_reviewed_at, proficiency)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, lw.ID, lw.Owner, lw.VocabularyID, lw.LearnedAt.Unix(), lw.ReviewCount, lastReviewed, string(lw.Proficiency))
	if err != nil {
		return fmt.Errorf("failed to create learned word: %w", err)
	}
	return nil
}

// GetLearnedWord retrieves a user's learned-word record for one vocabulary id.
func (s *SQLiteStore) GetLearnedWord(ctx context.Context, owner, vocabularyID string) (*models.LearnedWord, error) {
	lw := &models.LearnedWord{}
	var learnedAt int64
	var lastReviewed sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, vocabulary_id, learned_at, review_count, last_reviewed_at, proficiency
		FROM learned_words
		WHERE owner_id = ? AND vocabulary_id = ?
	`, owner, vocabularyID).Scan(&lw.ID, &lw.Owner, &lw.VocabularyID, &learnedAt, &lw.ReviewCount, &lastReviewed, &lw.Proficiency)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get learned word: %w", err)
	}
	lw.LearnedAt = time.Unix(learnedAt, 0).UTC()
	if lastReviewed.Valid {
		t := time.Unix(lastReviewed.Int64, 0).UTC()
		lw.LastReviewedAt = &t
	}
	return lw, nil
}

// UpdateLearnedWord overwrites a learned-word record's review state.
func (s *SQLiteStore) UpdateLearnedWord(ctx context.Context, lw *models.LearnedWord) error {
	var lastReviewed sql.NullInt64
	if lw.LastReviewedAt != nil {
		lastReviewed = sql.NullInt64{Int64: lw.LastReviewedAt.Unix(), Valid: true}
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE learned_words SET review_count = ?, last_reviewed_at = ?, proficiency = ?
		WHERE owner_id = ? AND vocabulary_id = ?
	`, lw.ReviewCount, lastReviewed, string(lw.Proficiency), lw.Owner, lw.VocabularyID)
	if err != nil {
		return fmt.Errorf("failed to update learned word: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteLearnedWord removes a user's learned-word record.
func (s *SQLiteStore) DeleteLearnedWord(ctx context.Context, owner, vocabularyID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM learned_words WHERE owner_id = ? AND vocabulary_id = ?",
		owner, vocabularyID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete learned word: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListLearnedWords retrieves all of a user's learned words, newest first.
func (s *SQLiteStore) ListLearnedWords(ctx context.Context, owner string) ([]*models.LearnedWord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, vocabulary_id, learned_at, review_count, last_reviewed_at, proficiency
		FROM learned_words
		WHERE owner_id = ?
		ORDER BY learned_at DESC, id
	`, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list learned words: %w", err)
	}
	defer rows.Close()

	var learned []*models.LearnedWord
	for rows.Next() {
		lw := &models.LearnedWord{}
		var learnedAt int64
		var lastReviewed sql.NullInt64
		if err := rows.Scan(&lw.ID, &lw.Owner, &lw.VocabularyID, &learnedAt, &lw.ReviewCount, &lastReviewed, &lw.Proficiency); err != nil {
			return nil, fmt.Errorf("failed to scan learned word: %w", err)
		}
		lw.LearnedAt = time.Unix(learnedAt, 0).UTC()
		if lastReviewed.Valid {
			t := time.Unix(lastReviewed.Int64, 0).UTC()
			lw.LastReviewedAt = &t
		}
		learned = append(learned, lw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate learned words: %w", err)
	}
	return learned, nil
}
