package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ducdang/billbook/internal/models"
	"github.com/ducdang/billbook/internal/storage"
)

// CreateNote inserts a new note.
func (s *SQLiteStore) CreateNote(ctx context.Context, note *models.Note) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notes (id, owner_id, title, content, pinned, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, note.ID, note.Owner, note.Title, note.Content, boolToInt(note.Pinned),
		note.CreatedAt.Unix(), note.UpdatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}
	return nil
}

// ListNotes retrieves a user's notes, pinned first, then newest first.
func (s *SQLiteStore) ListNotes(ctx context.Context, owner string) ([]*models.Note, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, title, content, pinned, created_at, updated_at
		FROM notes
		WHERE owner_id = ?
		ORDER BY pinned DESC, updated_at DESC, id
	`, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	var notes []*models.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notes: %w", err)
	}
	return notes, nil
}

// GetNote retrieves one note, scoped to its owner.
func (s *SQLiteStore) GetNote(ctx context.Context, owner, id string) (*models.Note, error) {
	note := &models.Note{}
	var pinned int
	var createdAt, updatedAt int64
	err := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, title, content, pinned, created_at, updated_at
		FROM notes
		WHERE id = ? AND owner_id = ?
	`, id, owner).Scan(&note.ID, &note.Owner, &note.Title, &note.Content, &pinned, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	note.Pinned = pinned != 0
	note.CreatedAt = time.Unix(createdAt, 0).UTC()
	note.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return note, nil
}

// UpdateNote overwrites a note's editable fields.
func (s *SQLiteStore) UpdateNote(ctx context.Context, note *models.Note) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE notes SET title = ?, content = ?, pinned = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?
	`, note.Title, note.Content, boolToInt(note.Pinned), note.UpdatedAt.Unix(), note.ID, note.Owner)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
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

// DeleteNote removes a note, scoped to its owner.
func (s *SQLiteStore) DeleteNote(ctx context.Context, owner, id string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM notes WHERE id = ? AND owner_id = ?",
		id, owner,
	)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
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

func scanNote(rows *sql.Rows) (*models.Note, error) {
	note := &models.Note{}
	var pinned int
	var createdAt, updatedAt int64
	if err := rows.Scan(&note.ID, &note.Owner, &note.Title, &note.Content, &pinned, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("failed to scan note: %w", err)
	}
	note.Pinned = pinned != 0
	note.CreatedAt = time.Unix(createdAt, 0).UTC()
	note.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return note, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
