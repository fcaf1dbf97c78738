package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ducdang/billbook/internal/models"
	"github.com/ducdang/billbook/internal/storage"
)

// CreateUser inserts a new user into the database.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, created_at)
		VALUES (?, ?, ?, ?)
	`, user.ID, user.Email, user.PasswordHash, user.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByEmail retrieves a user by their email address.
// Returns nil with no error when the email is unknown, so callers can treat
// "not registered" as a normal outcome.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, "SELECT id, email, password_hash, created_at FROM users WHERE email = ?", email)
}

// GetUserByID retrieves a user by their id.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, "SELECT id, email, password_hash, created_at FROM users WHERE id = ?", id)
}

func (s *SQLiteStore) getUser(ctx context.Context, query, arg string) (*models.User, error) {
	user := &models.User{}
	var createdAt int64
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil // user not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	user.CreatedAt = time.Unix(createdAt, 0).UTC()
	return user, nil
}

// CreateParticipant inserts a new global-registry participant.
func (s *SQLiteStore) CreateParticipant(ctx context.Context, p *models.Participant) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO participants (id, owner_id, name, created_at)
		VALUES (?, ?, ?, ?)
	`, p.ID, p.Owner, p.Name, p.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to create participant: %w", err)
	}
	return nil
}

// ListParticipants retrieves a user's global registry, newest first.
func (s *SQLiteStore) ListParticipants(ctx context.Context, owner string) ([]*models.Participant, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, name, created_at
		FROM participants
		WHERE owner_id = ?
		ORDER BY created_at DESC, id
	`, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var participants []*models.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return participants, nil
}

// GetParticipant retrieves one registry entry, scoped to its owner.
func (s *SQLiteStore) GetParticipant(ctx context.Context, owner, id string) (*models.Participant, error) {
	p := &models.Participant{}
	var createdAt int64
	err := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, created_at
		FROM participants
		WHERE id = ? AND owner_id = ?
	`, id, owner).Scan(&p.ID, &p.Owner, &p.Name, &createdAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	p.CreatedAt = time.Unix(createdAt, 0).UTC()
	return p, nil
}

// DeleteParticipant removes a registry entry, scoped to its owner.
func (s *SQLiteStore) DeleteParticipant(ctx context.Context, owner, id string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM participants WHERE id = ? AND owner_id = ?",
		id, owner,
	)
	if err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
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

func scanParticipant(rows *sql.Rows) (*models.Participant, error) {
	p := &models.Participant{}
	var createdAt int64
	if err := rows.Scan(&p.ID, &p.Owner, &p.Name, &createdAt); err != nil {
		return nil, fmt.Errorf("failed to scan participant: %w", err)
	}
	p.CreatedAt = time.Unix(createdAt, 0).UTC()
	return p, nil
}
