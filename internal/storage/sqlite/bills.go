package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ducdang/billbook/internal/models"
	"github.com/ducdang/billbook/internal/storage"
)

// SaveBill upserts the full bill document. The caller is responsible for
// having recomputed derived fields; the store never inspects the document
// beyond the columns it extracts for lookups.
func (s *SQLiteStore) SaveBill(ctx context.Context, bill *models.Bill) error {
	doc, err := json.Marshal(bill)
	if err != nil {
		return fmt.Errorf("failed to encode bill document: %w", err)
	}

	shareKey := sql.NullString{String: bill.ShareKey, Valid: bill.ShareKey != ""}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO bills (id, owner_id, status, share_key, updated_at, doc)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			share_key = excluded.share_key,
			updated_at = excluded.updated_at,
			doc = excluded.doc
	`, bill.ID, bill.Owner, string(bill.Status), shareKey, bill.UpdatedAt.Unix(), string(doc))
	if err != nil {
		return fmt.Errorf("failed to save bill: %w", err)
	}
	return nil
}

// GetBill retrieves a bill by id, scoped to its owner.
func (s *SQLiteStore) GetBill(ctx context.Context, owner, id string) (*models.Bill, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		"SELECT doc FROM bills WHERE id = ? AND owner_id = ?",
		id, owner,
	).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	return decodeBill(doc)
}

// ListBills retrieves all of a user's bills, most recently updated first.
func (s *SQLiteStore) ListBills(ctx context.Context, owner string) ([]*models.Bill, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT doc FROM bills WHERE owner_id = ? ORDER BY updated_at DESC, id",
		owner,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	var bills []*models.Bill
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bill, err := decodeBill(doc)
		if err != nil {
			return nil, err
		}
		bills = append(bills, bill)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}
	return bills, nil
}

// DeleteBill removes a bill, scoped to its owner.
func (s *SQLiteStore) DeleteBill(ctx context.Context, owner, id string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM bills WHERE id = ? AND owner_id = ?",
		id, owner,
	)
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
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

// GetBillByShareKey retrieves a bill through its public share key, with no
// owner scoping. Callers must not expose the owner field.
func (s *SQLiteStore) GetBillByShareKey(ctx context.Context, key string) (*models.Bill, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		"SELECT doc FROM bills WHERE share_key = ?",
		key,
	).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shared bill: %w", err)
	}
	return decodeBill(doc)
}

func decodeBill(doc string) (*models.Bill, error) {
	bill := &models.Bill{}
	if err := json.Unmarshal([]byte(doc), bill); err != nil {
		return nil, fmt.Errorf("failed to decode bill document: %w", err)
	}
	return bill, nil
}
