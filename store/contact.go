package store

import (
	"context"
	"database/sql"
	"fmt"
)

// CreateContactSubmission inserts sub with status NEW and fills its id and times.
func (s *Store) CreateContactSubmission(ctx context.Context, sub *ContactSubmission) error {
	now := s.now()
	sub.ID, sub.Status, sub.CreatedAt, sub.UpdatedAt = s.ids(), StatusNew, now, now
	if sub.IPAddress == "" {
		sub.IPAddress = "unknown"
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contact_submissions (id, name, email, subject, message, ip_address, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.Name, sub.Email, nullString(sub.Subject), sub.Message, sub.IPAddress, string(sub.Status),
		toNanos(now), toNanos(now))
	if err != nil {
		return fmt.Errorf("insert contact submission: %w", err)
	}
	return nil
}

// ListContactSubmissions returns the newest submissions first.
func (s *Store) ListContactSubmissions(ctx context.Context, limit int) ([]ContactSubmission, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, subject, message, ip_address, status, created_at, updated_at
		FROM contact_submissions ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list contact submissions: %w", err)
	}
	defer rows.Close()

	subs := []ContactSubmission{}
	for rows.Next() {
		var (
			sub                  ContactSubmission
			subject              sql.NullString
			status               string
			createdAt, updatedAt int64
		)
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.Email, &subject, &sub.Message, &sub.IPAddress, &status, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		sub.Subject, sub.Status = stringPtr(subject), ContactStatus(status)
		sub.CreatedAt, sub.UpdatedAt = fromNanos(createdAt), fromNanos(updatedAt)
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// UpdateContactStatus sets the status of one submission.
func (s *Store) UpdateContactStatus(ctx context.Context, id string, status ContactStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid contact status %q", status)
	}
	res, err := s.db.ExecContext(ctx, `UPDATE contact_submissions SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), toNanos(s.now()), id)
	if err != nil {
		return fmt.Errorf("update contact status: %w", err)
	}
	return checkAffected(res)
}
