package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// UpsertNewsletter subscribes sub.Email, or reactivates and updates an existing
// subscription. sub.ID is set to the stored id.
func (s *Store) UpsertNewsletter(ctx context.Context, sub *NewsletterSubscription) error {
	if sub.Preferences == nil {
		sub.Preferences = []string{}
	}
	prefs, err := json.Marshal(sub.Preferences)
	if err != nil {
		return err
	}
	now := toNanos(s.now())
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO newsletter_subscriptions (id, email, name, preferences, is_active, subscribed_at, updated_at)
		VALUES (?, ?, ?, ?, 1, ?, ?)
		ON CONFLICT(email) DO UPDATE SET
			is_active = 1,
			preferences = excluded.preferences,
			name = excluded.name,
			updated_at = excluded.updated_at
		RETURNING id`,
		s.ids(), sub.Email, nullString(sub.Name), string(prefs), now, now).Scan(&sub.ID)
	if err != nil {
		return fmt.Errorf("upsert newsletter subscription: %w", err)
	}
	sub.IsActive = true
	return nil
}

// Unsubscribe deactivates the subscription of email.
func (s *Store) Unsubscribe(ctx context.Context, email string, reason *string) error {
	now := toNanos(s.now())
	res, err := s.db.ExecContext(ctx, `
		UPDATE newsletter_subscriptions
		SET is_active = 0, unsubscribed_at = ?, unsubscribe_reason = ?, updated_at = ?
		WHERE email = ?`, now, nullString(reason), now, email)
	if err != nil {
		return fmt.Errorf("unsubscribe: %w", err)
	}
	return checkAffected(res)
}

func (s *Store) GetNewsletter(ctx context.Context, email string) (*NewsletterSubscription, error) {
	var (
		sub                     NewsletterSubscription
		name, reason            sql.NullString
		prefs                   string
		active                  bool
		subscribedAt, updatedAt int64
		unsubscribedAt          sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, name, preferences, is_active, subscribed_at, unsubscribed_at, unsubscribe_reason, updated_at
		FROM newsletter_subscriptions WHERE email = ?`, email).
		Scan(&sub.ID, &sub.Email, &name, &prefs, &active, &subscribedAt, &unsubscribedAt, &reason, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("get newsletter subscription: %w", err)
	}
	if err := json.Unmarshal([]byte(prefs), &sub.Preferences); err != nil {
		return nil, fmt.Errorf("newsletter preferences of %s: %w", email, err)
	}
	sub.Name, sub.UnsubscribeReason, sub.IsActive = stringPtr(name), stringPtr(reason), active
	sub.SubscribedAt, sub.UpdatedAt = fromNanos(subscribedAt), fromNanos(updatedAt)
	if unsubscribedAt.Valid {
		t := fromNanos(unsubscribedAt.Int64)
		sub.UnsubscribedAt = &t
	}
	return &sub, nil
}
