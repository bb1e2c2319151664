package store

import (
	"context"
	"database/sql"
	"fmt"
)

// UpsertRSVP creates or replaces the answer of rsvp.Email for rsvp.EventID.
func (s *Store) UpsertRSVP(ctx context.Context, rsvp *EventRSVP) error {
	var (
		now       = s.now()
		createdAt int64
	)
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO event_rsvps (id, event_id, name, email, phone, guest_count, attending, dietary_restrictions, message, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(event_id, email) DO UPDATE SET
			name = excluded.name,
			phone = excluded.phone,
			guest_count = excluded.guest_count,
			attending = excluded.attending,
			dietary_restrictions = excluded.dietary_restrictions,
			message = excluded.message,
			updated_at = excluded.updated_at
		RETURNING id, created_at`,
		s.ids(), rsvp.EventID, rsvp.Name, rsvp.Email, nullString(rsvp.Phone), rsvp.GuestCount, string(rsvp.Attending),
		nullString(rsvp.DietaryRestrictions), nullString(rsvp.Message), toNanos(now), toNanos(now)).
		Scan(&rsvp.ID, &createdAt)
	if err != nil {
		return fmt.Errorf("upsert rsvp: %w", err)
	}
	rsvp.CreatedAt, rsvp.UpdatedAt = fromNanos(createdAt), now
	return nil
}

// CountRSVP counts YES answers of eventID and sums their guests.
func (s *Store) CountRSVP(ctx context.Context, eventID string) (count RSVPCount, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(guest_count), 0)
		FROM event_rsvps WHERE event_id = ? AND attending = ?`, eventID, string(AttendingYes)).
		Scan(&count.AttendingCount, &count.TotalGuests)
	if err != nil {
		return count, fmt.Errorf("count rsvp of %s: %w", eventID, err)
	}
	return count, nil
}

// ListRSVPs returns every answer of eventID, oldest first.
func (s *Store) ListRSVPs(ctx context.Context, eventID string) ([]EventRSVP, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, event_id, name, email, phone, guest_count, attending, dietary_restrictions, message, created_at, updated_at
		FROM event_rsvps WHERE event_id = ? ORDER BY created_at, rowid`, eventID)
	if err != nil {
		return nil, fmt.Errorf("list rsvps of %s: %w", eventID, err)
	}
	defer rows.Close()

	out := []EventRSVP{}
	for rows.Next() {
		var (
			r                    EventRSVP
			phone, diet, message sql.NullString
			attending            string
			createdAt, updatedAt int64
		)
		if err := rows.Scan(&r.ID, &r.EventID, &r.Name, &r.Email, &phone, &r.GuestCount, &attending, &diet, &message, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		r.Phone, r.DietaryRestrictions, r.Message = stringPtr(phone), stringPtr(diet), stringPtr(message)
		r.Attending = Attendance(attending)
		r.CreatedAt, r.UpdatedAt = fromNanos(createdAt), fromNanos(updatedAt)
		out = append(out, r)
	}
	return out, rows.Err()
}
