package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/ticketa/eventpay/internal/core/domain"
	"github.com/ticketa/eventpay/internal/core/ports"
)

type EventRepository struct {
	db *DB
}

func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{db: db}
}

var _ ports.EventStore = (*EventRepository)(nil)

func (r *EventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT id, title, attendee_count, attendee_ids, created_at, updated_at
		FROM events WHERE id = $1
	`

	var m eventModel
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.Title, &m.AttendeeCount, &m.AttendeeIDs, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return toDomainEvent(m), nil
}

// AdmitAttendee performs the counter increment and set union in a single
// statement. The WHERE clause makes the merge commutative: concurrent or
// repeated admissions of the same user affect the row at most once.
func (r *EventRepository) AdmitAttendee(ctx context.Context, eventID, userID string) (bool, error) {
	query := `
		UPDATE events
		SET attendee_count = attendee_count + 1,
		    attendee_ids = array_append(attendee_ids, $2),
		    updated_at = NOW()
		WHERE id = $1 AND NOT (attendee_ids @> ARRAY[$2])
	`

	tag, err := r.db.Pool.Exec(ctx, query, eventID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to admit attendee: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *EventRepository) AttendeeCount(ctx context.Context, eventID string) (int64, error) {
	query := `SELECT attendee_count FROM events WHERE id = $1`

	var count int64
	err := r.db.Pool.QueryRow(ctx, query, eventID).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.NewResourceNotFoundError(eventID)
		}
		return 0, fmt.Errorf("failed to count attendees: %w", err)
	}
	return count, nil
}
