package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"community-service/internal/models"
)

var ErrEventNotFound = errors.New("event not found")

// EventRepository abstracts event persistence.
type EventRepository interface {
	CreateEvent(ctx context.Context, adminID int, name, description string) (models.Event, error)
	GetEvent(ctx context.Context, eventID int) (models.Event, error)
	ListEvents(ctx context.Context) ([]models.Event, error)
	SetAttendance(ctx context.Context, eventID, userID int, attending bool) error
}

// EventRepo is a sqlx implementation of EventRepository.
type EventRepo struct {
	db *sqlx.DB
}

// NewEventRepo constructs an EventRepo.
func NewEventRepo(db *sqlx.DB) *EventRepo {
	return &EventRepo{db: db}
}

// CreateEvent creates an event with its admin attending.
func (r *EventRepo) CreateEvent(ctx context.Context, adminID int, name, description string) (models.Event, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Event{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var event models.Event
	if err = tx.QueryRowxContext(ctx,
		`INSERT INTO events (name, description, admin_id) VALUES ($1, $2, $3) RETURNING id, name, description, admin_id, created_at`,
		name, description, adminID).
		Scan(&event.ID, &event.Name, &event.Description, &event.AdminID, &event.CreatedAt); err != nil {
		return models.Event{}, err
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO event_attendees (event_id, user_id, attending) VALUES ($1, $2, TRUE)`, event.ID, adminID); err != nil {
		return models.Event{}, err
	}

	if err = tx.Commit(); err != nil {
		return models.Event{}, err
	}
	return event, nil
}

// GetEvent fetches an event with attendees.
func (r *EventRepo) GetEvent(ctx context.Context, eventID int) (models.Event, error) {
	var event models.Event
	err := r.db.GetContext(ctx, &event,
		`SELECT e.id, e.name, e.description, e.admin_id, u.name AS admin_name, e.created_at
         FROM events e INNER JOIN users u ON u.id = e.admin_id WHERE e.id=$1`, eventID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Event{}, ErrEventNotFound
	}
	if err != nil {
		return models.Event{}, err
	}

	events, err := r.attachAttendees(ctx, []models.Event{event})
	if err != nil {
		return models.Event{}, err
	}
	return events[0], nil
}

// ListEvents returns every event with attendees, newest first.
func (r *EventRepo) ListEvents(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	err := r.db.SelectContext(ctx, &events,
		`SELECT e.id, e.name, e.description, e.admin_id, u.name AS admin_name, e.created_at
         FROM events e INNER JOIN users u ON u.id = e.admin_id ORDER BY e.created_at DESC`)
	if err != nil {
		return nil, err
	}
	return r.attachAttendees(ctx, events)
}

// SetAttendance upserts the user's attendance answer.
func (r *EventRepo) SetAttendance(ctx context.Context, eventID, userID int, attending bool) error {
	if _, err := r.GetEvent(ctx, eventID); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_attendees (event_id, user_id, attending) VALUES ($1, $2, $3)
         ON CONFLICT (event_id, user_id) DO UPDATE SET attending = EXCLUDED.attending`,
		eventID, userID, attending)
	return err
}

func (r *EventRepo) attachAttendees(ctx context.Context, events []models.Event) ([]models.Event, error) {
	if len(events) == 0 {
		return events, nil
	}

	eventIDs := make([]int64, 0, len(events))
	for _, e := range events {
		eventIDs = append(eventIDs, int64(e.ID))
	}

	var attendees []models.EventAttendee
	err := r.db.SelectContext(ctx, &attendees,
		`SELECT ea.event_id, ea.user_id, u.name AS user_name, ea.attending
         FROM event_attendees ea INNER JOIN users u ON u.id = ea.user_id
         WHERE ea.event_id = ANY($1) ORDER BY u.name ASC`,
		pq.Array(eventIDs))
	if err != nil {
		return nil, err
	}

	byEvent := map[int][]models.EventAttendee{}
	for _, a := range attendees {
		byEvent[a.EventID] = append(byEvent[a.EventID], a)
	}
	for i := range events {
		events[i].Attendees = byEvent[events[i].ID]
	}
	return events, nil
}
