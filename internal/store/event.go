package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/dukerupert/timetrack/internal/model"
)

const DefaultEventLimit = 50

var eventCols = []string{"id", "user_id", "category_id", "start_time", "end_time", "type", "created_at"}

type EventStore struct {
	q  sqlx.ExtContext
	sb sq.StatementBuilderType
}

type NewEvent struct {
	UserID     int64
	CategoryID int64
	StartTime  time.Time
	EndTime    time.Time
	Type       model.EventType
}

// EventFilter narrows List. Zero values mean "any".
type EventFilter struct {
	UserID int64
	Type   model.EventType
	Limit  int
}

func (s *EventStore) Create(ctx context.Context, e NewEvent) (*model.Event, error) {
	if err := validateEvent(e); err != nil {
		return nil, err
	}

	id, err := insertReturningID(ctx, s.q, s.sb.Insert("events").
		Columns("user_id", "category_id", "start_time", "end_time", "type", "created_at").
		Values(e.UserID, e.CategoryID, timestamp(e.StartTime), timestamp(e.EndTime), string(e.Type), now()))
	if err != nil {
		return nil, classify("insert event", err)
	}

	return s.GetByID(ctx, id)
}

func (s *EventStore) GetByID(ctx context.Context, id int64) (*model.Event, error) {
	query, args, err := s.sb.Select(eventCols...).From("events").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build event query: %w", err)
	}

	var e model.Event
	err = sqlx.GetContext(ctx, s.q, &e, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &e, nil
}

// List returns events most recent start_time first.
func (s *EventStore) List(ctx context.Context, f EventFilter) ([]model.Event, error) {
	b := s.sb.Select(eventCols...).From("events")
	if f.UserID > 0 {
		b = b.Where(sq.Eq{"user_id": f.UserID})
	}
	if f.Type != "" {
		if !f.Type.Valid() {
			return nil, &ValidationError{Field: "type", Message: `must be "plan" or "fact"`}
		}
		b = b.Where(sq.Eq{"type": string(f.Type)})
	}

	query, args, err := b.OrderBy("start_time DESC", "id DESC").
		Limit(clampLimit(f.Limit, DefaultEventLimit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build event list: %w", err)
	}

	var events []model.Event
	if err := sqlx.SelectContext(ctx, s.q, &events, query, args...); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// Recent returns the latest events joined with their category name.
func (s *EventStore) Recent(ctx context.Context, limit int) ([]model.EventSummary, error) {
	query, args, err := s.sb.Select("e.id AS id", "e.type AS type", "c.name AS category_name", "e.start_time AS start_time", "e.end_time AS end_time").
		From("events e").
		Join("categories c ON c.id = e.category_id").
		OrderBy("e.start_time DESC", "e.id DESC").
		Limit(clampLimit(limit, 5)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build recent events: %w", err)
	}

	var events []model.EventSummary
	if err := sqlx.SelectContext(ctx, s.q, &events, query, args...); err != nil {
		return nil, fmt.Errorf("list recent events: %w", err)
	}
	return events, nil
}

func (s *EventStore) Count(ctx context.Context) (int, error) {
	return countRows(ctx, s.q, s.sb, "events", nil)
}

func (s *EventStore) CountByUser(ctx context.Context, userID int64) (int, error) {
	return countRows(ctx, s.q, s.sb, "events", sq.Eq{"user_id": userID})
}

func (s *EventStore) CountByCategory(ctx context.Context, categoryID int64) (int, error) {
	return countRows(ctx, s.q, s.sb, "events", sq.Eq{"category_id": categoryID})
}
