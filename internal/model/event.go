package model

import (
	"math"
	"time"
)

// EventType distinguishes a planned time block from the one that actually happened.
type EventType string

const (
	EventPlan EventType = "plan"
	EventFact EventType = "fact"
)

// Valid reports whether t is one of the known event types.
func (t EventType) Valid() bool {
	return t == EventPlan || t == EventFact
}

type Event struct {
	ID         int64     `json:"id" db:"id"`
	UserID     int64     `json:"user_id" db:"user_id"`
	CategoryID int64     `json:"category_id" db:"category_id"`
	StartTime  time.Time `json:"start_time" db:"start_time"`
	EndTime    time.Time `json:"end_time" db:"end_time"`
	Type       EventType `json:"type" db:"type"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// DurationMinutes returns the length of the block in whole minutes, rounded down.
func (e Event) DurationMinutes() int {
	return DurationMinutes(e.StartTime, e.EndTime)
}

// EventSummary is an event joined with the name of its category.
type EventSummary struct {
	ID           int64     `json:"id" db:"id"`
	Type         EventType `json:"type" db:"type"`
	CategoryName string    `json:"category" db:"category_name"`
	StartTime    time.Time `json:"start_time" db:"start_time"`
	EndTime      time.Time `json:"end_time" db:"end_time"`
}

func (e EventSummary) DurationMinutes() int {
	return DurationMinutes(e.StartTime, e.EndTime)
}

func DurationMinutes(start, end time.Time) int {
	return int(math.Floor(end.Sub(start).Minutes()))
}
