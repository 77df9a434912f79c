package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type Template struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Data      Document  `json:"data" db:"data"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Document is an opaque JSON value stored in a text column.
type Document json.RawMessage

// NewDocument encodes v as a Document.
func NewDocument(v any) (Document, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return Document(data), nil
}

// Decode unmarshals the document into v. An empty document leaves v untouched.
func (d Document) Decode(v any) error {
	if len(d) == 0 {
		return nil
	}
	return json.Unmarshal(d, v)
}

func (d Document) MarshalJSON() ([]byte, error) {
	if len(d) == 0 {
		return []byte("null"), nil
	}
	return d, nil
}

func (d *Document) UnmarshalJSON(data []byte) error {
	*d = append((*d)[:0], data...)
	return nil
}

func (d *Document) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*d = nil
	case []byte:
		*d = append(Document(nil), v...)
	case string:
		*d = Document(v)
	default:
		return fmt.Errorf("cannot scan %T into Document", value)
	}
	return nil
}

func (d Document) Value() (driver.Value, error) {
	if len(d) == 0 {
		return nil, nil
	}
	return string(d), nil
}

// ScheduleEntry is one block of a weekly schedule template.
type ScheduleEntry struct {
	Category string `json:"category"`
	Time     string `json:"time"`
	Task     string `json:"task"`
}

// Schedule maps a weekday name to its planned blocks.
type Schedule map[string][]ScheduleEntry
