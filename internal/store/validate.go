package store

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dukerupert/timetrack/internal/model"
)

var hexColorRegexp = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

const (
	maxUserNameLen     = 100
	maxTelegramIDLen   = 100
	maxCategoryNameLen = 50
	maxTemplateNameLen = 100
)

func requireText(field, value string, max int) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", &ValidationError{Field: field, Message: "is required"}
	}
	if utf8.RuneCountInString(v) > max {
		return "", &ValidationError{Field: field, Message: fmt.Sprintf("must be at most %d characters", max)}
	}
	return v, nil
}

// optionalText returns nil for an absent or blank value.
func optionalText(field string, value *string, max int) (any, error) {
	if value == nil {
		return nil, nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(v) > max {
		return nil, &ValidationError{Field: field, Message: fmt.Sprintf("must be at most %d characters", max)}
	}
	return v, nil
}

func requireID(field string, id int64) error {
	if id <= 0 {
		return &ValidationError{Field: field, Message: "is required"}
	}
	return nil
}

func normalizeColor(color string) (string, error) {
	color = strings.TrimSpace(color)
	if color == "" {
		return model.DefaultCategoryColor, nil
	}
	if !hexColorRegexp.MatchString(color) {
		return "", &ValidationError{Field: "color", Message: "must be a hex color (e.g. #FF0000)"}
	}
	return color, nil
}

func validateEvent(e NewEvent) error {
	if err := requireID("user_id", e.UserID); err != nil {
		return err
	}
	if err := requireID("category_id", e.CategoryID); err != nil {
		return err
	}
	if !e.Type.Valid() {
		return &ValidationError{Field: "type", Message: `must be "plan" or "fact"`}
	}
	if e.StartTime.IsZero() {
		return &ValidationError{Field: "start_time", Message: "is required"}
	}
	if e.EndTime.IsZero() {
		return &ValidationError{Field: "end_time", Message: "is required"}
	}
	if e.EndTime.Before(e.StartTime) {
		return &ValidationError{Field: "end_time", Message: "must not be before start_time"}
	}
	return nil
}

func validateDocument(d model.Document) error {
	if len(d) == 0 {
		return nil
	}
	if !json.Valid(d) {
		return &ValidationError{Field: "data", Message: "must be valid JSON"}
	}
	return nil
}

// timestamp is the canonical stored form of a point in time.
func timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

func now() time.Time {
	return timestamp(time.Now())
}
