package handler

import (
	"time"

	"github.com/dukerupert/timetrack/internal/model"
)

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type userResponse struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	TelegramID *string   `json:"telegram_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func newUserResponse(u model.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, TelegramID: u.TelegramID, CreatedAt: u.CreatedAt}
}

type eventResponse struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"user_id"`
	CategoryID      int64           `json:"category_id"`
	StartTime       time.Time       `json:"start_time"`
	EndTime         time.Time       `json:"end_time"`
	Type            model.EventType `json:"type"`
	DurationMinutes int             `json:"duration_minutes"`
}

func newEventResponse(e model.Event) eventResponse {
	return eventResponse{
		ID:              e.ID,
		UserID:          e.UserID,
		CategoryID:      e.CategoryID,
		StartTime:       e.StartTime,
		EndTime:         e.EndTime,
		Type:            e.Type,
		DurationMinutes: e.DurationMinutes(),
	}
}

type recentEventResponse struct {
	ID              int64           `json:"id"`
	Type            model.EventType `json:"type"`
	Category        string          `json:"category"`
	StartTime       time.Time       `json:"start_time"`
	DurationMinutes int             `json:"duration_minutes"`
}

func newRecentEventResponse(e model.EventSummary) recentEventResponse {
	return recentEventResponse{
		ID:              e.ID,
		Type:            e.Type,
		Category:        e.CategoryName,
		StartTime:       e.StartTime,
		DurationMinutes: e.DurationMinutes(),
	}
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Error    string `json:"error,omitempty"`
}

type apiTestResponse struct {
	Status    string   `json:"status"`
	Message   string   `json:"message"`
	Version   string   `json:"version"`
	Endpoints []string `json:"endpoints"`
}

type debugResponse struct {
	WorkingDirectory     string `json:"working_directory"`
	GoVersion            string `json:"go_version"`
	GOOS                 string `json:"goos"`
	GOARCH               string `json:"goarch"`
	DatabaseURL          string `json:"database_url"`
	Dialect              string `json:"dialect"`
	SecretKeyFingerprint string `json:"secret_key_fingerprint"`
}

type createUserResponse struct {
	Status  string       `json:"status"`
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

type createEventResponse struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	Event   eventResponse `json:"event"`
}

type createDataResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	UserID  int64       `json:"user_id"`
	Created model.Stats `json:"created"`
}

type deleteResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Deleted model.Stats `json:"deleted"`
}
