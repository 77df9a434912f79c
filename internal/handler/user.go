package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/timetrack/internal/model"
	"github.com/dukerupert/timetrack/internal/store"
	"github.com/dukerupert/timetrack/internal/websocket"
)

const (
	defaultTestUserName       = "Test User"
	defaultTestUserTelegramID = "123456"
	userListLimit             = 20
)

type UserHandler struct {
	base
}

func NewUserHandler(s *store.Store, hub *websocket.Hub, logger *slog.Logger) *UserHandler {
	return &UserHandler{base{store: s, hub: hub, logger: logger}}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.Users.List(r.Context(), userListLimit)
	if err != nil {
		writeError(w, h.logger, "list users", err)
		return
	}

	resp := make([]userResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, newUserResponse(u))
	}
	writeJSON(w, http.StatusOK, resp)
}

// createTestUserRequest keeps telegram_id raw so an explicit null (no
// telegram id) can be told apart from an absent field (the test default).
type createTestUserRequest struct {
	Name       string          `json:"name"`
	TelegramID json.RawMessage `json:"telegram_id"`
}

func (req createTestUserRequest) telegramID() (*string, error) {
	switch {
	case len(req.TelegramID) == 0:
		tg := defaultTestUserTelegramID
		return &tg, nil
	case bytes.Equal(req.TelegramID, []byte("null")):
		return nil, nil
	}
	var tg string
	if err := json.Unmarshal(req.TelegramID, &tg); err != nil {
		return nil, errors.New("telegram_id must be a string or null")
	}
	return &tg, nil
}

// CreateTest adds a single user. Without a body the fixed test identity is
// used, so a second call reports a conflict.
func (h *UserHandler) CreateTest(w http.ResponseWriter, r *http.Request) {
	var req createTestUserRequest
	if err := decodeOptional(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		req.Name = defaultTestUserName
	}
	telegramID, err := req.telegramID()
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.store.Users.Create(r.Context(), req.Name, telegramID)
	if err != nil {
		writeError(w, h.logger, "create test user", err)
		return
	}

	recordCreated(model.Stats{Users: 1})
	h.notify(r.Context(), "user", "created", u.ID)

	writeJSON(w, http.StatusCreated, createUserResponse{
		Status:  "success",
		Message: fmt.Sprintf("Test user created with ID: %d", u.ID),
		User:    newUserResponse(*u),
	})
}

// Delete removes a user together with its categories, events and templates.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	deleted, err := h.store.DeleteUser(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, "delete user", err)
		return
	}

	recordDeleted(deleted)
	h.notify(r.Context(), "user", "deleted", id)

	writeJSON(w, http.StatusOK, deleteResponse{
		Status:  "success",
		Message: fmt.Sprintf("User %d deleted", id),
		Deleted: deleted,
	})
}
