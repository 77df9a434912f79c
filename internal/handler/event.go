package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/timetrack/internal/model"
	"github.com/dukerupert/timetrack/internal/store"
	"github.com/dukerupert/timetrack/internal/websocket"
)

const recentEventLimit = 5

type EventHandler struct {
	base
	now func() time.Time
}

func NewEventHandler(s *store.Store, hub *websocket.Hub, logger *slog.Logger) *EventHandler {
	return &EventHandler{base: base{store: s, hub: hub, logger: logger}, now: time.Now}
}

// List returns events most recent first. Optional query parameters: type,
// user_id and limit.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	var f store.EventFilter
	var err error

	if f.Limit, err = queryInt(r, "limit"); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	userID, err := queryInt(r, "user_id")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	f.UserID = int64(userID)
	f.Type = model.EventType(r.URL.Query().Get("type"))

	events, err := h.store.Events.List(r.Context(), f)
	if err != nil {
		writeError(w, h.logger, "list events", err)
		return
	}

	resp := make([]eventResponse, 0, len(events))
	for _, e := range events {
		resp = append(resp, newEventResponse(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *EventHandler) Recent(w http.ResponseWriter, r *http.Request) {
	events, err := h.store.Events.Recent(r.Context(), recentEventLimit)
	if err != nil {
		writeError(w, h.logger, "list recent events", err)
		return
	}

	resp := make([]recentEventResponse, 0, len(events))
	for _, e := range events {
		resp = append(resp, newRecentEventResponse(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateTest records a one-hour plan event for the first user.
func (h *EventHandler) CreateTest(w http.ResponseWriter, r *http.Request) {
	e, err := h.store.CreateSampleEvent(r.Context(), h.now())
	if err != nil {
		writeError(w, h.logger, "create test event", err)
		return
	}

	recordCreated(model.Stats{Events: 1})
	h.notify(r.Context(), "event", "created", e.ID)

	writeJSON(w, http.StatusCreated, createEventResponse{
		Status:  "success",
		Message: fmt.Sprintf("Test event created with ID: %d", e.ID),
		Event:   newEventResponse(*e),
	})
}
