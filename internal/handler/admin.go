package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/timetrack/internal/seed"
	"github.com/dukerupert/timetrack/internal/store"
	"github.com/dukerupert/timetrack/internal/websocket"
)

// AdminHandler serves the table counters and the bulk test-data operations.
type AdminHandler struct {
	base
	now    func() time.Time
	newTag func() string
}

func NewAdminHandler(s *store.Store, hub *websocket.Hub, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		base:   base{store: s, hub: hub, logger: logger},
		now:    time.Now,
		newTag: func() string { return strings.SplitN(uuid.NewString(), "-", 2)[0] },
	}
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.store.Stats(r.Context())
	if err != nil {
		writeError(w, h.logger, "stats", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// CreateTestData seeds a fresh user with categories, events and a template in
// one transaction.
func (h *AdminHandler) CreateTestData(w http.ResponseWriter, r *http.Request) {
	res, err := h.store.CreateDataset(r.Context(), seed.TestData(h.now(), h.newTag()))
	if err != nil {
		writeError(w, h.logger, "create test data", err)
		return
	}

	created := res.Stats()
	recordCreated(created)
	h.notify(r.Context(), "dataset", "created", res.User.ID)

	writeJSON(w, http.StatusCreated, createDataResponse{
		Status: "success",
		Message: fmt.Sprintf("Created %d categories, %d events and %d template for user %d",
			created.Categories, created.Events, created.Templates, res.User.ID),
		UserID:  res.User.ID,
		Created: created,
	})
}

// ClearDB deletes every row. Clearing an empty database succeeds.
func (h *AdminHandler) ClearDB(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.store.ClearAll(r.Context())
	if err != nil {
		writeError(w, h.logger, "clear database", err)
		return
	}

	recordDeleted(deleted)
	h.logger.Info("database cleared", "rows", deleted.Total())
	h.notify(r.Context(), "database", "cleared", 0)

	writeJSON(w, http.StatusOK, deleteResponse{
		Status:  "success",
		Message: "Database cleared",
		Deleted: deleted,
	})
}
