package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dukerupert/timetrack/internal/store"
	"github.com/dukerupert/timetrack/internal/websocket"
)

type CategoryHandler struct {
	base
}

func NewCategoryHandler(s *store.Store, hub *websocket.Hub, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{base{store: s, hub: hub, logger: logger}}
}

// Delete removes a category and every event filed under it.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	deleted, err := h.store.DeleteCategory(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, "delete category", err)
		return
	}

	recordDeleted(deleted)
	h.notify(r.Context(), "category", "deleted", id)

	writeJSON(w, http.StatusOK, deleteResponse{
		Status:  "success",
		Message: fmt.Sprintf("Category %d deleted", id),
		Deleted: deleted,
	})
}
