package handler

import (
	"log/slog"
	"net/http"
	"os"
	"runtime"

	"github.com/dukerupert/timetrack/internal/store"
)

const Version = "1.0.0"

// SystemInfo is the deployment detail exposed by /debug. DatabaseURL must
// already be redacted.
type SystemInfo struct {
	DatabaseURL          string
	Dialect              string
	SecretKeyFingerprint string
}

var apiEndpoints = []string{
	"GET /api/stats",
	"GET /api/users",
	"DELETE /api/users/{id}",
	"DELETE /api/categories/{id}",
	"GET /api/events",
	"GET /api/recent-events",
	"GET /api/health",
	"GET /api/test",
	"POST /api/create-test-user",
	"POST /api/create-test",
	"POST /api/create-test-event",
	"POST /api/create-test-data",
	"POST /api/clear-db",
}

type SystemHandler struct {
	store  *store.Store
	info   SystemInfo
	logger *slog.Logger
}

func NewSystemHandler(s *store.Store, info SystemInfo, logger *slog.Logger) *SystemHandler {
	return &SystemHandler{store: s, info: info, logger: logger}
}

// Health reports database reachability. The failure text is included on
// purpose: this endpoint exists to diagnose connectivity.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		h.logger.Error("health check failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, healthResponse{
			Status:   "unhealthy",
			Database: "disconnected",
			Error:    err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "healthy", Database: "connected"})
}

func (h *SystemHandler) APITest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, apiTestResponse{
		Status:    "success",
		Message:   "Time Tracker API is working",
		Version:   Version,
		Endpoints: apiEndpoints,
	})
}

func (h *SystemHandler) Debug(w http.ResponseWriter, r *http.Request) {
	wd, err := os.Getwd()
	if err != nil {
		wd = "unknown"
	}
	writeJSON(w, http.StatusOK, debugResponse{
		WorkingDirectory:     wd,
		GoVersion:            runtime.Version(),
		GOOS:                 runtime.GOOS,
		GOARCH:               runtime.GOARCH,
		DatabaseURL:          h.info.DatabaseURL,
		Dialect:              h.info.Dialect,
		SecretKeyFingerprint: h.info.SecretKeyFingerprint,
	})
}

func (h *SystemHandler) TestDB(w http.ResponseWriter, r *http.Request) {
	n, err := h.store.Users.Count(r.Context())
	if err != nil {
		h.logger.Error("test db", "error", err)
		writeText(w, http.StatusInternalServerError, "Database error: %v", err)
		return
	}
	writeText(w, http.StatusOK, "Database is working! Users: %d", n)
}

func (h *SystemHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, "Time Tracker is running!")
}
