package handler

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/dukerupert/timetrack/internal/model"
	"github.com/dukerupert/timetrack/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"duration": func(e model.EventSummary) int { return e.DurationMinutes() },
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
}

type DashboardHandler struct {
	store     *store.Store
	templates *template.Template
	logger    *slog.Logger
}

func NewDashboardHandler(s *store.Store, logger *slog.Logger) *DashboardHandler {
	tmpl := template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
	return &DashboardHandler{store: s, templates: tmpl, logger: logger}
}

type dashboardData struct {
	Title   string
	Version string
	Stats   model.Stats
	Recent  []model.EventSummary
	Users   []model.User
}

func (h *DashboardHandler) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	st, err := h.store.Stats(ctx)
	if err != nil {
		h.logger.Error("dashboard stats", "error", err)
		http.Error(w, "failed to load data", http.StatusInternalServerError)
		return
	}
	recent, err := h.store.Events.Recent(ctx, recentEventLimit)
	if err != nil {
		h.logger.Error("dashboard events", "error", err)
		http.Error(w, "failed to load data", http.StatusInternalServerError)
		return
	}
	users, err := h.store.Users.List(ctx, userListLimit)
	if err != nil {
		h.logger.Error("dashboard users", "error", err)
		http.Error(w, "failed to load data", http.StatusInternalServerError)
		return
	}

	h.render(w, "dashboard.html", dashboardData{
		Title:   "Time Tracker",
		Version: Version,
		Stats:   st,
		Recent:  recent,
		Users:   users,
	})
}

func (h *DashboardHandler) render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, name, data); err != nil {
		h.logger.Error("render template", "template", name, "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}
