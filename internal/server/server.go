package server

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dukerupert/timetrack/internal/database"
	"github.com/dukerupert/timetrack/internal/handler"
	"github.com/dukerupert/timetrack/internal/metrics"
	"github.com/dukerupert/timetrack/internal/middleware"
	"github.com/dukerupert/timetrack/internal/store"
	ws "github.com/dukerupert/timetrack/internal/websocket"
)

type Config struct {
	// AllowedOrigins are extra websocket origin host patterns.
	AllowedOrigins []string
	Info           handler.SystemInfo
}

type Server struct {
	store      *store.Store
	hub        *ws.Hub
	cfg        Config
	userH      *handler.UserHandler
	categoryH  *handler.CategoryHandler
	eventH     *handler.EventHandler
	adminH     *handler.AdminHandler
	systemH    *handler.SystemHandler
	dashboardH *handler.DashboardHandler
	logger     *slog.Logger
}

func New(db *database.DB, cfg Config, logger *slog.Logger) *Server {
	metrics.Register()

	hub := ws.NewHub(logger.With("component", "websocket"))
	st := store.New(db)
	hub.SetSnapshot(st.Stats)

	return &Server{
		store:      st,
		hub:        hub,
		cfg:        cfg,
		userH:      handler.NewUserHandler(st, hub, logger.With("component", "user")),
		categoryH:  handler.NewCategoryHandler(st, hub, logger.With("component", "category")),
		eventH:     handler.NewEventHandler(st, hub, logger.With("component", "event")),
		adminH:     handler.NewAdminHandler(st, hub, logger.With("component", "admin")),
		systemH:    handler.NewSystemHandler(st, cfg.Info, logger.With("component", "system")),
		dashboardH: handler.NewDashboardHandler(st, logger.With("component", "dashboard")),
		logger:     logger,
	}
}

func (s *Server) Hub() *ws.Hub {
	return s.hub
}

// Close disconnects websocket clients. The database is owned by the caller.
func (s *Server) Close() {
	s.hub.Close()
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.dashboardH.Index)
	mux.HandleFunc("GET /status", s.systemH.Status)
	mux.HandleFunc("GET /debug", s.systemH.Debug)
	mux.HandleFunc("GET /test-db", s.systemH.TestDB)
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.cfg.AllowedOrigins, s.logger.With("component", "websocket")))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/stats", s.adminH.Stats)
	mux.HandleFunc("GET /api/health", s.systemH.Health)
	mux.HandleFunc("GET /api/test", s.systemH.APITest)

	mux.HandleFunc("GET /api/users", s.userH.List)
	mux.HandleFunc("DELETE /api/users/{id}", s.userH.Delete)
	mux.HandleFunc("POST /api/create-test-user", s.userH.CreateTest)
	mux.HandleFunc("POST /api/create-test", s.userH.CreateTest)

	mux.HandleFunc("DELETE /api/categories/{id}", s.categoryH.Delete)

	mux.HandleFunc("GET /api/events", s.eventH.List)
	mux.HandleFunc("GET /api/recent-events", s.eventH.Recent)
	mux.HandleFunc("POST /api/create-test-event", s.eventH.CreateTest)

	mux.HandleFunc("POST /api/create-test-data", s.adminH.CreateTestData)
	mux.HandleFunc("POST /api/clear-db", s.adminH.ClearDB)

	return s.wrap(mux)
}

// wrap applies the HTTP middleware chain. Recover sits innermost so a
// recovered panic is logged and counted with its 500 status.
func (s *Server) wrap(mux http.Handler) http.Handler {
	httpLogger := s.logger.With("component", "http")
	return middleware.Metrics(
		middleware.RequestLogger(httpLogger)(
			middleware.Recover(httpLogger)(mux),
		),
	)
}
