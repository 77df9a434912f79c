package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/timetrack/internal/database"
	"github.com/dukerupert/timetrack/internal/model"
	"github.com/dukerupert/timetrack/internal/store"
	"github.com/dukerupert/timetrack/internal/websocket"
)

func setupStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return store.New(db)
}

func TestCreateTestDataFixedTag(t *testing.T) {
	s := setupStore(t)
	logger := slog.New(slog.DiscardHandler)
	h := NewAdminHandler(s, websocket.NewHub(logger), logger)
	h.now = func() time.Time { return time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC) }
	h.newTag = func() string { return "fixed" }

	rec := httptest.NewRecorder()
	h.CreateTestData(rec, httptest.NewRequest(http.MethodPost, "/api/create-test-data", nil))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp createDataResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, model.Stats{Users: 1, Categories: 5, Events: 10, Templates: 1}, resp.Created)

	u, err := s.Users.GetByID(t.Context(), resp.UserID)
	require.NoError(t, err)
	assert.Equal(t, "test_fixed", *u.TelegramID)

	// The same tag collides on telegram_id and nothing is written.
	rec = httptest.NewRecorder()
	h.CreateTestData(rec, httptest.NewRequest(http.MethodPost, "/api/create-test-data", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)

	st, err := s.Stats(t.Context())
	require.NoError(t, err)
	assert.Equal(t, resp.Created, st)
}

func TestStatsWithoutHub(t *testing.T) {
	s := setupStore(t)
	h := NewAdminHandler(s, nil, slog.New(slog.DiscardHandler))

	rec := httptest.NewRecorder()
	h.ClearDB(rec, httptest.NewRequest(http.MethodPost, "/api/clear-db", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.Stats(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"users":0,"categories":0,"events":0,"templates":0}`, rec.Body.String())
}
