package handler

import (
	"context"
	"log/slog"

	"github.com/dukerupert/timetrack/internal/metrics"
	"github.com/dukerupert/timetrack/internal/model"
	"github.com/dukerupert/timetrack/internal/store"
	"github.com/dukerupert/timetrack/internal/websocket"
)

// base holds what every handler needs. hub may be nil.
type base struct {
	store  *store.Store
	hub    *websocket.Hub
	logger *slog.Logger
}

// notify broadcasts a change with fresh counts attached.
func (b base) notify(ctx context.Context, entity, action string, id int64) {
	if b.hub == nil {
		return
	}
	var stats *model.Stats
	if st, err := b.store.Stats(ctx); err != nil {
		b.logger.Warn("stats for broadcast", "error", err)
	} else {
		stats = &st
	}
	b.hub.Broadcast(websocket.NewMessage(entity, action, id, stats))
}

func recordCreated(s model.Stats) {
	metrics.AddCreated("user", s.Users)
	metrics.AddCreated("category", s.Categories)
	metrics.AddCreated("event", s.Events)
	metrics.AddCreated("template", s.Templates)
}

func recordDeleted(s model.Stats) {
	metrics.AddDeleted("user", s.Users)
	metrics.AddDeleted("category", s.Categories)
	metrics.AddDeleted("event", s.Events)
	metrics.AddDeleted("template", s.Templates)
}
