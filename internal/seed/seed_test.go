package seed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/timetrack/internal/database"
	"github.com/dukerupert/timetrack/internal/model"
	"github.com/dukerupert/timetrack/internal/store"
)

var now = time.Date(2024, 5, 6, 8, 30, 0, 0, time.UTC)

func TestTestDataShape(t *testing.T) {
	d := TestData(now, "abc")

	require.NotNil(t, d.User.TelegramID)
	assert.Equal(t, "test_abc", *d.User.TelegramID)
	assert.Len(t, d.Categories, 5)
	require.Len(t, d.Events, 10)
	assert.Len(t, d.Templates, 1)

	for i, e := range d.Events {
		want := model.EventPlan
		if i%2 == 1 {
			want = model.EventFact
		}
		assert.Equal(t, want, e.Type, "event %d", i)
		assert.False(t, e.EndTime.Before(e.StartTime), "event %d", i)
	}

	plan, fact := d.Events[0], d.Events[1]
	assert.Equal(t, plan.Category, fact.Category)
	assert.Equal(t, 5*time.Minute, fact.StartTime.Sub(plan.StartTime))
	assert.Equal(t, 10*time.Minute, plan.EndTime.Sub(fact.EndTime))
}

func TestDemoShape(t *testing.T) {
	d := Demo(now)

	assert.Len(t, d.Categories, 4)
	assert.Len(t, d.Events, 42)
	require.Len(t, d.Templates, 1)

	var sched model.Schedule
	require.NoError(t, d.Templates[0].Data.Decode(&sched))
	assert.Len(t, sched["Monday"], 2)

	first := d.Events[0]
	assert.Equal(t, 9, first.StartTime.Hour())
	assert.Equal(t, now.Day(), first.StartTime.Day())
}

func TestDatasetsPersist(t *testing.T) {
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := store.New(db)
	ctx := context.Background()

	_, err = s.CreateDataset(ctx, Demo(now))
	require.NoError(t, err)
	_, err = s.CreateDataset(ctx, TestData(now, "one"))
	require.NoError(t, err)
	_, err = s.CreateDataset(ctx, TestData(now, "two"))
	require.NoError(t, err)

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Stats{Users: 3, Categories: 14, Events: 62, Templates: 3}, st)

	_, err = s.CreateDataset(ctx, TestData(now, "one"))
	assert.ErrorIs(t, err, store.ErrConstraint)
}
