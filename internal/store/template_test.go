package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/timetrack/internal/model"
)

func TestTemplateCreate(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	u, err := s.Users.Create(ctx, "Alice", nil)
	require.NoError(t, err)

	doc, err := model.NewDocument(model.Schedule{
		"monday": {{Category: "Work", Time: "09:00", Task: "Work"}},
	})
	require.NoError(t, err)

	tpl, err := s.Templates.Create(ctx, u.ID, "Schedule", doc)
	require.NoError(t, err)
	assert.Equal(t, "Schedule", tpl.Name)

	var sched model.Schedule
	require.NoError(t, tpl.Data.Decode(&sched))
	assert.Equal(t, "09:00", sched["monday"][0].Time)

	empty, err := s.Templates.Create(ctx, u.ID, "Empty", nil)
	require.NoError(t, err)
	assert.Empty(t, empty.Data)

	list, err := s.Templates.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestTemplateCreateRejectsInvalidJSON(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	u, err := s.Users.Create(ctx, "Alice", nil)
	require.NoError(t, err)

	_, err = s.Templates.Create(ctx, u.ID, "Broken", model.Document(`{"monday":`))
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "data", ve.Field)
}
