package store

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/timetrack/internal/model"
)

func TestCategoryCreate(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	u, err := s.Users.Create(ctx, "Alice", nil)
	require.NoError(t, err)

	c, err := s.Categories.Create(ctx, u.ID, "Work", "#00ff00")
	require.NoError(t, err)
	assert.Equal(t, "Work", c.Name)
	assert.Equal(t, "#00ff00", c.Color)
	assert.Equal(t, u.ID, c.UserID)

	d, err := s.Categories.Create(ctx, u.ID, "Rest", "")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultCategoryColor, d.Color)

	list, err := s.Categories.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, c.ID, list[0].ID)

	first, err := s.Categories.FirstForUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, first.ID)

	n, err := s.Categories.CountByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestCategoryCreateValidation(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	u, err := s.Users.Create(ctx, "Alice", nil)
	require.NoError(t, err)

	tests := []struct {
		name   string
		userID int64
		cat    string
		color  string
		field  string
	}{
		{"missing user", 0, "Work", "", "user_id"},
		{"empty name", u.ID, "", "", "name"},
		{"long name", u.ID, strings.Repeat("w", 51), "", "name"},
		{"bad color", u.ID, "Work", "red", "color"},
		{"short color", u.ID, "Work", "#fff", "color"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Categories.Create(ctx, tt.userID, tt.cat, tt.color)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestCategoryCreateUnknownUser(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.Categories.Create(context.Background(), 404, "Work", "")
	assert.ErrorIs(t, err, ErrConstraint)
}

func TestCategoryFirstForUserNone(t *testing.T) {
	s := setupTestStore(t)

	c, err := s.Categories.FirstForUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, c)
}
