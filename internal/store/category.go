package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/dukerupert/timetrack/internal/model"
)

var categoryCols = []string{"id", "name", "color", "user_id", "created_at"}

type CategoryStore struct {
	q  sqlx.ExtContext
	sb sq.StatementBuilderType
}

// Create inserts a category owned by userID. An empty color falls back to
// model.DefaultCategoryColor.
func (s *CategoryStore) Create(ctx context.Context, userID int64, name, color string) (*model.Category, error) {
	if err := requireID("user_id", userID); err != nil {
		return nil, err
	}
	name, err := requireText("name", name, maxCategoryNameLen)
	if err != nil {
		return nil, err
	}
	color, err = normalizeColor(color)
	if err != nil {
		return nil, err
	}

	id, err := insertReturningID(ctx, s.q, s.sb.Insert("categories").
		Columns("name", "color", "user_id", "created_at").
		Values(name, color, userID, now()))
	if err != nil {
		return nil, classify("insert category", err)
	}

	return s.GetByID(ctx, id)
}

func (s *CategoryStore) GetByID(ctx context.Context, id int64) (*model.Category, error) {
	return s.getOne(ctx, s.sb.Select(categoryCols...).From("categories").Where(sq.Eq{"id": id}))
}

// FirstForUser returns the oldest category of a user.
func (s *CategoryStore) FirstForUser(ctx context.Context, userID int64) (*model.Category, error) {
	return s.getOne(ctx, s.sb.Select(categoryCols...).From("categories").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("id ASC").
		Limit(1))
}

func (s *CategoryStore) getOne(ctx context.Context, b sq.SelectBuilder) (*model.Category, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build category query: %w", err)
	}

	var c model.Category
	err = sqlx.GetContext(ctx, s.q, &c, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

func (s *CategoryStore) ListByUser(ctx context.Context, userID int64) ([]model.Category, error) {
	query, args, err := s.sb.Select(categoryCols...).From("categories").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build category list: %w", err)
	}

	var categories []model.Category
	if err := sqlx.SelectContext(ctx, s.q, &categories, query, args...); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryStore) Count(ctx context.Context) (int, error) {
	return countRows(ctx, s.q, s.sb, "categories", nil)
}

func (s *CategoryStore) CountByUser(ctx context.Context, userID int64) (int, error) {
	return countRows(ctx, s.q, s.sb, "categories", sq.Eq{"user_id": userID})
}
