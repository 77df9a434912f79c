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

var templateCols = []string{"id", "user_id", "name", "data", "created_at"}

type TemplateStore struct {
	q  sqlx.ExtContext
	sb sq.StatementBuilderType
}

// Create inserts a schedule template. data is stored as-is and must be valid JSON when present.
func (s *TemplateStore) Create(ctx context.Context, userID int64, name string, data model.Document) (*model.Template, error) {
	if err := requireID("user_id", userID); err != nil {
		return nil, err
	}
	name, err := requireText("name", name, maxTemplateNameLen)
	if err != nil {
		return nil, err
	}
	if err := validateDocument(data); err != nil {
		return nil, err
	}

	id, err := insertReturningID(ctx, s.q, s.sb.Insert("templates").
		Columns("user_id", "name", "data", "created_at").
		Values(userID, name, data, now()))
	if err != nil {
		return nil, classify("insert template", err)
	}

	return s.GetByID(ctx, id)
}

func (s *TemplateStore) GetByID(ctx context.Context, id int64) (*model.Template, error) {
	query, args, err := s.sb.Select(templateCols...).From("templates").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build template query: %w", err)
	}

	var t model.Template
	err = sqlx.GetContext(ctx, s.q, &t, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}
	return &t, nil
}

func (s *TemplateStore) ListByUser(ctx context.Context, userID int64) ([]model.Template, error) {
	query, args, err := s.sb.Select(templateCols...).From("templates").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build template list: %w", err)
	}

	var templates []model.Template
	if err := sqlx.SelectContext(ctx, s.q, &templates, query, args...); err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return templates, nil
}

func (s *TemplateStore) Count(ctx context.Context) (int, error) {
	return countRows(ctx, s.q, s.sb, "templates", nil)
}

func (s *TemplateStore) CountByUser(ctx context.Context, userID int64) (int, error) {
	return countRows(ctx, s.q, s.sb, "templates", sq.Eq{"user_id": userID})
}
