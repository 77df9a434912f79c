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

var userCols = []string{"id", "name", "telegram_id", "created_at"}

type UserStore struct {
	q  sqlx.ExtContext
	sb sq.StatementBuilderType
}

// Create inserts a user. A blank telegramID is stored as NULL.
func (s *UserStore) Create(ctx context.Context, name string, telegramID *string) (*model.User, error) {
	name, err := requireText("name", name, maxUserNameLen)
	if err != nil {
		return nil, err
	}
	tg, err := optionalText("telegram_id", telegramID, maxTelegramIDLen)
	if err != nil {
		return nil, err
	}

	id, err := insertReturningID(ctx, s.q, s.sb.Insert("users").
		Columns("name", "telegram_id", "created_at").
		Values(name, tg, now()))
	if err != nil {
		return nil, classify("insert user", err)
	}

	return s.GetByID(ctx, id)
}

func (s *UserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.getOne(ctx, s.sb.Select(userCols...).From("users").Where(sq.Eq{"id": id}))
}

// First returns the user with the lowest id.
func (s *UserStore) First(ctx context.Context) (*model.User, error) {
	return s.getOne(ctx, s.sb.Select(userCols...).From("users").OrderBy("id ASC").Limit(1))
}

func (s *UserStore) getOne(ctx context.Context, b sq.SelectBuilder) (*model.User, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build user query: %w", err)
	}

	var u model.User
	err = sqlx.GetContext(ctx, s.q, &u, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// List returns up to limit users, newest first.
func (s *UserStore) List(ctx context.Context, limit int) ([]model.User, error) {
	query, args, err := s.sb.Select(userCols...).From("users").
		OrderBy("id DESC").
		Limit(clampLimit(limit, 20)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build user list: %w", err)
	}

	var users []model.User
	if err := sqlx.SelectContext(ctx, s.q, &users, query, args...); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserStore) Count(ctx context.Context) (int, error) {
	return countRows(ctx, s.q, s.sb, "users", nil)
}
