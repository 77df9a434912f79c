package store

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/dukerupert/timetrack/internal/database"
	"github.com/dukerupert/timetrack/internal/model"
)

const maxListLimit = 200

// Store is the data-access context handed to handlers. A Store returned by
// InTx is bound to a single transaction.
type Store struct {
	db   *database.DB
	q    sqlx.ExtContext
	sb   sq.StatementBuilderType
	inTx bool

	Users      *UserStore
	Categories *CategoryStore
	Events     *EventStore
	Templates  *TemplateStore
}

func New(db *database.DB) *Store {
	return newStore(db, db.DB, false)
}

func newStore(db *database.DB, q sqlx.ExtContext, inTx bool) *Store {
	sb := sq.StatementBuilder.PlaceholderFormat(placeholderFormat(db.Dialect))
	return &Store{
		db:         db,
		q:          q,
		sb:         sb,
		inTx:       inTx,
		Users:      &UserStore{q: q, sb: sb},
		Categories: &CategoryStore{q: q, sb: sb},
		Events:     &EventStore{q: q, sb: sb},
		Templates:  &TemplateStore{q: q, sb: sb},
	}
}

func placeholderFormat(d database.Dialect) sq.PlaceholderFormat {
	if d == database.DialectPostgres {
		return sq.Dollar
	}
	return sq.Question
}

// InTx runs fn inside a transaction, committing when fn returns nil and
// rolling back otherwise. Calling InTx on a transaction-bound Store reuses
// the open transaction.
func (s *Store) InTx(ctx context.Context, fn func(tx *Store) error) error {
	if s.inTx {
		return fn(s)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(newStore(s.db, tx, true)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Ping confirms the database is reachable and answering queries.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	var one int
	if err := s.db.GetContext(ctx, &one, "SELECT 1"); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Stats counts the rows of every table.
func (s *Store) Stats(ctx context.Context) (model.Stats, error) {
	var st model.Stats
	var err error
	if st.Users, err = s.Users.Count(ctx); err != nil {
		return model.Stats{}, err
	}
	if st.Categories, err = s.Categories.Count(ctx); err != nil {
		return model.Stats{}, err
	}
	if st.Events, err = s.Events.Count(ctx); err != nil {
		return model.Stats{}, err
	}
	if st.Templates, err = s.Templates.Count(ctx); err != nil {
		return model.Stats{}, err
	}
	return st, nil
}

func countRows(ctx context.Context, q sqlx.QueryerContext, sb sq.StatementBuilderType, table string, where sq.Sqlizer) (int, error) {
	b := sb.Select("COUNT(*)").From(table)
	if where != nil {
		b = b.Where(where)
	}
	query, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count %s: %w", table, err)
	}

	var n int
	if err := sqlx.GetContext(ctx, q, &n, query, args...); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

func insertReturningID(ctx context.Context, q sqlx.QueryerContext, b sq.InsertBuilder) (int64, error) {
	query, args, err := b.Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}

	var id int64
	if err := q.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) deleteWhere(ctx context.Context, table string, where sq.Sqlizer) (int, error) {
	b := s.sb.Delete(table)
	if where != nil {
		b = b.Where(where)
	}
	query, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete %s: %w", table, err)
	}

	res, err := s.q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, classify("delete "+table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(n), nil
}

func clampLimit(limit, fallback int) uint64 {
	if limit <= 0 {
		limit = fallback
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return uint64(limit)
}
