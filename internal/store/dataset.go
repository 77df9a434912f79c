package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/dukerupert/timetrack/internal/model"
)

type NewUser struct {
	Name       string
	TelegramID *string
}

type NewCategory struct {
	Name  string
	Color string
}

// DatasetEvent references its category by index into Dataset.Categories.
type DatasetEvent struct {
	Category  int
	StartTime time.Time
	EndTime   time.Time
	Type      model.EventType
}

type NewTemplate struct {
	Name string
	Data model.Document
}

// Dataset is a user together with everything it owns, created as one unit.
type Dataset struct {
	User       NewUser
	Categories []NewCategory
	Events     []DatasetEvent
	Templates  []NewTemplate
}

type DatasetResult struct {
	User       *model.User
	Categories []model.Category
	Events     []model.Event
	Templates  []model.Template
}

func (r *DatasetResult) Stats() model.Stats {
	return model.Stats{
		Users:      1,
		Categories: len(r.Categories),
		Events:     len(r.Events),
		Templates:  len(r.Templates),
	}
}

// CreateDataset inserts d in a single transaction. Either every record is
// created or none is.
func (s *Store) CreateDataset(ctx context.Context, d Dataset) (*DatasetResult, error) {
	var res DatasetResult
	err := s.InTx(ctx, func(tx *Store) error {
		u, err := tx.Users.Create(ctx, d.User.Name, d.User.TelegramID)
		if err != nil {
			return err
		}
		res.User = u

		for _, c := range d.Categories {
			cat, err := tx.Categories.Create(ctx, u.ID, c.Name, c.Color)
			if err != nil {
				return err
			}
			res.Categories = append(res.Categories, *cat)
		}

		for i, e := range d.Events {
			if e.Category < 0 || e.Category >= len(res.Categories) {
				return &ValidationError{
					Field:   fmt.Sprintf("events[%d].category", i),
					Message: "references an unknown category",
				}
			}
			ev, err := tx.Events.Create(ctx, NewEvent{
				UserID:     u.ID,
				CategoryID: res.Categories[e.Category].ID,
				StartTime:  e.StartTime,
				EndTime:    e.EndTime,
				Type:       e.Type,
			})
			if err != nil {
				return err
			}
			res.Events = append(res.Events, *ev)
		}

		for _, t := range d.Templates {
			tpl, err := tx.Templates.Create(ctx, u.ID, t.Name, t.Data)
			if err != nil {
				return err
			}
			res.Templates = append(res.Templates, *tpl)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// ClearAll deletes every record, children before parents, and reports how
// many rows of each kind were removed.
func (s *Store) ClearAll(ctx context.Context) (model.Stats, error) {
	var deleted model.Stats
	err := s.InTx(ctx, func(tx *Store) error {
		var err error
		if deleted.Events, err = tx.deleteWhere(ctx, "events", nil); err != nil {
			return err
		}
		if deleted.Templates, err = tx.deleteWhere(ctx, "templates", nil); err != nil {
			return err
		}
		if deleted.Categories, err = tx.deleteWhere(ctx, "categories", nil); err != nil {
			return err
		}
		if deleted.Users, err = tx.deleteWhere(ctx, "users", nil); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return model.Stats{}, err
	}
	return deleted, nil
}

// DeleteUser removes a user and everything it owns. Events filed under the
// user's categories by other users go too.
func (s *Store) DeleteUser(ctx context.Context, id int64) (model.Stats, error) {
	var deleted model.Stats
	err := s.InTx(ctx, func(tx *Store) error {
		u, err := tx.Users.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if u == nil {
			return fmt.Errorf("user %d: %w", id, ErrNotFound)
		}

		// Placeholders are rewritten once, by the outer statement.
		ownedSQL, ownedArgs, err := sq.Select("id").From("categories").Where(sq.Eq{"user_id": id}).ToSql()
		if err != nil {
			return fmt.Errorf("build owned categories: %w", err)
		}
		if deleted.Events, err = tx.deleteWhere(ctx, "events", sq.Or{
			sq.Eq{"user_id": id},
			sq.Expr("category_id IN ("+ownedSQL+")", ownedArgs...),
		}); err != nil {
			return err
		}
		if deleted.Templates, err = tx.deleteWhere(ctx, "templates", sq.Eq{"user_id": id}); err != nil {
			return err
		}
		if deleted.Categories, err = tx.deleteWhere(ctx, "categories", sq.Eq{"user_id": id}); err != nil {
			return err
		}
		if deleted.Users, err = tx.deleteWhere(ctx, "users", sq.Eq{"id": id}); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return model.Stats{}, err
	}
	return deleted, nil
}

// DeleteCategory removes a category and the events filed under it.
func (s *Store) DeleteCategory(ctx context.Context, id int64) (model.Stats, error) {
	var deleted model.Stats
	err := s.InTx(ctx, func(tx *Store) error {
		c, err := tx.Categories.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return fmt.Errorf("category %d: %w", id, ErrNotFound)
		}

		if deleted.Events, err = tx.deleteWhere(ctx, "events", sq.Eq{"category_id": id}); err != nil {
			return err
		}
		if deleted.Categories, err = tx.deleteWhere(ctx, "categories", sq.Eq{"id": id}); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return model.Stats{}, err
	}
	return deleted, nil
}

// CreateSampleEvent records a one-hour plan event starting at now for the
// first user and that user's first category.
func (s *Store) CreateSampleEvent(ctx context.Context, now time.Time) (*model.Event, error) {
	var ev *model.Event
	err := s.InTx(ctx, func(tx *Store) error {
		u, err := tx.Users.First(ctx)
		if err != nil {
			return err
		}
		if u == nil {
			return &PreconditionError{Message: "no users found, create a user first"}
		}
		c, err := tx.Categories.FirstForUser(ctx, u.ID)
		if err != nil {
			return err
		}
		if c == nil {
			return &PreconditionError{Message: "no categories found, create test data first"}
		}

		ev, err = tx.Events.Create(ctx, NewEvent{
			UserID:     u.ID,
			CategoryID: c.ID,
			StartTime:  now,
			EndTime:    now.Add(time.Hour),
			Type:       model.EventPlan,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return ev, nil
}
