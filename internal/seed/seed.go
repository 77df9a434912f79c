// Package seed builds the canned datasets used by the test-data endpoint and
// by init-db.
package seed

import (
	"fmt"
	"time"

	"github.com/dukerupert/timetrack/internal/model"
	"github.com/dukerupert/timetrack/internal/store"
)

var testCategories = []store.NewCategory{
	{Name: "Work", Color: "#4ECDC4"},
	{Name: "Study", Color: "#FF6B6B"},
	{Name: "Sport", Color: "#45B7D1"},
	{Name: "Rest", Color: "#96CEB4"},
	{Name: "Reading", Color: "#FFD93D"},
}

// TestData returns a dataset of one user, five categories, ten events and one
// template. tag makes the user's telegram id unique.
func TestData(now time.Time, tag string) store.Dataset {
	tgID := "test_" + tag
	d := store.Dataset{
		User:       store.NewUser{Name: "Test User " + tag, TelegramID: &tgID},
		Categories: testCategories,
	}

	day := now.UTC().Truncate(time.Hour)
	for i := range testCategories {
		start := day.Add(time.Duration(2*i) * time.Hour)
		end := start.Add(time.Hour)
		d.Events = append(d.Events,
			store.DatasetEvent{Category: i, StartTime: start, EndTime: end, Type: model.EventPlan},
			store.DatasetEvent{Category: i, StartTime: start.Add(5 * time.Minute), EndTime: end.Add(-10 * time.Minute), Type: model.EventFact},
		)
	}

	d.Templates = []store.NewTemplate{{
		Name: "Test schedule",
		Data: mustDocument(model.Schedule{
			"Monday": {
				{Category: "Work", Time: "09:00-12:00", Task: "Standup and tickets"},
				{Category: "Study", Time: "14:00-16:00", Task: "Go course"},
			},
			"Wednesday": {
				{Category: "Sport", Time: "18:00-19:00", Task: "Running"},
			},
		}),
	}}
	return d
}

var demoSlots = []int{9, 12, 15}

// Demo returns the dataset init-db seeds: a week of plan/fact pairs starting
// on the day of now.
func Demo(now time.Time) store.Dataset {
	tgID := "demo_user"
	d := store.Dataset{
		User: store.NewUser{Name: "Demo User", TelegramID: &tgID},
		Categories: []store.NewCategory{
			{Name: "Study", Color: "#FF6B6B"},
			{Name: "Work", Color: "#4ECDC4"},
			{Name: "Sport", Color: "#45B7D1"},
			{Name: "Rest", Color: "#96CEB4"},
		},
	}

	y, m, dd := now.UTC().Date()
	midnight := time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
	for day := range 7 {
		cat := day % len(d.Categories)
		for _, hour := range demoSlots {
			start := midnight.AddDate(0, 0, day).Add(time.Duration(hour) * time.Hour)
			end := start.Add(2 * time.Hour)
			d.Events = append(d.Events,
				store.DatasetEvent{Category: cat, StartTime: start, EndTime: end, Type: model.EventPlan},
				store.DatasetEvent{Category: cat, StartTime: start.Add(15 * time.Minute), EndTime: end.Add(-10 * time.Minute), Type: model.EventFact},
			)
		}
	}

	d.Templates = []store.NewTemplate{{
		Name: "My study schedule",
		Data: mustDocument(model.Schedule{
			"Monday": {
				{Category: "Study", Time: "09:00-11:00", Task: "Database lectures"},
				{Category: "Work", Time: "14:00-18:00", Task: "API development"},
			},
			"Tuesday": {
				{Category: "Sport", Time: "19:00-20:00", Task: "Workout"},
			},
		}),
	}}
	return d
}

func mustDocument(s model.Schedule) model.Document {
	doc, err := model.NewDocument(s)
	if err != nil {
		panic(fmt.Sprintf("seed: encode schedule: %v", err))
	}
	return doc
}
