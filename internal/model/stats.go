package model

// Stats holds one row count per table.
type Stats struct {
	Users      int `json:"users"`
	Categories int `json:"categories"`
	Events     int `json:"events"`
	Templates  int `json:"templates"`
}

func (s Stats) Total() int {
	return s.Users + s.Categories + s.Events + s.Templates
}
