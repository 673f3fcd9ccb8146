package model

import "time"

// TimeEntry is one logged unit of work against a project. Entries are only
// created and deleted, never updated; rates are resolved at read time from
// the joined user and project rows.
type TimeEntry struct {
	ID          int       `db:"id" json:"id"`
	ProjectID   int       `db:"project_id" json:"project_id"`
	UserID      int       `db:"user_id" json:"user_id"`
	Description string    `db:"description" json:"description"`
	Hours       float64   `db:"hours" json:"hours"`
	Date        time.Time `db:"date" json:"date"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`

	// Joined fields, populated by store reads.
	UserName          string  `db:"user_name" json:"user_name,omitempty"`
	UserHourlyRate    float64 `db:"user_hourly_rate" json:"user_hourly_rate,omitempty"`
	ProjectName       string  `db:"project_name" json:"project_name,omitempty"`
	ProjectClient     string  `db:"project_client" json:"project_client,omitempty"`
	ProjectHourlyRate float64 `db:"project_hourly_rate" json:"project_hourly_rate,omitempty"`
}
