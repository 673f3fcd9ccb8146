package model

import "time"

// Project status pipeline: active → to-invoice → completed.
// The board writes the target status directly, so any of the three values
// may be assigned; only to-invoice projects enter the billing working set.
const (
	StatusActive    = "active"
	StatusToInvoice = "to-invoice"
	StatusCompleted = "completed"
)

// DefaultProjectRate is the billing rate assigned to new projects.
const DefaultProjectRate = 75.0

type Project struct {
	ID         int       `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Client     string    `db:"client" json:"client"`
	Status     string    `db:"status" json:"status"`
	HourlyRate float64   `db:"hourly_rate" json:"hourly_rate"`
	CreatedBy  int       `db:"created_by" json:"created_by"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`

	// CreatorName is joined from users on read; not a projects column.
	CreatorName string `db:"creator_name" json:"creator_name,omitempty"`
}

func ValidStatus(status string) bool {
	switch status {
	case StatusActive, StatusToInvoice, StatusCompleted:
		return true
	}
	return false
}
