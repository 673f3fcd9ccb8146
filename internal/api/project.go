package api

import "time"

// swagger:model api.CreateProjectRequest
type CreateProjectRequest struct {
	Name       string  `form:"name" json:"name" validate:"required" example:"Website redesign"`
	Client     string  `form:"client" json:"client" validate:"required" example:"Acme BV"`
	HourlyRate float64 `form:"hourly_rate" json:"hourly_rate" validate:"omitempty,gt=0" example:"75"`
}

// swagger:model api.UpdateProjectRequest
type UpdateProjectRequest struct {
	Name       string  `form:"name" json:"name" validate:"required" example:"Website redesign"`
	Client     string  `form:"client" json:"client" validate:"required" example:"Acme BV"`
	HourlyRate float64 `form:"hourly_rate" json:"hourly_rate" validate:"required,gt=0" example:"80"`
}

// swagger:model api.UpdateProjectStatusRequest
type UpdateProjectStatusRequest struct {
	Status string `form:"status" json:"status" validate:"required" example:"to-invoice"`
}

// swagger:model api.ProjectResponse
type ProjectResponse struct {
	ID          int       `json:"id" example:"1"`
	Name        string    `json:"name" example:"Website redesign"`
	Client      string    `json:"client" example:"Acme BV"`
	Status      string    `json:"status" example:"active"`
	HourlyRate  float64   `json:"hourly_rate" example:"75"`
	CreatedBy   int       `json:"created_by" example:"1"`
	CreatorName string    `json:"creator_name,omitempty" example:"Alice de Vries"`
	CreatedAt   time.Time `json:"created_at"`

	// Totals are recomputed from time entries on every read.
	TotalHours  float64 `json:"total_hours"`
	TotalAmount float64 `json:"total_amount"`
}
