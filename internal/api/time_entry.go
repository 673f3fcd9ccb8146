package api

import "time"

// swagger:model api.CreateEntryRequest
type CreateEntryRequest struct {
	ProjectID   int     `form:"project_id" json:"project_id" validate:"required" example:"1"`
	Description string  `form:"description" json:"description" validate:"required" example:"Design homepage"`
	Hours       float64 `form:"hours" json:"hours" validate:"required,gt=0" example:"2.5"`
	Date        string  `form:"date" json:"date" validate:"omitempty,datetime=2006-01-02" example:"2025-05-01"`
}

// swagger:model api.EntryResponse
type EntryResponse struct {
	ID            int       `json:"id" example:"1"`
	ProjectID     int       `json:"project_id" example:"1"`
	UserID        int       `json:"user_id" example:"2"`
	Description   string    `json:"description" example:"Design homepage"`
	Hours         float64   `json:"hours" example:"2.5"`
	Date          string    `json:"date" example:"2025-05-01"`
	CreatedAt     time.Time `json:"created_at"`
	ProjectName   string    `json:"project_name" example:"Website redesign"`
	ProjectClient string    `json:"project_client" example:"Acme BV"`
	UserName      string    `json:"user_name" example:"Alice de Vries"`

	// Rate and Value use the time-tracking resolution (personal rate first),
	// not the billing rate.
	Rate  float64 `json:"rate" example:"60"`
	Value float64 `json:"value" example:"150"`
}
