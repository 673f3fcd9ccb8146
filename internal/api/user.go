package api

import "time"

// swagger:model api.UserResponse
type UserResponse struct {
	ID         int       `json:"id" example:"1"`
	Email      string    `json:"email" example:"alice@example.com"`
	FullName   string    `json:"full_name" example:"Alice de Vries"`
	Role       string    `json:"role" example:"employee"`
	HourlyRate float64   `json:"hourly_rate" example:"50"`
	CreatedAt  time.Time `json:"created_at"`
}

// swagger:model api.UpdateMeRequest
type UpdateMeRequest struct {
	FullName string `form:"full_name" json:"full_name" validate:"required" example:"Alice de Vries"`
}

// swagger:model api.UpdateMyRateRequest
type UpdateMyRateRequest struct {
	HourlyRate float64 `form:"hourly_rate" json:"hourly_rate" validate:"required,gt=0" example:"60"`
}

// swagger:model api.UpdateMyPasswordRequest
type UpdateMyPasswordRequest struct {
	OldPassword string `form:"old_password" json:"old_password" validate:"required" example:"OldSecret123!"`
	NewPassword string `form:"new_password" json:"new_password" validate:"required" example:"NewSecret456!"`
}
