package api

// swagger:model api.SignupRequest
type SignupRequest struct {
	Email    string `form:"email" json:"email" validate:"required,email" example:"alice@example.com"`
	Password string `form:"password" json:"password" validate:"required" example:"Secret123!"`
	FullName string `form:"full_name" json:"full_name" validate:"required" example:"Alice de Vries"`
	Role     string `form:"role" json:"role" example:"employee"`
}

// swagger:model api.LoginRequest
type LoginRequest struct {
	Email    string `form:"email" json:"email" validate:"required,email" example:"alice@example.com"`
	Password string `form:"password" json:"password" validate:"required" example:"Secret123!"`
}

// swagger:model api.LoginResponse
type LoginResponse struct {
	AccessToken string `json:"access_token"`
}
