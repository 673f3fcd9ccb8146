package users

import (
	"net/http"

	"projecttracker/internal/api"
	"projecttracker/internal/database"
	"projecttracker/internal/middleware"
	"projecttracker/internal/model"
	"projecttracker/internal/service"
	"projecttracker/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	hashPassword         = service.HashPassword
	authenticateUser     = service.AuthenticateUser
	getUserByID          = store.GetUserByID
	listUsers            = store.ListUsers
	updateUserName       = store.UpdateUserName
	updateUserHourlyRate = store.UpdateUserHourlyRate
	updateUserPassword   = store.UpdateUserPassword
)

func toUserResponse(u *model.User) api.UserResponse {
	return api.UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		FullName:   u.FullName,
		Role:       u.Role,
		HourlyRate: u.HourlyRate,
		CreatedAt:  u.CreatedAt,
	}
}

func claimsFrom(c echo.Context) (*service.CustomClaims, bool) {
	claims, ok := c.Get(middleware.ContextUserKey).(*service.CustomClaims)
	return claims, ok && claims.UserID != 0
}

// @Summary     Get current user info
// @Description Returns the authenticated user's profile
// @Tags        users
// @Produce     json
// @Success     200 {object} api.UserResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/me [get]
func GetMyUserHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := claimsFrom(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}
		user, err := getUserByID(c.Request().Context(), db, claims.UserID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}
		return c.JSON(http.StatusOK, toUserResponse(user))
	}
}

// @Summary     Update current user profile
// @Description Updates the authenticated user's display name
// @Tags        users
// @Accept      application/x-www-form-urlencoded
// @Produce     json
// @Param       full_name formData string true "Display name"
// @Success     204 "No Content"
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/me [put]
func UpdateMyUserHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.UpdateMeRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid form data"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		claims, ok := claimsFrom(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		if err := updateUserName(c.Request().Context(), db, claims.UserID, req.FullName); err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}
		return c.NoContent(http.StatusNoContent)
	}
}

// @Summary     Update own hourly rate
// @Description Updates the authenticated user's personal hourly rate; applies retroactively to displayed values
// @Tags        users
// @Accept      application/x-www-form-urlencoded
// @Produce     json
// @Param       hourly_rate formData number true "Personal hourly rate"
// @Success     204 "No Content"
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/me/rate [patch]
func UpdateMyRateHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.UpdateMyRateRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid form data"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		claims, ok := claimsFrom(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		if err := updateUserHourlyRate(c.Request().Context(), db, claims.UserID, req.HourlyRate); err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "Fout bij het updaten van uurtarief"})
		}
		return c.NoContent(http.StatusNoContent)
	}
}

// @Summary     Update own password
// @Description Verifies the current password and stores the new one
// @Tags        users
// @Accept      application/x-www-form-urlencoded
// @Produce     json
// @Param       old_password formData string true "Current password"
// @Param       new_password formData string true "New password, at least 6 characters"
// @Success     204 "No Content"
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/me/password [patch]
func UpdateMyPasswordHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.UpdateMyPasswordRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid form data"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}
		if len(req.NewPassword) < service.MinPasswordLength {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "Wachtwoord moet minimaal 6 karakters lang zijn"})
		}

		claims, ok := claimsFrom(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		user, err := getUserByID(c.Request().Context(), db, claims.UserID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		if err := authenticateUser(c.Request().Context(), *user, req.OldPassword); err != nil {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid current password"})
		}

		hash, err := hashPassword(req.NewPassword)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to hash new password"})
		}

		if err := updateUserPassword(c.Request().Context(), db, claims.UserID, hash); err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}
		return c.NoContent(http.StatusNoContent)
	}
}

// @Summary     List all users
// @Description Admin-only, read-only user directory
// @Tags        users
// @Produce     json
// @Success     200 {array} api.UserResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users [get]
func ListUsersHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		users, err := listUsers(c.Request().Context(), db)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}
		resp := make([]api.UserResponse, 0, len(users))
		for i := range users {
			resp = append(resp, toUserResponse(&users[i]))
		}
		return c.JSON(http.StatusOK, resp)
	}
}
