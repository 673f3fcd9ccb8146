package auth

import (
	"net/http"
	"strings"
	"time"

	"projecttracker/internal/api"
	"projecttracker/internal/database"
	"projecttracker/internal/model"
	"projecttracker/internal/service"
	"projecttracker/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	hashPassword     = service.HashPassword
	authenticateUser = service.AuthenticateUser
	issueAccessToken = service.IssueAccessToken
	createUser       = store.CreateUser
	getUserByEmail   = store.GetUserByEmail
)

const tokenTTL = 24 * time.Hour

// @Summary     Register a new account
// @Description Creates a user with role admin or employee (default employee)
// @Tags        auth
// @Accept      application/x-www-form-urlencoded
// @Produce     json
// @Param       email     formData string true  "Email (lowercased)"
// @Param       password  formData string true  "Password, at least 6 characters"
// @Param       full_name formData string true  "Display name"
// @Param       role      formData string false "admin or employee"
// @Success     201 {object} api.UserResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /auth/signup [post]
func SignupHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.SignupRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid form data"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}
		if len(req.Password) < service.MinPasswordLength {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "Wachtwoord moet minimaal 6 karakters lang zijn"})
		}

		req.Email = strings.ToLower(req.Email)
		if _, err := getUserByEmail(c.Request().Context(), db, req.Email); err == nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "Dit email adres is al geregistreerd"})
		}

		hash, err := hashPassword(req.Password)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to hash password"})
		}

		role := req.Role
		if role == "" {
			role = model.RoleEmployee
		}
		if !model.ValidRole(role) {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid role"})
		}

		user, err := createUser(c.Request().Context(), db, &model.User{
			Email:        req.Email,
			FullName:     req.FullName,
			PasswordHash: hash,
			Role:         role,
			HourlyRate:   model.DefaultUserRate,
		})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "Account aanmaken mislukt. Probeer het opnieuw."})
		}

		return c.JSON(http.StatusCreated, api.UserResponse{
			ID:         user.ID,
			Email:      user.Email,
			FullName:   user.FullName,
			Role:       user.Role,
			HourlyRate: user.HourlyRate,
			CreatedAt:  user.CreatedAt,
		})
	}
}

// @Summary     Log in
// @Description Verifies email and password, returns a bearer token
// @Tags        auth
// @Accept      application/x-www-form-urlencoded
// @Produce     json
// @Param       email    formData string true "Email"
// @Param       password formData string true "Password"
// @Success     200 {object} api.LoginResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /auth/login [post]
func LoginHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.LoginRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid form data"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		req.Email = strings.ToLower(req.Email)
		user, err := getUserByEmail(c.Request().Context(), db, req.Email)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "Ongeldige inloggegevens"})
		}

		if err := authenticateUser(c.Request().Context(), *user, req.Password); err != nil {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "Ongeldige inloggegevens"})
		}

		token, err := issueAccessToken(*user, tokenTTL)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to issue token"})
		}

		return c.JSON(http.StatusOK, api.LoginResponse{AccessToken: token})
	}
}
