package handler

import (
	"net/http"
	"time"

	"projecttracker/internal/api"
	"projecttracker/internal/cache"
	"projecttracker/internal/database"

	"github.com/labstack/echo/v4"
)

// PingResponse is the health check payload.
// swagger:model PingResponse
type PingResponse struct {
	Message string `json:"message" example:"pong"`
}

// @Summary     Health check
// @Description Verifies database and cache connectivity
// @Tags        health
// @Produce     json
// @Success     200 {object} PingResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /ping [get]
func PingHandler(db database.DB, cch cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		if err := db.Ping(ctx); err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "database unhealthy"})
		}
		if err := cch.Set(ctx, "health", "ok", time.Minute).Err(); err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "cache unhealthy"})
		}
		return c.JSON(http.StatusOK, PingResponse{Message: "pong"})
	}
}
